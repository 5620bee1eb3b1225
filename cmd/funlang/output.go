package main

import (
	"fmt"
	"io"
	"time"

	"funlang/internal/buildpipeline"
	"funlang/internal/diag"
	"funlang/internal/diagfmt"
	"funlang/internal/source"
)

// printDiagnostics writes bag to out in the configured format. Empty bags
// print nothing in pretty and short modes.
func (s *settings) printDiagnostics(out io.Writer, bag *diag.Bag, fs *source.FileSet) error {
	if bag == nil {
		return nil
	}
	bag.Sort()
	bag.Dedup()
	switch s.diagFormat {
	case "json":
		return diagfmt.JSON(out, bag, fs, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         diagfmt.PathModeAuto,
			BaseDir:          s.baseDir,
			IncludeNotes:     true,
		})
	case "short":
		if short := diag.FormatShort(bag.Items(), fs, !s.quiet); short != "" {
			_, err := fmt.Fprintln(out, short)
			return err
		}
		return nil
	}
	if bag.Len() == 0 && bag.Dropped() == 0 {
		return nil
	}
	diagfmt.Pretty(out, bag, fs, diagfmt.PrettyOpts{
		Color:     s.colorErr,
		Context:   2,
		PathMode:  diagfmt.PathModeAuto,
		BaseDir:   s.baseDir,
		ShowNotes: !s.quiet,
	})
	return nil
}

func (s *settings) nodeOpts() diagfmt.NodeOpts {
	return diagfmt.NodeOpts{Color: s.colorOut, PathMode: diagfmt.PathModeAuto, BaseDir: s.baseDir}
}

func printStageTimings(out io.Writer, timings buildpipeline.Timings, files int) {
	if out == nil {
		return
	}
	for _, stage := range []buildpipeline.Stage{
		buildpipeline.StageLoad,
		buildpipeline.StageCache,
		buildpipeline.StageLex,
		buildpipeline.StageParse,
	} {
		if timings.Has(stage) {
			fmt.Fprintf(out, "%-6s %9.3f ms\n", stage, toMillis(timings.Duration(stage)))
		}
	}
	total := timings.Sum(buildpipeline.StageLoad, buildpipeline.StageCache, buildpipeline.StageLex, buildpipeline.StageParse)
	fmt.Fprintf(out, "total  %9.3f ms over %d files\n", toMillis(total), files)
}

func toMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
