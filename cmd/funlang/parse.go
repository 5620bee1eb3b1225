package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"funlang/internal/ast"
	"funlang/internal/buildpipeline"
	"funlang/internal/diagfmt"
	"funlang/internal/driver"
	"funlang/internal/parser"
	"funlang/internal/source"
)

var parseCmd = &cobra.Command{
	Use:   "parse [flags] <file.fl|directory>",
	Short: "Parse a funlang source file or directory and dump the node array",
	Long: `Parse runs the lexer and the stack-machine parser over a file or over every *.fl
file in a directory and prints the flat post-order node array`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func init() {
	parseCmd.Flags().String("format", "pretty", "output format (pretty|json|tree|msgpack)")
	parseCmd.Flags().String("entry", "file", "start production (file|block|expr)")
	parseCmd.Flags().Int("jobs", 0, "max parallel workers for directory processing (0=auto)")
	parseCmd.Flags().String("ui", "auto", "progress view for directories (auto|on|off)")
	parseCmd.Flags().Bool("no-cache", false, "bypass the parse cache")
}

type parseRequest struct {
	format string
	ui     uiMode
	opts   driver.Options
}

func runParse(cmd *cobra.Command, args []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	defer s.close()

	cleanup, err := setupProfiling(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	req, err := readParseRequest(cmd, s)
	if err != nil {
		return err
	}

	st, err := os.Stat(args[0])
	if err != nil {
		return fmt.Errorf("failed to stat path: %w", err)
	}
	if st.IsDir() {
		return parseDirectory(cmd, s, req, args[0])
	}
	return parseSingle(s, req, args[0])
}

func readParseRequest(cmd *cobra.Command, s *settings) (parseRequest, error) {
	var req parseRequest
	var err error
	if req.format, err = readChoice(cmd.Flags(), "format", "pretty", "json", "tree", "msgpack"); err != nil {
		return req, err
	}
	entryName, err := readChoice(cmd.Flags(), "entry", "file", "block", "expr")
	if err != nil {
		return req, err
	}
	uiValue, err := cmd.Flags().GetString("ui")
	if err != nil {
		return req, fmt.Errorf("failed to get ui flag: %w", err)
	}
	if req.ui, err = readUIMode(uiValue); err != nil {
		return req, err
	}
	if cmd.Flags().Changed("jobs") {
		if s.jobs, err = cmd.Flags().GetInt("jobs"); err != nil {
			return req, fmt.Errorf("failed to get jobs flag: %w", err)
		}
	}
	noCache, err := cmd.Flags().GetBool("no-cache")
	if err != nil {
		return req, fmt.Errorf("failed to get no-cache flag: %w", err)
	}

	req.opts = driver.Options{
		MaxDiagnostics: s.maxDiagnostics,
		Jobs:           s.jobs,
		Entry:          entryFromName(entryName),
		Logger:         s.log,
		Timings:        s.timings,
	}
	if s.cache && !noCache {
		cache, cacheErr := driver.OpenDiskCache("funlang")
		if cacheErr != nil {
			s.log.Warn("parse cache disabled", zap.Error(cacheErr))
		} else {
			req.opts.Cache = cache
		}
	}
	return req, nil
}

func entryFromName(name string) parser.Entry {
	switch name {
	case "block":
		return parser.EntryBlock
	case "expr":
		return parser.EntryExpr
	default:
		return parser.EntryFile
	}
}

func parseSingle(s *settings, req parseRequest, path string) error {
	if req.format == "msgpack" && writesToTerminal(s.stdout) {
		return errors.New("refusing to write msgpack to a terminal; redirect stdout")
	}
	res, err := driver.Parse(path, req.opts)
	if err != nil {
		return fmt.Errorf("parsing failed: %w", err)
	}
	if err := s.printDiagnostics(s.stderr, res.Bag, res.FileSet); err != nil {
		return err
	}
	if res.Err == nil {
		if err := writeNodes(s.stdout, s, req.format, res.Nodes, res.Names, res.FileSet, res.File.ID); err != nil {
			return err
		}
	}
	if !res.OK() {
		return errHadErrors
	}
	return nil
}

func writeNodes(out io.Writer, s *settings, format string, nodes []ast.Node, names *source.StringSet, fs *source.FileSet, file source.FileID) error {
	switch format {
	case "json":
		return diagfmt.FormatNodesJSON(out, nodes, names, fs, file, s.nodeOpts())
	case "tree":
		return diagfmt.FormatNodesTree(out, nodes, names, s.nodeOpts())
	case "msgpack":
		return diagfmt.FormatNodesMsgpack(out, nodes, names)
	default:
		return diagfmt.FormatNodesPretty(out, nodes, names, fs, file, s.nodeOpts())
	}
}

func parseDirectory(cmd *cobra.Command, s *settings, req parseRequest, dir string) error {
	if req.format == "msgpack" {
		return errors.New("msgpack output needs a single file")
	}
	files, err := driver.ListSourceFiles(dir)
	if err != nil {
		return fmt.Errorf("failed to list %s: %w", dir, err)
	}
	req.opts.BaseDir = dir

	var (
		fs      *source.FileSet
		results []driver.ParseDirResult
	)
	if !s.quiet && shouldUseTUI(req.ui, len(files)) {
		display := buildpipeline.NormalizeProgressFiles(files, dir)
		fs, results, err = parseDirWithUI(cmd.Context(), dir, display, req.opts)
	} else {
		fs, results, err = driver.ParseDir(cmd.Context(), dir, req.opts)
	}
	if err != nil {
		return fmt.Errorf("parsing failed: %w", err)
	}

	failed := false
	for _, r := range results {
		// у файла, который не загрузился, нет FileID в fs
		rfs := fs
		if r.Nodes == nil && r.Err != nil && !errors.As(r.Err, new(*parser.Error)) {
			rfs = nil
		}
		if err := s.printDiagnostics(s.stderr, r.Bag, rfs); err != nil {
			return err
		}
		if r.Err != nil || r.Bag.HasErrors() {
			failed = true
		}
	}

	if req.format == "json" {
		if err := writeDirJSON(s.stdout, s, fs, results); err != nil {
			return err
		}
	} else {
		for idx, r := range results {
			if r.Err != nil {
				continue
			}
			if !s.quiet {
				fmt.Fprintf(s.stdout, "== %s ==\n", diagfmt.FormatPath(r.Path, diagfmt.PathModeAuto, s.baseDir))
			}
			if err := writeNodes(s.stdout, s, req.format, r.Nodes, r.Names, fs, r.FileID); err != nil {
				return err
			}
			if !s.quiet && idx < len(results)-1 {
				fmt.Fprintln(s.stdout)
			}
		}
	}

	if s.timings {
		printStageTimings(s.stderr, driver.SumTimings(results), len(results))
	}
	if failed {
		return errHadErrors
	}
	return nil
}

func writeDirJSON(out io.Writer, s *settings, fs *source.FileSet, results []driver.ParseDirResult) error {
	output := make([]diagfmt.NodesOutput, 0, len(results))
	for _, r := range results {
		if r.Err != nil {
			output = append(output, diagfmt.NodesOutput{
				File:  diagfmt.FormatPath(r.Path, diagfmt.PathModeAuto, s.baseDir),
				Nodes: []diagfmt.NodeOutput{},
			})
			continue
		}
		output = append(output, diagfmt.BuildNodesOutput(r.Nodes, r.Names, fs, r.FileID, s.nodeOpts()))
	}
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}
