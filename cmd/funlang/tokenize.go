package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"funlang/internal/diagfmt"
	"funlang/internal/driver"
)

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize [flags] file.fl",
	Short: "Tokenize a funlang source file",
	Long:  `Tokenize prints the compact token stream of a funlang source file with positions, payloads and bracket pairing`,
	Args:  cobra.ExactArgs(1),
	RunE:  runTokenize,
}

func init() {
	tokenizeCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

func runTokenize(cmd *cobra.Command, args []string) error {
	format, err := readChoice(cmd.Flags(), "format", "pretty", "json")
	if err != nil {
		return err
	}
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

	result, err := driver.Tokenize(args[0], driver.Options{
		MaxDiagnostics: s.maxDiagnostics,
		Logger:         s.log,
		Timings:        s.timings,
	})
	if err != nil {
		return fmt.Errorf("tokenization failed: %w", err)
	}

	if err := s.printDiagnostics(s.stderr, result.Bag, result.FileSet); err != nil {
		return err
	}

	switch format {
	case "json":
		err = diagfmt.FormatTokensJSON(s.stdout, result.Lex, result.FileSet, result.File.ID)
	default:
		err = diagfmt.FormatTokensPretty(s.stdout, result.Lex, result.FileSet, result.File.ID, s.nodeOpts())
	}
	if err != nil {
		return err
	}
	if result.Bag.HasErrors() {
		return errHadErrors
	}
	return nil
}
