package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"funlang/internal/version"
)

// errHadErrors ends a command whose diagnostics were already printed.
var errHadErrors = errors.New("errors reported")

var rootCmd = &cobra.Command{
	Use:           "funlang",
	Short:         "funlang front end: tokenizer and parser",
	Long:          `funlang lexes and parses funlang sources and dumps tokens, flat node arrays and diagnostics`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Устанавливаем версию для автоматического флага --version
	rootCmd.Version = version.Version

	rootCmd.AddCommand(tokenizeCmd)
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(versionCmd)

	addPersistentFlags(rootCmd.PersistentFlags())
}

// Глобальные флаги
func addPersistentFlags(flags *pflag.FlagSet) {
	flags.String("color", "auto", "colorize output (auto|on|off)")
	flags.Bool("quiet", false, "suppress non-essential output")
	flags.Bool("timings", false, "show timing information")
	flags.Int("max-diagnostics", 100, "maximum number of diagnostics to keep per file (0 = unlimited)")
	flags.String("diag-format", "pretty", "diagnostics format on stderr (pretty|json|short)")
	flags.String("log-level", "", "log level (debug|info|warn|error); empty disables logging")
	flags.String("log-file", "", "write JSON logs to this file instead of stderr")
	flags.String("config", "", "path to funlang.toml (default: search upward from the working directory)")
	flags.String("cpu-profile", "", "write a pprof CPU profile to this file")
	flags.String("mem-profile", "", "write a heap profile to this file on exit")
	flags.String("runtime-trace", "", "write a runtime trace to this file")
}

// main runs the root command. Diagnostics with errors, like any other
// failure, exit with status 1.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		if !errors.Is(err, errHadErrors) {
			fmt.Fprintf(os.Stderr, "funlang: %v\n", err)
		}
		os.Exit(1)
	}
}

func writesToTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && isTerminal(f)
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd())) // #nosec G115 -- file descriptors fit in int
}
