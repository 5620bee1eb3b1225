package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"funlang/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show funlang build metadata",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := readChoice(cmd.Flags(), "format", "pretty", "json")
		if err != nil {
			return err
		}
		colorMode, err := readChoice(cmd.Root().PersistentFlags(), "color", "auto", "on", "off")
		if err != nil {
			return err
		}
		info := version.Get()
		if format == "json" {
			return renderVersionJSON(cmd.OutOrStdout(), info)
		}
		_, err = fmt.Fprint(cmd.OutOrStdout(), info.Banner(colorEnabledFor(colorMode, cmd.OutOrStdout())))
		return err
	},
}

func init() {
	versionCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

func renderVersionJSON(out io.Writer, info version.Info) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(info)
}
