package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Dump an image non-interactively",
	Long: `Decode an image in non-interactive mode and exit.
The output format is text (the classic dump), json or markdown.`,
	Example: `
# Print the classic dump
mrbdump run app.mrb

# Markdown report with resolved symbols
mrbdump run --format markdown --resolve app.mrb
  `,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		quiet, _ := cmd.Flags().GetBool("quiet")
		format, _ := cmd.Flags().GetString("format")

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		plainOutput(cfg)

		absPath, err := resolveFile(args[0])
		if err != nil {
			return err
		}

		if !quiet {
			slog.Info("Decoding image", "file", absPath, "format", format)
		}

		out := cmd.OutOrStdout()
		switch format {
		case "text", "":
			return runText(out, cfg, absPath)
		case "json":
			return runJSON(out, cfg, absPath)
		case "markdown", "md":
			return runMarkdown(out, cfg, absPath)
		default:
			return fmt.Errorf("unknown format %q (want text, json or markdown)", format)
		}
	},
}

func init() {
	runCmd.Flags().BoolP("quiet", "q", false, "Hide progress logging")
	runCmd.Flags().StringP("format", "F", "text", "Output format: text, json or markdown")
}
