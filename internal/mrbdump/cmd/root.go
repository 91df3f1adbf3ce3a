package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	pathpkg "path/filepath"
	"runtime/pprof"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"mrbdump/internal/config"
	"mrbdump/internal/mrbdump/log"
	"mrbdump/internal/ui/colorize"
)

func init() {
	addDecodeFlags(rootCmd.PersistentFlags())
	rootCmd.PersistentFlags().String("log-file", "", "Write command logs to file")

	rootCmd.Flags().BoolP("help", "h", false, "Help")
	rootCmd.Flags().BoolP("no-tui", "n", false, "Print the dump without TUI")
	rootCmd.Flags().BoolP("json", "j", false, "Output the dump as JSON")
	rootCmd.Flags().String("cpuprofile", "", "Write CPU profile to file")
	rootCmd.Flags().String("memprofile", "", "Write memory profile to file")

	rootCmd.AddCommand(runCmd)
}

var rootCmd = &cobra.Command{
	Use:   "mrbdump [file]",
	Short: "Terminal-based mruby bytecode inspector",
	Long: `mrbdump decodes compiled mruby (RITE) images.
It lists the header, every section, the IREP tree with disassembled
instructions, literal pools and symbols, plus line and debug information.
Encrypted and compressed images are unwrapped first.`,
	Example: `
# Explore an image interactively
mrbdump app.mrb

# Print the classic dump
mrbdump -n app.mrb

# Decrypt on the fly
mrbdump --key KEY --signature SIG app.mrb
  `,
	Args: cobra.ExactArgs(1),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		debug, _ := cmd.Flags().GetBool("debug")
		logFile, _ := cmd.Flags().GetString("log-file")
		if debug || logFile != "" {
			log.Setup(logFile, debug)
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		cpuprofile, _ := cmd.Flags().GetString("cpuprofile")
		if cpuprofile != "" {
			f, err := os.Create(cpuprofile)
			if err != nil {
				return fmt.Errorf("could not create CPU profile: %w", err)
			}
			defer f.Close()
			if err := pprof.StartCPUProfile(f); err != nil {
				return fmt.Errorf("could not start CPU profile: %w", err)
			}
			defer pprof.StopCPUProfile()
		}

		memprofile, _ := cmd.Flags().GetString("memprofile")
		if memprofile != "" {
			defer func() {
				f, err := os.Create(memprofile)
				if err != nil {
					fmt.Fprintf(os.Stderr, "could not create memory profile: %v\n", err)
					return
				}
				defer f.Close()
				if err := pprof.WriteHeapProfile(f); err != nil {
					fmt.Fprintf(os.Stderr, "could not write memory profile: %v\n", err)
				}
			}()
		}

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		absPath, err := resolveFile(args[0])
		if err != nil {
			return err
		}

		noTUI, _ := cmd.Flags().GetBool("no-tui")
		jsonOutput, _ := cmd.Flags().GetBool("json")

		if plainOutput(cfg) {
			noTUI = true
		}

		out := cmd.OutOrStdout()
		if jsonOutput {
			return runJSON(out, cfg, absPath)
		}
		if noTUI {
			return runText(out, cfg, absPath)
		}

		program := tea.NewProgram(
			NewModel(cfg, absPath),
			tea.WithAltScreen(),
			tea.WithContext(cmd.Context()),
		)
		if _, err := program.Run(); err != nil {
			slog.Error("TUI run error", "error", err)
			return fmt.Errorf("TUI error: %w", err)
		}
		return nil
	},
}

// plainOutput reports whether stdout is piped. Colouring is switched off
// when it is or when the configuration asks for it.
func plainOutput(cfg *config.Config) bool {
	piped := !term.IsTerminal(os.Stdout.Fd())
	if piped || cfg.NoColor {
		os.Setenv(colorize.EnvNoColor, "1")
	}
	return piped
}

// resolveFile returns the absolute path of an existing file.
func resolveFile(file string) (string, error) {
	absPath, err := pathpkg.Abs(file)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path: %w", err)
	}
	if _, err := os.Stat(absPath); err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("file not found: %s", file)
		}
		return "", fmt.Errorf("cannot access file: %w", err)
	}
	return absPath, nil
}

func Execute() {
	// Bypass fang's markdown rendering for plain output.
	noTUI := false
	for _, arg := range os.Args[1:] {
		if arg == "--no-tui" || arg == "-n" || arg == "--json" || arg == "-j" {
			noTUI = true
			break
		}
	}
	if !noTUI && !term.IsTerminal(os.Stdout.Fd()) {
		noTUI = true
	}

	if noTUI {
		if err := rootCmd.Execute(); err != nil {
			os.Exit(1)
		}
	} else {
		if err := fang.Execute(
			context.Background(),
			rootCmd,
			fang.WithNotifySignal(os.Interrupt),
		); err != nil {
			os.Exit(1)
		}
	}
}

func ResolveCwd(cmd *cobra.Command) (string, error) {
	cwd, _ := cmd.Flags().GetString("cwd")
	if cwd != "" {
		err := os.Chdir(cwd)
		if err != nil {
			return "", fmt.Errorf("failed to change directory: %w", err)
		}
		return cwd, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current working directory: %w", err)
	}
	return cwd, nil
}
