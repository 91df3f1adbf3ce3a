package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"mrbdump/internal/config"
	"mrbdump/internal/loader"
	"mrbdump/internal/logging"
	"mrbdump/internal/render"
	"mrbdump/internal/rite"
	"mrbdump/internal/ui/colorize"
)

// addDecodeFlags registers the flags that loadConfig reads.
func addDecodeFlags(fs *pflag.FlagSet) {
	fs.StringP("cwd", "c", "", "Current working directory")
	fs.String("config", "", "Configuration file (default: nearest mrbdump.toml)")
	fs.BoolP("debug", "d", false, "Debug")
	fs.Bool("strict", false, "Fail on unknown sections and unsupported line encodings")
	fs.Int("max-depth", 0, "Maximum IREP nesting depth (0 uses the default)")
	fs.Bool("resolve", false, "Annotate instructions with symbol names and literals")
	fs.Bool("no-color", false, "Disable syntax colouring")
	fs.Bool("fail-on-warning", false, "Exit with an error when decoding recorded warnings")
	fs.String("key", "", "XXTEA key for encrypted images")
	fs.String("signature", "", "Plain prefix marking XXTEA encrypted images")
}

// loadConfig reads the configuration file and applies flags on top.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		cfg, err = config.Load(path)
	} else {
		cwd, cwdErr := ResolveCwd(cmd)
		if cwdErr != nil {
			return nil, cwdErr
		}
		cfg, err = config.FindAndLoad(cwd)
	}
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("debug") {
		cfg.Debug, _ = flags.GetBool("debug")
	}
	if flags.Changed("strict") {
		cfg.Strict, _ = flags.GetBool("strict")
	}
	if flags.Changed("max-depth") {
		cfg.MaxDepth, _ = flags.GetInt("max-depth")
	}
	if flags.Changed("resolve") {
		cfg.Resolve, _ = flags.GetBool("resolve")
	}
	if flags.Changed("no-color") {
		cfg.NoColor, _ = flags.GetBool("no-color")
	}
	if flags.Changed("fail-on-warning") {
		cfg.FailOnWarning, _ = flags.GetBool("fail-on-warning")
	}
	if flags.Changed("key") {
		cfg.Key, _ = flags.GetString("key")
	}
	if flags.Changed("signature") {
		cfg.Signature, _ = flags.GetString("signature")
	}
	if cfg.MaxDepth < 0 {
		return nil, fmt.Errorf("max-depth must not be negative, got %d", cfg.MaxDepth)
	}

	if cfg.Path != "" {
		slog.Debug("Loaded configuration", "path", cfg.Path)
	}
	return cfg, nil
}

// decodeLogOutput overrides the decoder log destination when set.
var decodeLogOutput io.Writer

// newLogger returns the decoder logger. Quiet callers (the TUI) discard
// diagnostics unless they are redirected to a file.
func newLogger(cfg *config.Config, quiet bool) *logging.LoggerCloser {
	var lc *logging.LoggerCloser
	switch {
	case decodeLogOutput != nil:
		lc = logging.NewLoggerWithWriter(decodeLogOutput)
	case quiet && os.Getenv(logging.EnvToFile) != "1":
		lc = logging.NewLoggerWithWriter(io.Discard)
	default:
		lc = logging.NewLogger()
	}
	if cfg.Debug {
		lc.SetLevel(charmlog.DebugLevel)
	}
	return lc
}

// decodeFile loads path and parses the image, feeding sink as it goes.
func decodeFile(cfg *config.Config, path string, sink rite.Sink, quiet bool) (*loader.Image, *rite.Dump, error) {
	img, err := loader.Load(path, loader.Options{Key: cfg.Key, Signature: cfg.Signature})
	if err != nil {
		return nil, nil, err
	}

	lc := newLogger(cfg, quiet)
	defer lc.Close()

	dump, err := rite.Parse(img.Data, rite.Options{
		MaxDepth: cfg.MaxDepth,
		Strict:   cfg.Strict,
		Logger:   lc.Logger,
		Sink:     sink,
	})
	if err != nil {
		return img, nil, fmt.Errorf("%s: %w", path, err)
	}

	if werr := dump.Err(); werr != nil {
		lc.Warn("decoded with warnings", "file", path, "err", werr)
		if cfg.FailOnWarning {
			return img, dump, fmt.Errorf("%s: %w", path, werr)
		}
	}

	slog.Debug("Decoded image",
		"file", path,
		"blocks", len(dump.Blocks()),
		"sections", len(dump.Sections),
		"warnings", len(dump.Warnings))
	return img, dump, nil
}

// runText streams the classic dump to w.
func runText(w io.Writer, cfg *config.Config, path string) error {
	t := render.NewText(w)
	if !cfg.NoColor && colorize.Enabled() {
		t.Highlight = colorize.Line
	}
	_, _, err := decodeFile(cfg, path, t.Sink(), false)
	if err != nil {
		return err
	}
	return t.Err()
}

// runJSON writes the decoded tree as one JSON document.
func runJSON(w io.Writer, cfg *config.Config, path string) error {
	img, dump, err := decodeFile(cfg, path, nil, false)
	if err != nil {
		return err
	}
	return render.WriteJSON(w, render.NewDocument(img, dump, cfg.Resolve))
}

// runMarkdown writes the markdown report.
func runMarkdown(w io.Writer, cfg *config.Config, path string) error {
	img, dump, err := decodeFile(cfg, path, nil, false)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, render.Markdown(img, dump, cfg.Resolve))
	return err
}
