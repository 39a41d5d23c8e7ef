package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/reoring/belso"
	"github.com/reoring/belso/internal/config"
	"github.com/reoring/belso/translator"
)

// app holds the settings shared by every subcommand, resolved from
// belso.toml and the persistent flags.
type app struct {
	configPath string
	logLevel   string
	logFormat  string
	colorMode  string

	cfg config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "belso",
		Short:         "Translate schemas between LLM structured-output dialects",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "path to belso.toml (default: discovered from the working directory)")
	pf.StringVar(&a.logLevel, "log-level", "", "log level (debug|info|warn|error)")
	pf.StringVar(&a.logFormat, "log-format", "", "log format (text|json)")
	pf.StringVar(&a.colorMode, "color", "", "colorize output (auto|on|off)")

	root.AddCommand(
		newDetectCmd(a),
		newTranslateCmd(a),
		newStandardizeCmd(a),
		newShowCmd(a),
		newValidateCmd(a),
		newConvertCmd(a),
		newDialectsCmd(),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	if a.logFormat != "" {
		cfg.Log.Format = a.logFormat
	}
	if a.colorMode != "" {
		cfg.Display.Color = a.colorMode
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg

	lvl, _ := cfg.Log.SlogLevel()
	belso.SetLogger(newLogger(cmd.ErrOrStderr(), cfg.Log.Format, lvl))
	if cfg.Path != "" {
		belso.Logger().Debug("config loaded", "path", cfg.Path)
	}
	return nil
}

func newLogger(w io.Writer, format string, lvl slog.Level) *slog.Logger {
	opts := &slog.HandlerOptions{Level: lvl}
	if strings.EqualFold(format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// useColor resolves the colour mode. auto respects NO_COLOR, CLICOLOR_FORCE,
// CLICOLOR and TTY detection.
func (a *app) useColor(w io.Writer) bool {
	switch strings.ToLower(a.cfg.Display.Color) {
	case "on":
		return true
	case "off":
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if strings.TrimSpace(os.Getenv("CLICOLOR_FORCE")) == "1" {
		return true
	}
	if strings.TrimSpace(os.Getenv("CLICOLOR")) == "0" {
		return false
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func (a *app) indent() string {
	if a.cfg.Output.Indent != nil {
		return *a.cfg.Output.Indent
	}
	return "  "
}

// translateOptions builds the facade options from flags, falling back to the
// [translate] section.
func (a *app) translateOptions(from, prefix string) ([]translator.Option, error) {
	if from == "" {
		from = a.cfg.Translate.From
	}
	opts := []translator.Option{
		translator.WithRootPrefix(a.rootPrefix(prefix)),
		translator.WithIndent(a.indent()),
	}
	if from != "" {
		d, err := translator.ParseDialect(from)
		if err != nil {
			return nil, err
		}
		opts = append(opts, translator.From(d))
	}
	return opts, nil
}

func (a *app) rootPrefix(prefix string) string {
	if prefix == "" {
		return a.cfg.Translate.RootPrefix
	}
	return prefix
}

// source resolves the source dialect of in the way the translator does.
func (a *app) source(from string, in any) (translator.Dialect, error) {
	if from == "" {
		from = a.cfg.Translate.From
	}
	if from == "" {
		return translator.Detect(in), nil
	}
	return translator.ParseDialect(from)
}

func (a *app) target(to string) (translator.Dialect, error) {
	if to == "" {
		to = a.cfg.Translate.To
	}
	if to == "" {
		return translator.Unknown, fmt.Errorf("no target dialect: pass --to or set translate.to in %s", config.FileName)
	}
	return translator.ParseDialect(to)
}

// report turns a fallback into an error. Warnings were already logged by the
// translators.
func report[T any](name string, res belso.Result[T]) error {
	if res.IsFallback() {
		return fmt.Errorf("%s: translation fell back: %w", name, res.Cause)
	}
	return nil
}
