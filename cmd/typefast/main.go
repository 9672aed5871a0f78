// Package main provides the CLI entrypoint for typefast.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/verte-zerg/typefast/internal/config"
	"github.com/verte-zerg/typefast/internal/keylog"
	"github.com/verte-zerg/typefast/internal/model"
	"github.com/verte-zerg/typefast/internal/observability"
	"github.com/verte-zerg/typefast/internal/session"
	"github.com/verte-zerg/typefast/internal/stats"
	"github.com/verte-zerg/typefast/internal/store"
	"github.com/verte-zerg/typefast/internal/textsource"
	"github.com/verte-zerg/typefast/internal/tui"
	"github.com/verte-zerg/typefast/internal/wordlist"
)

const (
	defaultMode    = "words"
	defaultVariant = "plain"
	defaultTime    = 30
	defaultWords   = 25
)

type practiceFlags struct {
	mode     string
	variant  string
	time     int
	words    int
	wordList string
	record   string
}

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	flags := &practiceFlags{}
	rootCmd := &cobra.Command{
		Use:           "typefast",
		Short:         "Terminal typing speed trainer",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPractice(cmd, flags)
		},
	}

	rootCmd.Flags().StringVar(&flags.mode, "mode", defaultMode, "session mode: "+strings.Join(model.ModeNames(), ", "))
	rootCmd.Flags().StringVar(&flags.variant, "variant", defaultVariant, "text variant: "+strings.Join(model.VariantNames(), ", "))
	rootCmd.Flags().IntVar(&flags.time, "time", defaultTime, "time limit in seconds (time mode)")
	rootCmd.Flags().IntVar(&flags.words, "words", defaultWords, "word count (words mode)")
	rootCmd.Flags().StringVar(&flags.wordList, "wordlist", "", "word list file replacing the built-in words")
	rootCmd.Flags().StringVar(&flags.record, "record", "", "record keystrokes to this file for replay")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newReplayCmd())
	rootCmd.AddCommand(newResetSettingsCmd())

	return rootCmd
}

func runPractice(cmd *cobra.Command, flags *practiceFlags) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger := newLogger(fileCfg.Log, nil)
	defer func() { _ = logger.Sync() }()

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	stored, ok, err := st.LoadSettings(context.Background())
	if err != nil {
		logger.Warn("ignoring stored settings", zap.Error(err))
		ok = false
	}
	var last *model.Config
	if ok {
		last = &stored
	}
	cfg, err := resolveConfig(cmd, flags, fileCfg.Practice, last)
	if err != nil {
		return err
	}
	if err := saveFlagSettings(context.Background(), cmd, st, cfg); err != nil {
		logger.Warn("failed to save settings", zap.Error(err))
	}

	src, err := newSource(flags.wordList)
	if err != nil {
		return err
	}

	opts := tui.Options{Config: cfg, Source: src, Settings: st, Logger: logger}
	if flags.record != "" {
		file, err := os.Create(flags.record)
		if err != nil {
			return fmt.Errorf("failed to create recording: %w", err)
		}
		defer func() {
			if cerr := file.Close(); cerr != nil {
				logErrf("failed to close recording: %v\n", cerr)
			}
		}()
		opts.Recorder = keylog.NewRecorder(file, nil)
	}

	m, err := tui.NewModel(opts)
	if err != nil {
		return err
	}
	logger.Info("practice started",
		zap.Stringer("mode", cfg.Mode),
		zap.Stringer("variant", cfg.Variant),
		zap.Int("time", cfg.TimeLimit),
		zap.Int("words", cfg.Words))
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	if opts.Recorder != nil && opts.Recorder.Err() != nil {
		return fmt.Errorf("recording incomplete: %w", opts.Recorder.Err())
	}
	return nil
}

// resolveConfig layers defaults, the config file, the last stored settings and explicitly set
// flags, later layers winning.
func resolveConfig(cmd *cobra.Command, flags *practiceFlags, file config.PracticeConfig, last *model.Config) (model.Config, error) {
	applyStringConfig(cmd, "mode", &flags.mode, file.Mode)
	applyStringConfig(cmd, "variant", &flags.variant, file.Variant)
	applyIntConfig(cmd, "time", &flags.time, file.Time)
	applyIntConfig(cmd, "words", &flags.words, file.Words)
	applyStringConfig(cmd, "wordlist", &flags.wordList, file.WordList)

	if last != nil {
		mode, variant := last.Mode.String(), last.Variant.String()
		applyStringConfig(cmd, "mode", &flags.mode, &mode)
		applyStringConfig(cmd, "variant", &flags.variant, &variant)
		applyIntConfig(cmd, "time", &flags.time, &last.TimeLimit)
		applyIntConfig(cmd, "words", &flags.words, &last.Words)
	}

	mode, err := model.ParseMode(flags.mode)
	if err != nil {
		return model.Config{}, fmt.Errorf("--mode: %w", err)
	}
	variant, err := model.ParseVariant(flags.variant)
	if err != nil {
		return model.Config{}, fmt.Errorf("--variant: %w", err)
	}
	if flags.time <= 0 {
		return model.Config{}, fmt.Errorf("--time must be > 0")
	}
	if flags.words <= 0 {
		return model.Config{}, fmt.Errorf("--words must be > 0")
	}
	return model.Config{Mode: mode, TimeLimit: flags.time, Words: flags.words, Variant: variant}, nil
}

// saveFlagSettings stores cfg when any practice flag was set explicitly, so the next run
// without flags starts from the same config.
func saveFlagSettings(ctx context.Context, cmd *cobra.Command, saver tui.SettingsSaver, cfg model.Config) error {
	for _, name := range []string{"mode", "variant", "time", "words"} {
		if cmd.Flags().Changed(name) {
			return saver.SaveSettings(ctx, cfg)
		}
	}
	return nil
}

func newSource(wordListPath string) (session.TextSource, error) {
	src := textsource.New()
	if wordListPath == "" {
		return src, nil
	}
	words, err := wordlist.LoadWords(wordListPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load word list: %w", err)
	}
	return src.WithWords(words), nil
}

func newLogger(cfg config.LogConfig, console zapcore.WriteSyncer) *zap.Logger {
	obs := observability.Config{Console: console}
	if cfg.Level != nil {
		obs.Level = *cfg.Level
	}
	if cfg.File != nil {
		obs.File = *cfg.File
	}
	if cfg.MaxSizeMB != nil {
		obs.MaxSizeMB = *cfg.MaxSizeMB
	}
	if cfg.MaxBackups != nil {
		obs.MaxBackups = *cfg.MaxBackups
	}
	return observability.New(obs)
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := ensureConfigFile(path); err != nil {
		return err
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func ensureConfigFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(config.Template), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}
	return nil
}

func newReplayCmd() *cobra.Command {
	var (
		forceColor bool
		verbose    bool
	)
	cmd := &cobra.Command{
		Use:   "replay FILE",
		Short: "Replay a keystroke recording and print the results",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var console zapcore.WriteSyncer
			if verbose {
				console = zapcore.Lock(os.Stderr)
			}
			logger := newLogger(config.LogConfig{Level: ptr("debug")}, console)
			defer func() { _ = logger.Sync() }()
			return runReplay(cmd.OutOrStdout(), args[0], forceColor, logger)
		},
	}
	cmd.Flags().BoolVar(&forceColor, "color", false, "force coloured charts")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log session events to stderr")
	return cmd
}

func runReplay(w io.Writer, path string, forceColor bool, logger *zap.Logger) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open recording: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only recording.
			_ = cerr
		}
	}()
	events, err := keylog.Read(file)
	if err != nil {
		return fmt.Errorf("failed to read recording: %w", err)
	}
	outcomes, err := keylog.Replay(events, logger)
	if err != nil {
		return fmt.Errorf("failed to replay: %w", err)
	}
	if len(outcomes) == 0 {
		_, err := fmt.Fprintln(w, "no completed sessions in recording")
		return err
	}

	width, color := 80, forceColor && os.Getenv("NO_COLOR") == ""
	if out, ok := w.(*os.File); ok {
		width = stats.TerminalWidth(out)
		color = stats.ColorEnabled(out, forceColor)
	}
	for i, outcome := range outcomes {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if err := stats.RenderResult(w, outcome.Result, outcome.Samples, width, color); err != nil {
			return err
		}
	}
	return nil
}

func newResetSettingsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset-settings",
		Short: "Forget the last used practice settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := store.Open(config.DefaultDBPath())
			if err != nil {
				return fmt.Errorf("failed to open db: %w", err)
			}
			defer func() {
				if cerr := st.Close(); cerr != nil {
					logErrf("failed to close db: %v\n", cerr)
				}
			}()
			if err := st.ClearSettings(context.Background()); err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), "settings cleared")
			return err
		},
	}
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func ptr[T any](v T) *T {
	return &v
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
