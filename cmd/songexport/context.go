package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/CEuchner/churchtools-song-export/internal/assemble"
	"github.com/CEuchner/churchtools-song-export/internal/churchtools"
	"github.com/CEuchner/churchtools-song-export/internal/config"
	"github.com/CEuchner/churchtools-song-export/internal/export"
	"github.com/CEuchner/churchtools-song-export/internal/library"
	"github.com/CEuchner/churchtools-song-export/internal/logging"
	"github.com/CEuchner/churchtools-song-export/internal/render"
	"github.com/CEuchner/churchtools-song-export/internal/selection"
	"github.com/CEuchner/churchtools-song-export/internal/settings"
)

// flagKeys maps command line flags onto configuration keys.
var flagKeys = map[string]string{
	"source":     "source.kind",
	"path":       "source.path",
	"url":        "churchtools.url",
	"settings":   "settings_path",
	"log-level":  "log.level",
	"log-format": "log.format",
	"format":     "output.format",
	"output":     "output.path",
	"title":      "output.title",
}

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	logger     *slog.Logger
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig(cmd *cobra.Command) (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}

		v := config.New(path)
		for name, key := range flagKeys {
			if f := cmd.Flags().Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					c.configErr = err
					return
				}
			}
		}
		if err := config.Read(v, path != ""); err != nil {
			c.configErr = err
			return
		}

		cfg, err := config.Load(v)
		if err != nil {
			c.configErr = err
			return
		}
		logger, err := logging.New(logging.Options{Level: cfg.Log.Level, Format: cfg.Log.Format})
		if err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.logger = logger
		if used := v.ConfigFileUsed(); used != "" {
			logger.Debug("config loaded", "file", used)
		}
	})
	return c.config, c.configErr
}

// openSource returns the configured song source. The returned close function
// is never nil.
func (c *commandContext) openSource(ctx context.Context) (library.Source, func() error, error) {
	cfg := c.config
	noop := func() error { return nil }

	switch cfg.Source.Kind {
	case config.SourceChurchTools:
		client, err := churchtools.NewClient(cfg.ChurchTools.URL, cfg.ChurchTools.Token,
			churchtools.WithPageSize(cfg.ChurchTools.PageSize),
			churchtools.WithLogger(c.logger),
		)
		if err != nil {
			return nil, noop, err
		}
		return client, noop, nil

	case config.SourceJSON:
		return library.JSONFile{Path: cfg.Source.Path}, noop, nil

	case config.SourceSQLite:
		db, err := library.OpenSQLite(ctx, cfg.Source.Path)
		if err != nil {
			return nil, noop, err
		}
		return db, db.Close, nil

	case config.SourceMP3:
		return &library.MP3Dir{Root: cfg.Source.Path, Workers: cfg.Scan.Workers, Logger: c.logger}, noop, nil
	}
	return nil, noop, fmt.Errorf("%w: %q", library.ErrUnknownSource, cfg.Source.Kind)
}

// newExporter builds the export pipeline for format.
func (c *commandContext) newExporter(src library.Source, format string) (*export.Exporter, error) {
	renderer, err := render.New(format)
	if err != nil {
		return nil, err
	}
	lang, err := c.config.Language()
	if err != nil {
		return nil, err
	}
	return &export.Exporter{
		Source:    src,
		Renderer:  renderer,
		Assembler: assemble.New(assemble.WithLanguage(lang)),
		Logger:    c.logger,
		Title:     c.config.Output.Title,
		Footer:    c.config.Output.Footer,
	}, nil
}

// loadState builds the session state for the library and applies the saved
// settings document on top of it.
func (c *commandContext) loadState(ctx context.Context, exp *export.Exporter) (*selection.State, error) {
	lib, err := exp.Library(ctx)
	if err != nil {
		return nil, err
	}
	return c.sessionState(lib)
}

// sessionState returns the default state for lib with the saved settings
// document applied.
func (c *commandContext) sessionState(lib *library.Library) (*selection.State, error) {
	state := selection.NewState(lib.Tags, lib.Categories)

	loaded, err := settings.Load(c.config.SettingsPath, state)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	if loaded {
		c.logger.Info("settings applied", "path", c.config.SettingsPath)
	} else {
		c.logger.Debug("no settings document, using defaults", "path", c.config.SettingsPath)
	}
	return state, nil
}

// outputTarget resolves the output file and format. An empty path means
// stdout. A path naming a directory receives a file named after the title.
func (c *commandContext) outputTarget(stdout io.Writer) (path, format string) {
	path = c.config.Output.Path
	format = c.config.Output.Format

	if format == config.FormatAuto {
		format = autoFormat(path, stdout)
	}
	return intoDir(path, c.config.Output.Title, format), format
}

// intoDir appends the default file name when path names a directory.
func intoDir(path, title, format string) string {
	if path == "" {
		return ""
	}
	if info, err := os.Stat(path); (err == nil && info.IsDir()) || strings.HasSuffix(path, string(os.PathSeparator)) {
		return filepath.Join(path, export.DefaultFileName(title, format))
	}
	return path
}

// autoFormat picks a format from the output file extension, or terminal
// when writing to an interactive terminal.
func autoFormat(path string, stdout io.Writer) string {
	if path != "" {
		ext := strings.ToLower(filepath.Ext(path))
		for _, format := range render.Formats() {
			if format != render.FormatTerminal && render.Extension(format) == ext {
				return format
			}
		}
		return render.FormatText
	}
	if isTerminal(stdout) {
		return render.FormatTerminal
	}
	return render.FormatText
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// writeOutput runs fn against the output file, or stdout when path is empty.
func writeOutput(path string, stdout io.Writer, fn func(io.Writer) error) error {
	if path == "" {
		return fn(stdout)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := fn(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
