package commands

import (
	"context"
	"errors"
	"fmt"
	"os"

	"gradebook/internal/canvas"
	"gradebook/internal/chart"
	"gradebook/internal/fixture"
	"gradebook/internal/gradebook"
	"gradebook/internal/store"
	"gradebook/internal/telemetry"
	"gradebook/lib/configutil"
	configlibsql "gradebook/lib/configutil/libsql"

	"github.com/joho/godotenv"
)

var ErrUnknownDriver = errors.New("unknown source driver")

type CanvasConfig struct {
	BaseUrl string `json:"base_url"`
	Token   string `json:"token"`
	PerPage int    `json:"per_page" validate:"gte=0,lte=100"`
	// DumpDir keeps a copy of every HTTP exchange, for debugging.
	DumpDir string `json:"dump_dir"`
}

type FixtureConfig struct {
	Path string `json:"path"`
}

type SourceConfig struct {
	Driver  string              `json:"driver" validate:"required,oneof=canvas fixture sqlite"`
	Canvas  CanvasConfig        `json:"canvas"`
	Fixture FixtureConfig       `json:"fixture"`
	Sqlite  configlibsql.Struct `json:"sqlite"`
}

type ChartsConfig struct {
	OutputDir string   `json:"output_dir"`
	Viewer    []string `json:"viewer"`
	Width     float64  `json:"width" validate:"gte=0"`
	Height    float64  `json:"height" validate:"gte=0"`
	Bins      int      `json:"bins" validate:"gte=0"`
}

type ReplConfig struct {
	DefaultCode string `json:"default_code"`
}

type LogConfig struct {
	Debug bool `json:"debug"`
}

type Config struct {
	User   string       `json:"user"`
	Source SourceConfig `json:"source"`
	Charts ChartsConfig `json:"charts"`
	Repl   ReplConfig   `json:"repl"`
	Log    LogConfig    `json:"log"`
}

// LoadConfig reads path (and its .local override), applies the CANVAS_*
// environment variables, including those from a .env file, and validates the
// result.
func LoadConfig(path string) (Config, error) {
	err := godotenv.Load()
	if err != nil && !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	config, err := configutil.ReadConfig[Config](path)
	if os.IsNotExist(err) {
		return Config{}, fmt.Errorf("config file %s not found", path)
	}
	if err != nil {
		return Config{}, err
	}

	if token, ok := os.LookupEnv("CANVAS_TOKEN"); ok {
		config.Source.Canvas.Token = token
	}
	if baseUrl, ok := os.LookupEnv("CANVAS_BASE_URL"); ok {
		config.Source.Canvas.BaseUrl = baseUrl
	}
	if config.User == "" {
		config.User = "self"
	}

	err = configutil.Validate(config)
	if err != nil {
		return Config{}, err
	}
	err = config.Source.check()
	if err != nil {
		return Config{}, err
	}
	return config, nil
}

// check validates the fields the selected driver needs.
func (s SourceConfig) check() error {
	switch s.Driver {
	case "canvas":
		if s.Canvas.BaseUrl == "" {
			return fmt.Errorf("invalid config: source.canvas.base_url is required")
		}
		if s.Canvas.Token == "" {
			return fmt.Errorf("invalid config: source.canvas.token is required (or set CANVAS_TOKEN)")
		}
	case "fixture":
		if s.Fixture.Path == "" {
			return fmt.Errorf("invalid config: source.fixture.path is required")
		}
	case "sqlite":
		if s.Sqlite.File == "" && s.Sqlite.Url == "" {
			return fmt.Errorf("invalid config: source.sqlite needs a file or url")
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownDriver, s.Driver)
	}
	return nil
}

// OpenSource builds the gradebook backend named by the config. The returned
// close function releases whatever the source holds open.
func (s SourceConfig) OpenSource(ctx context.Context, tel telemetry.API) (gradebook.Source, func() error, error) {
	noop := func() error { return nil }

	switch s.Driver {
	case "canvas":
		client, err := canvas.NewClient(canvas.ClientOptions{
			BaseUrl: s.Canvas.BaseUrl,
			Token:   s.Canvas.Token,
			PerPage: s.Canvas.PerPage,
			DumpDir: s.Canvas.DumpDir,
		}, tel)
		if err != nil {
			return nil, nil, err
		}
		return client, noop, nil
	case "fixture":
		return fixture.NewSource(s.Fixture.Path), noop, nil
	case "sqlite":
		db, err := s.Sqlite.OpenDB()
		if err != nil {
			return nil, nil, fmt.Errorf("open snapshot: %w", err)
		}
		snapshots := store.NewStore(db, tel)
		err = snapshots.Migrate(ctx)
		if err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("migrate snapshot: %w", err)
		}
		return snapshots, db.Close, nil
	}
	return nil, nil, fmt.Errorf("%w: %q", ErrUnknownDriver, s.Driver)
}

func (c ChartsConfig) PlotOptions() chart.PlotOptions {
	return chart.PlotOptions{
		OutputDir: c.OutputDir,
		Viewer:    c.Viewer,
		Width:     c.Width,
		Height:    c.Height,
		Bins:      c.Bins,
	}
}
