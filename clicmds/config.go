package clicmds

import (
	"io/ioutil"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
	"gitlab.com/selene/selene"
)

// fileConfig is the TOML layout of selene.Config
type fileConfig struct {
	DefaultTimeout    string `toml:"default_timeout"`
	PollInterval      string `toml:"poll_interval"`
	NavigationTimeout string `toml:"navigation_timeout"`
	BaseURL           string `toml:"base_url"`
	Driver            string `toml:"driver"`
	ChromePath        string `toml:"chrome_path"`
	RemoteURL         string `toml:"remote_url"`
	Headless          *bool  `toml:"headless"`
}

// GlobalFlags shared by every command
func GlobalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Usage:   "toml config to use",
			EnvVars: []string{"SELENE_CONFIG"},
		},
		&cli.StringFlag{
			Name:    "driver",
			Usage:   "session driver: gcd, rod, webdriver or playwright",
			EnvVars: []string{"SELENE_DRIVER"},
		},
		&cli.StringFlag{
			Name:    "remote",
			Usage:   "webdriver url, rod control url or gcd host:port of a running browser",
			EnvVars: []string{"SELENE_REMOTE"},
		},
		&cli.StringFlag{
			Name:    "chrome",
			Usage:   "browser binary",
			EnvVars: []string{"SELENE_CHROME"},
		},
		&cli.BoolFlag{
			Name:    "headful",
			Usage:   "show the browser window",
			EnvVars: []string{"SELENE_HEADFUL"},
		},
		&cli.DurationFlag{
			Name:    "interval",
			Usage:   "delay between condition checks",
			EnvVars: []string{"SELENE_POLL_INTERVAL"},
		},
		&cli.BoolFlag{
			Name:    "debug",
			Usage:   "debug logging",
			EnvVars: []string{"SELENE_DEBUG"},
		},
		&cli.BoolFlag{
			Name:  "dump",
			Usage: "dump results in full",
		},
		&cli.StringFlag{
			Name:    "metrics-addr",
			Usage:   "serve prometheus metrics on this address, e.g. :9102",
			EnvVars: []string{"SELENE_METRICS_ADDR"},
		},
	}
}

// LoadDotEnv loads files (.env when none are given) into the environment.
// Missing files are ignored, variables already set win.
func LoadDotEnv(files ...string) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, file := range files {
		if _, err := os.Stat(file); err != nil {
			continue
		}
		if err := godotenv.Load(file); err != nil {
			log.Warn().Err(err).Str("file", file).Msg("failed to load env file")
		}
	}
}

// Setup the global logger from the flags; meant as the app's Before hook
func Setup(ctx *cli.Context) error {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if ctx.Bool("debug") {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: ctx.App.ErrWriter, TimeFormat: time.Kitchen})
	return nil
}

// LoadConfig from --config, then flags, then defaults
func LoadConfig(ctx *cli.Context) (*selene.Config, error) {
	cfg := &selene.Config{Headless: true}

	if path := ctx.String("config"); path != "" {
		data, err := ioutil.ReadFile(path)
		if err != nil {
			return nil, err
		}
		file := &fileConfig{}
		if err := toml.NewDecoder(strings.NewReader(string(data))).Decode(file); err != nil {
			return nil, errors.Wrapf(err, "config %s", path)
		}
		if err := file.apply(cfg); err != nil {
			return nil, errors.Wrapf(err, "config %s", path)
		}
	}

	if ctx.IsSet("driver") {
		cfg.Driver = selene.DriverType(ctx.String("driver"))
	}
	if ctx.IsSet("remote") {
		cfg.RemoteURL = ctx.String("remote")
	}
	if ctx.IsSet("chrome") {
		cfg.ChromePath = ctx.String("chrome")
	}
	if ctx.IsSet("headful") {
		cfg.Headless = !ctx.Bool("headful")
	}
	if ctx.IsSet("interval") {
		cfg.PollInterval = ctx.Duration("interval")
	}

	cfg.Merge(selene.DefaultConfig())
	switch cfg.Driver {
	case selene.DriverGCD, selene.DriverRod, selene.DriverWebDriver, selene.DriverPlaywright:
	default:
		return nil, selene.Errorf(selene.ErrInvalidArgument, "unknown driver %q", cfg.Driver)
	}
	return cfg, nil
}

func (f *fileConfig) apply(cfg *selene.Config) error {
	var err error
	if f.DefaultTimeout != "" {
		if cfg.DefaultTimeout, err = time.ParseDuration(f.DefaultTimeout); err != nil {
			return errors.Wrap(err, "default_timeout")
		}
	}
	if f.PollInterval != "" {
		if cfg.PollInterval, err = time.ParseDuration(f.PollInterval); err != nil {
			return errors.Wrap(err, "poll_interval")
		}
	}
	if f.NavigationTimeout != "" {
		if cfg.NavigationTimeout, err = time.ParseDuration(f.NavigationTimeout); err != nil {
			return errors.Wrap(err, "navigation_timeout")
		}
	}
	cfg.BaseURL = f.BaseURL
	cfg.Driver = selene.DriverType(f.Driver)
	cfg.ChromePath = f.ChromePath
	cfg.RemoteURL = f.RemoteURL
	if f.Headless != nil {
		cfg.Headless = *f.Headless
	}
	return nil
}
