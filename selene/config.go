package selene

import "time"

// DriverType picks the Session implementation the CLI builds
type DriverType string

// revive:exported
const (
	DriverGCD        DriverType = "gcd"
	DriverRod        DriverType = "rod"
	DriverWebDriver  DriverType = "webdriver"
	DriverPlaywright DriverType = "playwright"
)

// Config for selene
type Config struct {
	DefaultTimeout    time.Duration // used by Wait when no timeout is given
	PollInterval      time.Duration // delay between condition ticks
	NavigationTimeout time.Duration // page load limit of the gcd driver
	BaseURL           string        // relative urls passed to the CLI are resolved against it
	Driver            DriverType
	ChromePath        string // browser binary, empty to search
	RemoteURL         string // WebDriver endpoint, rod control url or gcd host:port
	Headless          bool
}

// DefaultConfig returns the settings used when nothing is configured
func DefaultConfig() *Config {
	return &Config{
		DefaultTimeout:    5 * time.Second,
		PollInterval:      100 * time.Millisecond,
		NavigationTimeout: 30 * time.Second,
		Driver:            DriverGCD,
		Headless:          true,
	}
}

// Merge fills zero fields of c from defaults
func (c *Config) Merge(defaults *Config) {
	if c.DefaultTimeout == 0 {
		c.DefaultTimeout = defaults.DefaultTimeout
	}
	if c.PollInterval == 0 {
		c.PollInterval = defaults.PollInterval
	}
	if c.NavigationTimeout == 0 {
		c.NavigationTimeout = defaults.NavigationTimeout
	}
	if c.BaseURL == "" {
		c.BaseURL = defaults.BaseURL
	}
	if c.Driver == "" {
		c.Driver = defaults.Driver
	}
	if c.ChromePath == "" {
		c.ChromePath = defaults.ChromePath
	}
	if c.RemoteURL == "" {
		c.RemoteURL = defaults.RemoteURL
	}
}
