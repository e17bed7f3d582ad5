package logging

import (
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	EnvLogLevel     = "CONTOURWIRE_LOG_LEVEL"
	EnvLogTimestamp = "CONTOURWIRE_LOG_TIMESTAMP"
	EnvLogNoColor   = "CONTOURWIRE_LOG_NOCOLOR"
	EnvLogBypass    = "CONTOURWIRE_LOG_BYPASS"
)

type Profile int

const (
	ProfileRuntime Profile = iota
	ProfileTest
)

// Config is the resolved logger setup. Bypass writes plain JSON lines
// instead of the console format.
type Config struct {
	Level     zerolog.Level
	Timestamp bool
	NoColor   bool
	Bypass    bool
}

var configureOnce sync.Once

func ConfigureRuntime() {
	Configure(ProfileRuntime)
}

func ConfigureTests() {
	Configure(ProfileTest)
}

func Configure(profile Profile) {
	configureOnce.Do(func() {
		cfg := defaultConfig(profile)
		applyEnvOverrides(&cfg)
		Apply(cfg, os.Stderr)
	})
}

// SetLevel adjusts the global level after Configure, e.g. from a CLI flag.
// Unknown names leave the level unchanged and return false.
func SetLevel(raw string) bool {
	lvl, ok := ParseLevel(raw)
	if !ok {
		return false
	}
	zerolog.SetGlobalLevel(lvl)
	return true
}

// Apply installs cfg as the global logger writing to out.
func Apply(cfg Config, out *os.File) {
	zerolog.SetGlobalLevel(cfg.Level)
	log.Logger = newLogger(cfg, out)
}

func newLogger(cfg Config, out *os.File) zerolog.Logger {
	var w io.Writer = out
	if !cfg.Bypass {
		noColor := cfg.NoColor || !isatty.IsTerminal(out.Fd())
		w = zerolog.ConsoleWriter{
			Out:        colorable.NewColorable(out),
			NoColor:    noColor,
			TimeFormat: time.RFC3339,
		}
	}
	ctx := zerolog.New(w).With()
	if cfg.Timestamp {
		ctx = ctx.Timestamp()
	}
	return ctx.Logger()
}

func defaultConfig(profile Profile) Config {
	cfg := Config{}
	switch profile {
	case ProfileTest:
		cfg.Level = zerolog.DebugLevel
		cfg.Timestamp = false
	default:
		cfg.Level = zerolog.InfoLevel
		cfg.Timestamp = true
	}
	return cfg
}

func applyEnvOverrides(cfg *Config) {
	if lvl, ok := ParseLevel(os.Getenv(EnvLogLevel)); ok {
		cfg.Level = lvl
	}
	if v, ok := parseBool(os.Getenv(EnvLogTimestamp)); ok {
		cfg.Timestamp = v
	}
	if v, ok := parseBool(os.Getenv(EnvLogNoColor)); ok {
		cfg.NoColor = v
	}
	if v, ok := parseBool(os.Getenv(EnvLogBypass)); ok {
		cfg.Bypass = v
	}
}

// ParseLevel accepts zerolog's level names plus the aliases "warning" and
// "off". An empty or unknown name reports false.
func ParseLevel(raw string) (zerolog.Level, bool) {
	name := strings.ToLower(strings.TrimSpace(raw))
	switch name {
	case "":
		return zerolog.InfoLevel, false
	case "warning":
		name = "warn"
	case "off":
		name = "disabled"
	}
	lvl, err := zerolog.ParseLevel(name)
	if err != nil {
		return zerolog.InfoLevel, false
	}
	return lvl, true
}

func parseBool(raw string) (bool, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false, false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return v, true
}
