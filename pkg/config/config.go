// Package config turns environment variables or a KEY=VALUE conf file into
// an explicit Config value. Nothing here is global; callers pass the Config
// to whatever needs it.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/yumyai/ggsynteny/internal/util"
	"github.com/yumyai/ggsynteny/logger"
	"github.com/yumyai/ggsynteny/pkg/table"
)

// Recognised keys.
const (
	KeyDataDir    = "GGSYNTENY_DATA"
	KeyDBPath     = "GGSYNTENY_DB"
	KeyListenAddr = "GGSYNTENY_LISTEN"
	KeyLogLevel   = "GGSYNTENY_LOG_LEVEL"
	KeyPosition   = "GGSYNTENY_POSITION"
	KeyStep       = "GGSYNTENY_STEP"
	KeyScore      = "GGSYNTENY_SCORE"
	KeyEValue     = "GGSYNTENY_EVALUE"
)

var Keys = []string{
	KeyDataDir, KeyDBPath, KeyListenAddr, KeyLogLevel,
	KeyPosition, KeyStep, KeyScore, KeyEValue,
}

const (
	defaultDataDir    = "./data"
	defaultDBName     = "synteny.db"
	defaultListenAddr = "0.0.0.0:8080"
	defaultScore      = 100
	defaultEValue     = 1e-5
)

type Config struct {
	DataDir    string
	DBPath     string
	ListenAddr string
	LogLevel   zapcore.Level
	Position   table.Position
	// Step scales projected coordinates. Zero means "derive from the length
	// table" (see model.Step).
	Step   float64
	Score  float64
	EValue float64
}

// Default is the configuration used when no key is set.
func Default() *Config {
	return &Config{
		DataDir:    defaultDataDir,
		DBPath:     defaultDataDir + "/" + defaultDBName,
		ListenAddr: defaultListenAddr,
		LogLevel:   zapcore.InfoLevel,
		Position:   table.PositionOrder,
		Score:      defaultScore,
		EValue:     defaultEValue,
	}
}

// FromEnv loads .env when present, then reads the recognised keys from the
// process environment.
func FromEnv() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Warn("No .env found, using local environment")
	}
	return build(os.LookupEnv)
}

// Load reads a KEY=VALUE conf file. Keys not listed in Keys are ignored.
func Load(path string) (*Config, error) {
	values, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	return FromMap(values)
}

func FromMap(values map[string]string) (*Config, error) {
	return build(func(key string) (string, bool) {
		v, ok := values[key]
		return v, ok
	})
}

func build(lookup func(string) (string, bool)) (*Config, error) {
	cfg := Default()

	if v, ok := lookup(KeyDataDir); ok && v != "" {
		if !util.DirExists(v) {
			return nil, fmt.Errorf("%s: directory %q does not exist", KeyDataDir, v)
		}
		cfg.DataDir = v
		cfg.DBPath = v + "/" + defaultDBName
	} else {
		logger.Warn("No "+KeyDataDir+" set, using default value", zap.String("dir", defaultDataDir))
	}

	if v, ok := lookup(KeyDBPath); ok && v != "" {
		cfg.DBPath = v
	}
	if v, ok := lookup(KeyListenAddr); ok && v != "" {
		cfg.ListenAddr = v
	}

	if v, ok := lookup(KeyLogLevel); ok && v != "" {
		level, err := zapcore.ParseLevel(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", KeyLogLevel, err)
		}
		cfg.LogLevel = level
	}

	if v, ok := lookup(KeyPosition); ok && v != "" {
		pos, err := table.ParsePosition(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", KeyPosition, err)
		}
		cfg.Position = pos
	}

	floats := []struct {
		key string
		dst *float64
	}{
		{KeyStep, &cfg.Step},
		{KeyScore, &cfg.Score},
		{KeyEValue, &cfg.EValue},
	}
	for _, f := range floats {
		v, ok := lookup(f.key)
		if !ok || v == "" {
			continue
		}
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("%s: %q is not a number", f.key, v)
		}
		*f.dst = parsed
	}

	if cfg.Step < 0 {
		return nil, fmt.Errorf("%s: must not be negative", KeyStep)
	}

	return cfg, nil
}
