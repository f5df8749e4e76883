package main

import (
	"log/slog"
	"os"
	"strconv"
)

const (
	EnvSeed     = "MOCKSERIES_SEED"
	EnvTimezone = "MOCKSERIES_TZ"
	EnvModel    = "MOCKSERIES_MODEL"
)

// config holds the flag defaults taken from the environment
type config struct {
	seed     uint64
	timezone string
	model    string
}

func configFromEnv() config {
	cfg := config{
		timezone: os.Getenv(EnvTimezone),
		model:    os.Getenv(EnvModel),
	}
	if s := os.Getenv(EnvSeed); s != "" {
		seed, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			slog.Warn("invalid seed, using a time based seed", "env", EnvSeed, "value", s, "error", err.Error())
		} else {
			cfg.seed = seed
		}
	}
	return cfg
}
