// Package config holds the settings of the bootdep demo binary.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config is read from BOOTDEP_* environment variables.
type Config struct {
	// Debug turns on V(1) logging of every construction.
	Debug bool
	// Timing records a go-timing report of the bootstrap and prints it afterwards.
	Timing bool
	// Manifest is the directory, .zip archive or YAML file restricting the components. Empty
	// means every registered component takes part.
	Manifest string
	Greeting string
}

const DefaultGreeting = "Hello from bootdep"

// Load reads the given .env files, or .env when none are given, and populates a Config from the
// environment. Missing files are ignored; variables already set in the environment win over the
// files.
func Load(envFiles ...string) *Config {
	files := envFiles
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		// Non-fatal: the file is optional
		_ = godotenv.Load(f)
	}

	return &Config{
		Debug:    envBool("BOOTDEP_DEBUG", false),
		Timing:   envBool("BOOTDEP_TIMING", false),
		Manifest: env("BOOTDEP_MANIFEST", ""),
		Greeting: env("BOOTDEP_GREETING", DefaultGreeting),
	}
}

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
