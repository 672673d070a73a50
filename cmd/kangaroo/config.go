package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/BurntSushi/toml"
)

// Config is the TOML run configuration. Command-line flags override any
// value set here.
type Config struct {
	TargetPubKey       string `toml:"target_pubkey"`
	RangeStart         string `toml:"range_start"`
	RangeEnd           string `toml:"range_end"`
	Threads            int    `toml:"threads"`
	DistinguishedBits  int    `toml:"distinguished_bits"`
	CheckpointPath     string `toml:"checkpoint_path"`
	CheckpointInterval int    `toml:"checkpoint_interval"` // seconds; 0 disables
	WatchFile          string `toml:"watch_file"`
	WebAddr            string `toml:"web_addr"`
}

// defaultConfig mirrors the defaults of the original deployment, scaled
// to the local machine.
func defaultConfig() Config {
	threads := runtime.NumCPU()
	if threads > 16 {
		threads = 16
	}
	return Config{
		Threads:            threads,
		DistinguishedBits:  20,
		CheckpointPath:     "kangaroo.checkpoint",
		CheckpointInterval: 300,
		WebAddr:            ":5000",
	}
}

// loadConfig reads path over the defaults. An empty path returns the
// defaults untouched.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}
