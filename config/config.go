// Package config collects the run's tunables. The core treats all of
// these as injected; defaults match the documented deployment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/arshadvani3/mapreduce-docker/types"
)

const (
	DefaultChunkBytes  = 50_000_000
	DefaultMaxInflight = 8
	DefaultTaskTimeout = 20 * time.Second
	DefaultMaxAttempts = 3
	DefaultTopK        = 20
	DefaultDatasetURL  = "https://mattmahoney.net/dc/enwik9.zip"
)

// Config carries every tunable the coordinator consumes.
type Config struct {
	ChunkBytes  int           // max bytes per chunk (line-aligned)
	MaxInflight int           // bound on concurrently dispatched tasks
	TaskTimeout time.Duration // per-task deadline before reassignment
	MaxAttempts int           // dispatches per chunk before the run fails
	Workers     []string      // worker addresses, host:port
	DatasetURL  string        // corpus location (URL or local path)
	OutputPath  string        // where the word\tcount table is written
	TopK        int           // size of the ranked report
}

// Default returns the documented defaults with no workers configured.
func Default() Config {
	return Config{
		ChunkBytes:  DefaultChunkBytes,
		MaxInflight: DefaultMaxInflight,
		TaskTimeout: DefaultTaskTimeout,
		MaxAttempts: DefaultMaxAttempts,
		DatasetURL:  DefaultDatasetURL,
		OutputPath:  "txt/word_counts.tsv",
		TopK:        DefaultTopK,
	}
}

// FromEnv layers environment overrides onto the defaults. The worker list
// comes from WORKERS (comma-separated host:port) or, failing that, from
// NUM_WORKERS using the compose naming scheme worker-i:18861.
func FromEnv() (Config, error) {
	cfg := Default()

	if v := os.Getenv("WORKERS"); v != "" {
		for _, a := range strings.Split(v, ",") {
			if a = strings.TrimSpace(a); a != "" {
				cfg.Workers = append(cfg.Workers, a)
			}
		}
	} else if v := os.Getenv("NUM_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return cfg, fmt.Errorf("invalid NUM_WORKERS %q", v)
		}
		for i := 1; i <= n; i++ {
			cfg.Workers = append(cfg.Workers, fmt.Sprintf("worker-%d:%d", i, types.DefaultPort))
		}
	}

	if err := envInt("CHUNK_BYTES", &cfg.ChunkBytes); err != nil {
		return cfg, err
	}
	if err := envInt("MAX_INFLIGHT", &cfg.MaxInflight); err != nil {
		return cfg, err
	}
	if err := envInt("MAX_ATTEMPTS", &cfg.MaxAttempts); err != nil {
		return cfg, err
	}
	if v := os.Getenv("TASK_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return cfg, fmt.Errorf("invalid TASK_TIMEOUT %q: %w", v, err)
		}
		cfg.TaskTimeout = d
	}
	if v := os.Getenv("DATASET_URL"); v != "" {
		cfg.DatasetURL = v
	}
	return cfg, nil
}

func envInt(name string, dst *int) error {
	v := os.Getenv(name)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return fmt.Errorf("invalid %s %q", name, v)
	}
	*dst = n
	return nil
}
