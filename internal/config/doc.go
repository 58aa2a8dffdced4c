// Package config provides centralized configuration management for the
// penguin dashboard. Configuration is read from environment variables
// (highest priority), an optional YAML file and struct-tag defaults.
//
// # Environment Variables
//
// All environment variables follow the pattern PENGUINS_<SECTION>_<KEY>:
//
//	PENGUINS_SERVER_PORT=8000
//	PENGUINS_DATASET_PATH=data/palmer_penguins_5000.csv
//	PENGUINS_LOGGING_LEVEL=debug
//	PENGUINS_SESSION_IDLE_TTL=30m
//	PENGUINS_TELEMETRY_TRACE_EXPORTER=stdout
//
// A YAML file is picked up from PENGUINS_CONFIG_FILE, ./config.yaml or
// ./configs/config.yaml, in that order.
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Tests that need a configuration without touching the environment use
// config.Default().
package config
