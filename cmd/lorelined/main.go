// lorelined serves the event catalog over HTTP.
//
//	lorelined [-config loreline.toml] [-listen :3000] [-db events.db]
//
// Flags override the config file; LORELINE_* environment variables sit
// between the two.
package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"

	"loreline/internal/api"
	"loreline/internal/config"
	"loreline/internal/logging"
	"loreline/internal/store"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to config file (TOML, YAML, or JSON)")
		listen     = flag.String("listen", "", "listen address (overrides config)")
		dbPath     = flag.String("db", "", "path to SQLite database (overrides config)")
	)
	flag.Parse()

	loader := config.NewLoader(*configPath)
	cfg, err := loader.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	defer loader.Close()

	if *listen != "" {
		cfg.Server.Listen = *listen
	}
	if *dbPath != "" {
		cfg.Storage.Path = *dbPath
	}

	logger, err := logging.New(&logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Output:    cfg.Logging.Output,
		FilePath:  cfg.Logging.FilePath,
		Component: "lorelined",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error setting up logging: %v\n", err)
		os.Exit(1)
	}

	if *configPath != "" {
		if err := loader.Watch(); err != nil {
			logger.Warn("config watch unavailable", "err", err)
		} else {
			loader.OnChange(func(c *config.Config) {
				logger.Info("config reloaded", "listen", c.Server.Listen)
			})
		}
	}

	st, err := store.Open(cfg.Storage.Path)
	if err != nil {
		logger.Error("open store", "path", cfg.Storage.Path, "err", err)
		os.Exit(1)
	}
	defer st.Close()

	server, err := api.New(st, logger)
	if err != nil {
		logger.Error("build server", "err", err)
		os.Exit(1)
	}

	logger.Info("loreline listening", "addr", cfg.Server.Listen, "db", cfg.Storage.Path)
	if err := http.ListenAndServe(cfg.Server.Listen, server); err != nil {
		logger.Error("listen", "err", err)
		os.Exit(1)
	}
}
