// loreline-import loads a JSON event definition file into the catalog
// database in a single transaction.
//
//	loreline-import [-config loreline.toml] [-db events.db] [-file data/events.json]
package main

import (
	"flag"
	"fmt"
	"os"

	"loreline/internal/config"
	"loreline/internal/importer"
	"loreline/internal/store"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to config file (TOML, YAML, or JSON)")
		dbPath     = flag.String("db", "", "path to SQLite database (overrides config)")
		dataPath   = flag.String("file", "", "path to the JSON event file (overrides config)")
	)
	flag.Parse()

	cfg, err := config.NewLoader(*configPath).Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	if *dbPath != "" {
		cfg.Storage.Path = *dbPath
	}
	if *dataPath != "" {
		cfg.Import.DataPath = *dataPath
	}

	st, err := store.Open(cfg.Storage.Path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
		os.Exit(1)
	}
	defer st.Close()

	n, err := importer.Run(st, cfg.Import.DataPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Import failed, nothing written: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Successfully imported %d events into the database.\n", n)
}
