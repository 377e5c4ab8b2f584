// Command migrate applies the embedded SQL migrations to the database named
// by database.url in CONFIG_PATH.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/shandysiswandi/medibook/internal/pkg/config"
	"github.com/shandysiswandi/medibook/internal/pkg/migrate"
)

func main() {
	direction := flag.String("direction", migrate.DirectionUp, "migration direction: up or down")
	flag.Parse()

	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "./config/config.yaml"
	}

	cfg, err := config.NewViper(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	dsn := cfg.GetString("database.url")
	_ = cfg.Close()

	if err := migrate.Run(dsn, *direction); err != nil {
		fmt.Fprintln(os.Stderr, "migrate:", err)
		os.Exit(1)
	}
}
