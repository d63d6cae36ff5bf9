package main

import (
	"log"

	"github.com/urfave/cli/v2"

	"github.com/nutrimatic-go/nutrimatic/config"
)

// loadConfig reads the --config flag, falling back to coded defaults
// when the flag is unset or the file fails to load — a search command
// always gets a usable Config, it never aborts over a bad config path.
func loadConfig(c *cli.Context) config.Config {
	path := c.String("config")
	if path == "" {
		return config.DefaultConfig()
	}
	cfg, err := config.Load(path)
	if err != nil {
		log.Printf("nutrimatic: %v; falling back to defaults", err)
		return config.DefaultConfig()
	}
	return cfg
}
