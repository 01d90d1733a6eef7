package main

import (
	"flag"
	"fmt"
	"os"

	"quipvid/internal/client"
	"quipvid/internal/config"
	"quipvid/internal/ui"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "browse: %v\n", err)
		return 1
	}

	api := client.New(cfg.API.BaseURL, cfg.API.Timeout)

	if err := ui.Run(api); err != nil {
		fmt.Fprintf(os.Stderr, "browse: %v\n", err)
		return 1
	}
	return 0
}
