package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/peterkuimelis/tftx/internal/config"
	"github.com/peterkuimelis/tftx/internal/game"
	"github.com/peterkuimelis/tftx/internal/web"
)

func main() {
	port := flag.Int("port", 8080, "HTTP port to listen on")
	cfgPath := flag.String("config", "", "path to a YAML game config")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := game.DefaultConfig()
	if *cfgPath != "" {
		var err error
		if cfg, err = config.Load(*cfgPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	srv, err := web.NewServer(cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf(":%d", *port)
	logger.Info("tftx web UI listening", "url", fmt.Sprintf("http://localhost:%d", *port))
	if err := srv.ListenAndServe(addr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
