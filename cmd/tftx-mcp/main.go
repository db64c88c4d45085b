package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"

	"github.com/peterkuimelis/tftx/internal/config"
	tftxmcp "github.com/peterkuimelis/tftx/internal/mcp"
)

func main() {
	cfgPath := flag.String("config", "", "path to a YAML game config")
	flag.Parse()

	if *cfgPath != "" {
		cfg, err := config.Load(*cfgPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		tftxmcp.SetConfig(cfg)
	}

	s := server.NewMCPServer("tftx", "1.0.0")
	tftxmcp.RegisterTools(s)

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
