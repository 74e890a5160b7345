package main

import (
	"flag"
	"log"
	"strings"

	"github.com/joho/godotenv"

	"aria/cmd"
	"aria/config"
)

func main() {
	// Optional .env for local overrides
	_ = godotenv.Load()

	var (
		simulate bool
		prompt   string
		play     bool
		addr     string
		port     string
	)

	flag.BoolVar(&simulate, "simulate", false, "Run the bundled generation service simulator")
	flag.StringVar(&prompt, "prompt", "", "Prompt to submit for generation")
	flag.BoolVar(&play, "play", false, "Play completed tracks automatically")
	flag.StringVar(&addr, "addr", "", "Generation service base URL (overrides config)")
	flag.StringVar(&port, "port", "", "Simulator port (overrides config)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if addr != "" {
		cfg.Server.URL = strings.TrimRight(addr, "/")
	}
	if port != "" {
		cfg.Simulator.Port = port
	}

	if simulate {
		cmd.StartSimulator(cfg)
		return
	}

	if err := cmd.RunClient(cfg, prompt, play); err != nil {
		log.Fatalf("%v", err)
	}
}
