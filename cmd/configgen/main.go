package main

import (
	"flag"
	"log"

	"github.com/danmuck/pulsectl/internal/config"
)

func main() {
	output := flag.String("output", "", "output path for config template")
	validate := flag.Bool("validate", false, "validate an existing config file")
	input := flag.String("input", "", "config path for validation (defaults to cmd/pulsectl/config.toml)")
	force := flag.Bool("force", false, "overwrite existing config file")
	flag.Parse()

	if *validate {
		path := *input
		if path == "" {
			path = "cmd/pulsectl/config.toml"
		}
		if _, err := config.LoadPulseConfig(path); err != nil {
			log.Fatal(err)
		}
		log.Printf("Validated pulse config at %s", path)
		return
	}

	target := *output
	if target == "" {
		target = "cmd/pulsectl/config.toml"
	}
	if err := config.WriteTemplate(target, *force); err != nil {
		log.Fatal(err)
	}
	log.Printf("Wrote pulse config template to %s", target)
}
