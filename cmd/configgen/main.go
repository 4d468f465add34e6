package main

import (
	"flag"
	"log"

	"github.com/mkuiper/rclink/internal/config"
)

func main() {
	kind := flag.String("kind", "tx", "config kind: tx|rx")
	output := flag.String("output", "", "output path for config template")
	validate := flag.Bool("validate", false, "validate an existing config file")
	input := flag.String("input", "", "config path for validation (defaults to per-kind path)")
	force := flag.Bool("force", false, "overwrite existing config file")
	flag.Parse()

	if *validate {
		path := *input
		if path == "" {
			switch *kind {
			case "tx":
				path = "txnode.toml"
			case "rx":
				path = "rxnode.toml"
			default:
				log.Fatalf("unknown kind: %s", *kind)
			}
		}

		switch *kind {
		case "tx":
			if _, err := config.LoadTxConfig(path); err != nil {
				log.Fatal(err)
			}
		case "rx":
			if _, err := config.LoadRxConfig(path); err != nil {
				log.Fatal(err)
			}
		default:
			log.Fatalf("unknown kind: %s", *kind)
		}
		log.Printf("Validated %s config at %s", *kind, path)
		return
	}

	target := *output
	if target == "" {
		switch *kind {
		case "tx":
			target = "txnode.toml"
		case "rx":
			target = "rxnode.toml"
		default:
			log.Fatalf("unknown kind: %s", *kind)
		}
	}

	if err := config.WriteTemplate(target, *kind, *force); err != nil {
		log.Fatal(err)
	}
	log.Printf("Wrote %s config template to %s", *kind, target)
}
