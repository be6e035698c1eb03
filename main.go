package main

import (
	"flag"
	"fmt"
	"os"

	"travelogue/internal/di"
	"travelogue/internal/structures"
)

func main() {
	flags := &structures.CliFlags{}
	flag.StringVar(&flags.ConfigPath, "config", "config.yaml", "path to the YAML config file")
	flag.BoolVar(&flags.DebugMode, "debug", false, "also log to the console")
	flag.Parse()

	if _, err := di.InitApp(flags); err != nil {
		fmt.Fprintf(os.Stderr, "travelogue: %s\n", err)
		os.Exit(1)
	}
}
