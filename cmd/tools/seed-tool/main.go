// cmd/tools/seed-tool/main.go
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"activity-signup/pkg/registry"
)

var seedPath string

func main() {
	validateCmd := flag.NewFlagSet("validate", flag.ExitOnError)
	printCmd := flag.NewFlagSet("print", flag.ExitOnError)
	initCmd := flag.NewFlagSet("init", flag.ExitOnError)
	addCmd := flag.NewFlagSet("add", flag.ExitOnError)

	for _, fs := range []*flag.FlagSet{validateCmd, printCmd, initCmd, addCmd} {
		fs.StringVar(&seedPath, "path", "configs/seed.yaml", "Path to seed file (.json, .yaml or .yml)")
	}

	// Init command flags
	force := initCmd.Bool("force", false, "Overwrite an existing seed file")

	// Add command flags
	name := addCmd.String("name", "", "Activity name (e.g., Robotics Club)")
	description := addCmd.String("description", "", "Description")
	schedule := addCmd.String("schedule", "", "Schedule (e.g., Mondays, 3:30 PM - 5:00 PM)")
	maxParticipants := addCmd.Int("max", 0, "Advertised capacity")

	if len(os.Args) < 2 {
		help(os.Stdout)
		os.Exit(1)
	}

	switch os.Args[1] {
	case "validate":
		validateCmd.Parse(os.Args[2:])
		seed, err := registry.LoadSeed(seedPath)
		if err != nil {
			fmt.Printf("Seed validation failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Seed validation passed. Found %d activities.\n", len(seed.Activities))

	case "print":
		printCmd.Parse(os.Args[2:])
		seed, err := registry.LoadSeed(seedPath)
		if err != nil {
			fmt.Printf("Error loading seed: %v\n", err)
			os.Exit(1)
		}
		printSeed(seed)

	case "init":
		initCmd.Parse(os.Args[2:])
		if err := initSeed(*force); err != nil {
			fmt.Printf("Error writing seed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote default seed to %s\n", seedPath)

	case "add":
		addCmd.Parse(os.Args[2:])
		if *name == "" || *description == "" || *schedule == "" {
			fmt.Println("Error: name, description, and schedule are required for add.")
			addCmd.Usage()
			os.Exit(1)
		}
		def := registry.ActivityDefinition{
			Description:     *description,
			Schedule:        *schedule,
			MaxParticipants: *maxParticipants,
			Participants:    []string{},
		}
		if err := addActivity(*name, def); err != nil {
			fmt.Printf("Error adding activity: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Added activity: %s\n", *name)

	case "help":
		fallthrough
	default:
		help(os.Stdout)
	}
}

func printSeed(seed *registry.Seed) {
	if seed.Version != "" {
		fmt.Printf("Seed version %s\n", seed.Version)
	}
	for _, name := range seed.Names() {
		def := seed.Activities[name]
		fmt.Printf("%-20s %-45s %2d/%-2d\n", name, def.Schedule, len(def.Participants), def.MaxParticipants)
		for _, email := range def.Participants {
			fmt.Printf("  - %s\n", email)
		}
	}
}

func initSeed(force bool) error {
	if !force {
		if _, err := os.Stat(seedPath); err == nil {
			return fmt.Errorf("%s already exists (use -force to overwrite)", seedPath)
		}
	}
	if err := os.MkdirAll(filepath.Dir(seedPath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	return registry.SaveSeed(seedPath, registry.Default())
}

func addActivity(name string, def registry.ActivityDefinition) error {
	seed, err := registry.LoadSeed(seedPath)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to load seed: %w", err)
		}
		seed = &registry.Seed{Version: "1", Activities: map[string]registry.ActivityDefinition{}}
	}

	if _, exists := seed.Activities[name]; exists {
		return fmt.Errorf("activity %q already exists", name)
	}
	seed.Activities[name] = def

	if err := os.MkdirAll(filepath.Dir(seedPath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	return registry.SaveSeed(seedPath, seed)
}

func help(w io.Writer) {
	fmt.Fprint(w, `
Usage: seed-tool <command> [flags]

Commands:
  validate  Validate a seed file against the registry schema
  print     List the activities and rosters in a seed file
  init      Write the built-in Mergington activities to a seed file
  add       Add an activity with an empty roster
  help      Show this help message

Examples:
  seed-tool init -path configs/seed.yaml
  seed-tool add -path configs/seed.yaml -name "Robotics Club" -description "Build and program robots" -schedule "Mondays, 3:30 PM - 5:00 PM" -max 10
  seed-tool validate -path configs/seed.yaml
  seed-tool print -path configs/seed.json

Use 'seed-tool <command> -h' for more information about a command.
`)
}
