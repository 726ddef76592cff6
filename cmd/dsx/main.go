package main

import (
	"fmt"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "solve":
		if err := solve(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "validate":
		if err := validate(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "inspect":
		if err := inspect(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "archive":
		if err := archiveCmd(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "help", "-h", "--help":
		printUsage()
	case "version", "-v", "--version":
		fmt.Println("dsx version 1.0.0")
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`dsx - design space exploration tool

Usage:
  dsx <command> [options]

Commands:
  solve      Explore a design space and report valid solutions
  validate   Validate a design object against constraints
  inspect    Display a summary of an exploration report
  archive    List and export archived runs
  help       Show this help message
  version    Show version information

Examples:
  # Explore with the default configuration
  dsx solve constraints.json --output report.json

  # Explore with a preset and archive the run
  dsx solve constraints.json --preset fast --archive runs.db

  # Validate a single design
  dsx validate design.json --constraints constraints.json

  # Summarize a report
  dsx inspect report.json

For command-specific help, run:
  dsx <command> --help`)
}
