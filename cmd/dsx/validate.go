package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/dsxplore/go-dsx/constraint"
	"github.com/dsxplore/go-dsx/design"
	"github.com/dsxplore/go-dsx/evaluator"
	"github.com/dsxplore/go-dsx/schema"
)

func validate(args []string) error {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	constraintsFile := fs.String("constraints", "", "Constraint file to evaluate against")
	outputJSON := fs.Bool("json", false, "Output results as JSON")
	skipSchema := fs.Bool("skip-schema", false, "Skip document shape validation")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: dsx validate <design.json> [options]

Validate a design object: check its document shape and evaluate it against
a constraint set.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  # Shape check only
  dsx validate design.json

  # Shape check plus constraints
  dsx validate design.json --constraints constraints.json

  # Machine-readable output
  dsx validate design.json --constraints constraints.json --json
`)
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		fs.Usage()
		return fmt.Errorf("design file required")
	}

	data, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("read design: %w", err)
	}
	d, err := design.FromJSON(data)
	if err != nil {
		return err
	}

	type outcome struct {
		IsValid    bool                   `json:"is_valid"`
		Schema     *schema.Result         `json:"schema,omitempty"`
		Violations []constraint.Violation `json:"violations,omitempty"`
	}
	result := outcome{IsValid: true}

	if !*skipSchema {
		doc, err := d.ToMap()
		if err != nil {
			return err
		}
		schemaResult := schema.NewStructureValidator().Validate(doc)
		result.Schema = &schemaResult
		if !schemaResult.IsValid {
			result.IsValid = false
		}
	}

	if *constraintsFile != "" {
		set, err := loadConstraints(*constraintsFile)
		if err != nil {
			return err
		}
		evalResult := evaluator.New(set).Evaluate(d)
		result.Violations = evalResult.Violations
		if !evalResult.IsValid {
			result.IsValid = false
		}
	}

	if *outputJSON {
		payload, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(payload))
	} else {
		printValidationResult(d, result.Schema, result.Violations, result.IsValid)
	}

	if !result.IsValid {
		os.Exit(1)
	}
	return nil
}

func printValidationResult(d *design.Object, schemaResult *schema.Result, violations []constraint.Violation, valid bool) {
	fmt.Println("=== Design Validation ===")
	fmt.Printf("Design: %s (%d components, %d relationships, %d variables)\n",
		d.ID, len(d.Structure.Components), len(d.Structure.Relationships), len(d.Variables.Values))
	fmt.Println()

	if schemaResult != nil && len(schemaResult.Errors) > 0 {
		fmt.Printf("Schema errors (%d):\n", len(schemaResult.Errors))
		for _, e := range schemaResult.Errors {
			fmt.Printf("  ✗ %s: %s\n", e.Path, e.Message)
		}
		fmt.Println()
	}

	if len(violations) > 0 {
		fmt.Printf("Constraint violations (%d):\n", len(violations))
		for _, v := range violations {
			fmt.Printf("  ✗ [%s] %s\n", v.ConstraintID, v.Message)
		}
		fmt.Println()
	}

	if valid {
		fmt.Println("✓ Validation PASSED")
	} else {
		fmt.Println("✗ Validation FAILED")
	}
}
