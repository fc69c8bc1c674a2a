package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/davenwood/pantrylist/internal/consolidate"
)

// Consolidates sufficiency-check fragments into a categorized shopping list
// without a server. Reads a JSON array of fragments from a file or stdin and
// prints the plain-text export.
func main() {
	var (
		inputPath = flag.String("input", "-", "path to a JSON array of fragments, or - for stdin")
		asJSON    = flag.Bool("json", false, "print the structured list as JSON instead of text")
	)
	flag.Parse()

	var reader io.Reader = os.Stdin
	if *inputPath != "-" {
		f, err := os.Open(*inputPath)
		if err != nil {
			log.Fatalf("Failed to open input: %v", err)
		}
		defer f.Close()
		reader = f
	}

	var fragments []consolidate.Fragment
	if err := json.NewDecoder(reader).Decode(&fragments); err != nil {
		log.Fatalf("Failed to decode fragments: %v", err)
	}

	result, err := consolidate.Consolidate(fragments)
	if err != nil {
		log.Fatalf("Consolidation failed: %v", err)
	}

	if result.FailedFragments > 0 {
		fmt.Fprintf(os.Stderr, "warning: %d of %d fragments failed\n", result.FailedFragments, result.FragmentCount)
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result.List); err != nil {
			log.Fatalf("Failed to encode list: %v", err)
		}
		return
	}

	fmt.Print(consolidate.Export(result.List))
}
