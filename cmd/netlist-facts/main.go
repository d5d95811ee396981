// netlist-facts dumps a netlist's vertex and edge facts as JSON, in the
// shape internal/validate's schema describes, for external tooling to
// consume without linking against the Go module.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/google/uuid"

	"github.com/netlist-paths/netlistpaths/internal/config"
	"github.com/netlist-paths/netlistpaths/internal/netlist"
)

// dump wraps one export with a run ID so consumers that compare successive
// facts dumps (e.g. a CI job diffing today's dump against yesterday's) can
// tell which run produced which file without relying on mtimes.
type dump struct {
	RunID string `json:"runId"`
	netlist.Export
}

func main() {
	output := flag.String("output", "", "write facts JSON to file (default: stdout)")
	flag.StringVar(output, "o", "", "write facts JSON to file (shorthand)")
	configPath := flag.String("config", "", "explicit config file")
	flag.Parse()

	args := flag.Args()
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: netlist-facts [--output file] [--config file] <netlist.xml>")
		os.Exit(1)
	}
	path := args[0]

	var cfg *config.Config
	var err error
	if *configPath != "" {
		cfg, err = config.LoadFile(*configPath)
	} else {
		cfg, err = config.Load(".")
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	nl, err := netlist.New(context.Background(), path, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	out := dump{RunID: uuid.New().String(), Export: nl.Export()}

	if *output != "" {
		if err := writeJSON(*output, out); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing facts: %v\n", err)
			os.Exit(1)
		}
		return
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding facts: %v\n", err)
		os.Exit(1)
	}
}

func writeJSON(path string, data interface{}) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}
