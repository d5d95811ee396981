// netlistpaths answers structural path-query questions about a flattened
// Verilator-XML netlist: whether a combinational path exists between two
// points, one or all such paths, and forward/reverse fan traversal.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/netlist-paths/netlistpaths/internal/config"
	"github.com/netlist-paths/netlistpaths/internal/metrics"
	"github.com/netlist-paths/netlistpaths/internal/netlist"
	"github.com/netlist-paths/netlistpaths/internal/watch"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "-h", "--help", "help":
		printUsage()
	case "init":
		runInit()
	default:
		runQuery(os.Args[1:])
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `Usage: netlistpaths <command> [options] <netlist.xml>

Commands:
  init                         Create a netlist_paths.json configuration file
  exists <start> <end>         Report whether a path exists
  any <start> <end>            Print one path's vertex names
  all <start> <end>            Print every simple path's vertex names
  fanout <start>               Print one path per end-point reachable from start
  fanin <end>                  Print one path per start-point that can reach end
  dot                          Dump the graph in Graphviz dot format
  lint                         Run the structural lint policy

Options:
  -netlist <path>       Netlist XML file (required; may also be the last arg)
  -config <path>        Explicit config file
  -waypoints <a,b,...>  Comma-separated ordered waypoint patterns
  -avoid <a,b,...>      Comma-separated patterns to exclude from the search
  -watch                Reload the netlist whenever the file changes
  -metrics-addr <addr>  Serve Prometheus metrics on addr (e.g. :9090)`)
}

func runInit() {
	cfg := config.DefaultConfig()
	if err := cfg.Save("netlist_paths.json"); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating config: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("Created netlist_paths.json")
}

type options struct {
	netlistPath string
	configPath  string
	waypoints   []string
	avoid       []string
	watchMode   bool
	metricsAddr string
	positional  []string
}

func parseOptions(args []string) options {
	var o options
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-netlist":
			i++
			if i < len(args) {
				o.netlistPath = args[i]
			}
		case "-config":
			i++
			if i < len(args) {
				o.configPath = args[i]
			}
		case "-waypoints":
			i++
			if i < len(args) {
				o.waypoints = splitNonEmpty(args[i])
			}
		case "-avoid":
			i++
			if i < len(args) {
				o.avoid = splitNonEmpty(args[i])
			}
		case "-watch":
			o.watchMode = true
		case "-metrics-addr":
			i++
			if i < len(args) {
				o.metricsAddr = args[i]
			}
		default:
			o.positional = append(o.positional, args[i])
		}
	}
	return o
}

func splitNonEmpty(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func runQuery(args []string) {
	if len(args) < 1 {
		printUsage()
		os.Exit(1)
	}
	command := args[0]
	o := parseOptions(args[1:])

	if o.netlistPath == "" && len(o.positional) > 0 {
		o.netlistPath = o.positional[len(o.positional)-1]
		o.positional = o.positional[:len(o.positional)-1]
	}
	if o.netlistPath == "" {
		fmt.Fprintln(os.Stderr, "Error: no netlist XML file given")
		os.Exit(1)
	}

	var cfg *config.Config
	var err error
	if o.configPath != "" {
		cfg, err = config.LoadFile(o.configPath)
	} else {
		cfg, err = config.Load(".")
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not load config: %v (using defaults)\n", err)
		cfg = config.DefaultConfig()
	}

	reg := metrics.New()
	if cfg.Metrics.Enabled || o.metricsAddr != "" {
		addr := cfg.Metrics.Addr
		if o.metricsAddr != "" {
			addr = o.metricsAddr
		}
		go func() {
			if err := metrics.ListenAndServe(addr, reg); err != nil {
				fmt.Fprintf(os.Stderr, "metrics server stopped: %v\n", err)
			}
		}()
	}

	ctx := context.Background()

	if o.watchMode {
		runWatching(ctx, command, o, cfg, reg)
		return
	}

	nl, err := netlist.New(ctx, o.netlistPath, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	for _, w := range nl.Warnings() {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}
	if err := dispatch(nl, reg, command, o.positional, o.waypoints, o.avoid); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runWatching(ctx context.Context, command string, o options, cfg *config.Config, reg *metrics.Registry) {
	w, err := watch.New(o.netlistPath, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := w.Start(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	for {
		select {
		case nl := <-w.Updates():
			if err := dispatch(nl, reg, command, o.positional, o.waypoints, o.avoid); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			}
		case err := <-w.Errors():
			fmt.Fprintf(os.Stderr, "reload error: %v\n", err)
		}
	}
}

// dispatch runs one command against nl, recording it and the number of
// vertices the path engine visited serving it in reg.
func dispatch(nl *netlist.Netlist, reg *metrics.Registry, command string, positional, waypoints, avoid []string) error {
	reg.ObserveQuery(command)
	before := nl.VerticesVisited()
	defer func() {
		reg.VerticesVisited.Add(float64(nl.VerticesVisited() - before))
	}()
	switch command {
	case "exists":
		if len(positional) != 2 {
			return fmt.Errorf("exists requires <start> <end>")
		}
		ok, err := nl.PathExists(positional[0], positional[1], netlist.Waypoints(waypoints), avoid)
		if err != nil {
			return err
		}
		fmt.Println(ok)
		return nil
	case "any":
		if len(positional) != 2 {
			return fmt.Errorf("any requires <start> <end>")
		}
		path, err := nl.AnyPath(positional[0], positional[1], netlist.Waypoints(waypoints), avoid)
		if err != nil {
			return err
		}
		if path == nil {
			fmt.Println("no path found")
			return nil
		}
		fmt.Println(strings.Join(path, " -> "))
		return nil
	case "all":
		if len(positional) != 2 {
			return fmt.Errorf("all requires <start> <end>")
		}
		paths, err := nl.AllPaths(positional[0], positional[1], netlist.Waypoints(waypoints), avoid)
		if err != nil {
			return err
		}
		for _, p := range paths {
			fmt.Println(strings.Join(p, " -> "))
		}
		return nil
	case "fanout":
		if len(positional) != 1 {
			return fmt.Errorf("fanout requires <start>")
		}
		paths, err := nl.AllFanOut(positional[0], avoid)
		if err != nil {
			return err
		}
		for _, p := range paths {
			fmt.Println(strings.Join(p, " -> "))
		}
		return nil
	case "fanin":
		if len(positional) != 1 {
			return fmt.Errorf("fanin requires <end>")
		}
		paths, err := nl.AllFanIn(positional[0], avoid)
		if err != nil {
			return err
		}
		for _, p := range paths {
			fmt.Println(strings.Join(p, " -> "))
		}
		return nil
	case "dot":
		return nl.DumpDot(os.Stdout)
	case "lint":
		result, err := nl.Lint()
		if err != nil {
			return err
		}
		for _, v := range result.Violations {
			fmt.Printf("%s [%s] %s\n", v.Rule, v.Severity, v.Message)
		}
		fmt.Printf("%d violations (%d errors, %d warnings)\n", result.Summary.TotalViolations, result.Summary.Errors, result.Summary.Warnings)
		if result.Summary.Errors > 0 {
			os.Exit(1)
		}
		return nil
	default:
		return fmt.Errorf("unknown command %q", command)
	}
}
