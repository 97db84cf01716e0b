// Command polarflow is a thin CLI wrapper around internal/analyzer: it
// reads a fixture file (see internal/fixture for the JSON shorthand it
// understands, in place of a real parser), runs one analysis, and
// prints the resulting annotations and diagnostics.
//
// Usage:
//
//	polarflow [-debug] [-constraints] [-config <options.yaml>] <fixture.json>
//	polarflow [-debug] [-constraints] -   (read the fixture from stdin)
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/polarflow/polarflow/internal/analyzer"
	"github.com/polarflow/polarflow/internal/config"
	"github.com/polarflow/polarflow/internal/debugdump"
	"github.com/polarflow/polarflow/internal/fixture"
)

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s [-debug] [-constraints] [-config <options.yaml>] <fixture.json|->\n", os.Args[0])
}

func main() {
	defer func() {
		if r := recover(); r != nil {
			if os.Getenv("DEBUG") == "1" {
				panic(r)
			}
			fmt.Fprintf(os.Stderr, "internal error: %v\n", r)
			os.Exit(1)
		}
	}()

	var debug, useConstraints bool
	var configPath, path string
	args := os.Args[1:]
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-debug", "--debug":
			debug = true
		case "-constraints", "--constraints":
			useConstraints = true
		case "-config", "--config":
			if i+1 >= len(args) {
				usage()
				os.Exit(2)
			}
			i++
			configPath = args[i]
		case "-help", "--help", "help":
			usage()
			return
		default:
			if path != "" {
				usage()
				os.Exit(2)
			}
			path = args[i]
		}
	}
	if path == "" {
		usage()
		os.Exit(2)
	}

	opts, err := loadOptions(configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	opts.UseConstraints = opts.UseConstraints || useConstraints

	data, err := readFixture(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	prog, err := fixture.Parse(data)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	a := analyzer.New(analyzer.Options{AnalyzerOptions: opts, Debug: debug})
	res := a.AnalyzeProgram(prog)

	if debug && res.Debug != nil {
		dumpOpts := debugdump.Options{Color: debugdump.DetectColor(os.Stderr)}
		if err := debugdump.Dump(os.Stderr, res.Debug, dumpOpts); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
	}

	printReport(os.Stdout, res)
	if len(res.Diagnostics) != 0 {
		os.Exit(1)
	}
}

func loadOptions(configPath string) (config.AnalyzerOptions, error) {
	if configPath == "" {
		return config.DefaultOptions(), nil
	}
	return config.LoadOptionsFile(configPath)
}

func readFixture(path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return data, nil
}

func printReport(w io.Writer, res analyzer.Result) {
	fmt.Fprintf(w, "analysis %s: %d annotation(s), %d diagnostic(s)\n", res.ID, len(res.Annotations), len(res.Diagnostics))
	for _, a := range res.Annotations {
		fmt.Fprintf(w, "  %s %s %s: %s\n", a.Range.Start, a.Kind, a.Name, a.TypeString)
	}
	for _, d := range res.Diagnostics {
		fmt.Fprintf(w, "  %s error: %s\n", d.Range.Start, d.Message)
	}
}
