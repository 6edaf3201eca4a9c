// Command nodegraphc is a small demo/debug CLI: it parses a fixture
// program, lowers it to a Cfg, runs the optimization pipeline, and prints
// the IR, flat CFG, and engine-node array, colorized the same way the
// teacher CLI reports outcomes.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"

	"nodegraph/internal/fixture"
	"nodegraph/internal/flatten"
	"nodegraph/internal/ir"
	"nodegraph/internal/passes"
	"nodegraph/internal/scope"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: nodegraphc <file.ng>")
		os.Exit(1)
	}

	path := os.Args[1]
	source, err := os.ReadFile(path)
	if err != nil {
		color.Red("failed to read file: %s", err)
		os.Exit(1)
	}

	prog, err := fixture.ParseSource(path, string(source))
	if err != nil {
		color.Red("parse error: %s", err)
		os.Exit(1)
	}

	body := fixture.Lower(prog)
	cfg, diags := scope.BuildFunction(scope.CallbackKind("updateSequential"), body)
	if diags.HasErrors() {
		for _, d := range diags.Errors() {
			color.Red("%s", d.Error())
		}
		os.Exit(1)
	}

	fmt.Println(ir.NewPrinter().Print(cfg))

	rounds, err := passes.DefaultPipeline().Run(cfg)
	if err != nil {
		color.Red("optimization failed: %s", err)
		os.Exit(1)
	}
	color.Green("✅ optimized in %d round(s)", rounds)
	fmt.Println(ir.NewPrinter().Print(cfg))

	flat := flatten.GetFlatCfg(cfg)
	fmt.Println(flat.String())

	finalized, err := flatten.GetEngineNodes(flat)
	if err != nil {
		color.Red("finalization failed: %s", err)
		os.Exit(1)
	}
	color.Green("✅ finalized into %d engine node(s), root %d", len(finalized.Nodes), finalized.Root)
	for i, n := range finalized.Nodes {
		fmt.Printf("  %d: %s\n", i, n.String())
	}
}
