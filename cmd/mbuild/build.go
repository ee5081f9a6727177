package main

import (
	"flag"
	"fmt"

	"github.com/hashicorp/go-hclog"

	"github.com/mingw-builds/mbuild/pkg/builder"
	"github.com/mingw-builds/mbuild/pkg/checks"
	"github.com/mingw-builds/mbuild/pkg/executor"
	"github.com/mingw-builds/mbuild/pkg/index"
	"github.com/mingw-builds/mbuild/pkg/order"
)

// cmdBuild finds stale recipes, orders them by their dependency
// relation, and drives the builder over the result.
func cmdBuild(l hclog.Logger, args []string) int {
	fs := flag.NewFlagSet("build", flag.ExitOnError)
	cfgPath := fs.String("config", "", "path to a config file")
	root := fs.String("path", "", "recipe file or tree root (overrides config)")
	output := fs.String("output", "", "artifact output directory (overrides config)")
	dryRun := fs.Bool("dry-run", false, "only show which recipes would be built")
	all := fs.Bool("all", false, "build everything, not just stale packages")
	fs.Parse(args)

	cfg, err := loadConfig(*cfgPath)
	if err != nil {
		l.Error("Error loading config", "error", err)
		return 1
	}
	if *root != "" {
		cfg.RecipeRoot = *root
	}
	if *output != "" {
		cfg.OutputDir = *output
	}

	pkgs, closer, err := loadUniverse(l, cfg, cfg.RecipeRoot)
	if err != nil {
		l.Error("Error loading recipes", "error", err)
		return 1
	}
	defer closer()

	todo := pkgs
	if !*all {
		repoIdx, err := loadRepoIndex(l, cfg)
		if err != nil {
			l.Error("Error loading repository index", "error", err)
			return 1
		}
		todo = checks.FindStale(l, pkgs, repoIdx.CurrentVersions(), checks.StaleOptions{})
	}

	depIdx := index.New(l)
	depIdx.AddAll(todo)
	groups := order.Resolve(l, depIdx, todo)

	if *dryRun {
		for _, g := range groups {
			fmt.Println(g.Path)
			for _, name := range g.Names() {
				fmt.Println("    ->", name)
			}
		}
		return 0
	}

	l.Info("Recipes to build", "count", len(groups))
	if len(groups) == 0 {
		return 0
	}

	builder.DoCallbacks()
	b, err := builder.Construct(cfg.Builder)
	if err != nil {
		l.Error("Couldn't initialize builder", "error", err)
		return 1
	}

	exec := executor.New(l, b, depIdx, cfg.OutputDir)
	report, err := exec.Run(groups)
	if err != nil {
		l.Error("Error running builds", "error", err)
		return 1
	}

	printReport(report)
	if report.HasFailures() {
		return 1
	}
	return 0
}

func printReport(report *executor.Report) {
	fmt.Println("All done.")
	if len(report.Failed) == 0 {
		return
	}
	fmt.Println("The following packages failed to build:")
	for _, p := range report.Failed {
		fmt.Println("   ", p.Name)
	}
	if len(report.Skipped) > 0 {
		fmt.Println("As a result, the following packages got skipped:")
		for _, p := range report.Skipped {
			fmt.Println("   ", p.Name)
		}
	}
}
