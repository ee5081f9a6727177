package main

import (
	"flag"
	"fmt"

	"github.com/hashicorp/go-hclog"

	"github.com/mingw-builds/mbuild/pkg/checks"
	"github.com/mingw-builds/mbuild/pkg/types"
)

// cmdBuildCheck reports packages whose recipe version is ahead of the
// repository.
func cmdBuildCheck(l hclog.Logger, args []string) int {
	fs := flag.NewFlagSet("buildcheck", flag.ExitOnError)
	cfgPath := fs.String("config", "", "path to a config file")
	root := fs.String("path", "", "recipe file or tree root (overrides config)")
	showMissing := fs.Bool("show-missing", false, "show packages not in the repo")
	showVCS := fs.Bool("show-vcs", false, "show VCS packages")
	fs.Parse(args)

	cfg, err := loadConfig(*cfgPath)
	if err != nil {
		l.Error("Error loading config", "error", err)
		return 1
	}
	if *root != "" {
		cfg.RecipeRoot = *root
	}

	pkgs, closer, err := loadUniverse(l, cfg, cfg.RecipeRoot)
	if err != nil {
		l.Error("Error loading recipes", "error", err)
		return 1
	}
	defer closer()

	repoIdx, err := loadRepoIndex(l, cfg)
	if err != nil {
		l.Error("Error loading repository index", "error", err)
		return 1
	}
	current := repoIdx.CurrentVersions()

	stale := checks.FindStale(l, pkgs, current, checks.StaleOptions{
		IncludeMissing: *showMissing,
		IncludeVCS:     *showVCS,
	})
	for _, p := range stale {
		repoVer, ok := current[p.Name]
		if !ok {
			repoVer = "missing"
		}
		fmt.Printf("%-50s local=%-25s db=%-25s %s\n",
			p.Name, p.BuildVersion(), repoVer, p.Origin)
	}
	return 0
}

// cmdUpdateCheck reports packages the upstream distribution carries
// newer versions of.
func cmdUpdateCheck(l hclog.Logger, args []string) int {
	fs := flag.NewFlagSet("updatecheck", flag.ExitOnError)
	cfgPath := fs.String("config", "", "path to a config file")
	all := fs.Bool("all", false, "check all repo packages, not just installed ones")
	fs.Parse(args)

	cfg, err := loadConfig(*cfgPath)
	if err != nil {
		l.Error("Error loading config", "error", err)
		return 1
	}

	repoIdx, err := loadRepoIndex(l, cfg)
	if err != nil {
		l.Error("Error loading repository index", "error", err)
		return 1
	}

	pkgs := repoIdx.All()
	if !*all {
		installed, err := repoIdx.InstalledNames()
		if err != nil {
			l.Error("Error listing installed packages", "error", err)
			return 1
		}
		kept := pkgs[:0]
		for _, p := range pkgs {
			if _, ok := installed[p.Name]; ok {
				kept = append(kept, p)
			}
		}
		pkgs = kept
	}

	uc := checks.NewUpdateChecker(l)
	names := make([]string, 0, len(pkgs))
	for _, p := range pkgs {
		if !checks.ShouldSkipUpstream(p.Name) {
			names = append(names, p.Name)
		}
	}
	l.Info("Fetching upstream versions", "count", len(names))
	upstream := uc.FetchVersions(names)

	fmt.Printf("%-30s %-20s %-20s %s\n", "Name", "Local", "Upstream", "Upstream Package")
	for _, o := range uc.Outdated(pkgs, upstream) {
		fmt.Printf("%-30s %-20s %-20s %s\n", o.Name, o.Local, o.Upstream, o.URL)
	}
	return 0
}

// cmdURLCheck probes every source URL for reachability.
func cmdURLCheck(l hclog.Logger, args []string) int {
	fs := flag.NewFlagSet("urlcheck", flag.ExitOnError)
	cfgPath := fs.String("config", "", "path to a config file")
	root := fs.String("path", "", "recipe file or tree root (overrides config)")
	all := fs.Bool("all", false, "also check recipes absent from the repository")
	fs.Parse(args)

	cfg, err := loadConfig(*cfgPath)
	if err != nil {
		l.Error("Error loading config", "error", err)
		return 1
	}
	if *root != "" {
		cfg.RecipeRoot = *root
	}

	pkgs, closer, err := loadUniverse(l, cfg, cfg.RecipeRoot)
	if err != nil {
		l.Error("Error loading recipes", "error", err)
		return 1
	}
	defer closer()

	if !*all {
		// Recipes with no repository presence are frequently broken
		// in other ways; skip their URLs by default.
		repoIdx, err := loadRepoIndex(l, cfg)
		if err != nil {
			l.Error("Error loading repository index", "error", err)
			return 1
		}
		current := repoIdx.CurrentVersions()
		kept := make([]*types.Package, 0, len(pkgs))
		for _, p := range pkgs {
			if _, ok := current[p.Name]; ok {
				kept = append(kept, p)
			}
		}
		pkgs = kept
	}

	fmt.Println("Checking URLs...")
	broken := checks.NewURLChecker(l).Check(pkgs)
	for _, b := range broken {
		fmt.Printf("\n%s\n   %s\n", b.URL, b.Error)
		for _, r := range b.Recipes {
			fmt.Printf("   %s\n", r)
		}
	}
	if len(broken) > 0 {
		return 1
	}
	return 0
}

// cmdDLLCheck audits installed binaries for DLL references that
// resolve nowhere.
func cmdDLLCheck(l hclog.Logger, args []string) int {
	fs := flag.NewFlagSet("dllcheck", flag.ExitOnError)
	root := fs.String("root", "/mingw64", "installation root to audit")
	fs.Parse(args)

	missing, err := checks.NewDLLChecker(l).Check(*root)
	if err != nil {
		l.Error("Error scanning binaries", "error", err)
		return 1
	}
	for _, m := range missing {
		fmt.Printf("%-60s missing %s\n", m.Binary, m.DLL)
	}
	if len(missing) > 0 {
		return 1
	}
	return 0
}

// cmdCheck reports recipes whose directory name disagrees with their
// declared base.
func cmdCheck(l hclog.Logger, args []string) int {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	cfgPath := fs.String("config", "", "path to a config file")
	root := fs.String("path", "", "recipe file or tree root (overrides config)")
	fs.Parse(args)

	cfg, err := loadConfig(*cfgPath)
	if err != nil {
		l.Error("Error loading config", "error", err)
		return 1
	}
	if *root != "" {
		cfg.RecipeRoot = *root
	}

	pkgs, closer, err := loadUniverse(l, cfg, cfg.RecipeRoot)
	if err != nil {
		l.Error("Error loading recipes", "error", err)
		return 1
	}
	defer closer()

	for _, m := range checks.FindBaseMismatches(pkgs) {
		fmt.Println(m.Recipe, "-->", m.Base)
	}
	return 0
}
