package main

import (
	"flag"
	"os"
	"os/signal"

	"github.com/hashicorp/go-hclog"

	"github.com/mingw-builds/mbuild/pkg/index"
	"github.com/mingw-builds/mbuild/pkg/order"
	"github.com/mingw-builds/mbuild/pkg/source"
	"github.com/mingw-builds/mbuild/pkg/web"
)

// cmdServe parses the recipe tree and exposes the universe, the
// resolved plan, and marker management over HTTP.
func cmdServe(l hclog.Logger, args []string) int {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	cfgPath := fs.String("config", "", "path to a config file")
	bind := fs.String("bind", ":8080", "address to serve on")
	fs.Parse(args)

	cfg, err := loadConfig(*cfgPath)
	if err != nil {
		l.Error("Error loading config", "error", err)
		return 1
	}

	var tree *source.TreeMngr
	if cfg.TreeURL != "" {
		tree = source.New(l)
		tree.Path = cfg.RecipeRoot
		tree.URL = cfg.TreeURL
		if err := tree.Bootstrap(); err != nil {
			l.Error("Error bootstrapping recipe tree", "error", err)
			return 1
		}
		if rev, err := tree.At(); err == nil {
			l.Info("Recipe tree ready", "rev", rev)
		}
	}

	pkgs, closer, err := loadUniverse(l, cfg, cfg.RecipeRoot)
	if err != nil {
		l.Error("Error loading recipes", "error", err)
		return 1
	}
	defer closer()

	depIdx := index.New(l)
	depIdx.AddAll(pkgs)
	plan := order.Resolve(l, depIdx, pkgs)

	srv, err := web.New(l)
	if err != nil {
		l.Error("Error initializing webserver", "error", err)
		return 1
	}
	api := web.NewAPI(l, pkgs, plan, cfg.OutputDir)
	if tree != nil {
		api.SetTree(tree)
	}
	srv.Mount("/api/v1", api.HTTPEntry())
	go func() {
		if err := srv.Serve(*bind); err != nil {
			l.Error("Error from webserver", "error", err)
		}
	}()

	stop := make(chan os.Signal, 2)
	signal.Notify(stop, os.Interrupt)
	<-stop

	l.Info("Shutting down")
	return 0
}
