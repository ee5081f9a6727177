package main

import (
	"fmt"
	"os"

	"github.com/hashicorp/go-hclog"

	"github.com/mingw-builds/mbuild/pkg/builder"
	"github.com/mingw-builds/mbuild/pkg/config"
	"github.com/mingw-builds/mbuild/pkg/storage"

	_ "github.com/mingw-builds/mbuild/pkg/builder/local"
	_ "github.com/mingw-builds/mbuild/pkg/builder/nomad"
	_ "github.com/mingw-builds/mbuild/pkg/storage/bc"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	level := os.Getenv("MBUILD_LOG_LEVEL")
	if level == "" {
		level = "INFO"
	}
	appLogger := hclog.New(&hclog.LoggerOptions{
		Name:  "mbuild",
		Level: hclog.LevelFromString(level),
	})

	if len(args) < 1 {
		usage()
		return 2
	}

	storage.SetLogger(appLogger)
	builder.SetLogger(appLogger)

	switch args[0] {
	case "build":
		return cmdBuild(appLogger, args[1:])
	case "buildcheck":
		return cmdBuildCheck(appLogger, args[1:])
	case "updatecheck":
		return cmdUpdateCheck(appLogger, args[1:])
	case "urlcheck":
		return cmdURLCheck(appLogger, args[1:])
	case "dllcheck":
		return cmdDLLCheck(appLogger, args[1:])
	case "check":
		return cmdCheck(appLogger, args[1:])
	case "serve":
		return cmdServe(appLogger, args[1:])
	default:
		usage()
		return 2
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: mbuild <command> [flags]

commands:
  build        build recipes whose packages are out of date, in dependency order
  buildcheck   report packages whose recipe is newer than the repository
  updatecheck  report packages the upstream distribution has moved past
  urlcheck     probe recipe source URLs for reachability
  dllcheck     audit installed binaries for unresolvable DLL references
  check        report recipes whose directory disagrees with their base
  serve        expose the package universe and build plan over HTTP`)
}

func loadConfig(path string) (*config.Config, error) {
	cfg := config.NewConfig()
	if path == "" {
		return cfg, nil
	}
	if err := cfg.LoadFromFile(path); err != nil {
		return nil, err
	}
	return cfg, nil
}
