package builder

import (
	"github.com/hashicorp/go-hclog"
)

var (
	log hclog.Logger

	initcallbacks []func()

	factories map[string]Factory
)

// A Factory constructs a builder backend.  It takes a single logger
// for early init issues; further configuration comes from the config
// package.
type Factory func(l hclog.Logger) (Builder, error)

func init() {
	factories = make(map[string]Factory)
	log = hclog.L()
}

// SetLogger injects a logger into this package to allow setting up a
// logger tree.
func SetLogger(l hclog.Logger) {
	log = l.Named("builder")
}

// RegisterInitCallback allows a sub pkg to defer initialization until
// after very early init has happened such as loading config files and
// configuring loggers.
func RegisterInitCallback(f func()) {
	initcallbacks = append(initcallbacks, f)
}

// DoCallbacks invokes all callbacks, which register the factories.
func DoCallbacks() {
	for _, cb := range initcallbacks {
		cb()
	}
}

// RegisterFactory blindly stores the factory at the given name.  All
// factories are enabled at build time, so collisions are a
// programming error rather than something to guard against.
func RegisterFactory(name string, f Factory) {
	factories[name] = f
	log.Info("Registered builder", "builder", name)
}

// Construct attempts to initialize the requested builder backend.
func Construct(name string) (Builder, error) {
	f, ok := factories[name]
	if !ok {
		log.Warn("Tried to initialize with bogus builder name", "name", name)
		return nil, NewErrUnknownBuilder(name)
	}
	return f(log)
}
