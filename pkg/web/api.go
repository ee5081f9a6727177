package web

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/hashicorp/go-hclog"

	"github.com/mingw-builds/mbuild/pkg/executor"
	"github.com/mingw-builds/mbuild/pkg/order"
	"github.com/mingw-builds/mbuild/pkg/types"
)

// A TreeUpdater brings the recipe checkout current and reports which
// paths moved.  Satisfied by source.TreeMngr.
type TreeUpdater interface {
	Fetch() error
	Checkout(rev string) ([]string, error)
}

// API exposes one scheduling run's state: the package universe, the
// resolved plan, and the report once a run has happened.
type API struct {
	l hclog.Logger

	mu        sync.Mutex
	pkgs      map[string]*types.Package
	plan      []order.Group
	report    *executor.Report
	tree      TreeUpdater
	outputDir string
}

// NewAPI returns an API serving the given universe and plan.
func NewAPI(l hclog.Logger, pkgs []*types.Package, plan []order.Group, outputDir string) *API {
	byName := make(map[string]*types.Package, len(pkgs))
	for _, p := range pkgs {
		byName[p.Name] = p
	}
	return &API{
		l:         l.Named("api"),
		pkgs:      byName,
		plan:      plan,
		outputDir: outputDir,
	}
}

// SetReport stores the report from a completed run.
func (a *API) SetReport(r *executor.Report) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.report = r
}

// SetTree enables the tree update endpoint.
func (a *API) SetTree(t TreeUpdater) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.tree = t
}

// HTTPEntry provides the mountpoint for this service into the shared
// webserver routing tree.
func (a *API) HTTPEntry() chi.Router {
	r := chi.NewRouter()

	r.Get("/pkgs", a.httpDumpPkgs)
	r.Get("/pkgs/{pkg}", a.httpDumpPkg)
	r.Get("/plan", a.httpDumpPlan)
	r.Get("/report", a.httpDumpReport)

	r.Post("/recipes/{base}/unfail", a.httpUnfail)
	r.Post("/tree/update", a.httpTreeUpdate)

	return r
}

func (a *API) httpDumpPkgs(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	defer a.mu.Unlock()

	names := make([]string, 0, len(a.pkgs))
	for n := range a.pkgs {
		names = append(names, n)
	}
	writeJSON(w, names)
}

func (a *API) httpDumpPkg(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	defer a.mu.Unlock()

	pkg, ok := a.pkgs[chi.URLParam(r, "pkg")]
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	writeJSON(w, pkg)
}

func (a *API) httpDumpPlan(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make([]struct {
		Path string
		Pkgs []string
	}, len(a.plan))
	for i, g := range a.plan {
		out[i].Path = g.Path
		out[i].Pkgs = g.Names()
	}
	writeJSON(w, out)
}

func (a *API) httpDumpReport(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.report == nil {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	writeJSON(w, a.report)
}

// httpUnfail removes the poison-pill marker for a recipe so the next
// run may attempt it again.
func (a *API) httpUnfail(w http.ResponseWriter, r *http.Request) {
	base := chi.URLParam(r, "base")
	marker := filepath.Join(a.outputDir, base+".failed")
	if err := os.Remove(marker); err != nil {
		a.l.Warn("Unable to remove failure marker", "marker", marker, "error", err)
		w.WriteHeader(http.StatusNotFound)
		return
	}
	a.l.Info("Removed failure marker", "base", base)
	w.WriteHeader(http.StatusNoContent)
}

// httpTreeUpdate fetches the recipe tree's origin and checks out the
// requested revision, returning the recipe paths that changed so
// callers know what to re-parse.
func (a *API) httpTreeUpdate(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	tree := a.tree
	a.mu.Unlock()

	if tree == nil {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	rev := r.URL.Query().Get("rev")
	if rev == "" {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	if err := tree.Fetch(); err != nil {
		a.l.Warn("Error fetching recipe tree", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	changed, err := tree.Checkout(rev)
	if err != nil {
		a.l.Warn("Error checking out recipe tree", "rev", rev, "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	a.l.Info("Recipe tree updated", "rev", rev, "changed", len(changed))
	writeJSON(w, changed)
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(v)
}
