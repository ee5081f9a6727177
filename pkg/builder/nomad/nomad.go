// Package nomad builds recipes by dispatching a parameterized batch
// job to a Nomad cluster and waiting for it to finish.  One job runs
// at a time; the executor's sequential contract is preserved by
// blocking until the dispatched job reaches a terminal state.
package nomad

import (
	"errors"
	"path/filepath"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/nomad/api"

	"github.com/mingw-builds/mbuild/pkg/builder"
	"github.com/mingw-builds/mbuild/pkg/types"
)

type nomadBuilder struct {
	l hclog.Logger
	c *api.Client

	// JobID is the parameterized job that wraps the packaging tool
	// on the build hosts.
	JobID string

	pollInterval time.Duration
}

func init() {
	builder.RegisterInitCallback(cb)
}

func cb() {
	builder.RegisterFactory("nomad", New)
}

// New returns a builder that hands builds to Nomad.  Cluster address
// and credentials come from the standard NOMAD_* environment.
func New(l hclog.Logger) (builder.Builder, error) {
	c, err := api.NewClient(api.DefaultConfig())
	if err != nil {
		return nil, err
	}

	x := &nomadBuilder{
		l:            l.Named("nomad"),
		c:            c,
		JobID:        "makepkg",
		pollInterval: 10 * time.Second,
	}
	return x, nil
}

func (n *nomadBuilder) Build(recipePath string, pkgs []*types.Package, outputDir string) ([]string, error) {
	recipePath, err := filepath.Abs(recipePath)
	if err != nil {
		return nil, err
	}

	meta := map[string]string{
		"recipe":     recipePath,
		"output_dir": outputDir,
	}
	if len(pkgs) > 0 {
		meta["base"] = pkgs[0].Base
	}

	res, _, err := n.c.Jobs().Dispatch(n.JobID, meta, nil, nil)
	if err != nil {
		n.l.Warn("Nomad error", "error", err)
		return nil, &builder.BuildError{Recipe: recipePath, Err: err}
	}
	n.l.Debug("Dispatched build", "recipe", recipePath, "eval", res.EvalID, "jid", res.DispatchedJobID)

	if err := n.wait(res.DispatchedJobID); err != nil {
		return nil, &builder.BuildError{Recipe: recipePath, Err: err}
	}

	// The build hosts share the output directory over the network;
	// artifacts appear there the same way a local build would leave
	// them.
	return n.artifacts(pkgs, outputDir), nil
}

// wait polls the dispatched job until it leaves the running states.
func (n *nomadBuilder) wait(jobID string) error {
	for {
		job, _, err := n.c.Jobs().Info(jobID, nil)
		if err != nil {
			return err
		}
		status := ""
		if job.Status != nil {
			status = *job.Status
		}
		switch status {
		case "pending", "running":
			time.Sleep(n.pollInterval)
			continue
		case "dead":
			summary, _, err := n.c.Jobs().Summary(jobID, nil)
			if err != nil {
				return err
			}
			for _, tg := range summary.Summary {
				if tg.Failed > 0 || tg.Lost > 0 {
					return errors.New("build job failed")
				}
			}
			return nil
		default:
			return errors.New("job in unexpected status " + status)
		}
	}
}

func (n *nomadBuilder) artifacts(pkgs []*types.Package, outputDir string) []string {
	var found []string
	for _, p := range pkgs {
		matches, err := filepath.Glob(filepath.Join(outputDir, p.Name+"-"+p.BuildVersion()+"*"))
		if err != nil {
			continue
		}
		found = append(found, matches...)
	}
	return found
}
