package source

import (
	"sync"

	git "github.com/go-git/go-git/v5"
	gitPlumbing "github.com/go-git/go-git/v5/plumbing"
	"github.com/hashicorp/go-hclog"
)

// New creates a new instance of TreeMngr.
func New(l hclog.Logger) *TreeMngr {
	x := TreeMngr{
		l:  l.Named("git"),
		Mu: new(sync.Mutex),
	}
	return &x
}

// Bootstrap makes the checkout available at Path, cloning from URL if
// it does not exist yet.
func (r *TreeMngr) Bootstrap() error {
	if r.Path == "" {
		r.l.Warn("Error in tree manager, path must be set to bootstrap")
	}
	r.Mu.Lock()
	defer r.Mu.Unlock()

	repo, err := git.PlainOpen(r.Path)
	if err == nil {
		r.repo = repo
		return nil
	}

	if r.URL == "" {
		r.l.Warn("Error in tree manager, url must be set to bootstrap")
	}
	r.l.Debug("Cloning recipe tree", "path", r.Path, "url", r.URL)
	r.repo, err = git.PlainClone(r.Path, false, &git.CloneOptions{URL: r.URL})
	if err != nil {
		r.l.Trace("Error running PlainClone")
		return err
	}
	return nil
}

// At returns the current HEAD hash.
func (r *TreeMngr) At() (string, error) {
	head, err := r.repo.Head()
	if err != nil {
		r.l.Trace("Error getting HEAD")
		return "", err
	}
	return head.Hash().String(), nil
}

// Checkout moves the tree to a particular revision and returns the
// paths that changed relative to the previous position.  The changed
// set lets callers re-parse only the recipes that moved.
func (r *TreeMngr) Checkout(commit string) ([]string, error) {
	if r.repo == nil {
		r.l.Warn("Error in tree manager, repo must be bootstrapped to checkout")
	}
	r.Mu.Lock()
	defer r.Mu.Unlock()

	oldHead, err := r.repo.Head()
	if err != nil {
		r.l.Trace("Error getting old HEAD")
		return nil, err
	}
	oldCommit, err := r.repo.CommitObject(oldHead.Hash())
	if err != nil {
		r.l.Trace("Error getting old CommitObject")
		return nil, err
	}
	r.l.Debug("Attempting to checkout recipe tree", "path", r.Path,
		"old", oldHead.Hash().String(), "new", commit)

	if oldHead.Hash().String() == commit {
		r.l.Trace("Nothing changed in checkout")
		return make([]string, 0), nil
	}

	worktree, err := r.repo.Worktree()
	if err != nil {
		r.l.Trace("Error getting worktree")
		return nil, err
	}
	newHash := gitPlumbing.NewHash(commit)
	if err := worktree.Checkout(&git.CheckoutOptions{Hash: newHash, Force: true}); err != nil {
		r.l.Trace("Error checking out")
		return nil, err
	}

	newCommit, err := r.repo.CommitObject(newHash)
	if err != nil {
		r.l.Trace("Error getting new CommitObject")
		return nil, err
	}
	diff, err := newCommit.Patch(oldCommit)
	if err != nil {
		r.l.Trace("Error getting patch")
		return nil, err
	}
	diffFileStats := diff.Stats()
	changedFiles := make([]string, len(diffFileStats))
	for i := 0; i < len(diffFileStats); i++ {
		r.l.Trace("File was changed in checkout", "path", diffFileStats[i].Name)
		changedFiles[i] = diffFileStats[i].Name
	}
	r.l.Debug("Files were changed in checkout", "count", len(changedFiles))

	return changedFiles, nil
}

// Fetch updates the origin remote.
func (r *TreeMngr) Fetch() error {
	if r.repo == nil {
		r.l.Warn("Error in tree manager, repo must be bootstrapped to fetch")
	}
	r.Mu.Lock()
	defer r.Mu.Unlock()
	r.l.Debug("Fetching origin for recipe tree", "path", r.Path)
	err := r.repo.Fetch(&git.FetchOptions{RemoteName: "origin"})
	if err == git.NoErrAlreadyUpToDate {
		r.l.Trace("Fetch found nothing new")
		return nil
	}
	if err != nil {
		r.l.Trace("Error fetching")
		return err
	}
	return nil
}
