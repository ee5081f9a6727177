package source

import (
	"sync"

	git "github.com/go-git/go-git/v5"
	"github.com/hashicorp/go-hclog"
)

// A TreeMngr manages the git checkout that holds the recipe tree.
type TreeMngr struct {
	l    hclog.Logger
	Path string
	URL  string
	Mu   *sync.Mutex
	repo *git.Repository
}
