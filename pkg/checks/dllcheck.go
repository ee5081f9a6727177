package checks

import (
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/hashicorp/go-hclog"
)

// A MissingDLL is one unresolvable shared library reference.
type MissingDLL struct {
	Binary string
	DLL    string
}

// DLLChecker audits the binaries under an installation root for
// shared library references that resolve nowhere.
type DLLChecker struct {
	l hclog.Logger

	workers int

	// SystemDir is where OS-provided libraries live and is treated
	// as always satisfiable.
	SystemDir string
}

// NewDLLChecker returns a checker for the given environment.
func NewDLLChecker(l hclog.Logger) *DLLChecker {
	return &DLLChecker{
		l:         l.Named("dllcheck"),
		workers:   8,
		SystemDir: filepath.Join("C:", string(os.PathSeparator), "Windows", "System32"),
	}
}

// Check scans root's bin directory and reports every DLL reference
// that cannot be found, sorted by binary then DLL.
func (d *DLLChecker) Check(root string) ([]MissingDLL, error) {
	binDir := filepath.Join(root, "bin")
	entries, err := os.ReadDir(binDir)
	if err != nil {
		return nil, err
	}

	fileCh := make(chan string, len(entries))
	for _, e := range entries {
		name := strings.ToLower(e.Name())
		if strings.HasSuffix(name, ".dll") || strings.HasSuffix(name, ".exe") {
			fileCh <- filepath.Join(binDir, e.Name())
		}
	}
	close(fileCh)

	var mu sync.Mutex
	var missing []MissingDLL
	wg := new(sync.WaitGroup)

	for i := 0; i < d.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range fileCh {
				for _, dll := range d.dependencies(path) {
					if d.resolvable(root, dll) {
						continue
					}
					mu.Lock()
					missing = append(missing, MissingDLL{Binary: path, DLL: dll})
					mu.Unlock()
				}
			}
		}()
	}
	wg.Wait()

	sort.Slice(missing, func(i, j int) bool {
		if missing[i].Binary != missing[j].Binary {
			return missing[i].Binary < missing[j].Binary
		}
		return missing[i].DLL < missing[j].DLL
	})
	return missing, nil
}

// dependencies asks objdump for the DLLs a binary imports.  A failed
// run usually means a wrong-architecture binary; those report no
// dependencies rather than an error.
func (d *DLLChecker) dependencies(path string) []string {
	out, err := exec.Command("objdump", "-p", path).Output()
	if err != nil {
		d.l.Debug("objdump failed", "binary", path, "error", err)
		return nil
	}
	return ParseObjdumpDeps(string(out))
}

func (d *DLLChecker) resolvable(root, name string) bool {
	if _, err := os.Stat(filepath.Join(root, "bin", name)); err == nil {
		return true
	}
	if _, err := os.Stat(filepath.Join(d.SystemDir, name)); err == nil {
		return true
	}
	lower := strings.ToLower(name)
	// gdiplus and the msvcr family resolve through OS side-by-side
	// assemblies, not the filesystem paths checked above.
	if lower == "gdiplus.dll" || strings.HasPrefix(lower, "msvcr") {
		return true
	}
	return false
}

// ParseObjdumpDeps extracts the "DLL Name:" entries from objdump -p
// output.
func ParseObjdumpDeps(text string) []string {
	var deps []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "DLL Name:") {
			deps = append(deps, strings.TrimSpace(strings.SplitN(line, ":", 2)[1]))
		}
	}
	return deps
}
