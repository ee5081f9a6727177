package repo

import (
	"archive/tar"
	"bufio"
	"bytes"
	"errors"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"

	"github.com/mingw-builds/mbuild/pkg/types"
)

// LoadSyncDB retrieves a sync database for the named repository and
// merges its packages into the index.  The database is a zstd
// compressed tar archive with one desc file per package.
func (is *IndexService) LoadSyncDB(repoName, path string) error {
	var dbBytes []byte
	var err error

	switch {
	case strings.HasPrefix(path, "http"):
		dbBytes, err = is.fetchHTTP(path)
	case strings.HasPrefix(path, "file"):
		dbBytes, err = is.fetchFile(path)
	default:
		err = errors.New("unknown sync DB scheme")
		is.l.Error("Sync DB location must be either file or http(s)")
	}
	if err != nil {
		return err
	}

	pkgs, err := ParseSyncDB(repoName, dbBytes)
	if err != nil {
		return err
	}
	is.addAll(pkgs)
	is.l.Debug("Loaded sync DB", "repo", repoName, "count", len(pkgs))
	return nil
}

func (is *IndexService) fetchHTTP(path string) ([]byte, error) {
	resp, err := http.Get(path)
	if err != nil {
		return nil, err
	}

	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return body, nil
}

func (is *IndexService) fetchFile(path string) ([]byte, error) {
	return os.ReadFile(strings.TrimPrefix(path, "file://"))
}

// ParseSyncDB decodes the archive and extracts name and version from
// every desc entry.
func ParseSyncDB(repoName string, dbBytes []byte) ([]*types.RepoPackage, error) {
	d, err := zstd.NewReader(bytes.NewReader(dbBytes))
	if err != nil {
		return nil, err
	}
	defer d.Close()

	tarchive := tar.NewReader(d)

	var pkgs []*types.RepoPackage
	for {
		header, err := tarchive.Next()
		switch err {
		case nil:
		case io.EOF:
			return pkgs, nil
		default:
			return nil, err
		}

		if header.Typeflag != tar.TypeReg || !strings.HasSuffix(header.Name, "/desc") {
			continue
		}

		buf := &bytes.Buffer{}
		if _, err := buf.ReadFrom(tarchive); err != nil {
			return nil, err
		}
		p := parseDesc(repoName, buf.String())
		if p != nil {
			pkgs = append(pkgs, p)
		}
	}
}

// parseDesc reads the %NAME% and %VERSION% stanzas of one desc file.
func parseDesc(repoName, text string) *types.RepoPackage {
	p := &types.RepoPackage{Repo: repoName}

	s := bufio.NewScanner(strings.NewReader(text))
	field := ""
	for s.Scan() {
		line := strings.TrimSpace(s.Text())
		if line == "" {
			field = ""
			continue
		}
		if strings.HasPrefix(line, "%") && strings.HasSuffix(line, "%") {
			field = line
			continue
		}
		switch field {
		case "%NAME%":
			p.Name = line
		case "%VERSION%":
			p.Version = line
		}
	}

	if p.Name == "" {
		return nil
	}
	return p
}
