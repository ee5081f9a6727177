// Package recipe reads build recipes from disk and turns them into
// package records.  The recipe format itself is opaque to mbuild; an
// external command dumps it to srcinfo text, which is what actually
// gets parsed here.
package recipe

import (
	"strings"

	"github.com/mingw-builds/mbuild/pkg/types"
)

// ParseSrcInfo parses srcinfo text into the packages it declares.
// One srcinfo can hold several pkgbase sections, each declaring one
// or more pkgname entries; a package record is emitted per pkgname.
// Malformed version fields are carried through as opaque strings,
// validation is not this layer's job.
func ParseSrcInfo(origin, srcinfo string) []*types.Package {
	var pkgs []*types.Package

	var base, ver, rel, epoch string
	var depends, makedepends, sources []string

	for _, line := range strings.Split(srcinfo, "\n") {
		line = strings.TrimSpace(line)

		key, val := splitField(line)
		switch key {
		case "pkgbase":
			base = val
			ver, rel, epoch = "", "", ""
			depends = nil
			makedepends = nil
			sources = nil
		case "pkgver":
			ver = val
		case "pkgrel":
			rel = val
		case "epoch":
			epoch = val
		case "depends":
			depends = append(depends, val)
		case "makedepends":
			makedepends = append(makedepends, val)
		case "source":
			sources = append(sources, val)
		case "pkgname":
			p := &types.Package{
				Name:        val,
				Base:        base,
				Version:     ver,
				Release:     rel,
				Epoch:       epoch,
				Depends:     append([]string(nil), depends...),
				MakeDepends: append([]string(nil), makedepends...),
				Sources:     append([]string(nil), sources...),
				Origin:      origin,
			}
			pkgs = append(pkgs, p)
		}
	}
	return pkgs
}

func splitField(line string) (key, val string) {
	parts := strings.SplitN(line, " = ", 2)
	if len(parts) != 2 {
		return "", ""
	}
	return parts[0], parts[1]
}
