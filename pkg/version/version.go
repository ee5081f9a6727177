// Package version implements comparison of package version strings
// in the alpm style: an optional epoch split off by '~', a dotted
// version, and a trailing -release counter.
package version

// Compare returns -1, 0, or 1 as a sorts before, equal to, or after
// b.  Both strings are full build versions of the form
// [epoch~]version-release; epoch and release are optional.
func Compare(a, b string) int {
	ea, va := splitEpoch(a)
	eb, vb := splitEpoch(b)
	if r := rpmvercmp(ea, eb); r != 0 {
		return r
	}

	va, ra := splitRelease(va)
	vb, rb := splitRelease(vb)
	if r := rpmvercmp(va, vb); r != 0 {
		return r
	}

	// Only meaningful when both sides carry a release counter.
	if ra != "" && rb != "" {
		return rpmvercmp(ra, rb)
	}
	return 0
}

// NewerThan reports whether a is strictly newer than b.
func NewerThan(a, b string) bool {
	return Compare(a, b) > 0
}

func splitEpoch(v string) (epoch, rest string) {
	for i := 0; i < len(v); i++ {
		if v[i] == '~' {
			return v[:i], v[i+1:]
		}
		if !isDigit(v[i]) {
			break
		}
	}
	return "0", v
}

func splitRelease(v string) (version, release string) {
	for i := len(v) - 1; i >= 0; i-- {
		if v[i] == '-' {
			return v[:i], v[i+1:]
		}
	}
	return v, ""
}

// rpmvercmp is the segment-wise comparison used by pacman and rpm.
// Runs of digits compare numerically, runs of letters lexically, and
// a numeric segment always sorts after an alphabetic one.  A trailing
// alphabetic remainder makes a version older ("2rc" < "2"), any other
// remainder makes it newer ("1.0.1" > "1.0").
func rpmvercmp(a, b string) int {
	if a == b {
		return 0
	}

	ia, ib := 0, 0
	for ia < len(a) && ib < len(b) {
		for ia < len(a) && !isAlnum(a[ia]) {
			ia++
		}
		for ib < len(b) && !isAlnum(b[ib]) {
			ib++
		}
		if ia >= len(a) || ib >= len(b) {
			break
		}

		numeric := isDigit(a[ia])
		ja, jb := ia, ib
		if numeric {
			for ja < len(a) && isDigit(a[ja]) {
				ja++
			}
			for jb < len(b) && isDigit(b[jb]) {
				jb++
			}
		} else {
			for ja < len(a) && isAlpha(a[ja]) {
				ja++
			}
			for jb < len(b) && isAlpha(b[jb]) {
				jb++
			}
		}

		sb := b[ib:jb]
		if sb == "" {
			// Segment type mismatch; the numeric side wins.
			if numeric {
				return 1
			}
			return -1
		}
		sa := a[ia:ja]

		if numeric {
			sa = trimZeros(sa)
			sb = trimZeros(sb)
			if len(sa) != len(sb) {
				if len(sa) > len(sb) {
					return 1
				}
				return -1
			}
		}
		if sa != sb {
			if sa > sb {
				return 1
			}
			return -1
		}

		ia, ib = ja, jb
	}

	if ia >= len(a) && ib >= len(b) {
		return 0
	}
	if ia >= len(a) {
		if ib < len(b) && isAlpha(b[ib]) {
			return 1
		}
		return -1
	}
	if isAlpha(a[ia]) {
		return -1
	}
	return 1
}

func trimZeros(s string) string {
	for len(s) > 1 && s[0] == '0' {
		s = s[1:]
	}
	return s
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isAlnum(c byte) bool { return isDigit(c) || isAlpha(c) }
