// Package versions implements numeric-aware comparison of dotted version
// strings such as "1.6.27". Three-component versions are compared through
// semver; anything else falls back to component-wise numeric comparison,
// so "1.10.0" is newer than "1.9.0" and "0.45.1.2" is handled too.
package versions

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
)

var dottedNumeric = regexp.MustCompile(`^\d+(\.\d+)*$`)

// Valid reports whether v is a dotted numeric version string.
func Valid(v string) bool {
	return dottedNumeric.MatchString(v)
}

// Compare returns -1, 0, or 1 depending on whether a is older than, equal
// to, or newer than b.
func Compare(a, b string) int {
	if va, err := semver.StrictNewVersion(a); err == nil {
		if vb, err := semver.StrictNewVersion(b); err == nil {
			return va.Compare(vb)
		}
	}
	return compareDotted(a, b)
}

// Less reports whether a is older than b.
func Less(a, b string) bool {
	return Compare(a, b) < 0
}

// Newer reports whether a is newer than b.
func Newer(a, b string) bool {
	return Compare(a, b) > 0
}

// Max returns the newest version in vs and true, or "" and false when vs
// is empty.
func Max(vs []string) (string, bool) {
	if len(vs) == 0 {
		return "", false
	}
	max := vs[0]
	for _, v := range vs[1:] {
		if Newer(v, max) {
			max = v
		}
	}
	return max, true
}

// ShouldUpdate reports whether latest supersedes current. An empty or
// unparsable current version always yields true so a broken version file
// never blocks an update.
func ShouldUpdate(current, latest string) bool {
	if current == "" {
		return true
	}
	if !Valid(current) || !Valid(latest) {
		return true
	}
	return Newer(latest, current)
}

// compareDotted compares component-wise, padding the shorter version with
// zeros. Non-numeric components count as zero.
func compareDotted(a, b string) int {
	pa := strings.Split(a, ".")
	pb := strings.Split(b, ".")

	n := len(pa)
	if len(pb) > n {
		n = len(pb)
	}

	for i := 0; i < n; i++ {
		var na, nb int
		if i < len(pa) {
			na, _ = strconv.Atoi(pa[i])
		}
		if i < len(pb) {
			nb, _ = strconv.Atoi(pb[i])
		}
		if na != nb {
			if na < nb {
				return -1
			}
			return 1
		}
	}
	return 0
}
