package tool

import (
	"errors"
	"regexp"
	"strings"

	"github.com/blang/semver/v4"
)

var ErrVersionMismatch = errors.New("tool version does not satisfy requirement")

var versionPattern = regexp.MustCompile(`v?[0-9]+\.[0-9]+(\.[0-9]+)?`)

// ParseVersion returns the first version-looking token in the output of
// `<tool> --version`, or "" if there is none.
func ParseVersion(lines []string) string {
	for _, line := range lines {
		if v := versionPattern.FindString(line); v != "" {
			return v
		}
	}
	return ""
}

// VersionRequired reports whether version satisfies requirement. An empty
// requirement is always satisfied; an unparseable version never is.
func VersionRequired(requirement, version string) bool {
	if requirement == "" {
		return true
	}
	v, err := semver.ParseTolerant(version)
	if err != nil {
		return false
	}
	r, err := semver.ParseRange(strings.ReplaceAll(requirement, "v", ""))
	if err != nil {
		return false
	}
	return r(v)
}
