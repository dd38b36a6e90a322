// Package semver provides version-identifier ordering for installed versions.
//
// Identifiers are opaque strings to the store, but dotted numeric identifiers
// must sort numerically: "2.0.9" comes before "2.0.42" even though
// lexicographic ordering says otherwise. Unparsable identifiers degrade to
// lexicographic ordering rather than failing.
package semver

import (
	"sort"

	goversion "github.com/hashicorp/go-version"
)

// Less reports whether version a orders before version b.
// Both parse as versions: numeric semantic comparison (pre-release and
// four-component identifiers are handled by go-version). A parsable version
// orders before an unparsable one; two unparsable identifiers compare as
// plain strings.
func Less(a, b string) bool {
	va, errA := goversion.NewVersion(a)
	vb, errB := goversion.NewVersion(b)

	switch {
	case errA == nil && errB == nil:
		if va.Equal(vb) {
			// Stable tie-break for ids that normalize to the same version
			return a < b
		}
		return va.LessThan(vb)
	case errA == nil:
		return true
	case errB == nil:
		return false
	default:
		return a < b
	}
}

// Sort orders version identifiers ascending in place
func Sort(ids []string) {
	sort.SliceStable(ids, func(i, j int) bool {
		return Less(ids[i], ids[j])
	})
}
