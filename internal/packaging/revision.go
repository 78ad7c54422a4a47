package packaging

import (
	"os"
	"strconv"
	"strings"
)

// nextRevision returns the revision number the next package of this
// version should use: one past the highest revision already present
// under packageRoot, or 0 for the first deploy. Stray files count too,
// with their extension stripped, so an archived copy of a package can
// never collide with a freshly staged directory.
func nextRevision(packageRoot, prefix string) int {
	if rev, ok := scanRevisions(packageRoot, prefix, false); ok {
		return rev + 1
	}
	return 0
}

// highestPackageDir returns the highest revision for which a package
// directory (not a stray file) exists under packageRoot.
func highestPackageDir(packageRoot, prefix string) (int, bool) {
	return scanRevisions(packageRoot, prefix, true)
}

func scanRevisions(packageRoot, prefix string, dirsOnly bool) (int, bool) {
	entries, err := os.ReadDir(packageRoot)
	if err != nil {
		return 0, false
	}

	highest, found := 0, false
	for _, entry := range entries {
		suffix, ok := strings.CutPrefix(entry.Name(), prefix)
		if !ok {
			continue
		}
		if !entry.IsDir() {
			if dirsOnly {
				continue
			}
			suffix, _, _ = strings.Cut(suffix, ".")
		}
		rev, err := strconv.Atoi(suffix)
		if err != nil || rev < 0 {
			continue
		}
		if !found || rev > highest {
			highest, found = rev, true
		}
	}
	return highest, found
}
