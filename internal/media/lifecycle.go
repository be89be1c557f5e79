package media

import (
	"log"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// ParseRef extracts the category and filename from a stored media reference.
// References look like /api/images/<category>/<filename> or
// /static/uploads/<category>/<filename>; anything shorter falls back to
// defaultCategory plus the reference's basename.
func ParseRef(ref, defaultCategory string) (category, filename string) {
	parts := strings.Split(ref, "/")

	if len(parts) >= 5 {
		return parts[3], parts[4]
	}

	return defaultCategory, path.Base(ref)
}

type CleanupResult struct {
	Ref string
	Err error
}

// Cleanup removes the files behind the given references, best-effort: a
// failure is logged and recorded but never aborts the caller's operation,
// and a file that is already gone counts as success. The database row is
// the source of truth, not the filesystem.
func Cleanup(uploadsRoot, defaultCategory string, refs ...string) []CleanupResult {
	results := make([]CleanupResult, 0, len(refs))

	for _, ref := range refs {
		if ref == "" {
			continue
		}

		category, filename := ParseRef(ref, defaultCategory)
		target := filepath.Join(uploadsRoot, category, filepath.Base(filename))

		err := os.Remove(target)

		if os.IsNotExist(err) {
			err = nil
		}

		if err != nil {
			log.Printf("media: failed to remove %s: %v", target, err)
		}

		results = append(results, CleanupResult{Ref: ref, Err: err})
	}

	return results
}

// Orphans returns the references present in old but absent from new.
func Orphans(old, new []string) []string {
	keep := make(map[string]struct{}, len(new))

	for _, ref := range new {
		keep[ref] = struct{}{}
	}

	var orphans []string

	for _, ref := range old {
		if _, ok := keep[ref]; !ok {
			orphans = append(orphans, ref)
		}
	}

	return orphans
}
