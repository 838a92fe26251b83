package pipeline

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// mimeTypes maps supported image extensions to MIME types.
var mimeTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".bmp":  "image/bmp",
	".webp": "image/webp",
	".tiff": "image/tiff",
}

// IsValidImage reports whether a filename has a supported image extension.
func IsValidImage(filename string) bool {
	_, ok := mimeTypes[strings.ToLower(filepath.Ext(filename))]
	return ok
}

// MIMEType returns the MIME type for a supported image filename, or "" when
// the extension is unsupported.
func MIMEType(filename string) string {
	return mimeTypes[strings.ToLower(filepath.Ext(filename))]
}

// PlannedFile is one file the run will submit for extraction, paired with its
// freshly computed content fingerprint.
type PlannedFile struct {
	Name        string
	Path        string
	Fingerprint string
}

// PlanDirectory lists a receipts directory in lexicographic order and returns
// the supported image files that are new or changed relative to the prior
// fingerprint map. With reprocess set, unchanged files are included too. A
// missing directory is reported and yields an empty plan.
func PlanDirectory(dir string, prior map[string]string, reprocess bool) ([]PlannedFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			slog.Warn("Receipts directory not found", "dir", dir)
			return nil, nil
		}
		return nil, fmt.Errorf("reading receipts directory: %w", err)
	}

	names := make([]string, 0, len(entries))
	byName := make(map[string]os.DirEntry, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
		byName[entry.Name()] = entry
	}
	sort.Strings(names)

	plan := make([]PlannedFile, 0, len(names))
	for _, name := range names {
		if !IsValidImage(name) {
			continue
		}
		entry := byName[name]
		if !entry.Type().IsRegular() {
			continue
		}

		path := filepath.Join(dir, name)
		fingerprint, err := FingerprintFile(path)
		if err != nil {
			slog.Warn("Skipping unreadable file", "file", name, "error", err)
			continue
		}

		// A fingerprint match against prior state is the only skip signal;
		// a known filename with different content is always reprocessed.
		if !reprocess && prior[name] == fingerprint {
			continue
		}

		plan = append(plan, PlannedFile{Name: name, Path: path, Fingerprint: fingerprint})
	}

	return plan, nil
}

// PlanFiles builds a plan from an explicit file list. Missing paths and
// unsupported extensions are reported and skipped; everything else is included
// unconditionally, since naming a file is an implicit request to (re)process it.
func PlanFiles(paths []string) []PlannedFile {
	plan := make([]PlannedFile, 0, len(paths))
	for _, path := range paths {
		name := filepath.Base(path)
		if !IsValidImage(name) {
			slog.Warn("Skipping file with unsupported extension", "file", path)
			continue
		}
		if info, err := os.Stat(path); err != nil || !info.Mode().IsRegular() {
			slog.Warn("Skipping missing file", "file", path)
			continue
		}
		fingerprint, err := FingerprintFile(path)
		if err != nil {
			slog.Warn("Skipping unreadable file", "file", path, "error", err)
			continue
		}
		plan = append(plan, PlannedFile{Name: name, Path: path, Fingerprint: fingerprint})
	}
	return plan
}
