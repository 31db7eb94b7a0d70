package file

import (
	"path/filepath"
	"regexp"
	"strings"
)

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._\x{0600}-\x{06FF}-]+`)

// SafeName reduces an uploaded filename to a safe basename: path components
// are stripped and characters outside a conservative set are collapsed to
// underscores. Returns an empty string when nothing usable remains.
func SafeName(name string) string {
	base := filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	base = unsafeChars.ReplaceAllString(base, "_")
	base = strings.Trim(base, "._")
	if base == "" || base == "." || base == ".." {
		return ""
	}
	return base
}

// ReplaceExt swaps the extension of path, keeping the directory and stem.
func ReplaceExt(path, ext string) string {
	if path == "" {
		return path
	}
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	dir := filepath.Dir(path)
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return filepath.Join(dir, stem+ext)
}
