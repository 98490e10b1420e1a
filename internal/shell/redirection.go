package shell

import "os"

// openInput opens path for a segment's `<` redirection: read-only,
// per spec.md §4.4's redirection semantics.
func openInput(path string) (*os.File, error) {
	return os.Open(path)
}

// openOutput opens path for a segment's `>` redirection: create+truncate,
// mode 0644.
func openOutput(path string) (*os.File, error) {
	return os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
}
