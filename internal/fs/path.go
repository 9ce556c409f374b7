package fs

import "path/filepath"

// Resolve turns a candidate emitted by the finder into an absolute path.
// Candidates are usually already prefixed with the search root; relative ones
// are interpreted against the process working directory, which is where the
// finder ran.
func Resolve(candidate string) string {
	if candidate == "" {
		return ""
	}
	if filepath.IsAbs(candidate) {
		return filepath.Clean(candidate)
	}
	abs, err := filepath.Abs(candidate)
	if err != nil {
		return filepath.Clean(candidate)
	}
	return abs
}

// ContainingDir returns the directory that holds path.
func ContainingDir(path string) string {
	return filepath.Dir(Resolve(path))
}
