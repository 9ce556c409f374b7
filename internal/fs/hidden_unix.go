//go:build !windows

package fs

import (
	"path/filepath"
	"strings"
)

// IsHiddenPath reports whether any segment of path is a dot-file or
// dot-directory. "." and ".." do not count.
func IsHiddenPath(path string) bool {
	for _, segment := range strings.Split(filepath.ToSlash(path), "/") {
		if isHiddenName(segment) {
			return true
		}
	}
	return false
}

func isHiddenName(name string) bool {
	return len(name) > 1 && name[0] == '.' && name != ".."
}
