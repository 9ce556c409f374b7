//go:build windows

package fs

import (
	"path/filepath"
	"strings"
	"syscall"
)

const fileAttributeHidden = 0x02

// IsHiddenPath reports whether path is marked hidden by Windows file
// attributes or has a dot-prefixed segment.
func IsHiddenPath(path string) bool {
	for _, segment := range strings.Split(filepath.ToSlash(path), "/") {
		if len(segment) > 1 && segment[0] == '.' && segment != ".." {
			return true
		}
	}

	ptr, err := syscall.UTF16PtrFromString(path)
	if err != nil {
		return false
	}
	attrs, err := syscall.GetFileAttributes(ptr)
	if err != nil {
		return false
	}
	return attrs&fileAttributeHidden != 0
}
