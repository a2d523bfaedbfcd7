//go:build !windows

package util

import (
	"os"
	"syscall"
)

// CheckHardLink returns the device/inode pair of a regular file and whether
// other names link to it.
func CheckHardLink(fi os.FileInfo) (Devino, bool) {
	st, ok := fi.Sys().(*syscall.Stat_t)
	if !ok {
		return Devino{}, false
	}
	return Devino{
		Dev: uint64(st.Dev), //nolint:unconvert
		Ino: st.Ino,
	}, st.Nlink > 1
}
