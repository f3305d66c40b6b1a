//go:build unix

package fs

import (
	"io/fs"
	"syscall"
	"time"
)

// accessTime extracts the last-access time from Unix stat data.
// Falls back to the modification time when stat data is unavailable.
func accessTime(info fs.FileInfo) time.Time {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return info.ModTime()
	}
	return time.Unix(stat.Atim.Sec, stat.Atim.Nsec)
}
