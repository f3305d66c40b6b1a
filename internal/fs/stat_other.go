//go:build !unix

package fs

import (
	"io/fs"
	"time"
)

// accessTime approximates the last-access time with the modification time
// on platforms where atime is not exposed through syscall.Stat_t.
func accessTime(info fs.FileInfo) time.Time {
	return info.ModTime()
}
