package util

import (
	"fmt"
	"os"
	"syscall"
)

// FileInfo identifies one version of a file on disk.
type FileInfo struct {
	ModTime int64  // Last modification time in nanoseconds
	Size    int64  // File size in bytes
	Inode   uint64 // Inode number; changes when a file is replaced by rename
}

// GetFileInfo retrieves detailed file information, including inode number.
// Supported on Linux and macOS.
func GetFileInfo(filepath string) (*FileInfo, error) {
	stat, err := os.Stat(filepath)
	if err != nil {
		return nil, err
	}

	sysStat, ok := stat.Sys().(*syscall.Stat_t)
	if !ok {
		return nil, fmt.Errorf("failed to get file system information: %s", filepath)
	}

	return &FileInfo{
		ModTime: stat.ModTime().UnixNano(),
		Size:    stat.Size(),
		Inode:   sysStat.Ino,
	}, nil
}

// Same reports whether both describe the same file version.
func (fi *FileInfo) Same(other *FileInfo) bool {
	if fi == nil || other == nil {
		return false
	}
	return *fi == *other
}
