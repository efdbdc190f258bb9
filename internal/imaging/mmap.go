package imaging

import (
	"os"

	"golang.org/x/sys/unix"
)

// mmapFile maps the whole file read-only. Used only for files at or
// above api.MmapThreshold, where avoiding a kernel-buffer copy pays for
// the extra syscalls.
func mmapFile(f *os.File) ([]byte, error) {
	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if info.Size() == 0 {
		return nil, nil
	}
	return unix.Mmap(int(f.Fd()), 0, int(info.Size()), unix.PROT_READ, unix.MAP_SHARED)
}

func unmapFile(data []byte) {
	if len(data) == 0 {
		return
	}
	_ = unix.Munmap(data)
}
