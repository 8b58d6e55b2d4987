//go:build unix

package evaluator

import (
	"io"
	"os"

	"golang.org/x/sys/unix"
)

// fdHandle is a raw descriptor opened by the runtime.
type fdHandle int

func openHandle(path string, mode fileMode) (io.ReadWriteCloser, error) {
	flags := unix.O_RDONLY | unix.O_CLOEXEC
	if mode == modeWrite {
		flags = unix.O_WRONLY | unix.O_CREAT | unix.O_TRUNC | unix.O_CLOEXEC
	}
	for {
		fd, err := unix.Open(path, flags, 0o644)
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return nil, &os.PathError{Op: "open", Path: path, Err: err}
		}
		return fdHandle(fd), nil
	}
}

func (h fdHandle) Read(p []byte) (int, error) {
	for {
		n, err := unix.Read(int(h), p)
		if err == unix.EINTR {
			continue
		}
		if n < 0 {
			n = 0
		}
		return n, err
	}
}

func (h fdHandle) Write(p []byte) (int, error) {
	written := 0
	for written < len(p) {
		n, err := unix.Write(int(h), p[written:])
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return written, err
		}
		written += n
	}
	return written, nil
}

func (h fdHandle) Close() error {
	return unix.Close(int(h))
}

func (h fdHandle) Fd() uintptr {
	return uintptr(h)
}
