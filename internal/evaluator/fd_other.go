//go:build !unix

package evaluator

import (
	"io"
	"os"
)

func openHandle(path string, mode fileMode) (io.ReadWriteCloser, error) {
	if mode == modeWrite {
		return os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	}
	return os.Open(path)
}
