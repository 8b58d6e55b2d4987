package evaluator

import (
	"errors"
	"fmt"
	"io"

	"fortio.org/log"
	"github.com/mattn/go-isatty"
)

type fileMode int

const (
	modeNone fileMode = iota
	modeRead
	modeWrite
)

func (m fileMode) String() string {
	switch m {
	case modeRead:
		return "read"
	case modeWrite:
		return "write"
	}
	return "none"
}

// File is an OS file shared by every stage that reads or writes it. The
// handle is opened by the first claim and closed when the last claim is
// released, unless the descriptor was handed to us already open.
type File struct {
	Path string

	handle    io.ReadWriteCloser
	mode      fileMode
	refs      int
	autoClose bool
	// sync files do their I/O inline on the loop goroutine.
	sync bool

	// busy is set while an operation runs off-loop; later operations wait
	// in pending so the descriptor sees them in issue order.
	busy    bool
	pending []func()
}

func (f *File) Type() ObjectType { return FILE_OBJ }
func (f *File) Inspect() string  { return fmt.Sprintf("file(%q)", f.Path) }

// IsTerminal reports whether the open descriptor is a terminal.
func (f *File) IsTerminal() bool {
	fd, ok := descriptor(f.handle)
	return ok && (isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd))
}

func newFile(path string) *File {
	return &File{Path: path}
}

// stdHandle adapts process streams. It is never closed.
type stdHandle struct {
	r io.Reader
	w io.Writer
}

func (h *stdHandle) Read(p []byte) (int, error) {
	if h.r == nil {
		return 0, errors.New("not readable")
	}
	return h.r.Read(p)
}

func (h *stdHandle) Write(p []byte) (int, error) {
	if h.w == nil {
		return 0, errors.New("not writable")
	}
	return h.w.Write(p)
}

func (h *stdHandle) Close() error { return nil }

func newStdFile(name string, r io.Reader, w io.Writer, sync bool) *File {
	f := &File{Path: name, handle: &stdHandle{r: r, w: w}, sync: sync}
	if r != nil {
		f.mode = modeRead
	} else {
		f.mode = modeWrite
	}
	return f
}

type fder interface {
	Fd() uintptr
}

func descriptor(h io.ReadWriteCloser) (uintptr, bool) {
	switch h := h.(type) {
	case nil:
		return 0, false
	case *stdHandle:
		if f, ok := h.r.(fder); ok {
			return f.Fd(), true
		}
		if f, ok := h.w.(fder); ok {
			return f.Fd(), true
		}
		return 0, false
	case fder:
		return h.Fd(), true
	}
	return 0, false
}

// claim registers one stage using f in mode, opening it on first use.
func (e *Evaluator) claim(f *File, mode fileMode) *Error {
	if f.mode != modeNone && f.mode != mode {
		if f.mode == modeWrite {
			return newError(RuntimeError, "Write only file: %s", f.Path)
		}
		return newError(RuntimeError, "Read only file: %s", f.Path)
	}
	if f.handle == nil {
		h, err := openHandle(f.Path, mode)
		if err != nil {
			return newError(IOError, "%v", err)
		}
		f.handle = h
		f.autoClose = true
		log.LogVf("open %s for %s", f.Path, mode)
	}
	f.mode = mode
	f.refs++
	e.claims[f]++
	return nil
}

// release drops one claim and closes f when it was the last one.
func (e *Evaluator) release(f *File) *Error {
	if f.refs <= 0 {
		return nil
	}
	f.refs--
	if e.claims[f]--; e.claims[f] <= 0 {
		delete(e.claims, f)
	}
	if f.refs > 0 || !f.autoClose || f.handle == nil {
		return nil
	}
	log.LogVf("close %s", f.Path)
	err := f.handle.Close()
	f.handle = nil
	f.busy = false
	f.pending = nil
	if err != nil {
		return newError(IOError, "%v", err)
	}
	return nil
}

// releaseAll drops every claim taken by this evaluator.
func (e *Evaluator) releaseAll() {
	for f, n := range e.claims {
		f.busy = false
		f.pending = nil
		for i := 0; i < n; i++ {
			if err := e.release(f); err != nil {
				log.Warnf("release %s: %s", f.Path, err.Message)
			}
		}
	}
}

// fileOp runs work against f and delivers its result to then through the
// event loop.
func (e *Evaluator) fileOp(f *File, work func() error, then func(error) error) {
	if f.sync {
		err := work()
		e.Loop.Defer(func() error { return then(err) })
		return
	}
	start := func() {
		f.busy = true
		e.Loop.Go(work, func(err error) error {
			f.busy = false
			if len(f.pending) > 0 {
				next := f.pending[0]
				f.pending = f.pending[1:]
				next()
			}
			return then(err)
		})
	}
	if f.busy {
		f.pending = append(f.pending, start)
		return
	}
	start()
}

func (e *Evaluator) readFile(f *File, buf []byte, then func(n int, err error) error) {
	var n int
	handle := f.handle
	e.fileOp(f, func() error {
		var err error
		n, err = handle.Read(buf)
		return err
	}, func(err error) error {
		return then(n, err)
	})
}

func (e *Evaluator) writeFile(f *File, data []byte, then func(err error) error) {
	handle := f.handle
	e.fileOp(f, func() error {
		_, err := handle.Write(data)
		return err
	}, then)
}
