package evaluator

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"fortio.org/log"
)

// FileSource reads a File chunk by chunk and ends with End.
type FileSource struct {
	stageLinks
	e    *Evaluator
	file *File
	done bool
}

func (e *Evaluator) newFileSource(f *File) (*FileSource, *Error) {
	if err := e.claim(f, modeRead); err != nil {
		return nil, err
	}
	return &FileSource{e: e, file: f}, nil
}

func (s *FileSource) Type() ObjectType { return STAGE_OBJ }
func (s *FileSource) Inspect() string  { return fmt.Sprintf("<file source %s>", s.file.Path) }

func (s *FileSource) Read() error {
	if s.done {
		return s.downstream.Write(End)
	}
	buf := make([]byte, s.e.Config.ChunkSize)
	s.e.readFile(s.file, buf, func(n int, err error) error {
		if s.done {
			return nil
		}
		if n > 0 {
			return s.downstream.Write(&Bytes{Value: buf[:n]})
		}
		if err != nil && !errors.Is(err, io.EOF) {
			if rerr := s.release(); rerr != nil {
				log.Warnf("release %s: %s", s.file.Path, rerr.Message)
			}
			return newError(IOError, "read %s: %v", s.file.Path, err)
		}
		if err := s.release(); err != nil {
			return err
		}
		return s.downstream.Write(End)
	})
	return nil
}

// release gives the claim back exactly once.
func (s *FileSource) release() *Error {
	if s.done {
		return nil
	}
	s.done = true
	return s.e.release(s.file)
}

// FileSink writes every delivered value to a File.
type FileSink struct {
	stageLinks
	e      *Evaluator
	file   *File
	closed bool
}

func (e *Evaluator) newFileSink(f *File) (*FileSink, *Error) {
	if err := e.claim(f, modeWrite); err != nil {
		return nil, err
	}
	return &FileSink{e: e, file: f}, nil
}

func (s *FileSink) Type() ObjectType { return STAGE_OBJ }
func (s *FileSink) Inspect() string  { return fmt.Sprintf("<file sink %s>", s.file.Path) }

func (s *FileSink) Connect() error {
	return s.upstream.Read()
}

func (s *FileSink) Write(value Object) error {
	if s.closed {
		return nil
	}
	if value == End {
		s.closed = true
		log.LogVf("sink %s finished", s.file.Path)
		if err := s.e.release(s.file); err != nil {
			return err
		}
		return nil
	}
	if value == NULL || isEmptyString(value) {
		s.e.Loop.Defer(s.pull)
		return nil
	}

	s.e.writeFile(s.file, serialize(value), func(err error) error {
		if err != nil {
			s.closed = true
			if rerr := s.e.release(s.file); rerr != nil {
				log.Warnf("release %s: %s", s.file.Path, rerr.Message)
			}
			return newError(IOError, "write %s: %v", s.file.Path, err)
		}
		return s.pull()
	})
	return nil
}

func (s *FileSink) pull() error {
	if s.closed {
		return nil
	}
	return s.upstream.Read()
}

func isEmptyString(obj Object) bool {
	s, ok := obj.(*String)
	return ok && s.Value == ""
}

// serialize writes Bytes verbatim and everything else as one text line.
func serialize(value Object) []byte {
	if b, ok := value.(*Bytes); ok {
		return b.Value
	}
	text := toText(value)
	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	return []byte(text)
}
