package pdf

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/edsrzf/mmap-go"
)

// memoryFilename is the filename reported for memory-backed sources.
const memoryFilename = "memory"

// rawSource is the engine-ready form of an open input: either a path the
// engine reads on its own, or a buffer the session owns outright. A stream
// input is always drained into an owned buffer so the engine never retains
// caller-owned memory beyond the open call.
type rawSource struct {
	path string
	data []byte
	name string
}

func (s rawSource) inMemory() bool {
	return s.path == ""
}

func (s rawSource) reader() io.ReadSeeker {
	return bytes.NewReader(s.data)
}

// resolveSource normalizes an open input into a rawSource. Accepted inputs
// are a filesystem path, a byte slice, or a binary readable+seekable
// stream. A *strings.Reader is a text-backed stream and is rejected before
// any engine work, as is any other value.
func resolveSource(input interface{}, useMmap bool) (rawSource, error) {
	switch src := input.(type) {
	case nil:
		return rawSource{}, &ArgumentError{Msg: "source must not be nil"}

	case string:
		if src == "" {
			return rawSource{}, &ArgumentError{Msg: "source path must not be empty"}
		}
		if useMmap {
			return mapFile(src)
		}
		return rawSource{path: src, name: src}, nil

	case []byte:
		data := make([]byte, len(src))
		copy(data, src)
		return rawSource{data: data, name: memoryFilename}, nil

	case *strings.Reader:
		return rawSource{}, &ArgumentError{Msg: "stream must be binary, readable and seekable"}

	case io.ReadSeeker:
		if _, err := src.Seek(0, io.SeekStart); err != nil {
			return rawSource{}, &PDFError{Msg: fmt.Sprintf("seeking source stream: %v", err), Err: err}
		}
		data, err := io.ReadAll(src)
		if err != nil {
			return rawSource{}, &PDFError{Msg: fmt.Sprintf("reading source stream: %v", err), Err: err}
		}
		return rawSource{data: data, name: memoryFilename}, nil

	default:
		return rawSource{}, &ArgumentError{Msg: fmt.Sprintf("expected path or binary stream, got %T", input)}
	}
}

// mapFile reads a path through a memory map and hands the engine an owned
// copy of the bytes. The mapping is released before returning.
func mapFile(path string) (rawSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return rawSource{}, &PDFError{Msg: err.Error(), Err: err}
	}
	defer f.Close()

	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return rawSource{}, &PDFError{Msg: fmt.Sprintf("mapping %s: %v", path, err), Err: err}
	}
	defer m.Unmap()

	data := make([]byte, len(m))
	copy(data, m)
	return rawSource{data: data, name: path}, nil
}
