package ingest

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
)

// Source supplies the raw content of one export file.
type Source interface {
	Name() string
	Open() (io.ReadCloser, error)
}

type fileSource struct {
	path string
}

// FileSource reads an export file from the local filesystem.
func FileSource(path string) Source {
	return fileSource{path: path}
}

func (source fileSource) Name() string {
	return filepath.Base(source.path)
}

func (source fileSource) Open() (io.ReadCloser, error) {
	return os.Open(source.path)
}

type bytesSource struct {
	name    string
	content []byte
}

// BytesSource serves an export payload that is already in memory.
func BytesSource(name string, content []byte) Source {
	return bytesSource{name: name, content: content}
}

func (source bytesSource) Name() string {
	return source.name
}

func (source bytesSource) Open() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(source.content)), nil
}
