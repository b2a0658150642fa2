package mocks

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"github.com/user/vpxconform/pkg/ports"
)

// FileSystem is a mock implementation of ports.FileSystem backed by memory.
type FileSystem struct {
	mu     sync.RWMutex
	files  map[string][]byte
	opens  int
	closes int

	OpenFunc      func(path string) (io.ReadCloser, error)
	WriteFileFunc func(path string, data []byte) error

	// Recorded calls for verification
	OpenCalls []string
}

// NewFileSystem creates a new mock FileSystem.
func NewFileSystem() *FileSystem {
	return &FileSystem{
		files: make(map[string][]byte),
	}
}

// AddFile stores data under path.
func (m *FileSystem) AddFile(path string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[path] = data
}

func (m *FileSystem) Open(path string) (io.ReadCloser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.OpenCalls = append(m.OpenCalls, path)
	if m.OpenFunc != nil {
		return m.OpenFunc(path)
	}
	data, ok := m.files[path]
	if !ok {
		return nil, fmt.Errorf("file not found: %s", path)
	}
	m.opens++
	return &file{Reader: bytes.NewReader(data), fs: m}, nil
}

func (m *FileSystem) WriteFile(path string, data []byte) error {
	if m.WriteFileFunc != nil {
		return m.WriteFileFunc(path, data)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[path] = data
	return nil
}

// GetFile returns the contents of a file (for test verification).
func (m *FileSystem) GetFile(path string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.files[path]
	return data, ok
}

// OpenStreams returns how many opened files have not been closed yet.
func (m *FileSystem) OpenStreams() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.opens - m.closes
}

var _ ports.FileSystem = (*FileSystem)(nil)

type file struct {
	*bytes.Reader
	fs     *FileSystem
	closed bool
}

func (f *file) Close() error {
	if f.closed {
		return nil
	}
	f.closed = true
	f.fs.mu.Lock()
	f.fs.closes++
	f.fs.mu.Unlock()
	return nil
}
