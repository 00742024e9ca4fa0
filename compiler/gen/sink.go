package gen

import (
	"errors"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"sync"

	"golang.org/x/tools/txtar"
)

// Sink receives materialized files. Names are slash separated and
// relative to the results root.
type Sink interface {
	// EnsureDir creates dir if it does not exist yet. The parent of dir
	// has already been ensured. The empty name denotes the results root.
	EnsureDir(dir string) error
	// WriteFile writes data to name, replacing any previous content.
	WriteFile(name string, data []byte) error
}

// ============================================================================
// Directory
// ============================================================================

// DirSink writes files below a directory on disk. Existing files are
// overwritten, never merged.
type DirSink struct {
	Root string
}

// NewDirSink returns a sink rooted at root.
func NewDirSink(root string) *DirSink {
	return &DirSink{Root: root}
}

// EnsureDir implements Sink. The results root is created with its parents;
// any other directory must have an existing parent.
func (s *DirSink) EnsureDir(dir string) error {
	full := s.path(dir)
	if dir == "" || dir == "." {
		if err := os.MkdirAll(full, 0o755); err != nil {
			return NewGenerationError("mkdir", full, "create results root", err)
		}
		return nil
	}
	err := os.Mkdir(full, 0o755)
	if err == nil {
		return nil
	}
	if errors.Is(err, fs.ErrExist) {
		if info, serr := os.Stat(full); serr == nil && info.IsDir() {
			return nil
		}
	}
	return NewGenerationError("mkdir", full, "create directory", err)
}

// WriteFile implements Sink.
func (s *DirSink) WriteFile(name string, data []byte) error {
	full := s.path(name)
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return NewGenerationError("write", full, "write file", err)
	}
	return nil
}

func (s *DirSink) path(name string) string {
	return filepath.Join(s.Root, filepath.FromSlash(name))
}

// ============================================================================
// Archive
// ============================================================================

// ArchiveSink collects files in memory and renders them as a txtar
// archive. It is safe for concurrent use.
type ArchiveSink struct {
	mu    sync.Mutex
	dirs  map[string]bool
	files map[string][]byte
}

// NewArchiveSink returns an empty archive sink.
func NewArchiveSink() *ArchiveSink {
	return &ArchiveSink{
		dirs:  map[string]bool{"": true},
		files: make(map[string][]byte),
	}
}

// EnsureDir implements Sink.
func (s *ArchiveSink) EnsureDir(dir string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if dir == "." {
		dir = ""
	}
	if dir != "" && !s.dirs[parentDir(dir)] {
		return NewGenerationError("mkdir", dir, "parent directory does not exist", fs.ErrNotExist)
	}
	s.dirs[dir] = true
	return nil
}

// WriteFile implements Sink.
func (s *ArchiveSink) WriteFile(name string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.dirs[parentDir(name)] {
		return NewGenerationError("write", name, "parent directory does not exist", fs.ErrNotExist)
	}
	s.files[name] = slices.Clone(data)
	return nil
}

// File returns the content written to name.
func (s *ArchiveSink) File(name string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.files[name]
	return data, ok
}

// Archive returns the collected files sorted by name.
func (s *ArchiveSink) Archive() *txtar.Archive {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.files))
	for name := range s.files {
		names = append(names, name)
	}
	slices.Sort(names)
	a := &txtar.Archive{Files: make([]txtar.File, 0, len(names))}
	for _, name := range names {
		a.Files = append(a.Files, txtar.File{Name: name, Data: s.files[name]})
	}
	return a
}

// Bytes returns the archive in txtar format.
func (s *ArchiveSink) Bytes() []byte {
	return txtar.Format(s.Archive())
}

func parentDir(name string) string {
	dir := path.Dir(name)
	if dir == "." {
		return ""
	}
	return dir
}
