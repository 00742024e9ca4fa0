package gen

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/vmihailenco/msgpack/v5"
)

// ManifestFile is the name of the manifest in the results root.
const ManifestFile = ".nestgen.manifest"

// Manifest records what one run wrote, so the next run can tell generated
// content from hand edits.
type Manifest struct {
	Version     int               `msgpack:"version"`
	RunID       string            `msgpack:"run_id"`
	GeneratedAt time.Time         `msgpack:"generated_at"`
	Modules     []string          `msgpack:"modules"`
	Files       map[string]string `msgpack:"files"` // name -> sha256
}

const manifestVersion = 1

// NewManifest returns an empty manifest with a fresh run id.
func NewManifest() *Manifest {
	return &Manifest{
		Version: manifestVersion,
		RunID:   uuid.NewString(),
		Files:   make(map[string]string),
	}
}

// LoadManifest reads the manifest at path. A missing file yields nil.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var m Manifest
	if err := msgpack.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode manifest %s: %w", path, err)
	}
	if m.Version != manifestVersion {
		return nil, fmt.Errorf("manifest %s: unsupported version %d", path, m.Version)
	}
	return &m, nil
}

// Encode returns the msgpack encoding of m.
func (m *Manifest) Encode() ([]byte, error) {
	return msgpack.Marshal(m)
}

// Checksum returns the hex sha256 of data.
func Checksum(data []byte) string {
	return fmt.Sprintf("%x", sha256.Sum256(data))
}

// ManifestSink wraps a DirSink. Before overwriting a file recorded by the
// previous run it compares the file on disk with the recorded checksum and
// warns when it was edited by hand. Commit stores the new manifest.
type ManifestSink struct {
	inner *DirSink
	log   logrus.FieldLogger

	mu     sync.Mutex
	prev   *Manifest
	next   *Manifest
	edited []string
}

// NewManifestSink loads the previous manifest below inner.Root. An
// unreadable manifest is logged and ignored.
func NewManifestSink(inner *DirSink, log logrus.FieldLogger) *ManifestSink {
	path := filepath.Join(inner.Root, ManifestFile)
	prev, err := LoadManifest(path)
	if err != nil {
		log.WithError(err).WithField("manifest", path).Warn("ignoring unreadable generation manifest")
		prev = nil
	}
	return &ManifestSink{inner: inner, log: log, prev: prev, next: NewManifest()}
}

// EnsureDir implements Sink.
func (s *ManifestSink) EnsureDir(dir string) error {
	return s.inner.EnsureDir(dir)
}

// WriteFile implements Sink.
func (s *ManifestSink) WriteFile(name string, data []byte) error {
	if s.prev != nil {
		if want, ok := s.prev.Files[name]; ok {
			current, err := os.ReadFile(s.inner.path(name))
			if err == nil && Checksum(current) != want {
				s.log.WithField("file", name).Warn("overwriting file edited since the last generation")
				s.mu.Lock()
				s.edited = append(s.edited, name)
				s.mu.Unlock()
			}
		}
	}
	if err := s.inner.WriteFile(name, data); err != nil {
		return err
	}
	s.mu.Lock()
	s.next.Files[name] = Checksum(data)
	s.mu.Unlock()
	return nil
}

// Edited returns the overwritten files that had been edited by hand.
func (s *ManifestSink) Edited() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := slices.Clone(s.edited)
	slices.Sort(out)
	return out
}

// Commit writes the manifest of this run.
func (s *ManifestSink) Commit(modules []string) error {
	s.mu.Lock()
	s.next.Modules = modules
	s.next.GeneratedAt = time.Now().UTC()
	data, err := s.next.Encode()
	s.mu.Unlock()
	if err != nil {
		return NewGenerationError("manifest", ManifestFile, "encode manifest", err)
	}
	return s.inner.WriteFile(ManifestFile, data)
}
