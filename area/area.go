package area

import (
	stderrors "errors"
	"os"
	"sync"

	mmap "github.com/edsrzf/mmap-go"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/triblespace/anybytes"
	"github.com/triblespace/anybytes/errors"
)

var (
	ErrClosed        = stderrors.New("area closed")
	ErrFrozen        = stderrors.New("area frozen")
	ErrWriterActive  = stderrors.New("a section writer is already active")
	ErrWriterClosed  = stderrors.New("section writer closed")
	ErrSectionsLive  = stderrors.New("live sections still mapped")
	ErrSectionFrozen = stderrors.New("section already frozen")
)

// ByteArea is a staged allocator over one growable temp file. Reserve
// typed sections through Sections, fill them in place, freeze them into
// immutable handles, then persist or seal the whole file.
type ByteArea struct {
	mu        sync.Mutex
	f         *os.File
	path      string
	size      int64
	live      int
	writer    *SectionWriter
	layout    []SectionDescriptor
	frozen    bool
	persisted bool
	closed    bool
}

type config struct {
	dir     string
	pattern string
}

// Option configures New.
type Option func(*config)

// WithDir places the backing temp file in dir instead of the system
// default. Persist renames the file, so dir should sit on the same
// filesystem as the eventual destination.
func WithDir(dir string) Option {
	return func(c *config) { c.dir = dir }
}

// WithPattern sets the temp file name pattern passed to os.CreateTemp.
func WithPattern(pattern string) Option {
	return func(c *config) { c.pattern = pattern }
}

// New creates an empty area backed by a fresh temp file.
func New(opts ...Option) (*ByteArea, error) {
	cfg := config{pattern: "anybytes-area-*"}
	for _, opt := range opts {
		opt(&cfg)
	}

	f, err := os.CreateTemp(cfg.dir, cfg.pattern)
	if err != nil {
		return nil, errors.IO(errors.OpCreate, cfg.dir, err)
	}

	Logger().Debug("area created", zap.String("path", f.Name()))
	return &ByteArea{f: f, path: f.Name()}, nil
}

// Sections hands out the area's single reservation cursor. A second call
// before Close on the returned writer is a state error.
func (a *ByteArea) Sections() (*SectionWriter, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return nil, errors.State(errors.OpReserve, ErrClosed)
	}
	if a.frozen {
		return nil, errors.State(errors.OpReserve, ErrFrozen)
	}
	if a.writer != nil {
		return nil, errors.State(errors.OpReserve, ErrWriterActive)
	}

	w := &SectionWriter{a: a}
	a.writer = w
	return w, nil
}

// Layout returns the descriptors of every reservation made so far, in
// reservation order.
func (a *ByteArea) Layout() []SectionDescriptor {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]SectionDescriptor, len(a.layout))
	copy(out, a.layout)
	return out
}

// Size returns the current end of the reserved space in bytes.
func (a *ByteArea) Size() int64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.size
}

// Path returns the backing file's current location.
func (a *ByteArea) Path() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.path
}

// Persist flushes the backing file and renames it to path, so it outlives
// the area. The area stays usable; further reservations keep growing the
// persisted file. Rejected once the area is frozen: the backing file of an
// unpersisted frozen area is already gone.
func (a *ByteArea) Persist(path string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return errors.State(errors.OpPersist, ErrClosed)
	}
	if a.frozen {
		return errors.State(errors.OpPersist, ErrFrozen)
	}

	if err := a.f.Sync(); err != nil {
		return errors.IO(errors.OpPersist, a.path, err)
	}
	if err := os.Rename(a.path, path); err != nil {
		return errors.IO(errors.OpPersist, a.path, err)
	}

	Logger().Debug("area persisted", zap.String("from", a.path), zap.String("to", path))
	a.path = path
	a.persisted = true
	return nil
}

// Freeze seals the whole area: it flushes the file, maps it read-only and
// returns the mapping as one immutable handle covering every section and
// the zero padding between them. The area must have no active writer and
// no live sections. Freeze is terminal; it closes the backing file and, if
// the area was never persisted, removes it.
func (a *ByteArea) Freeze() (anybytes.Bytes, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return anybytes.Bytes{}, errors.State(errors.OpFreeze, ErrClosed)
	}
	if a.frozen {
		return anybytes.Bytes{}, errors.State(errors.OpFreeze, ErrFrozen)
	}
	if a.writer != nil {
		return anybytes.Bytes{}, errors.State(errors.OpFreeze, ErrWriterActive)
	}
	if a.live > 0 {
		return anybytes.Bytes{}, errors.State(errors.OpFreeze, ErrSectionsLive)
	}

	if err := a.f.Sync(); err != nil {
		return anybytes.Bytes{}, errors.IO(errors.OpFreeze, a.path, err)
	}

	var out anybytes.Bytes
	if a.size == 0 {
		out = anybytes.Empty()
	} else {
		mm, err := mmap.Map(a.f, mmap.RDONLY, 0)
		if err != nil {
			return anybytes.Bytes{}, errors.IO(errors.OpFreeze, a.path, err)
		}
		out = anybytes.FromRaw(mm, anybytes.NewMapping(mm))
	}

	a.frozen = true
	a.releaseFileLocked()
	Logger().Debug("area frozen", zap.Int64("size", a.size), zap.Bool("persisted", a.persisted))
	return out, nil
}

// Close tears the area down. The backing file is closed and, unless
// persisted, removed. Handles frozen out of the area stay valid: their
// mappings outlive the file. Close is idempotent.
func (a *ByteArea) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return nil
	}
	a.closed = true
	a.writer = nil

	err := a.closeFileLocked()
	Logger().Debug("area closed", zap.String("path", a.path))
	if err != nil {
		return errors.IO(errors.OpClose, a.path, err)
	}
	return nil
}

// releaseFileLocked closes the fd and removes an unpersisted file,
// logging rather than failing: the mapping already taken is what matters.
func (a *ByteArea) releaseFileLocked() {
	if err := a.closeFileLocked(); err != nil {
		Logger().Warn("failed to release area file", zap.String("path", a.path), zap.Error(err))
	}
}

func (a *ByteArea) closeFileLocked() error {
	if a.f == nil {
		return nil
	}
	err := a.f.Close()
	if !a.persisted {
		err = multierr.Append(err, os.Remove(a.path))
	}
	a.f = nil
	return err
}
