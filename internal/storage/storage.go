// /internal/storage/storage.go
package storage

import (
	"context"
	"errors"
	"os"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog/log"

	"github.com/keshon/server-soundboard/datastore"
)

// ErrDisabled is returned by Raw when no state file is configured.
var ErrDisabled = errors.New("persistence is disabled")

// State is the persisted form of both registries.
type State struct {
	Soundboards map[string]map[string]string `json:"soundboards"`
	AutoReplies map[string]string            `json:"autoReplies"`
}

// EmptyState returns a state with non-nil, empty registries.
func EmptyState() State {
	return State{
		Soundboards: map[string]map[string]string{},
		AutoReplies: map[string]string{},
	}
}

// Options configures a Storage.
type Options struct {
	Path    string          // state file; empty disables persistence
	Backups int             // backup copies to keep
	OnSaved func(err error) // called after every write attempt, may be nil
}

// Stats counts write outcomes since start.
type Stats struct {
	Saved  uint64
	Failed uint64
}

// Storage loads the state once at startup and writes snapshots in the
// background. Save never blocks on disk; when several snapshots queue up
// only the newest is written.
type Storage struct {
	ds      *datastore.DataStore
	onSaved func(error)

	mu      sync.Mutex
	pending *State
	wake    chan struct{}

	writeMu sync.Mutex

	saved  atomic.Uint64
	failed atomic.Uint64
}

// New creates a Storage. With an empty path every operation is a no-op
// and Load returns empty registries.
func New(opts Options) (*Storage, error) {
	s := &Storage{
		onSaved: opts.OnSaved,
		wake:    make(chan struct{}, 1),
	}
	if opts.Path == "" {
		return s, nil
	}

	ds, err := datastore.NewWithConfig(&datastore.Config{
		FilePath:    opts.Path,
		BackupCount: opts.Backups,
	})
	if err != nil {
		return nil, err
	}
	s.ds = ds
	return s, nil
}

// Enabled reports whether a state file is configured.
func (s *Storage) Enabled() bool {
	return s.ds != nil
}

// Load reads the state file. A missing, unreadable or malformed file
// yields empty registries; the error is only logged.
func (s *Storage) Load() State {
	st := EmptyState()
	if s.ds == nil {
		return st
	}

	var loaded State
	if err := s.ds.Load(&loaded); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			log.Info().Str("path", s.ds.Path()).Msg("[Storage] No save file yet, starting empty")
		} else {
			log.Warn().Err(err).Str("path", s.ds.Path()).Msg("[Storage] Failed to load save file, starting empty")
		}
		return st
	}

	if loaded.Soundboards != nil {
		st.Soundboards = loaded.Soundboards
	}
	if loaded.AutoReplies != nil {
		st.AutoReplies = loaded.AutoReplies
	}
	log.Info().
		Int("soundboards", len(st.Soundboards)).
		Int("autoreplies", len(st.AutoReplies)).
		Msg("[Storage] Loaded save state")
	return st
}

// Save queues st for writing and returns immediately.
func (s *Storage) Save(st State) {
	if s.ds == nil {
		return
	}

	s.mu.Lock()
	s.pending = &st
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// Run writes queued snapshots until ctx ends, then flushes what is left.
func (s *Storage) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			s.Flush()
			return nil
		case <-s.wake:
			s.Flush()
		}
	}
}

// Flush writes the newest queued snapshot, if any, synchronously.
func (s *Storage) Flush() {
	if s.ds == nil {
		return
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	st := s.pending
	s.pending = nil
	s.mu.Unlock()

	if st == nil {
		return
	}

	err := s.ds.Save(st)
	if err != nil {
		s.failed.Add(1)
		log.Error().Err(err).Str("path", s.ds.Path()).Msg("[Storage] Failed to write save file")
	} else {
		s.saved.Add(1)
		log.Debug().Str("path", s.ds.Path()).Msg("[Storage] Save file written")
	}

	if s.onSaved != nil {
		s.onSaved(err)
	}
}

// Raw returns the save file content as stored on disk.
func (s *Storage) Raw() ([]byte, error) {
	if s.ds == nil {
		return nil, ErrDisabled
	}
	return s.ds.Read()
}

// Stats returns write counters.
func (s *Storage) Stats() Stats {
	return Stats{Saved: s.saved.Load(), Failed: s.failed.Load()}
}
