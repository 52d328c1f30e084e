// Package coretest builds a core.Service over in-memory collaborators.
package coretest

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/keshon/server-soundboard/internal/chat/chattest"
	"github.com/keshon/server-soundboard/internal/core"
	"github.com/keshon/server-soundboard/internal/sound"
	"github.com/keshon/server-soundboard/internal/storage"
)

// Play is a recorded Player.Play call.
type Play struct {
	GuildID   string
	ChannelID string
	Path      string
}

// Player records calls instead of playing anything.
type Player struct {
	mu      sync.Mutex
	plays   []Play
	stops   []string
	leaves  []string
	StopErr error
}

func (p *Player) Play(guildID, channelID, path string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.plays = append(p.plays, Play{GuildID: guildID, ChannelID: channelID, Path: path})
}

func (p *Player) Stop(guildID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stops = append(p.stops, guildID)
	return p.StopErr
}

func (p *Player) Leave(guildID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.leaves = append(p.leaves, guildID)
}

func (p *Player) Plays() []Play {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Play(nil), p.plays...)
}

func (p *Player) Stops() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.stops...)
}

func (p *Player) Leaves() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.leaves...)
}

// Env is a service wired to fakes, a temp sound directory and a real
// storage file that is flushed synchronously.
type Env struct {
	Service   *core.Service
	Platform  *chattest.Platform
	Player    *Player
	Storage   *storage.Storage
	SoundsDir string
	StatePath string
}

// SyncStore writes every Save straight through.
type SyncStore struct {
	*storage.Storage
}

func (s SyncStore) Save(st storage.State) {
	s.Storage.Save(st)
	s.Storage.Flush()
}

// New creates an Env with the given sound files (empty content).
func New(t testing.TB, sounds ...string) *Env {
	t.Helper()
	dir := t.TempDir()
	soundsDir := filepath.Join(dir, "sounds")
	if err := os.MkdirAll(soundsDir, 0o755); err != nil {
		t.Fatal(err)
	}
	for _, name := range sounds {
		if err := os.WriteFile(filepath.Join(soundsDir, name), nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return NewAt(t, soundsDir, filepath.Join(dir, "state.json"))
}

// NewAt creates an Env over existing paths, loading any saved state.
func NewAt(t testing.TB, soundsDir, statePath string) *Env {
	t.Helper()
	st, err := storage.New(storage.Options{Path: statePath})
	if err != nil {
		t.Fatal(err)
	}

	platform := chattest.New()
	player := &Player{}
	svc := core.New(core.Options{
		Platform:          platform,
		Player:            player,
		Store:             SyncStore{st},
		Sounds:            sound.NewResolver(soundsDir),
		NotificationSound: "hereyougo.ogg",
	})

	return &Env{
		Service:   svc,
		Platform:  platform,
		Player:    player,
		Storage:   st,
		SoundsDir: soundsDir,
		StatePath: statePath,
	}
}

// Reload builds a fresh Env over the same sound directory and state file.
func (e *Env) Reload(t testing.TB) *Env {
	t.Helper()
	return NewAt(t, e.SoundsDir, e.StatePath)
}
