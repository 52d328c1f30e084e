// Package soundboard keeps the reaction-button boards: messages whose
// reactions each play a sound.
package soundboard

import (
	"errors"
	"strings"
	"sync"
)

// ErrEmptyBoard is returned when a board has no usable sound/emoji pair.
var ErrEmptyBoard = errors.New("soundboard has no entries")

// Pair is one sound/emoji pair as typed by the user.
type Pair struct {
	Sound string
	Emoji string
}

// Entry maps one reaction to a sound name.
type Entry struct {
	Emoji EmojiRef
	Sound string
}

// Board is the set of entries attached to one message, in the order the
// reactions are attached.
type Board struct {
	MessageID string
	Entries   []Entry
}

// Lookup returns the sound mapped to emoji.
func (b *Board) Lookup(emoji EmojiRef) (string, bool) {
	for _, e := range b.Entries {
		if e.Emoji.Equal(emoji) {
			return e.Sound, true
		}
	}
	return "", false
}

func (b *Board) set(emoji EmojiRef, sound string) {
	for i := range b.Entries {
		if b.Entries[i].Emoji.Equal(emoji) {
			b.Entries[i].Sound = sound
			return
		}
	}
	b.Entries = append(b.Entries, Entry{Emoji: emoji, Sound: sound})
}

// Registry maps message IDs to boards. Boards are never removed.
type Registry struct {
	mu     sync.RWMutex
	boards map[string]*Board
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{boards: make(map[string]*Board)}
}

// Parse turns typed pairs into board entries. Pairs with an empty sound or
// emoji are skipped; a repeated emoji keeps its first position and its last
// sound.
func Parse(pairs []Pair) ([]Entry, error) {
	board := &Board{}
	for _, p := range pairs {
		sound := strings.TrimSpace(p.Sound)
		if sound == "" {
			continue
		}
		emoji, err := ParseEmoji(p.Emoji)
		if err != nil {
			continue
		}
		board.set(emoji, sound)
	}
	if len(board.Entries) == 0 {
		return nil, ErrEmptyBoard
	}
	return board.Entries, nil
}

// Create parses pairs and stores the board under messageID, replacing any
// previous board for that message.
func (r *Registry) Create(messageID string, pairs []Pair) (*Board, error) {
	entries, err := Parse(pairs)
	if err != nil {
		return nil, err
	}
	board := &Board{MessageID: messageID, Entries: entries}

	r.mu.Lock()
	r.boards[messageID] = board
	r.mu.Unlock()

	return cloneBoard(board), nil
}

// Lookup returns the sound mapped to emoji on the board for messageID.
func (r *Registry) Lookup(messageID string, emoji EmojiRef) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	board, ok := r.boards[messageID]
	if !ok {
		return "", false
	}
	return board.Lookup(emoji)
}

// Exists reports whether messageID carries a board.
func (r *Registry) Exists(messageID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.boards[messageID]
	return ok
}

// Len returns the number of boards.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.boards)
}

// Snapshot returns the persisted form: message ID -> emoji key -> sound.
func (r *Registry) Snapshot() map[string]map[string]string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]map[string]string, len(r.boards))
	for id, b := range r.boards {
		entries := make(map[string]string, len(b.Entries))
		for _, e := range b.Entries {
			entries[e.Emoji.Key()] = e.Sound
		}
		out[id] = entries
	}
	return out
}

// Restore replaces the registry content with a persisted snapshot.
// Entry order is not persisted; restored boards are only used for lookup.
func (r *Registry) Restore(snapshot map[string]map[string]string) {
	boards := make(map[string]*Board, len(snapshot))
	for id, entries := range snapshot {
		b := &Board{MessageID: id}
		for key, sound := range entries {
			if key == "" || sound == "" {
				continue
			}
			b.set(FromKey(key), sound)
		}
		boards[id] = b
	}

	r.mu.Lock()
	r.boards = boards
	r.mu.Unlock()
}

func cloneBoard(b *Board) *Board {
	c := &Board{MessageID: b.MessageID, Entries: make([]Entry, len(b.Entries))}
	copy(c.Entries, b.Entries)
	return c
}
