// Package autoreply stores the text auto replies: when a message
// normalizes to a known trigger, the bot answers with the stored text.
package autoreply

import (
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/keshon/server-soundboard/internal/text"
)

// ErrEmptyTrigger is returned when a trigger normalizes to nothing.
var ErrEmptyTrigger = errors.New("trigger is empty after normalization")

// ErrEmptyReply is returned for a blank reply text.
var ErrEmptyReply = errors.New("reply is empty")

// Entry is one trigger/reply pair, trigger already normalized.
type Entry struct {
	Trigger string
	Reply   string
}

// Registry maps normalized triggers to replies.
type Registry struct {
	mu      sync.RWMutex
	replies map[string]string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{replies: make(map[string]string)}
}

// Set stores reply, exactly as given, under the normal form of trigger,
// overwriting any earlier reply. It returns the normalized key. A reply of
// only whitespace is rejected.
func (r *Registry) Set(trigger, reply string) (string, error) {
	key := text.Normalize(trigger)
	if key == "" {
		return "", ErrEmptyTrigger
	}
	if strings.TrimSpace(reply) == "" {
		return "", ErrEmptyReply
	}

	r.mu.Lock()
	r.replies[key] = reply
	r.mu.Unlock()
	return key, nil
}

// Remove deletes the reply for trigger. It reports whether one existed.
func (r *Registry) Remove(trigger string) (string, bool) {
	key := text.Normalize(trigger)

	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.replies[key]
	delete(r.replies, key)
	return key, ok
}

// Lookup returns the reply for a message, matching its normal form exactly.
func (r *Registry) Lookup(message string) (string, bool) {
	key := text.Normalize(message)
	if key == "" {
		return "", false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	reply, ok := r.replies[key]
	return reply, ok
}

// List returns every entry sorted by trigger.
func (r *Registry) List() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := make([]Entry, 0, len(r.replies))
	for k, v := range r.replies {
		entries = append(entries, Entry{Trigger: k, Reply: v})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Trigger < entries[j].Trigger })
	return entries
}

// Snapshot returns a copy of the trigger -> reply map.
func (r *Registry) Snapshot() map[string]string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]string, len(r.replies))
	for k, v := range r.replies {
		out[k] = v
	}
	return out
}

// Restore replaces the content with a persisted snapshot. Keys are
// normalized again so a hand-edited save file still matches.
func (r *Registry) Restore(snapshot map[string]string) {
	replies := make(map[string]string, len(snapshot))
	for k, v := range snapshot {
		key := text.Normalize(k)
		if key == "" || v == "" {
			continue
		}
		replies[key] = v
	}

	r.mu.Lock()
	r.replies = replies
	r.mu.Unlock()
}
