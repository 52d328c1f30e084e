// Package session remembers, per guild, the last text and voice channel a
// handler acted on. Handlers use it as the fallback when an event carries
// no usable channel of its own.
package session

import (
	"sort"
	"sync"
)

// Context is the fallback pair for one guild. Empty strings mean unknown.
type Context struct {
	TextChannelID  string
	VoiceChannelID string
}

// Complete reports whether both channels are known.
func (c Context) Complete() bool {
	return c.TextChannelID != "" && c.VoiceChannelID != ""
}

// Tracker holds one Context per guild.
type Tracker struct {
	mu     sync.RWMutex
	guilds map[string]Context
}

// NewTracker returns a tracker with no known channels.
func NewTracker() *Tracker {
	return &Tracker{guilds: make(map[string]Context)}
}

// Get returns the context for guildID; the zero Context when none.
func (t *Tracker) Get(guildID string) Context {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.guilds[guildID]
}

// Update merges the non-empty arguments into the guild's context.
func (t *Tracker) Update(guildID, textChannelID, voiceChannelID string) {
	if textChannelID == "" && voiceChannelID == "" {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	c := t.guilds[guildID]
	if textChannelID != "" {
		c.TextChannelID = textChannelID
	}
	if voiceChannelID != "" {
		c.VoiceChannelID = voiceChannelID
	}
	t.guilds[guildID] = c
}

// Complete returns the guild IDs whose context has both channels, sorted.
func (t *Tracker) Complete() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var ids []string
	for id, c := range t.guilds {
		if c.Complete() {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}
