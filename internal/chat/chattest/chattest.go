// Package chattest provides an in-memory chat.Platform for tests.
package chattest

import (
	"context"
	"errors"
	"strconv"
	"sync"

	"github.com/keshon/server-soundboard/internal/chat"
)

// ErrUnknownMessage is returned by FetchMessage for messages never stored.
var ErrUnknownMessage = errors.New("unknown message")

// Sent is an outbound message recorded by the fake.
type Sent struct {
	ChannelID string
	ReplyTo   string // empty for plain sends
	Content   string
}

// Reacted is a reaction attached by the bot.
type Reacted struct {
	ChannelID string
	MessageID string
	Emoji     string
}

// Platform records every outbound call. Messages and voice states are set
// up by the test.
type Platform struct {
	mu       sync.Mutex
	nextID   int
	sent     []Sent
	reacted  []Reacted
	messages map[string]*chat.Message
	voice    map[string]string

	// ReactErr, when set, decides the error returned for an emoji.
	ReactErr func(emoji string) error
	// FetchErr makes every FetchMessage fail.
	FetchErr error
}

// New returns an empty fake.
func New() *Platform {
	return &Platform{
		nextID:   1000,
		messages: make(map[string]*chat.Message),
		voice:    make(map[string]string),
	}
}

// SetVoice puts userID in channelID; an empty channel removes the user.
func (p *Platform) SetVoice(guildID, userID, channelID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if channelID == "" {
		delete(p.voice, guildID+"/"+userID)
		return
	}
	p.voice[guildID+"/"+userID] = channelID
}

// AddMessage stores a message for FetchMessage.
func (p *Platform) AddMessage(m *chat.Message) {
	p.mu.Lock()
	defer p.mu.Unlock()
	cp := *m
	p.messages[m.ID] = &cp
}

func (p *Platform) Send(_ context.Context, channelID, content string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.nextID++
	id := strconv.Itoa(p.nextID)
	p.sent = append(p.sent, Sent{ChannelID: channelID, Content: content})
	p.messages[id] = &chat.Message{ID: id, ChannelID: channelID, Content: content, AuthorBot: true}
	return id, nil
}

func (p *Platform) Reply(_ context.Context, channelID, messageID, content string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sent = append(p.sent, Sent{ChannelID: channelID, ReplyTo: messageID, Content: content})
	return nil
}

func (p *Platform) React(_ context.Context, channelID, messageID, emoji string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ReactErr != nil {
		if err := p.ReactErr(emoji); err != nil {
			return err
		}
	}
	p.reacted = append(p.reacted, Reacted{ChannelID: channelID, MessageID: messageID, Emoji: emoji})
	return nil
}

func (p *Platform) FetchMessage(_ context.Context, _, messageID string) (*chat.Message, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.FetchErr != nil {
		return nil, p.FetchErr
	}
	m, ok := p.messages[messageID]
	if !ok {
		return nil, ErrUnknownMessage
	}
	cp := *m
	return &cp, nil
}

func (p *Platform) VoiceChannel(guildID, userID string) (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	ch, ok := p.voice[guildID+"/"+userID]
	return ch, ok
}

// Sent returns a copy of everything sent so far.
func (p *Platform) Sent() []Sent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Sent(nil), p.sent...)
}

// Contents returns the content of everything sent so far.
func (p *Platform) Contents() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.sent))
	for i, s := range p.sent {
		out[i] = s.Content
	}
	return out
}

// Reacted returns a copy of the attached reactions.
func (p *Platform) Reacted() []Reacted {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Reacted(nil), p.reacted...)
}

// Reset forgets recorded sends and reactions.
func (p *Platform) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sent = nil
	p.reacted = nil
}
