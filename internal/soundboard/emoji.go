package soundboard

import (
	"errors"
	"regexp"
	"strings"
)

// ErrInvalidEmoji is returned for an empty emoji.
var ErrInvalidEmoji = errors.New("invalid emoji")

// EmojiKind tells standard glyphs from custom guild emoji.
type EmojiKind int

const (
	Standard EmojiKind = iota
	Custom
)

// customEmoji matches <:name:id> and the animated <a:name:id>.
var customEmoji = regexp.MustCompile(`^<(a?):([A-Za-z0-9_~]+):(\d+)>$`)

// variationSelector is appended to some glyphs by clients and not by others.
const variationSelector = "\uFE0F"

// EmojiRef identifies a reaction emoji: a standard glyph by name, or a
// guild custom emoji by numeric ID.
type EmojiRef struct {
	Kind     EmojiKind
	Name     string
	ID       string
	Animated bool
}

// StandardEmoji refers to a Unicode glyph.
func StandardEmoji(name string) EmojiRef {
	return EmojiRef{Kind: Standard, Name: name}
}

// CustomEmoji refers to a guild emoji; only id takes part in matching.
func CustomEmoji(name, id string) EmojiRef {
	return EmojiRef{Kind: Custom, Name: name, ID: id}
}

// ParseEmoji reads an emoji as typed in a command: either the raw glyph
// or the <:name:id> form the client produces for custom emoji.
func ParseEmoji(s string) (EmojiRef, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return EmojiRef{}, ErrInvalidEmoji
	}
	if m := customEmoji.FindStringSubmatch(s); m != nil {
		ref := CustomEmoji(m[2], m[3])
		ref.Animated = m[1] == "a"
		return ref, nil
	}
	return StandardEmoji(s), nil
}

// FromReaction builds the ref for an emoji delivered with a reaction event.
func FromReaction(id, name string) EmojiRef {
	if id != "" {
		return CustomEmoji(name, id)
	}
	return StandardEmoji(name)
}

// FromKey rebuilds a ref from its persisted key. Custom emoji are stored
// by ID, which is always numeric; anything else is a glyph.
func FromKey(key string) EmojiRef {
	if isDigits(key) {
		return CustomEmoji("", key)
	}
	return StandardEmoji(key)
}

// Key is the persisted map key: the ID for custom emoji, the glyph otherwise.
func (e EmojiRef) Key() string {
	if e.Kind == Custom {
		return e.ID
	}
	return e.Name
}

// APIName is the form the platform expects when adding a reaction.
func (e EmojiRef) APIName() string {
	if e.Kind == Custom {
		if e.Name == "" {
			return "_:" + e.ID
		}
		return e.Name + ":" + e.ID
	}
	return e.Name
}

// Equal compares refs structurally. Custom emoji match on ID alone since
// the name can be renamed; glyphs match with or without the variation
// selector.
func (e EmojiRef) Equal(o EmojiRef) bool {
	if e.Kind != o.Kind {
		return false
	}
	if e.Kind == Custom {
		return e.ID == o.ID
	}
	return stripVariation(e.Name) == stripVariation(o.Name)
}

func (e EmojiRef) String() string {
	if e.Kind == Custom {
		return "<:" + e.Name + ":" + e.ID + ">"
	}
	return e.Name
}

func stripVariation(s string) string {
	return strings.ReplaceAll(s, variationSelector, "")
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
