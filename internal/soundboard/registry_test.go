package soundboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEmoji(t *testing.T) {
	ref, err := ParseEmoji(" 🐶 ")
	require.NoError(t, err)
	assert.Equal(t, StandardEmoji("🐶"), ref)
	assert.Equal(t, "🐶", ref.Key())
	assert.Equal(t, "🐶", ref.APIName())

	ref, err = ParseEmoji("<:pepega:123456789>")
	require.NoError(t, err)
	assert.Equal(t, Custom, ref.Kind)
	assert.Equal(t, "123456789", ref.Key())
	assert.Equal(t, "pepega:123456789", ref.APIName())

	ref, err = ParseEmoji("<a:dance:42>")
	require.NoError(t, err)
	assert.True(t, ref.Animated)
	assert.Equal(t, "42", ref.Key())

	_, err = ParseEmoji("   ")
	assert.ErrorIs(t, err, ErrInvalidEmoji)

	// malformed wrapper stays a plain glyph string
	ref, err = ParseEmoji("<:broken>")
	require.NoError(t, err)
	assert.Equal(t, Standard, ref.Kind)
}

func TestEmojiEqual(t *testing.T) {
	assert.True(t, CustomEmoji("old", "1").Equal(CustomEmoji("new", "1")))
	assert.False(t, CustomEmoji("x", "1").Equal(CustomEmoji("x", "2")))
	assert.True(t, StandardEmoji("⏹️").Equal(StandardEmoji("⏹")))
	assert.False(t, StandardEmoji("1").Equal(CustomEmoji("", "1")))
}

func TestFromKey(t *testing.T) {
	assert.Equal(t, CustomEmoji("", "987"), FromKey("987"))
	assert.Equal(t, StandardEmoji("🐱"), FromKey("🐱"))
}

func TestCreateAndLookup(t *testing.T) {
	r := NewRegistry()
	board, err := r.Create("msg-1", []Pair{
		{Sound: "bark", Emoji: "🐶"},
		{Sound: "meow", Emoji: "🐱"},
		{Sound: "custom", Emoji: "<:blob:555>"},
	})
	require.NoError(t, err)
	require.Len(t, board.Entries, 3)
	assert.Equal(t, "🐶", board.Entries[0].Emoji.Name)
	assert.Equal(t, "🐱", board.Entries[1].Emoji.Name)

	assert.True(t, r.Exists("msg-1"))
	assert.False(t, r.Exists("msg-2"))

	sound, ok := r.Lookup("msg-1", FromReaction("", "🐱"))
	require.True(t, ok)
	assert.Equal(t, "meow", sound)

	sound, ok = r.Lookup("msg-1", FromReaction("555", "blob_renamed"))
	require.True(t, ok)
	assert.Equal(t, "custom", sound)

	_, ok = r.Lookup("msg-1", FromReaction("", "🐸"))
	assert.False(t, ok)
	_, ok = r.Lookup("msg-2", FromReaction("", "🐶"))
	assert.False(t, ok)
}

func TestCreateDeduplicatesEmoji(t *testing.T) {
	r := NewRegistry()
	board, err := r.Create("m", []Pair{
		{Sound: "a", Emoji: "🐶"},
		{Sound: "b", Emoji: "🐱"},
		{Sound: "c", Emoji: "🐶"},
	})
	require.NoError(t, err)
	require.Len(t, board.Entries, 2)
	assert.Equal(t, Entry{Emoji: StandardEmoji("🐶"), Sound: "c"}, board.Entries[0])
}

func TestCreateRejectsEmptyBoard(t *testing.T) {
	r := NewRegistry()
	_, err := r.Create("m", []Pair{{Sound: "", Emoji: "🐶"}, {Sound: "x", Emoji: " "}})
	assert.ErrorIs(t, err, ErrEmptyBoard)
	assert.False(t, r.Exists("m"))
}

func TestSnapshotRestoreRoundTrip(t *testing.T) {
	r := NewRegistry()
	_, err := r.Create("m1", []Pair{{Sound: "bark", Emoji: "🐶"}, {Sound: "blob", Emoji: "<:blob:555>"}})
	require.NoError(t, err)

	snap := r.Snapshot()
	assert.Equal(t, map[string]map[string]string{
		"m1": {"🐶": "bark", "555": "blob"},
	}, snap)

	restored := NewRegistry()
	restored.Restore(snap)
	assert.Equal(t, 1, restored.Len())

	sound, ok := restored.Lookup("m1", FromReaction("555", "blob"))
	require.True(t, ok)
	assert.Equal(t, "blob", sound)
	sound, ok = restored.Lookup("m1", FromReaction("", "🐶"))
	require.True(t, ok)
	assert.Equal(t, "bark", sound)
}

func TestParseDoesNotStore(t *testing.T) {
	entries, err := Parse([]Pair{{Sound: " meow ", Emoji: "🐱"}, {Sound: "blob", Emoji: "<a:blob:42>"}})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "meow", entries[0].Sound)
	assert.Equal(t, "42", entries[1].Emoji.Key())
	assert.True(t, entries[1].Emoji.Animated)

	_, err = Parse(nil)
	assert.ErrorIs(t, err, ErrEmptyBoard)
}
