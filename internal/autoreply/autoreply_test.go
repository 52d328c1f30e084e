package autoreply

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestSetAndLookup(t *testing.T) {
	r := NewRegistry()
	key, err := r.Set("Good Morning!", " hello there ")
	require.NoError(t, err)
	assert.Equal(t, "goodmorning", key)

	reply, ok := r.Lookup("good-morning")
	require.True(t, ok)
	assert.Equal(t, " hello there ", reply, "replies are stored verbatim")

	_, ok = r.Lookup("good morning everyone")
	assert.False(t, ok)
}

func TestSetOverwrites(t *testing.T) {
	r := NewRegistry()
	_, err := r.Set("x", "a")
	require.NoError(t, err)
	_, err = r.Set("X!", "b")
	require.NoError(t, err)

	assert.Equal(t, []Entry{{Trigger: "x", Reply: "b"}}, r.List())
}

func TestSetRejectsEmpty(t *testing.T) {
	r := NewRegistry()
	_, err := r.Set("!!!", "a")
	assert.ErrorIs(t, err, ErrEmptyTrigger)
	_, err = r.Set("x", "  ")
	assert.ErrorIs(t, err, ErrEmptyReply)
	assert.Empty(t, r.List())
}

func TestRemove(t *testing.T) {
	r := NewRegistry()
	_, _ = r.Set("trigger", "reply")

	key, ok := r.Remove("TRIGGER")
	assert.True(t, ok)
	assert.Equal(t, "trigger", key)

	_, ok = r.Lookup("trigger")
	assert.False(t, ok)

	_, ok = r.Remove("trigger")
	assert.False(t, ok)
}

func TestListSorted(t *testing.T) {
	r := NewRegistry()
	_, _ = r.Set("b", "2")
	_, _ = r.Set("a", "1")
	assert.Equal(t, []Entry{{"a", "1"}, {"b", "2"}}, r.List())
}

func TestRestoreNormalizesKeys(t *testing.T) {
	r := NewRegistry()
	r.Restore(map[string]string{"Hi There": "yo", "": "skip", "x": ""})
	assert.Equal(t, map[string]string{"hithere": "yo"}, r.Snapshot())
}

func TestLookupMatchesAnySpellingOfTrigger(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		trigger := rapid.StringMatching(`[A-Za-z0-9]{1,10}`).Draw(t, "trigger")
		noise := rapid.StringMatching(`[ !?.,-]{0,4}`).Draw(t, "noise")
		r := NewRegistry()
		if _, err := r.Set(trigger, "reply"); err != nil {
			t.Fatalf("set: %v", err)
		}
		if reply, ok := r.Lookup(noise + trigger + noise); !ok || reply != "reply" {
			t.Fatalf("lookup %q failed", noise+trigger+noise)
		}
	})
}
