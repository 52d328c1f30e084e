// Package text holds the string helpers shared by every handler: the
// normal form used for sound names and auto-reply triggers, and the
// splitter that keeps outbound messages under the platform cap.
package text

import "strings"

// MaxMessageLength is the per-message cap used when chunking replies.
// Discord allows 2000 characters; the margin leaves room for mentions
// the platform prepends to replies.
const MaxMessageLength = 1900

// Normalize lowercases s and drops every character that is not an ASCII
// letter or digit.
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9':
			b.WriteByte(c)
		case c >= 'A' && c <= 'Z':
			b.WriteByte(c + ('a' - 'A'))
		}
	}
	return b.String()
}

// Chunk splits s into pieces no longer than MaxMessageLength characters.
// See ChunkN.
func Chunk(s, sep string) []string {
	return ChunkN(s, sep, MaxMessageLength)
}

// ChunkN splits s into pieces of at most limit characters (runes), each as
// long as possible. A piece ends right after the last sep that fits; when
// no sep fits the piece is cut after limit characters. Joining the pieces
// gives back s. An empty s yields no pieces.
func ChunkN(s, sep string, limit int) []string {
	if limit <= 0 {
		return []string{s}
	}

	var chunks []string
	for {
		end, fits := runeOffset(s, limit)
		if fits {
			break
		}
		cut := end
		if sep != "" {
			if idx := strings.LastIndex(s[:end], sep); idx >= 0 && idx+len(sep) <= end {
				cut = idx + len(sep)
			}
		}
		chunks = append(chunks, s[:cut])
		s = s[cut:]
	}
	if s != "" {
		chunks = append(chunks, s)
	}
	return chunks
}

// runeOffset returns the byte offset just past the first n runes of s, and
// whether s has no more than n runes.
func runeOffset(s string, n int) (int, bool) {
	count := 0
	for i := range s {
		if count == n {
			return i, false
		}
		count++
	}
	return len(s), true
}
