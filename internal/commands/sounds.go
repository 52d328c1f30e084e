package commands

import (
	"context"
	"strconv"
	"strings"
	"unicode"

	"github.com/keshon/server-soundboard/internal/text"
	"github.com/keshon/server-soundboard/pkg/cmd"
	"github.com/keshon/server-soundboard/pkg/util"
)

const defaultLatest = 10

// ListSounds replies with every sound name, comma separated.
type ListSounds struct{}

func (c *ListSounds) Name() string        { return "list" }
func (c *ListSounds) Description() string { return "List available sounds" }

func (c *ListSounds) Run(ctx context.Context, inv *cmd.Invocation) error {
	mc, err := messageContext(inv)
	if err != nil {
		return err
	}

	names, err := mc.Service.Sounds.List()
	if err != nil {
		return err
	}
	return replyChunks(ctx, mc, text.Chunk(strings.Join(names, ", "), " "), noSounds)
}

// ListLatest replies with the N most recently modified sound files.
type ListLatest struct{}

func (c *ListLatest) Name() string        { return "listlatest" }
func (c *ListLatest) Description() string { return "List the newest sound files" }

func (c *ListLatest) Run(ctx context.Context, inv *cmd.Invocation) error {
	mc, err := messageContext(inv)
	if err != nil {
		return err
	}

	assets, err := mc.Service.Sounds.Latest(latestCount(inv.Rest))
	if err != nil {
		return err
	}

	lines := make([]string, 0, len(assets))
	for _, a := range assets {
		lines = append(lines, util.FormatDateTpl(a.ModTime, "YYYY/MM/DD hh:mm")+" "+a.Name)
	}
	return replyChunks(ctx, mc, text.Chunk(strings.Join(lines, "\n"), "\n"), noSounds)
}

// latestCount reads the digits in s; zero or none means the default.
func latestCount(s string) int {
	digits := strings.Map(func(r rune) rune {
		if r < unicode.MaxASCII && unicode.IsDigit(r) {
			return r
		}
		return -1
	}, s)
	n, err := strconv.Atoi(digits)
	if err != nil || n <= 0 {
		return defaultLatest
	}
	return n
}
