package docs

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keshon/server-soundboard/pkg/cmd"
)

type stubCommand struct{ name, desc string }

func (s stubCommand) Name() string        { return s.name }
func (s stubCommand) Description() string { return s.desc }
func (s stubCommand) Run(context.Context, *cmd.Invocation) error { return nil }

func registry() *cmd.Registry {
	reg := cmd.NewRegistry()
	reg.Register(stubCommand{"list", "List sounds"}, cmd.Literal("list"))
	reg.Register(stubCommand{"stop", "Stop playing"}, cmd.Literal("stop"))
	return reg
}

func TestCommandSectionKeepsOrder(t *testing.T) {
	got := CommandSection(registry())
	lines := strings.Split(strings.TrimSpace(got), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "- **`list`** List sounds", lines[0])
	assert.Equal(t, "- **`stop`** Stop playing", lines[1])
}

func TestUpdateReadme(t *testing.T) {
	dir := t.TempDir()
	tmpl := filepath.Join(dir, "README.md.tmpl")
	out := filepath.Join(dir, "README.md")
	require.NoError(t, os.WriteFile(tmpl, []byte("# Bot\n\n{{.CommandSection}}"), 0o644))

	require.NoError(t, UpdateReadme(registry(), tmpl, out))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "# Bot")
	assert.Contains(t, string(data), "**`stop`**")
}

func TestRenderBadTemplate(t *testing.T) {
	var sb strings.Builder
	assert.Error(t, Render(&sb, "{{.Nope", registry()))
}
