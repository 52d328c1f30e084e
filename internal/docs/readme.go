// Package docs renders the command reference into README.md.
package docs

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"text/template"

	"github.com/rs/zerolog/log"

	"github.com/keshon/server-soundboard/pkg/cmd"
)

// CommandSection lists commands in matching order, one bullet each.
func CommandSection(registry *cmd.Registry) string {
	var buf bytes.Buffer
	for _, c := range registry.GetAll() {
		fmt.Fprintf(&buf, "- **`%s`** %s\n", c.Name(), c.Description())
	}
	return buf.String()
}

// Render executes tmpl with the command section available as
// {{.CommandSection}}.
func Render(w io.Writer, tmpl string, registry *cmd.Registry) error {
	t, err := template.New("readme").Parse(tmpl)
	if err != nil {
		return fmt.Errorf("parse template: %w", err)
	}
	data := struct {
		CommandSection string
	}{
		CommandSection: CommandSection(registry),
	}
	return t.Execute(w, data)
}

// UpdateReadme renders tmplPath into outPath.
func UpdateReadme(registry *cmd.Registry, tmplPath, outPath string) error {
	tmpl, err := os.ReadFile(tmplPath)
	if err != nil {
		return err
	}

	var out bytes.Buffer
	if err := Render(&out, string(tmpl), registry); err != nil {
		return err
	}
	if err := os.WriteFile(outPath, out.Bytes(), 0o644); err != nil {
		return err
	}

	log.Info().Str("path", outPath).Msg("[Docs] README updated with current commands")
	return nil
}
