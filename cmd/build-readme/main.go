// cmd/build-readme regenerates README.md from README.md.tmpl and the
// registered text commands.
package main

import (
	"github.com/rs/zerolog/log"

	"github.com/keshon/server-soundboard/internal/commands"
	"github.com/keshon/server-soundboard/internal/docs"
	"github.com/keshon/server-soundboard/pkg/cmd"
)

func main() {
	reg := cmd.NewRegistry()
	commands.Register(reg)

	if err := docs.UpdateReadme(reg, "README.md.tmpl", "README.md"); err != nil {
		log.Fatal().Err(err).Msg("[Docs] Failed to build README")
	}
}
