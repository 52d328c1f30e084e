// cmd/cli inspects a save file offline: it prints the stored soundboards
// and auto replies without connecting to Discord.
package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/pflag"

	"github.com/keshon/server-soundboard/internal/autoreply"
	"github.com/keshon/server-soundboard/internal/storage"
)

func main() {
	raw := pflag.Bool("raw", false, "print the file as stored")
	pflag.Usage = func() {
		fmt.Fprintln(os.Stderr, "usage: cli [--raw] <save file>")
		pflag.PrintDefaults()
	}
	pflag.Parse()
	if pflag.NArg() != 1 {
		pflag.Usage()
		os.Exit(2)
	}

	store, err := storage.New(storage.Options{Path: pflag.Arg(0)})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if *raw {
		data, err := store.Raw()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		os.Stdout.Write(data)
		return
	}

	st := store.Load()

	ids := make([]string, 0, len(st.Soundboards))
	for id := range st.Soundboards {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	fmt.Printf("Soundboards: %d\n", len(ids))
	for _, id := range ids {
		fmt.Printf("  %s\n", id)
		board := st.Soundboards[id]
		emojis := make([]string, 0, len(board))
		for e := range board {
			emojis = append(emojis, e)
		}
		sort.Strings(emojis)
		for _, e := range emojis {
			fmt.Printf("    %s -> %s\n", e, board[e])
		}
	}

	replies := autoreply.NewRegistry()
	replies.Restore(st.AutoReplies)
	entries := replies.List()
	fmt.Printf("Auto replies: %d\n", len(entries))
	for _, e := range entries {
		fmt.Printf("  %s -> %s\n", e.Trigger, e.Reply)
	}
}
