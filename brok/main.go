package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
	"github.com/hquant/brokerage/cmd"
	"github.com/posener/complete/v2"
)

func main() {
	// Shell completion: exits early when invoked by the completion hook.
	completion := &complete.Command{
		Sub: map[string]*complete.Command{
			"buy":       {},
			"sell":      {},
			"close":     {},
			"positions": {},
			"account":   {},
			"history":   {},
			"markets":   {},
			"reset":     {},
		},
	}
	completion.Complete("brok")

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	cmd.Register(commander)
	commander.Register(subcommands.HelpCommand(), "")
	commander.Register(subcommands.FlagsCommand(), "")

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
