// Command ecoctl administers a running ledger service over its HTTP API.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"path"

	"github.com/google/subcommands"
)

func main() {
	handleCompletion(subcommandNames())

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")

	for _, c := range playerCommands {
		commander.Register(c, "player")
	}

	for _, c := range adminCommands {
		commander.Register(c, "admin")
	}

	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	status := commander.Execute(ctx)

	stop()
	os.Exit(int(status))
}

var playerCommands = []subcommands.Command{
	&balCmd{},
	subcommands.Alias("balance", &balCmd{}),
	&payCmd{},
	subcommands.Alias("send", &payCmd{}),
	&topCmd{},
	&sellCmd{},
	&pricesCmd{},
}

var adminCommands = []subcommands.Command{
	&giveCmd{},
	&takeCmd{},
	&setCmd{},
	&checkCmd{},
	&setPriceCmd{},
	&reloadCmd{},
	&saveCmd{},
}

func subcommandNames() []string {
	var names []string

	for _, c := range playerCommands {
		names = append(names, c.Name())
	}

	for _, c := range adminCommands {
		names = append(names, c.Name())
	}

	return names
}
