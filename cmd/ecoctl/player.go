package main

import (
	"context"
	"flag"
	"fmt"
	"maps"
	"slices"

	"github.com/google/subcommands"

	"github.com/fastprodman/econoneeds/internal/money"
)

type balCmd struct{}

func (*balCmd) Name() string     { return "bal" }
func (*balCmd) Synopsis() string { return "show a player's balance" }
func (*balCmd) Usage() string {
	return `ecoctl bal <player-uuid>
`
}
func (*balCmd) SetFlags(*flag.FlagSet) {}

func (*balCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	if f.NArg() != 1 {
		return usage(f, "expected <player-uuid>")
	}

	id, err := parsePlayer(f.Arg(0))
	if err != nil {
		return usage(f, err.Error())
	}

	b, err := newClient().Balance(ctx, id)
	if err != nil {
		return fail(err)
	}

	fmt.Printf("Balance: %s\n", b.Display)

	return subcommands.ExitSuccess
}

type payCmd struct{}

func (*payCmd) Name() string     { return "pay" }
func (*payCmd) Synopsis() string { return "transfer money between two players" }
func (*payCmd) Usage() string {
	return `ecoctl pay <from-uuid> <to-uuid> <amount>

  Fails without changing anything when the payer cannot afford amount.
`
}
func (*payCmd) SetFlags(*flag.FlagSet) {}

func (*payCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	if f.NArg() != 3 {
		return usage(f, "expected <from-uuid> <to-uuid> <amount>")
	}

	from, err := parsePlayer(f.Arg(0))
	if err != nil {
		return usage(f, err.Error())
	}

	to, err := parsePlayer(f.Arg(1))
	if err != nil {
		return usage(f, err.Error())
	}

	amount, err := parsePositiveAmount(f.Arg(2))
	if err != nil {
		return usage(f, err.Error())
	}

	r, err := newClient().Transfer(ctx, from, to, amount)
	if err != nil {
		return fail(err)
	}

	fmt.Printf("Sent %s to %s. Payer balance: %s, payee balance: %s\n",
		r.Display, r.To, r.FromBalance, r.ToBalance)

	return subcommands.ExitSuccess
}

type topCmd struct {
	n int
}

func (*topCmd) Name() string     { return "top" }
func (*topCmd) Synopsis() string { return "show the richest players" }
func (*topCmd) Usage() string {
	return `ecoctl top [-n <count>]
`
}

func (c *topCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.n, "n", 10, "Number of players to list (max 100).")
}

func (c *topCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	if c.n < 1 {
		return usage(f, "-n must be positive")
	}

	rows, err := newClient().Leaderboard(ctx, c.n)
	if err != nil {
		return fail(err)
	}

	fmt.Println("=== Top Balances ===")

	for _, r := range rows {
		fmt.Printf("%d. %s: %s\n", r.Rank, r.PlayerID, r.Display)
	}

	return subcommands.ExitSuccess
}

type sellCmd struct{}

func (*sellCmd) Name() string     { return "sell" }
func (*sellCmd) Synopsis() string { return "credit a player for selling items" }
func (*sellCmd) Usage() string {
	return `ecoctl sell <player-uuid> <item> <quantity>

  Credits price(item) x quantity. Remove the items from the player's
  inventory before running this.
`
}
func (*sellCmd) SetFlags(*flag.FlagSet) {}

func (*sellCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	if f.NArg() != 3 {
		return usage(f, "expected <player-uuid> <item> <quantity>")
	}

	id, err := parsePlayer(f.Arg(0))
	if err != nil {
		return usage(f, err.Error())
	}

	q, err := parseQuantity(f.Arg(2))
	if err != nil {
		return usage(f, err.Error())
	}

	s, err := newClient().Sell(ctx, id, f.Arg(1), q)
	if err != nil {
		return fail(err)
	}

	fmt.Printf("Sold %dx %s for %s. New balance: %s\n", s.Quantity, s.Item, s.Display, s.Balance)

	return subcommands.ExitSuccess
}

type pricesCmd struct{}

func (*pricesCmd) Name() string     { return "prices" }
func (*pricesCmd) Synopsis() string { return "list sell prices" }
func (*pricesCmd) Usage() string {
	return `ecoctl prices [item]
`
}
func (*pricesCmd) SetFlags(*flag.FlagSet) {}

func (*pricesCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	c := newClient()

	if f.NArg() == 1 {
		p, err := c.Price(ctx, f.Arg(0))
		if err != nil {
			return fail(err)
		}

		if !p.Sellable {
			fmt.Printf("%s cannot be sold\n", p.Item)

			return subcommands.ExitSuccess
		}

		fmt.Printf("%s: %s\n", p.Item, p.Display)

		return subcommands.ExitSuccess
	}

	all, err := c.Prices(ctx)
	if err != nil {
		return fail(err)
	}

	for _, item := range slices.Sorted(maps.Keys(all)) {
		if all[item] > 0 {
			fmt.Printf("%-20s %s\n", item, money.Format(all[item], money.DefaultCurrency))
		}
	}

	return subcommands.ExitSuccess
}
