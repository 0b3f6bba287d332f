package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"github.com/fastprodman/econoneeds/internal/money"
)

type giveCmd struct{}

func (*giveCmd) Name() string     { return "give" }
func (*giveCmd) Synopsis() string { return "credit a player (admin)" }
func (*giveCmd) Usage() string {
	return `ecoctl -token <admin-token> give <player-uuid> <amount>
`
}
func (*giveCmd) SetFlags(*flag.FlagSet) {}

func (*giveCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	if f.NArg() != 2 {
		return usage(f, "expected <player-uuid> <amount>")
	}

	id, err := parsePlayer(f.Arg(0))
	if err != nil {
		return usage(f, err.Error())
	}

	amount, err := parsePositiveAmount(f.Arg(1))
	if err != nil {
		return usage(f, err.Error())
	}

	b, err := newClient().Credit(ctx, id, amount)
	if err != nil {
		return fail(err)
	}

	fmt.Printf("Gave %s to %s. New balance: %s\n", amount, id, b.Display)

	return subcommands.ExitSuccess
}

type takeCmd struct{}

func (*takeCmd) Name() string     { return "take" }
func (*takeCmd) Synopsis() string { return "debit a player, at most their balance (admin)" }
func (*takeCmd) Usage() string {
	return `ecoctl -token <admin-token> take <player-uuid> <amount>
`
}
func (*takeCmd) SetFlags(*flag.FlagSet) {}

func (*takeCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	if f.NArg() != 2 {
		return usage(f, "expected <player-uuid> <amount>")
	}

	id, err := parsePlayer(f.Arg(0))
	if err != nil {
		return usage(f, err.Error())
	}

	amount, err := parsePositiveAmount(f.Arg(1))
	if err != nil {
		return usage(f, err.Error())
	}

	d, err := newClient().Debit(ctx, id, amount)
	if err != nil {
		return fail(err)
	}

	fmt.Printf("Took %s from %s. New balance: %s\n", d.Taken, id, d.Display)

	return subcommands.ExitSuccess
}

type setCmd struct{}

func (*setCmd) Name() string     { return "set" }
func (*setCmd) Synopsis() string { return "overwrite a player's balance (admin)" }
func (*setCmd) Usage() string {
	return `ecoctl -token <admin-token> set <player-uuid> <amount>
`
}
func (*setCmd) SetFlags(*flag.FlagSet) {}

func (*setCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	if f.NArg() != 2 {
		return usage(f, "expected <player-uuid> <amount>")
	}

	id, err := parsePlayer(f.Arg(0))
	if err != nil {
		return usage(f, err.Error())
	}

	amount, err := money.Parse(f.Arg(1))
	if err != nil || amount.IsNegative() {
		return usage(f, "amount must be a non-negative decimal")
	}

	b, err := newClient().SetBalance(ctx, id, amount)
	if err != nil {
		return fail(err)
	}

	fmt.Printf("Set balance of %s to %s\n", id, b.Display)

	return subcommands.ExitSuccess
}

type checkCmd struct{}

func (*checkCmd) Name() string     { return "check" }
func (*checkCmd) Synopsis() string { return "inspect a player's balance (admin)" }
func (*checkCmd) Usage() string {
	return `ecoctl check <player-uuid>
`
}
func (*checkCmd) SetFlags(*flag.FlagSet) {}

func (*checkCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...any) subcommands.ExitStatus {
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

	fmt.Printf("%s's balance: %s (%s)\n", b.PlayerID, b.Display, b.Balance)

	return subcommands.ExitSuccess
}

type setPriceCmd struct{}

func (*setPriceCmd) Name() string     { return "setprice" }
func (*setPriceCmd) Synopsis() string { return "change an item's sell price (admin)" }
func (*setPriceCmd) Usage() string {
	return `ecoctl -token <admin-token> setprice <item> <price>

  A price of 0 makes the item unsellable.
`
}
func (*setPriceCmd) SetFlags(*flag.FlagSet) {}

func (*setPriceCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	if f.NArg() != 2 {
		return usage(f, "expected <item> <price>")
	}

	price, err := money.Parse(f.Arg(1))
	if err != nil || price.IsNegative() {
		return usage(f, "price must be a non-negative decimal")
	}

	p, err := newClient().SetPrice(ctx, f.Arg(0), price)
	if err != nil {
		return fail(err)
	}

	fmt.Printf("%s now sells for %s\n", p.Item, p.Display)

	return subcommands.ExitSuccess
}

type reloadCmd struct {
	prices   bool
	balances bool
}

func (*reloadCmd) Name() string     { return "reload" }
func (*reloadCmd) Synopsis() string { return "re-read prices and balances from storage (admin)" }
func (*reloadCmd) Usage() string {
	return `ecoctl -token <admin-token> reload [-prices] [-balances]

  Without flags both are reloaded. Pending balance writes are flushed first.
`
}

func (c *reloadCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.prices, "prices", false, "Reload the price catalog.")
	f.BoolVar(&c.balances, "balances", false, "Reload balances.")
}

func (c *reloadCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	all := !c.prices && !c.balances
	cl := newClient()

	if all || c.prices {
		err := cl.ReloadPrices(ctx)
		if err != nil {
			return fail(err)
		}

		fmt.Println("Prices reloaded")
	}

	if all || c.balances {
		err := cl.ReloadBalances(ctx)
		if err != nil {
			return fail(err)
		}

		fmt.Println("Balances reloaded")
	}

	return subcommands.ExitSuccess
}

type saveCmd struct{}

func (*saveCmd) Name() string     { return "save" }
func (*saveCmd) Synopsis() string { return "flush pending balance writes (admin)" }
func (*saveCmd) Usage() string {
	return `ecoctl -token <admin-token> save
`
}
func (*saveCmd) SetFlags(*flag.FlagSet) {}

func (*saveCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	err := newClient().Save(ctx)
	if err != nil {
		return fail(err)
	}

	fmt.Println("Saved")

	return subcommands.ExitSuccess
}
