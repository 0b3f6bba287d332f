package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/google/subcommands"
	"github.com/google/uuid"

	"github.com/fastprodman/econoneeds/internal/client"
	"github.com/fastprodman/econoneeds/internal/money"
)

var (
	addr  = flag.String("addr", envOr("ECOCTL_ADDR", "http://localhost:8080"), "Base URL of the ledger API.")
	token = flag.String("token", os.Getenv("ECOCTL_ADMIN_TOKEN"), "Admin token for admin commands.")
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}

func newClient() *client.Client {
	return client.New(*addr, client.WithAdminToken(*token))
}

func parsePlayer(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("player must be a UUID: %q", raw)
	}

	return id, nil
}

func parsePositiveAmount(raw string) (money.Amount, error) {
	a, err := money.Parse(raw)
	if err != nil {
		return 0, err
	}

	if !a.IsPositive() {
		return 0, errors.New("amount must be positive")
	}

	return a, nil
}

func parseQuantity(raw string) (int64, error) {
	q, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || q < 1 {
		return 0, fmt.Errorf("quantity must be a positive integer: %q", raw)
	}

	return q, nil
}

// usage reports a usage error for f's command.
func usage(f *flag.FlagSet, msg string) subcommands.ExitStatus {
	fmt.Fprintf(os.Stderr, "%s: %s\n", f.Name(), msg)

	return subcommands.ExitUsageError
}

// fail reports err and maps it to an exit status.
func fail(err error) subcommands.ExitStatus {
	fmt.Fprintln(os.Stderr, "Error:", err)

	return subcommands.ExitFailure
}
