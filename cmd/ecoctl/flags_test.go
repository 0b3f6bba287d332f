package main

import (
	"slices"
	"testing"

	"github.com/fastprodman/econoneeds/internal/money"
)

func TestParsePositiveAmount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    money.Amount
		wantErr bool
	}{
		{in: "20", want: money.Units(20)},
		{in: "0.01", want: money.Cents(1)},
		{in: "1234.5", want: money.Cents(123450)},
		{in: "0", wantErr: true},
		{in: "-5", wantErr: true},
		{in: "1.005", wantErr: true},
		{in: "ten", wantErr: true},
	}

	for _, tt := range tests {
		got, err := parsePositiveAmount(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("%q: expected error, got %s", tt.in, got)
			}

			continue
		}

		if err != nil || got != tt.want {
			t.Fatalf("%q: got %s, %v; want %s", tt.in, got, err, tt.want)
		}
	}
}

func TestParseQuantityAndPlayer(t *testing.T) {
	t.Parallel()

	q, err := parseQuantity("64")
	if err != nil || q != 64 {
		t.Fatalf("quantity: %d, %v", q, err)
	}

	for _, bad := range []string{"0", "-1", "1.5", ""} {
		_, err = parseQuantity(bad)
		if err == nil {
			t.Fatalf("quantity %q should be rejected", bad)
		}
	}

	_, err = parsePlayer("Notch")
	if err == nil {
		t.Fatal("display names are not accepted")
	}

	_, err = parsePlayer("069a79f4-44e9-4726-a5be-fca90e38aaf5")
	if err != nil {
		t.Fatalf("uuid: %v", err)
	}
}

func TestSubcommandNames(t *testing.T) {
	t.Parallel()

	names := subcommandNames()

	for _, want := range []string{"bal", "balance", "pay", "send", "top", "give", "take", "set", "check", "sell", "prices", "setprice", "reload", "save"} {
		if !slices.Contains(names, want) {
			t.Fatalf("missing subcommand %q in %v", want, names)
		}
	}
}
