package money

import (
	"errors"
	"math"
	"testing"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		in      string
		want    Amount
		wantErr error
	}{
		{name: "integer", in: "50", want: 5000},
		{name: "one_decimal", in: "12.5", want: 1250},
		{name: "two_decimals", in: "0.01", want: 1},
		{name: "trailing_zero_beyond_scale", in: "1.230", want: 123},
		{name: "negative", in: "-3.25", want: -325},
		{name: "spaces", in: "  7.00 ", want: 700},
		{name: "too_precise", in: "1.234", wantErr: ErrPrecision},
		{name: "empty", in: "", wantErr: ErrInvalidAmount},
		{name: "garbage", in: "ten", wantErr: ErrInvalidAmount},
		{name: "too_large", in: "100000000000000000000", wantErr: ErrOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Parse(tt.in)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Parse(%q) error = %v, want %v", tt.in, err, tt.wantErr)
				}

				return
			}

			if err != nil {
				t.Fatalf("Parse(%q): %v", tt.in, err)
			}

			if got != tt.want {
				t.Fatalf("Parse(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestAmount_String(t *testing.T) {
	t.Parallel()

	tests := map[Amount]string{
		0:       "0.00",
		1:       "0.01",
		2050:    "20.50",
		-125:    "-1.25",
		1234567: "12345.67",
	}

	for in, want := range tests {
		got := in.String()
		if got != want {
			t.Fatalf("Amount(%d).String() = %q, want %q", in, got, want)
		}
	}
}

func TestAmount_CheckedArithmetic(t *testing.T) {
	t.Parallel()

	sum, ok := Amount(100).Add(250)
	if !ok || sum != 350 {
		t.Fatalf("Add = %d, %v; want 350, true", sum, ok)
	}

	_, ok = Amount(math.MaxInt64).Add(1)
	if ok {
		t.Fatal("Add overflow not detected")
	}

	prod, ok := Units(100).Mul(3)
	if !ok || prod != Units(300) {
		t.Fatalf("Mul = %d, %v; want %d, true", prod, ok, Units(300))
	}

	_, ok = Amount(math.MaxInt64 / 2).Mul(3)
	if ok {
		t.Fatal("Mul overflow not detected")
	}
}

func TestAmount_TextRoundTrip(t *testing.T) {
	t.Parallel()

	b, err := Amount(98765).MarshalText()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var got Amount

	err = got.UnmarshalText(b)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if got != 98765 {
		t.Fatalf("round trip = %d, want 98765", got)
	}
}

func TestFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		amount   Amount
		currency string
		want     string
	}{
		{amount: 0, currency: "USD", want: "$0.00"},
		{amount: 2000, currency: "usd", want: "$20.00"},
		{amount: 123456789, currency: "USD", want: "$1,234,567.89"},
		{amount: 5, currency: "", want: "$0.05"},
		{amount: 5, currency: "NOT-A-CODE", want: "$0.05"},
		{amount: 100, currency: "JPY", want: "$1.00"},
	}

	for _, tt := range tests {
		got := Format(tt.amount, tt.currency)
		if got != tt.want {
			t.Fatalf("Format(%d, %q) = %q, want %q", tt.amount, tt.currency, got, tt.want)
		}
	}
}
