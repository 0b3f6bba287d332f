package yamlfile

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fastprodman/econoneeds/internal/money"
	"github.com/fastprodman/econoneeds/internal/repos/prices"
)

func TestLoadAll_NotInitialized(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	_, err := New(filepath.Join(dir, "absent.yml")).LoadAll(t.Context())
	if !errors.Is(err, prices.ErrNotInitialized) {
		t.Fatalf("missing file: want ErrNotInitialized, got %v", err)
	}

	path := filepath.Join(dir, "config.yml")

	err = os.WriteFile(path, []byte("currency: USD\n"), 0o600)
	if err != nil {
		t.Fatal(err)
	}

	_, err = New(path).LoadAll(t.Context())
	if !errors.Is(err, prices.ErrNotInitialized) {
		t.Fatalf("missing section: want ErrNotInitialized, got %v", err)
	}
}

func TestRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	path := filepath.Join(t.TempDir(), "config.yml")

	err := os.WriteFile(path, []byte("currency: USD\nprices:\n  DIAMOND: 100.0\n  STONE: oops\n"), 0o600)
	if err != nil {
		t.Fatal(err)
	}

	repo := New(path)

	got, err := repo.LoadAll(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if len(got) != 1 || got["DIAMOND"] != money.Units(100) {
		t.Fatalf("unexpected prices: %v", got)
	}

	err = repo.SaveAll(ctx, map[string]money.Amount{"EMERALD": money.Cents(7550)})
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err = repo.LoadAll(ctx)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}

	if got["EMERALD"] != money.Cents(7550) || got["DIAMOND"] != money.Units(100) {
		t.Fatalf("unexpected prices after save: %v", got)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(string(data), "currency: USD") || !strings.Contains(string(data), "STONE: oops") {
		t.Fatalf("unknown content lost:\n%s", data)
	}
}
