package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"maps"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/fastprodman/econoneeds/internal/balances"
	"github.com/fastprodman/econoneeds/internal/catalog"
	"github.com/fastprodman/econoneeds/internal/ledger"
	"github.com/fastprodman/econoneeds/internal/money"
)

const testToken = "s3cret"

type memBalances struct {
	mu      sync.Mutex
	data    map[uuid.UUID]money.Amount
	saveErr error
}

func (m *memBalances) LoadAll(context.Context) (map[uuid.UUID]money.Amount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return maps.Clone(m.data), nil
}

func (m *memBalances) SaveAll(_ context.Context, records map[uuid.UUID]money.Amount) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.saveErr != nil {
		return m.saveErr
	}

	if m.data == nil {
		m.data = make(map[uuid.UUID]money.Amount)
	}

	maps.Copy(m.data, records)

	return nil
}

type memPrices struct {
	mu   sync.Mutex
	data map[string]money.Amount
}

func (m *memPrices) LoadAll(context.Context) (map[string]money.Amount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return maps.Clone(m.data), nil
}

func (m *memPrices) SaveAll(_ context.Context, records map[string]money.Amount) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	maps.Copy(m.data, records)

	return nil
}

type fixture struct {
	srv      *httptest.Server
	store    *balances.Store
	balances *memBalances
	prices   *memPrices
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	ctx := t.Context()
	brepo := &memBalances{}
	prepo := &memPrices{data: map[string]money.Amount{
		"DIAMOND": money.Units(100),
		"DIRT":    0,
	}}

	store, err := balances.New(ctx, brepo)
	if err != nil {
		t.Fatalf("store: %v", err)
	}

	cat, err := catalog.New(ctx, prepo)
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}

	srv := httptest.NewServer(NewRouter(Deps{
		Ledger:     ledger.New(store, cat),
		Catalog:    cat,
		Store:      store,
		AdminToken: testToken,
	}))
	t.Cleanup(srv.Close)

	return &fixture{srv: srv, store: store, balances: brepo, prices: prepo}
}

func (f *fixture) do(t *testing.T, method, path, body string, admin bool) (int, map[string]any) {
	t.Helper()

	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}

	req, err := http.NewRequestWithContext(t.Context(), method, f.srv.URL+path, rd)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}

	if admin {
		req.Header.Set(AdminTokenHeader, testToken)
	}

	resp, err := f.srv.Client().Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	//nolint:errcheck
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}

	var out map[string]any
	if len(raw) > 0 && raw[0] == '{' {
		err = json.Unmarshal(raw, &out)
		if err != nil {
			t.Fatalf("decode %s: %v", raw, err)
		}
	}

	return resp.StatusCode, out
}

func TestTransferFlow(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	a, b := uuid.New(), uuid.New()

	err := f.store.SetBalance(a, money.Units(50))
	if err != nil {
		t.Fatal(err)
	}

	status, body := f.do(t, http.MethodPost, "/players/"+a.String()+"/transfer",
		`{"to":"`+b.String()+`","amount":"30.00"}`, false)
	if status != http.StatusOK {
		t.Fatalf("status %d: %v", status, body)
	}

	if body["fromBalance"] != "20.00" || body["toBalance"] != "30.00" {
		t.Fatalf("receipt: %v", body)
	}

	status, body = f.do(t, http.MethodGet, "/players/"+b.String()+"/balance", "", false)
	if status != http.StatusOK || body["balance"] != "30.00" || body["display"] != "$30.00" {
		t.Fatalf("balance: %d %v", status, body)
	}
}

func TestErrorMapping(t *testing.T) {
	t.Parallel()

	a, b := uuid.New(), uuid.New()

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		admin  bool
		want   int
	}{
		{name: "bad player id", method: http.MethodGet, path: "/players/steve/balance", want: http.StatusBadRequest},
		{name: "insufficient", method: http.MethodPost, path: "/players/" + a.String() + "/transfer",
			body: `{"to":"` + b.String() + `","amount":"20.01"}`, want: http.StatusConflict},
		{name: "zero amount", method: http.MethodPost, path: "/players/" + a.String() + "/transfer",
			body: `{"to":"` + b.String() + `","amount":"0"}`, want: http.StatusBadRequest},
		{name: "too precise", method: http.MethodPost, path: "/players/" + a.String() + "/transfer",
			body: `{"to":"` + b.String() + `","amount":"1.001"}`, want: http.StatusBadRequest},
		{name: "self", method: http.MethodPost, path: "/players/" + a.String() + "/transfer",
			body: `{"to":"` + a.String() + `","amount":"1"}`, want: http.StatusBadRequest},
		{name: "missing to", method: http.MethodPost, path: "/players/" + a.String() + "/transfer",
			body: `{"amount":"1"}`, want: http.StatusBadRequest},
		{name: "unknown field", method: http.MethodPost, path: "/players/" + a.String() + "/transfer",
			body: `{"to":"` + b.String() + `","amount":"1","memo":"x"}`, want: http.StatusBadRequest},
		{name: "not sellable", method: http.MethodPost, path: "/players/" + a.String() + "/sell",
			body: `{"item":"dirt","quantity":1}`, want: http.StatusUnprocessableEntity},
		{name: "bad quantity", method: http.MethodPost, path: "/players/" + a.String() + "/sell",
			body: `{"item":"diamond","quantity":0}`, want: http.StatusBadRequest},
		{name: "bad limit", method: http.MethodGet, path: "/leaderboard?limit=-1", want: http.StatusBadRequest},
		{name: "admin without token", method: http.MethodPost, path: "/admin/players/" + a.String() + "/credit",
			body: `{"amount":"1"}`, want: http.StatusUnauthorized},
		{name: "admin credit zero", method: http.MethodPost, path: "/admin/players/" + a.String() + "/credit",
			body: `{"amount":"0"}`, admin: true, want: http.StatusBadRequest},
		{name: "admin set missing amount", method: http.MethodPut, path: "/admin/players/" + a.String() + "/balance",
			body: `{}`, admin: true, want: http.StatusBadRequest},
		{name: "admin negative price", method: http.MethodPut, path: "/admin/prices/stone",
			body: `{"price":"-1"}`, admin: true, want: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := newFixture(t)

			err := f.store.SetBalance(a, money.Units(20))
			if err != nil {
				t.Fatal(err)
			}

			status, body := f.do(t, tt.method, tt.path, tt.body, tt.admin)
			if status != tt.want {
				t.Fatalf("status %d, want %d: %v", status, tt.want, body)
			}

			if body["error"] == nil {
				t.Fatalf("error body missing: %v", body)
			}

			if f.store.Balance(a) != money.Units(20) || f.store.Balance(b) != 0 {
				t.Fatal("failed request changed balances")
			}
		})
	}
}

func TestSell(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	p := uuid.New()

	status, body := f.do(t, http.MethodPost, "/players/"+p.String()+"/sell", `{"item":"diamond","quantity":3}`, false)
	if status != http.StatusOK {
		t.Fatalf("status %d: %v", status, body)
	}

	if body["earnings"] != "300.00" || body["balance"] != "300.00" || body["item"] != "DIAMOND" {
		t.Fatalf("sell: %v", body)
	}
}

func TestLeaderboard(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	ids := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
	for i, id := range ids {
		err := f.store.SetBalance(id, money.Units(int64(10*(i+1))))
		if err != nil {
			t.Fatal(err)
		}
	}

	resp, err := f.srv.Client().Get(f.srv.URL + "/leaderboard?limit=2")
	if err != nil {
		t.Fatal(err)
	}
	//nolint:errcheck
	defer resp.Body.Close()

	var rows []leaderboardRow

	err = json.NewDecoder(resp.Body).Decode(&rows)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	if len(rows) != 2 {
		t.Fatalf("want 2 rows, got %d", len(rows))
	}

	if rows[0].Rank != 1 || rows[0].PlayerID != ids[2] || rows[0].Balance != money.Units(30) {
		t.Fatalf("first row: %+v", rows[0])
	}

	if rows[1].Rank != 2 || rows[1].PlayerID != ids[1] {
		t.Fatalf("second row: %+v", rows[1])
	}
}

func TestAdminOperations(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	p := uuid.New()
	base := "/admin/players/" + p.String()

	status, body := f.do(t, http.MethodPost, base+"/credit", `{"amount":"25"}`, true)
	if status != http.StatusOK || body["balance"] != "25.00" {
		t.Fatalf("credit: %d %v", status, body)
	}

	status, body = f.do(t, http.MethodPost, base+"/debit", `{"amount":"40"}`, true)
	if status != http.StatusOK || body["taken"] != "25.00" || body["balance"] != "0.00" {
		t.Fatalf("debit: %d %v", status, body)
	}

	status, body = f.do(t, http.MethodPut, base+"/balance", `{"amount":"1234.56"}`, true)
	if status != http.StatusOK || body["display"] != "$1,234.56" {
		t.Fatalf("set: %d %v", status, body)
	}

	status, body = f.do(t, http.MethodPut, "/admin/prices/emerald", `{"price":"75"}`, true)
	if status != http.StatusOK || body["item"] != "EMERALD" || body["sellable"] != true {
		t.Fatalf("set price: %d %v", status, body)
	}

	status, body = f.do(t, http.MethodGet, "/prices/Emerald", "", false)
	if status != http.StatusOK || body["price"] != "75.00" {
		t.Fatalf("get price: %d %v", status, body)
	}

	status, _ = f.do(t, http.MethodPost, "/admin/save", "", true)
	if status != http.StatusOK {
		t.Fatalf("save: %d", status)
	}

	if f.balances.data[p] != money.Cents(123456) {
		t.Fatalf("save did not reach repo: %v", f.balances.data)
	}

	f.prices.mu.Lock()
	f.prices.data["GOLD_INGOT"] = money.Units(40)
	f.prices.mu.Unlock()

	status, body = f.do(t, http.MethodPost, "/admin/prices/reload", "", true)
	if status != http.StatusOK || body["items"] != float64(4) {
		t.Fatalf("reload prices: %d %v", status, body)
	}

	status, _ = f.do(t, http.MethodPost, "/admin/balances/reload", "", true)
	if status != http.StatusOK {
		t.Fatalf("reload balances: %d", status)
	}
}

func TestSave_PersistenceFailureIs500(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	err := f.store.SetBalance(uuid.New(), money.Units(1))
	if err != nil {
		t.Fatal(err)
	}

	f.balances.mu.Lock()
	f.balances.saveErr = errors.New("disk full")
	f.balances.mu.Unlock()

	status, body := f.do(t, http.MethodPost, "/admin/save", "", true)
	if status != http.StatusInternalServerError || body["error"] != "internal error" {
		t.Fatalf("save: %d %v", status, body)
	}

	status, body = f.do(t, http.MethodGet, "/healthz", "", false)
	if status != http.StatusOK || body["pendingWrites"] != float64(1) {
		t.Fatalf("healthz: %d %v", status, body)
	}
}
