package client

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/fastprodman/econoneeds/internal/money"
)

func TestClient_TransferSendsJSONAndDecodesReceipt(t *testing.T) {
	t.Parallel()

	from, to := uuid.New(), uuid.New()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/players/"+from.String()+"/transfer" {
			http.Error(w, "unexpected route", http.StatusNotFound)

			return
		}

		var req map[string]string

		err := json.NewDecoder(r.Body).Decode(&req)
		if err != nil || req["to"] != to.String() || req["amount"] != "12.50" {
			http.Error(w, "bad body", http.StatusBadRequest)

			return
		}

		_, _ = w.Write([]byte(`{"from":"` + from.String() + `","to":"` + to.String() +
			`","amount":"12.50","fromBalance":"7.50","toBalance":"12.50","display":"$12.50"}`))
	}))
	t.Cleanup(srv.Close)

	r, err := New(srv.URL).Transfer(t.Context(), from, to, money.Cents(1250))
	if err != nil {
		t.Fatalf("transfer: %v", err)
	}

	if r.FromBalance != money.Cents(750) || r.ToBalance != money.Cents(1250) || r.Display != "$12.50" {
		t.Fatalf("receipt: %+v", r)
	}
}

func TestClient_APIError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"error":"insufficient funds"}`))
	}))
	t.Cleanup(srv.Close)

	_, err := New(srv.URL).Transfer(t.Context(), uuid.New(), uuid.New(), money.Units(1))
	if !IsStatus(err, http.StatusConflict) {
		t.Fatalf("want 409 APIError, got %v", err)
	}

	if err.Error() != "409 Conflict: insufficient funds" {
		t.Fatalf("message: %q", err.Error())
	}
}

func TestClient_AdminTokenHeader(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Admin-Token") != "tok" {
			w.WriteHeader(http.StatusUnauthorized)

			return
		}

		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}))
	t.Cleanup(srv.Close)

	err := New(srv.URL).Save(t.Context())
	if !IsStatus(err, http.StatusUnauthorized) {
		t.Fatalf("want 401 without token, got %v", err)
	}

	err = New(srv.URL+"/", WithAdminToken("tok")).Save(t.Context())
	if err != nil {
		t.Fatalf("save with token: %v", err)
	}
}
