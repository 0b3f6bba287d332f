package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/fastprodman/econoneeds/internal/api"
	"github.com/fastprodman/econoneeds/internal/balances"
	"github.com/fastprodman/econoneeds/internal/catalog"
	"github.com/fastprodman/econoneeds/internal/events"
	"github.com/fastprodman/econoneeds/internal/events/kafka"
	"github.com/fastprodman/econoneeds/internal/infra/logging"
	"github.com/fastprodman/econoneeds/internal/ledger"
	"github.com/fastprodman/econoneeds/pkg/envconf"
	"github.com/fastprodman/econoneeds/pkg/shutdownqueue"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := run(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error running api: %v\n", err)
		//nolint:gocritic
		os.Exit(1)
	}
}

//nolint:funlen
func run(ctx context.Context) (retErr error) {
	err := godotenv.Load()
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}

	cfg := new(apiConfig)

	err = envconf.Load(cfg)
	if err != nil {
		return fmt.Errorf("init config: %w", err)
	}

	logging.SetupJSON(cfg.LogLevel, "service", "econoneeds-api")

	q := shutdownqueue.New()

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		serr := q.Shutdown(shutdownCtx)
		if serr != nil {
			retErr = errors.Join(retErr, serr)
		}
	}()

	// --- Infra ---
	be, err := openBackend(ctx, cfg, q)
	if err != nil {
		return fmt.Errorf("open backend: %w", err)
	}

	var publisher events.Publisher = events.Nop{}

	if cfg.Kafka.Enabled() {
		kp := kafka.NewPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, cfg.Kafka.WriteTimeout, slog.Default())
		publisher = kp

		q.Add("kafka", func(context.Context) error {
			slog.Info("Close kafka writer")

			return kp.Close()
		})
	}

	// --- Domain ---
	cat, err := catalog.New(ctx, be.prices)
	if err != nil {
		return fmt.Errorf("load price catalog: %w", err)
	}

	store, err := balances.New(ctx, be.balances,
		balances.WithFlushInterval(cfg.Store.FlushInterval),
		balances.WithFlushTimeout(cfg.Store.FlushTimeout),
	)
	if err != nil {
		return fmt.Errorf("load balances: %w", err)
	}

	flushCtx, stopFlusher := context.WithCancel(context.Background())

	var flusher sync.WaitGroup

	flusher.Add(1)

	go func() {
		defer flusher.Done()

		store.Run(flushCtx)
	}()

	q.Add("balance flusher", func(c context.Context) error {
		slog.Info("Stop balance flusher", "pending", store.Pending())
		stopFlusher()
		flusher.Wait()

		return store.Save(c)
	})

	svc := ledger.New(store, cat,
		ledger.WithCurrency(cfg.Currency),
		ledger.WithPublisher(publisher),
	)

	// --- HTTP server ---
	srv := api.NewServer(cfg.Port, api.Deps{
		Ledger:     svc,
		Catalog:    cat,
		Store:      store,
		AdminToken: cfg.AdminToken,
	})

	q.Add("http server", func(c context.Context) error {
		slog.Info("Shut down server")

		err := srv.Shutdown(c)
		if err != nil {
			return fmt.Errorf("shutdown srv: %w", err)
		}

		return nil
	})

	errCh := make(chan error, 1)

	go func() {
		serr := srv.ListenAndServe()
		// http.ErrServerClosed is the normal path during Shutdown
		if serr != nil && !errors.Is(serr, http.ErrServerClosed) {
			errCh <- serr

			return
		}

		errCh <- nil
	}()

	slog.Info("API started",
		"port", cfg.Port,
		"backend", cfg.Store.Backend,
		"items", cat.Len(),
		"players", store.Len(),
		"currency", svc.Currency(),
	)

	select {
	case <-ctx.Done():
		return nil
	case serr := <-errCh:
		if serr != nil {
			return fmt.Errorf("server error: %w", serr)
		}

		return nil
	}
}
