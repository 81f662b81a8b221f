package service

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/aussiebroadwan/cryptofeed/internal/server/domain"
	"github.com/aussiebroadwan/cryptofeed/internal/server/store"
)

// DefaultTickInterval is how often the simulated market moves.
const DefaultTickInterval = 3 * time.Second

// maxStep bounds the relative price move of a single tick.
const maxStep = 0.005

// SeedRates are inserted when the currencies table is empty.
var SeedRates = []domain.CurrencyRate{
	{Symbol: "BTC", Rate: 45000, OpenPrice: 45000},
	{Symbol: "ETH", Rate: 3200, OpenPrice: 3200},
	{Symbol: "SOL", Rate: 144, OpenPrice: 144},
}

// MarketService owns the synthetic market: it seeds the symbol table, moves
// every rate on a ticker and serves reads.
type MarketService struct {
	Store    store.Store
	Logger   *slog.Logger
	Interval time.Duration

	// Step returns a relative move in [-maxStep, maxStep]. Tests replace it.
	Step func() float64
	Now  func() time.Time

	startOnce sync.Once
	stopOnce  sync.Once
	stopCh    chan struct{}
	doneCh    chan struct{}
}

// NewMarketService creates a market with the given tick interval. A zero or
// negative interval falls back to DefaultTickInterval.
func NewMarketService(s store.Store, logger *slog.Logger, interval time.Duration) *MarketService {
	if interval <= 0 {
		interval = DefaultTickInterval
	}

	return &MarketService{
		Store:    s,
		Logger:   logger,
		Interval: interval,
		Step:     func() float64 { return (rand.Float64()*2 - 1) * maxStep },
		Now:      time.Now,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start seeds the market if needed and starts the ticker. Non-blocking.
func (m *MarketService) Start() {
	m.startOnce.Do(func() {
		go m.run()
		m.Logger.Info("market service started", "interval", m.Interval)
	})
}

// Stop halts the ticker and waits for an in-progress tick to finish.
func (m *MarketService) Stop() {
	// A market that never started has nothing to wait for.
	m.startOnce.Do(func() { close(m.doneCh) })

	m.stopOnce.Do(func() {
		close(m.stopCh)
		<-m.doneCh
		m.Logger.Info("market service stopped")
	})
}

func (m *MarketService) run() {
	defer close(m.doneCh)

	ctx := context.Background()
	if err := m.Seed(ctx); err != nil {
		m.Logger.Error("failed to seed market", "error", err)
	}

	ticker := time.NewTicker(m.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := m.Tick(ctx); err != nil {
				m.Logger.Error("market tick failed", "error", err)
			}
		case <-m.stopCh:
			return
		}
	}
}

// Seed inserts SeedRates when no symbol exists yet.
func (m *MarketService) Seed(ctx context.Context) error {
	return m.Store.WithTx(ctx, func(tx store.Tx) error {
		empty, err := tx.Currencies().IsEmpty(ctx)
		if err != nil || !empty {
			return err
		}

		now := m.Now().UTC()
		for _, r := range SeedRates {
			r.LastUpdated = now
			if err := tx.Currencies().UpsertRate(ctx, r); err != nil {
				return err
			}
		}

		m.Logger.Info("market seeded", "symbols", len(SeedRates))
		return nil
	})
}

// Tick moves every rate by one random step and recomputes Change24h
// against the opening price. All rates move in one transaction.
func (m *MarketService) Tick(ctx context.Context) error {
	err := m.Store.WithTx(ctx, func(tx store.Tx) error {
		rates, err := tx.Currencies().ListRates(ctx)
		if err != nil {
			return err
		}

		now := m.Now().UTC()
		for _, r := range rates {
			if r.OpenPrice <= 0 {
				r.OpenPrice = r.Rate
			}

			r.Rate *= 1 + m.Step()
			if r.OpenPrice > 0 {
				r.Change24h = (r.Rate - r.OpenPrice) / r.OpenPrice * 100
			}
			r.LastUpdated = now

			if err := tx.Currencies().UpsertRate(ctx, r); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	marketTicks.Inc()
	return nil
}

// ListRates returns every symbol's current rate.
func (m *MarketService) ListRates(ctx context.Context) ([]domain.CurrencyRate, error) {
	return m.Store.Currencies().ListRates(ctx)
}

// GetRate returns one symbol's rate. The symbol is matched case-insensitively.
func (m *MarketService) GetRate(ctx context.Context, symbol string) (domain.CurrencyRate, error) {
	r, err := m.Store.Currencies().GetRate(ctx, strings.ToUpper(strings.TrimSpace(symbol)))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.CurrencyRate{}, ErrCurrencyNotFound
		}
		return domain.CurrencyRate{}, err
	}
	return r, nil
}
