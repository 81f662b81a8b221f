package sqlite

import (
	"context"

	"github.com/aussiebroadwan/cryptofeed/internal/server/domain"
)

type currenciesRepo struct {
	q querier
}

const selectRate = `SELECT symbol, rate, open_price, change_24h, last_updated FROM currencies`

type scanner interface {
	Scan(dest ...any) error
}

func scanRate(row scanner) (domain.CurrencyRate, error) {
	var r domain.CurrencyRate
	err := row.Scan(&r.Symbol, &r.Rate, &r.OpenPrice, &r.Change24h, &r.LastUpdated)
	return r, err
}

func (r *currenciesRepo) ListRates(ctx context.Context) ([]domain.CurrencyRate, error) {
	rows, err := r.q.QueryContext(ctx, selectRate+` ORDER BY symbol`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rates []domain.CurrencyRate
	for rows.Next() {
		rate, err := scanRate(rows)
		if err != nil {
			return nil, err
		}
		rates = append(rates, rate)
	}
	return rates, rows.Err()
}

func (r *currenciesRepo) GetRate(ctx context.Context, symbol string) (domain.CurrencyRate, error) {
	rate, err := scanRate(r.q.QueryRowContext(ctx, selectRate+` WHERE symbol = ?`, symbol))
	if err != nil {
		return domain.CurrencyRate{}, mapNotFound(err)
	}
	return rate, nil
}

func (r *currenciesRepo) UpsertRate(ctx context.Context, rate domain.CurrencyRate) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO currencies (symbol, rate, open_price, change_24h, last_updated)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(symbol) DO UPDATE SET
			rate = excluded.rate,
			open_price = excluded.open_price,
			change_24h = excluded.change_24h,
			last_updated = excluded.last_updated`,
		rate.Symbol, rate.Rate, rate.OpenPrice, rate.Change24h, rate.LastUpdated.UTC(),
	)
	return err
}

func (r *currenciesRepo) IsEmpty(ctx context.Context) (bool, error) {
	var n int64
	if err := r.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM currencies`).Scan(&n); err != nil {
		return false, err
	}
	return n == 0, nil
}
