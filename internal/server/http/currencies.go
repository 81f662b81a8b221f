package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/cryptofeed/internal/server/domain"
	"github.com/aussiebroadwan/cryptofeed/internal/server/service"
	"github.com/aussiebroadwan/cryptofeed/pkg/feedsdk"
	"github.com/aussiebroadwan/cryptofeed/pkg/httpx"
	"github.com/aussiebroadwan/cryptofeed/pkg/slogx"
)

// CurrencyHandler serves the protected market data.
type CurrencyHandler struct {
	MarketService *service.MarketService
}

func toRate(r domain.CurrencyRate) feedsdk.CurrencyRate {
	return feedsdk.CurrencyRate{
		Symbol:      r.Symbol,
		Rate:        r.Rate,
		Change24h:   r.Change24h,
		LastUpdated: r.LastUpdated,
	}
}

// HandleList godoc
//
//	@Summary		List currency rates
//	@Description	Returns the current rate of every tracked symbol.
//	@Tags			Currency
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{array}		feedsdk.CurrencyRate
//	@Failure		401	{object}	feedsdk.ErrorResponse	"invalid_token"
//	@Router			/api/currency/ [get].
func (h *CurrencyHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	rates, err := h.MarketService.ListRates(ctx)
	if err != nil {
		slogx.FromContext(ctx).Error("failed to list rates", "error", err)
		feedsdk.ErrServerError.WriteError(w)
		return
	}

	out := make([]feedsdk.CurrencyRate, len(rates))
	for i, rate := range rates {
		out[i] = toRate(rate)
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// HandleGet godoc
//
//	@Summary		Get a currency rate
//	@Description	Returns the current rate of one symbol. The symbol is case-insensitive.
//	@Tags			Currency
//	@Produce		json
//	@Security		BearerAuth
//	@Param			symbol	path		string	true	"Currency symbol, e.g. BTC"
//	@Success		200		{object}	feedsdk.CurrencyRate
//	@Failure		401		{object}	feedsdk.ErrorResponse	"invalid_token"
//	@Failure		404		{object}	feedsdk.ErrorResponse	"not_found"
//	@Router			/api/currency/{symbol} [get].
func (h *CurrencyHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	rate, err := h.MarketService.GetRate(ctx, r.PathValue("symbol"))
	if err != nil {
		if errors.Is(err, service.ErrCurrencyNotFound) {
			feedsdk.ErrNotFound.WithDescription("currency not found").WriteError(w)
			return
		}
		slogx.FromContext(ctx).Error("failed to get rate", "error", err)
		feedsdk.ErrServerError.WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toRate(rate))
}
