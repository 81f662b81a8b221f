package feedsdk

import (
	"context"
	"net/http"
	"net/url"
	"strings"
)

// ListCurrencies fetches every rate using an explicit bearer token.
func (c *SDKClient) ListCurrencies(ctx context.Context, token string) ([]CurrencyRate, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/api/currency/", nil, token, nil)
	if err != nil {
		return nil, err
	}

	var rates []CurrencyRate
	if err := decodeJSON(resp, &rates, http.StatusOK); err != nil {
		return nil, err
	}

	return rates, nil
}

// GetCurrency fetches a single rate. Unknown symbols match ErrNotFound.
func (c *SDKClient) GetCurrency(ctx context.Context, token, symbol string) (*CurrencyRate, error) {
	path := "/api/currency/" + url.PathEscape(strings.ToUpper(symbol))

	resp, err := c.doRequest(ctx, http.MethodGet, path, nil, token, nil)
	if err != nil {
		return nil, err
	}

	var rate CurrencyRate
	if err := decodeJSON(resp, &rate, http.StatusOK); err != nil {
		return nil, err
	}

	return &rate, nil
}
