package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/cryptofeed/pkg/feedsdk"
	"github.com/aussiebroadwan/cryptofeed/pkg/slogx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var upstreamErrors = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "relay_upstream_errors_total",
		Help: "Failed calls to the feed server by kind",
	},
	[]string{"kind"},
)

// writeUpstreamError translates an SDK error into the relay's response.
// Transport failures and upstream 5xx become 502; other upstream errors
// keep their status and code.
func writeUpstreamError(w http.ResponseWriter, r *http.Request, err error) {
	log := slogx.FromContext(r.Context())

	if errors.Is(err, feedsdk.ErrNotConfigured) {
		upstreamErrors.WithLabelValues("not_configured").Inc()
		feedsdk.ErrInvalidRequest.WithDescription("no client credentials configured").WriteError(w)
		return
	}

	if feedsdk.IsTransport(err) {
		upstreamErrors.WithLabelValues("transport").Inc()
		log.Warn("feed server unreachable", "error", err)
		feedsdk.ErrUpstreamUnavailable.WithDescription(err.Error()).WriteError(w)
		return
	}

	var oauthErr *feedsdk.OAuth2Error
	if errors.As(err, &oauthErr) {
		if oauthErr.StatusCode >= http.StatusInternalServerError {
			upstreamErrors.WithLabelValues("upstream_5xx").Inc()
			log.Warn("feed server failed", "status", oauthErr.StatusCode, "error", oauthErr)
			(&feedsdk.OAuth2Error{
				StatusCode:  http.StatusBadGateway,
				Code:        oauthErr.Code,
				Description: oauthErr.Description,
			}).WriteError(w)
			return
		}

		upstreamErrors.WithLabelValues(oauthErr.Code).Inc()
		oauthErr.WriteError(w)
		return
	}

	upstreamErrors.WithLabelValues("other").Inc()
	log.Error("feed call failed", "error", err)
	feedsdk.ErrServerError.WriteError(w)
}
