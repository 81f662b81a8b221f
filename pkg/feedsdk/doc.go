/*
Package feedsdk is the client SDK for the cryptofeed server.

# SDKClient vs Session

SDKClient performs single, unauthenticated or explicitly authenticated
requests: registration, the client credentials token exchange, rate lookups
with a caller supplied token and health probes. It never retries.

	client := feedsdk.NewSDKClient("http://localhost:8000")
	token, err := client.RequestToken(ctx, "c1", "s1")

Session owns one client identity and caches the most recent access token:

	session := client.NewSession(feedsdk.Credentials{ClientID: "c1", ClientSecret: "s1"})
	rate, err := session.GetCurrency(ctx, "BTC")

Every Session call runs EnsureAuthenticated first. The cached token is
reused until one minute before its exp claim, then replaced. Configure swaps
the identity and drops the token atomically. A 401 from the server drops the
token that was rejected, and the next call authenticates again.

# Errors

Server errors are *OAuth2Error values and match the predefined errors with
errors.Is:

	_, err := client.RequestToken(ctx, "ghost", "x")
	errors.Is(err, feedsdk.ErrInvalidClient) // true

Network failures and timeouts are *TransportError, so callers can tell "the
server said no" apart from "the server could not be reached":

	if feedsdk.IsTransport(err) {
		// retry later
	}

# Thread Safety

SDKClient and Session are safe for concurrent use.
*/
package feedsdk
