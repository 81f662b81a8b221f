package cli

import (
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/aussiebroadwan/cryptofeed/pkg/feedsdk"
	"github.com/spf13/cobra"
)

func newRegisterCmd(root *rootOptions) *cobra.Command {
	var (
		creds       credentialFlags
		appName     string
		adminSecret string
	)

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register a client application with the feed server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := creds.validate(); err != nil {
				return err
			}

			client := root.client()
			client.AdminSecret = adminSecret

			resp, err := client.Register(cmd.Context(), feedsdk.RegisterRequest{
				ClientID:     creds.clientID,
				ClientSecret: creds.clientSecret,
				AppName:      appName,
			})
			if err != nil {
				return explain(err)
			}

			if root.jsonOutput {
				return printJSON(cmd.OutOrStdout(), resp)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "registered %s (id %d)\n", resp.ClientID, resp.ID)
			return nil
		},
	}

	creds.bind(cmd)
	cmd.Flags().StringVar(&appName, "app-name", "", "Human readable application name")
	cmd.Flags().StringVar(&adminSecret, "admin-secret", envOr("ADMIN_SECRET", ""), "Server admin secret (env ADMIN_SECRET)")
	return cmd
}

func newTokenCmd(root *rootOptions) *cobra.Command {
	var creds credentialFlags

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Exchange client credentials for an access token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := creds.validate(); err != nil {
				return err
			}

			tok, err := root.client().RequestToken(cmd.Context(), creds.clientID, creds.clientSecret)
			if err != nil {
				return explain(err)
			}

			if root.jsonOutput {
				return printJSON(cmd.OutOrStdout(), tok)
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok.AccessToken)
			fmt.Fprintf(cmd.ErrOrStderr(), "expires in %s\n", time.Duration(tok.ExpiresIn)*time.Second)
			return nil
		},
	}

	creds.bind(cmd)
	return cmd
}

func newRatesCmd(root *rootOptions) *cobra.Command {
	var creds credentialFlags

	cmd := &cobra.Command{
		Use:   "rates [SYMBOL]",
		Short: "Show current currency rates",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := creds.validate(); err != nil {
				return err
			}

			session := root.client().NewSession(feedsdk.Credentials{
				ClientID:     creds.clientID,
				ClientSecret: creds.clientSecret,
			})

			var rates []feedsdk.CurrencyRate
			if len(args) == 1 {
				rate, err := session.GetCurrency(cmd.Context(), args[0])
				if err != nil {
					return explain(err)
				}
				rates = append(rates, *rate)
			} else {
				var err error
				if rates, err = session.ListCurrencies(cmd.Context()); err != nil {
					return explain(err)
				}
			}

			if root.jsonOutput {
				return printJSON(cmd.OutOrStdout(), rates)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "SYMBOL\tRATE\tCHANGE 24H\tUPDATED")
			for _, r := range rates {
				fmt.Fprintf(tw, "%s\t%.2f\t%+.2f%%\t%s\n", r.Symbol, r.Rate, r.Change24h, r.LastUpdated.Format(time.RFC3339))
			}
			return tw.Flush()
		},
	}

	creds.bind(cmd)
	return cmd
}

// explain turns SDK errors into one-line messages for the terminal.
func explain(err error) error {
	if feedsdk.IsTransport(err) {
		return fmt.Errorf("cannot reach feed server: %w", err)
	}

	var oauthErr *feedsdk.OAuth2Error
	if errors.As(err, &oauthErr) {
		msg := oauthErr.Code
		if oauthErr.Description != "" {
			msg += ": " + oauthErr.Description
		}
		return errors.New(strings.TrimSpace(msg))
	}
	return err
}
