package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/aussiebroadwan/cryptofeed/internal/relay/service"
	"github.com/aussiebroadwan/cryptofeed/internal/relay/store/drivers/sqlite"
	"github.com/aussiebroadwan/cryptofeed/pkg/cryptox"
	"github.com/spf13/cobra"
)

type createUserOptions struct {
	dbFile        string
	pepperFile    string
	masterKeyFile string

	user service.NewUser
}

func newCreateUserCmd(root *rootOptions) *cobra.Command {
	opts := &createUserOptions{}

	cmd := &cobra.Command{
		Use:   "create-user",
		Short: "Create a user directly in a relay database",
		Long: `create-user opens the relay's SQLite database, applies any pending
migrations and inserts a user. Use the same pepper and master key files as
the relay, or the user will not be able to log in.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCreateUser(cmd, root, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.dbFile, "db", envOr("RELAY_DATABASE_FILE", "./data/relay.db"), "Relay database file")
	f.StringVar(&opts.pepperFile, "pepper-file", envOr("RELAY_PEPPER_FILE", "relay-pepper"), "Relay pepper file")
	f.StringVar(&opts.masterKeyFile, "master-key-file", os.Getenv("RELAY_MASTER_KEY_FILE"), "Relay master key file")
	f.StringVar(&opts.user.Username, "username", "", "Username (required)")
	f.StringVar(&opts.user.Password, "password", "", "Password (generated and printed when omitted)")
	f.StringVar(&opts.user.Email, "email", "", "Email address")
	f.StringVar(&opts.user.ClientID, "client-id", "", "Client ID to bind to the user")
	f.StringVar(&opts.user.ClientSecret, "client-secret", "", "Client secret to bind to the user")
	f.BoolVar(&opts.user.Admin, "admin", false, "Create an admin user")
	_ = cmd.MarkFlagRequired("username")

	return cmd
}

func runCreateUser(cmd *cobra.Command, root *rootOptions, opts *createUserOptions) error {
	cryptox.SetPepperPath(opts.pepperFile)
	if opts.masterKeyFile != "" {
		cryptox.SetMasterKeyPath(opts.masterKeyFile)
	}

	dsn := opts.dbFile
	if dsn != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dsn), 0o750); err != nil {
			return fmt.Errorf("create database directory: %w", err)
		}
		dsn = sqlite.DSN(dsn)
	}

	st, err := sqlite.NewStore(dsn)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer st.Close()

	if err := st.ApplyMigrations(); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}

	var generated string
	if opts.user.Password == "" {
		if generated, err = cryptox.GeneratePassword(); err != nil {
			return err
		}
		opts.user.Password = generated
	}

	users := &service.UserService{Store: st}
	u, err := users.CreateUser(cmd.Context(), opts.user)
	if err != nil {
		return err
	}

	if root.jsonOutput {
		view := map[string]any{
			"id":        u.ID,
			"username":  u.Username,
			"email":     u.Email,
			"is_admin":  u.Admin,
			"client_id": u.ClientID,
		}
		if generated != "" {
			view["password"] = generated
		}
		return printJSON(cmd.OutOrStdout(), view)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "created user %s (id %d)\n", u.Username, u.ID)
	if u.Admin {
		fmt.Fprintln(out, "  admin: yes")
	}
	if u.ClientID != "" {
		fmt.Fprintf(out, "  client id: %s\n", u.ClientID)
	}
	if generated != "" {
		fmt.Fprintf(out, "  password: %s (shown once)\n", generated)
	}
	return nil
}
