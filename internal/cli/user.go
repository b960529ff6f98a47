package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"blog/internal/store"
)

// NewUserCommand creates the user command group.
func NewUserCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage user accounts",
	}

	var password, email string
	create := &cobra.Command{
		Use:   "create <username>",
		Short: "Register a new account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStores(rootOpts)
			if err != nil {
				return err
			}
			defer st.Close()
			if err := st.Users.Create(cmd.Context(), args[0], password, email); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created user %s\n", args[0])
			return nil
		},
	}
	create.Flags().StringVar(&password, "password", "", "password for the new account")
	create.Flags().StringVar(&email, "email", "", "contact email (optional)")
	create.MarkFlagRequired("password")

	var verifyPassword string
	verify := &cobra.Command{
		Use:   "verify <username>",
		Short: "Check a username/password pair",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStores(rootOpts)
			if err != nil {
				return err
			}
			defer st.Close()
			user, err := st.Users.ValidateCredentials(cmd.Context(), args[0], verifyPassword)
			if errors.Is(err, store.ErrInvalidCredentials) {
				fmt.Fprintln(cmd.OutOrStdout(), "invalid credentials")
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ok: %s (user id %d)\n", user.Username, user.ID)
			return nil
		},
	}
	verify.Flags().StringVar(&verifyPassword, "password", "", "password to check")
	verify.MarkFlagRequired("password")

	cmd.AddCommand(create)
	cmd.AddCommand(verify)
	return cmd
}
