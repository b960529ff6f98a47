package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"blog/internal/store"
)

// NewSessionCommand creates the session command group.
func NewSessionCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Manage login sessions",
	}

	start := &cobra.Command{
		Use:   "start <username>",
		Short: "Start a session and print its token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStores(rootOpts)
			if err != nil {
				return err
			}
			defer st.Close()
			token, err := st.Sessions.Start(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	lookup := &cobra.Command{
		Use:   "lookup <token>",
		Short: "Resolve a session token to its username",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStores(rootOpts)
			if err != nil {
				return err
			}
			defer st.Close()
			username, err := st.Sessions.Lookup(cmd.Context(), args[0])
			if errors.Is(err, store.ErrNotFound) {
				fmt.Fprintln(cmd.OutOrStdout(), "no such session")
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), username)
			return nil
		},
	}

	end := &cobra.Command{
		Use:   "end <token>",
		Short: "End a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStores(rootOpts)
			if err != nil {
				return err
			}
			defer st.Close()
			if err := st.Sessions.End(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "session ended")
			return nil
		},
	}

	cmd.AddCommand(start)
	cmd.AddCommand(lookup)
	cmd.AddCommand(end)
	return cmd
}
