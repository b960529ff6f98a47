// Package cli implements the blogctl command tree: operator access to the
// post, user, and session stores without going through a web front end.
package cli

import (
	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
}

// NewRootCommand creates the root command for blogctl.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "blogctl",
		Short:         "Operator tool for the blog's post, user, and session stores",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "path to a YAML config file")

	cmd.AddCommand(NewUserCommand(opts))
	cmd.AddCommand(NewPostCommand(opts))
	cmd.AddCommand(NewCommentCommand(opts))
	cmd.AddCommand(NewSessionCommand(opts))

	return cmd
}
