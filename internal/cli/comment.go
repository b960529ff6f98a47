package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewCommentCommand creates the comment command group.
func NewCommentCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "comment",
		Short: "Attach comments to posts",
	}

	var author, email, body string
	add := &cobra.Command{
		Use:   "add <permalink>",
		Short: "Append a comment to a post's thread",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStores(rootOpts)
			if err != nil {
				return err
			}
			defer st.Close()
			if err := st.Posts.AppendComment(cmd.Context(), args[0], author, email, body); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "comment added to %s\n", args[0])
			return nil
		},
	}
	add.Flags().StringVar(&author, "author", "", "commenter name")
	add.Flags().StringVar(&email, "email", "", "commenter email (optional)")
	add.Flags().StringVar(&body, "body", "", "comment body")
	add.MarkFlagRequired("author")
	add.MarkFlagRequired("body")

	cmd.AddCommand(add)
	return cmd
}
