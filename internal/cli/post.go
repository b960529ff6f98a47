package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"blog/internal/store"
)

// NewPostCommand creates the post command group.
func NewPostCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "post",
		Short: "Create and list blog posts",
	}

	var title, body, author, tags string
	create := &cobra.Command{
		Use:   "create",
		Short: "Publish a new post and print its permalink",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStores(rootOpts)
			if err != nil {
				return err
			}
			defer st.Close()
			permalink, err := st.Posts.Create(cmd.Context(), title, body, store.ParseTags(tags), author)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), permalink)
			return nil
		},
	}
	create.Flags().StringVar(&title, "title", "", "post title")
	create.Flags().StringVar(&body, "body", "", "post body")
	create.Flags().StringVar(&author, "author", "", "author username")
	create.Flags().StringVar(&tags, "tags", "", "comma-separated tags")
	create.MarkFlagRequired("title")
	create.MarkFlagRequired("body")
	create.MarkFlagRequired("author")

	show := &cobra.Command{
		Use:   "show <permalink>",
		Short: "Print one post with its comments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStores(rootOpts)
			if err != nil {
				return err
			}
			defer st.Close()
			post, err := st.Posts.GetByPermalink(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printPost(cmd.OutOrStdout(), post, true)
			return nil
		},
	}

	var limit int
	recent := &cobra.Command{
		Use:   "recent",
		Short: "List the most recent posts",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStores(rootOpts)
			if err != nil {
				return err
			}
			defer st.Close()
			posts, err := st.Posts.ListRecent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			for i := range posts {
				printPost(cmd.OutOrStdout(), &posts[i], false)
			}
			return nil
		},
	}
	recent.Flags().IntVar(&limit, "limit", 10, "maximum number of posts")

	var tagLimit int
	byTag := &cobra.Command{
		Use:   "tag <tag>",
		Short: "List recent posts carrying a tag (exact match)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStores(rootOpts)
			if err != nil {
				return err
			}
			defer st.Close()
			posts, err := st.Posts.ListByTag(cmd.Context(), args[0], tagLimit)
			if err != nil {
				return err
			}
			for i := range posts {
				printPost(cmd.OutOrStdout(), &posts[i], false)
			}
			return nil
		},
	}
	byTag.Flags().IntVar(&tagLimit, "limit", store.DefaultTagLimit, "maximum number of posts")

	cmd.AddCommand(create)
	cmd.AddCommand(show)
	cmd.AddCommand(recent)
	cmd.AddCommand(byTag)
	return cmd
}

func printPost(w io.Writer, post *store.Post, withComments bool) {
	fmt.Fprintf(w, "%s  %s  by %s", post.Permalink, post.CreatedAt.Format("2006-01-02 15:04"), post.Author)
	if len(post.Tags) > 0 {
		fmt.Fprintf(w, "  [%s]", strings.Join(post.Tags, ", "))
	}
	fmt.Fprintf(w, "\n  %s\n", post.Title)
	if withComments {
		fmt.Fprintf(w, "\n%s\n", post.Body)
		for _, c := range post.Comments {
			fmt.Fprintf(w, "\n-- %s", c.Author)
			if c.Email != "" {
				fmt.Fprintf(w, " <%s>", c.Email)
			}
			fmt.Fprintf(w, "\n   %s\n", c.Body)
		}
	}
}
