package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newFavoritesCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "favorites",
		Aliases: []string{"fav"},
		Short:   "Manage your favorite recipes",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List your favorites",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := opts.withTimeout(cmd)
			defer cancel()

			recipes, err := opts.client.Favorites(ctx)
			if err != nil {
				return err
			}
			if opts.asJSON {
				return printJSON(cmd.OutOrStdout(), recipes)
			}
			return printRecipes(cmd.OutOrStdout(), recipes)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "add <recipe-id>",
		Short: "Add a recipe to your favorites",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			ctx, cancel := opts.withTimeout(cmd)
			defer cancel()

			if err := opts.client.AddFavorite(ctx, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "recipe %d added to favorites\n", id)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "remove <recipe-id>",
		Short: "Remove a recipe from your favorites",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			ctx, cancel := opts.withTimeout(cmd)
			defer cancel()

			if err := opts.client.RemoveFavorite(ctx, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "recipe %d removed from favorites\n", id)
			return nil
		},
	})

	return cmd
}

func newCommentsCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "comments",
		Short: "Read and write recipe comments",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list <recipe-id>",
		Short: "List the comments on a recipe",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			ctx, cancel := opts.withTimeout(cmd)
			defer cancel()

			comments, err := opts.client.Comments(ctx, id)
			if err != nil {
				return err
			}
			if opts.asJSON {
				return printJSON(cmd.OutOrStdout(), comments)
			}
			if len(comments) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no comments")
				return nil
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tBY\tWHEN\tCOMMENT")
			for _, c := range comments {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", c.ID, c.Username, c.CreatedAt.Format("2006-01-02 15:04"), c.Content)
			}
			return tw.Flush()
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "add <recipe-id> <text...>",
		Short: "Comment on a recipe",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			ctx, cancel := opts.withTimeout(cmd)
			defer cancel()

			c, err := opts.client.AddComment(ctx, id, strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			if opts.asJSON {
				return printJSON(cmd.OutOrStdout(), c)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "comment %d added\n", c.ID)
			return nil
		},
	})

	return cmd
}
