package main

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/aussiebroadwan/recipebox/pkg/recipesdk"
	"github.com/spf13/cobra"
)

func newRecipesCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "recipes",
		Aliases: []string{"r"},
		Short:   "Browse, search and rate recipes",
	}

	cmd.AddCommand(newRecipesListCmd(opts))
	cmd.AddCommand(newRecipesShowCmd(opts))
	cmd.AddCommand(newRecipesSearchCmd(opts))
	cmd.AddCommand(newRecipesSortedCmd(opts))
	cmd.AddCommand(newRecipesMineCmd(opts))
	cmd.AddCommand(newRecipesRateCmd(opts))
	return cmd
}

func newRecipesListCmd(opts *options) *cobra.Command {
	var page, pageSize int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List public recipes, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := opts.withTimeout(cmd)
			defer cancel()

			resp, err := opts.client.ListRecipes(ctx, page, pageSize)
			if err != nil {
				return err
			}
			if opts.asJSON {
				return printJSON(cmd.OutOrStdout(), resp)
			}
			if err := printRecipes(cmd.OutOrStdout(), resp.Recipes); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "page %d of %d (%d recipes)\n", resp.Page, resp.TotalPages, resp.Total)
			return nil
		},
	}

	cmd.Flags().IntVar(&page, "page", 1, "Page number")
	cmd.Flags().IntVar(&pageSize, "page-size", 0, "Recipes per page (server default when 0)")
	return cmd
}

func newRecipesShowCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one recipe",
		Long: `Show one recipe.

With a token the authenticated endpoint is used, so your own private recipes
are visible. Without one only public recipes can be shown.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			ctx, cancel := opts.withTimeout(cmd)
			defer cancel()

			var rec *recipesdk.RecipeResponse
			if opts.client.Token() != "" {
				rec, err = opts.client.Get(ctx, id)
			} else {
				rec, err = opts.client.GetPublic(ctx, id)
			}
			if err != nil {
				return err
			}
			if opts.asJSON {
				return printJSON(cmd.OutOrStdout(), rec)
			}
			printRecipe(cmd.OutOrStdout(), rec)
			return nil
		},
	}
}

func newRecipesSearchCmd(opts *options) *cobra.Command {
	var sq recipesdk.SearchQuery

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search public recipes by title, ingredient or creator",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if sq == (recipesdk.SearchQuery{}) {
				return fmt.Errorf("at least one of --title, --ingredient or --creator is required")
			}

			ctx, cancel := opts.withTimeout(cmd)
			defer cancel()

			recipes, err := opts.client.Search(ctx, sq)
			if err != nil {
				return err
			}
			if opts.asJSON {
				return printJSON(cmd.OutOrStdout(), recipes)
			}
			return printRecipes(cmd.OutOrStdout(), recipes)
		},
	}

	cmd.Flags().StringVar(&sq.Title, "title", "", "Title contains")
	cmd.Flags().StringVar(&sq.Ingredient, "ingredient", "", "Ingredients contain")
	cmd.Flags().StringVar(&sq.CreatorName, "creator", "", "Creator username contains")
	return cmd
}

func newRecipesSortedCmd(opts *options) *cobra.Command {
	var (
		page int
		seed int64
	)

	cmd := &cobra.Command{
		Use:   "sorted <top-rated|random|recent|favorited>",
		Short: "Page through public recipes in a given order",
		Long: `Page through public recipes in a given order.

Random order prints its seed; pass it back with --seed to get the next page
of the same shuffle.`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{recipesdk.SortTopRated, recipesdk.SortRandom, recipesdk.SortRecent, recipesdk.SortFavorited},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := opts.withTimeout(cmd)
			defer cancel()

			resp, err := opts.client.Sorted(ctx, args[0], page, seed)
			if err != nil {
				return err
			}
			if opts.asJSON {
				return printJSON(cmd.OutOrStdout(), resp)
			}
			if err := printRecipes(cmd.OutOrStdout(), resp.Recipes); err != nil {
				return err
			}

			footer := fmt.Sprintf("page %d of %d (%d recipes)", resp.Page, resp.TotalPages, resp.Total)
			if resp.Seed != 0 {
				footer += fmt.Sprintf(", seed %d", resp.Seed)
			}
			fmt.Fprintln(cmd.OutOrStdout(), footer)
			return nil
		},
	}

	cmd.Flags().IntVar(&page, "page", 1, "Page number")
	cmd.Flags().Int64Var(&seed, "seed", 0, "Shuffle seed for random order")
	return cmd
}

func newRecipesMineCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "mine",
		Short: "List your recipes, private ones included",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := opts.withTimeout(cmd)
			defer cancel()

			recipes, err := opts.client.Mine(ctx)
			if err != nil {
				return err
			}
			if opts.asJSON {
				return printJSON(cmd.OutOrStdout(), recipes)
			}
			return printRecipes(cmd.OutOrStdout(), recipes)
		},
	}
}

func newRecipesRateCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "rate <id> <1-5>",
		Short: "Rate a recipe",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			rating, err := strconv.Atoi(args[1])
			if err != nil || rating < 1 || rating > 5 {
				return fmt.Errorf("rating must be a whole number from 1 to 5, got %q", args[1])
			}

			ctx, cancel := opts.withTimeout(cmd)
			defer cancel()

			resp, err := opts.client.Rate(ctx, id, rating)
			if err != nil {
				return err
			}
			if opts.asJSON {
				return printJSON(cmd.OutOrStdout(), resp)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: average %s from %d ratings\n",
				resp.Message, formatRating(resp.AverageRating), resp.RatingsCount)
			return nil
		},
	}
}

func printRecipes(w io.Writer, recipes []recipesdk.RecipeResponse) error {
	if len(recipes) == 0 {
		fmt.Fprintln(w, "no recipes")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tBY\tRATING\tDIFFICULTY\tPREP\tPUBLIC")
	for _, r := range recipes {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%t\n",
			r.ID, r.Title, r.CreatorName, formatRating(r.AverageRating), r.Difficulty, r.PrepTime, r.IsPublic)
	}
	return tw.Flush()
}

func printRecipe(w io.Writer, r *recipesdk.RecipeResponse) {
	fmt.Fprintf(w, "%s  (#%d by %s)\n", r.Title, r.ID, r.CreatorName)
	fmt.Fprintf(w, "rating %s from %d, %d favorites, %s, %s\n",
		formatRating(r.AverageRating), r.RatingsCount, r.FavoriteCount, r.Difficulty, r.PrepTime)
	if r.Description != nil && *r.Description != "" {
		fmt.Fprintf(w, "\n%s\n", *r.Description)
	}
	fmt.Fprintf(w, "\nIngredients:\n%s\n", r.Ingredients)
	if r.Instructions != nil && *r.Instructions != "" {
		fmt.Fprintf(w, "\nInstructions:\n%s\n", *r.Instructions)
	}
	if r.VideoURL != nil && *r.VideoURL != "" {
		fmt.Fprintf(w, "\nVideo: %s\n", *r.VideoURL)
	}
}

func formatRating(avg *float64) string {
	if avg == nil {
		return "-"
	}
	return strconv.FormatFloat(*avg, 'f', 1, 64)
}
