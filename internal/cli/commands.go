package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pageza/foodtrove/internal/service"
)

func (a *app) tagsCommand() *cobra.Command {
	var filter string
	cmd := &cobra.Command{
		Use:   "tags",
		Short: "List recipe tags",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tags, err := a.data.Tags(cmd.Context(), false)
			if err != nil {
				return fmt.Errorf("failed to list tags: %s", service.Message(err, "Failed to fetch tags"))
			}
			tags = service.FilterTags(tags, filter)
			if a.jsonOutput() {
				return printJSON(cmd.OutOrStdout(), tags)
			}
			for _, tag := range tags {
				fmt.Fprintln(cmd.OutOrStdout(), tag)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&filter, "filter", "f", "", "only show tags containing this text")
	return cmd
}

func (a *app) resolveTagCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve-tag <query>",
		Short: "Resolve a free-text search to the tag the storefront would open",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tag := a.data.ResolveTag(cmd.Context(), strings.Join(args, " "))
			if a.jsonOutput() {
				return printJSON(cmd.OutOrStdout(), map[string]string{"tag": tag})
			}
			fmt.Fprintln(cmd.OutOrStdout(), tag)
			return nil
		},
	}
}

func (a *app) recipesCommand() *cobra.Command {
	var (
		tag     string
		page    int
		limit   int
		refresh bool
	)
	cmd := &cobra.Command{
		Use:   "recipes",
		Short: "List one page of recipes for a tag",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			params := service.NormalizeBrowseParams(tag, page, limit, refresh)
			result, err := a.data.RecipesByTag(cmd.Context(), params.Tag, params.Skip(), params.Limit, params.Refresh)
			if err != nil {
				return fmt.Errorf("failed to list recipes: %s", service.Message(err, "Failed to fetch recipes"))
			}
			if a.jsonOutput() {
				return printJSON(cmd.OutOrStdout(), result)
			}

			out := cmd.OutOrStdout()
			for _, r := range result.Recipes {
				fmt.Fprintf(out, "%d\t%s\t%.1f\n", r.ID, r.Name, r.Rating)
			}
			fmt.Fprintf(out, "page %d of %d (%d recipes)\n", params.Page, service.TotalPages(result.Total, params.Limit), result.Total)
			return nil
		},
	}
	cmd.Flags().StringVarP(&tag, "tag", "t", "", "tag to list (required)")
	cmd.Flags().IntVarP(&page, "page", "p", 1, "page number")
	cmd.Flags().IntVarP(&limit, "limit", "l", service.DefaultPageSize, "page size (6, 12, 24 or 48)")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "bypass the cache")
	_ = cmd.MarkFlagRequired("tag")
	return cmd
}

func (a *app) recipeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "recipe <id>",
		Short: "Show one recipe",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil || id <= 0 {
				return fmt.Errorf("invalid recipe id %q", args[0])
			}
			recipe, err := a.data.Recipe(cmd.Context(), id, false)
			if err != nil {
				return fmt.Errorf("failed to fetch recipe: %s", service.Message(err, "Failed to fetch recipe"))
			}
			if a.jsonOutput() {
				return printJSON(cmd.OutOrStdout(), recipe)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s (#%d)\n", recipe.Name, recipe.ID)
			fmt.Fprintf(out, "Category: %s\n", service.ProductFromRecipe(*recipe).Category)
			fmt.Fprintf(out, "Rating:   %.1f\n", recipe.Rating)
			if len(recipe.Tags) > 0 {
				fmt.Fprintf(out, "Tags:     %s\n", strings.Join(recipe.Tags, ", "))
			}
			for _, ing := range recipe.Ingredients {
				fmt.Fprintf(out, "  - %s\n", ing)
			}
			return nil
		},
	}
}
