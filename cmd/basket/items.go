package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mmynk/basket/internal/models"
	"github.com/mmynk/basket/internal/state"
	"github.com/mmynk/basket/internal/style"
)

var itemsCmd = &cobra.Command{
	Use:     "items",
	GroupID: GroupList,
	Short:   "Manage your grocery list",
	Long: `Manage your grocery list.

Items are referred to by their number in 'basket items list' or by a
prefix of their id.

Examples:
  basket items list --category dairy
  basket items add "Greek yogurt" --category dairy --price 4.25
  basket items toggle 2
  basket items clear`,
	RunE: requireSubcommand,
}

var itemsListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show the list, newest first",
	Args:  cobra.NoArgs,
	RunE:  runItemsList,
}

var itemsAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add an item to the top of the list",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runItemsAdd,
}

var itemsToggleCmd = &cobra.Command{
	Use:   "toggle <item>",
	Short: "Mark an item picked up, or not",
	Args:  cobra.ExactArgs(1),
	RunE:  runItemsToggle,
}

var itemsEditCmd = &cobra.Command{
	Use:   "edit <item>",
	Short: "Change an item's name, category or price",
	Args:  cobra.ExactArgs(1),
	RunE:  runItemsEdit,
}

var itemsRmCmd = &cobra.Command{
	Use:     "rm <item>",
	Aliases: []string{"delete"},
	Short:   "Remove an item",
	Args:    cobra.ExactArgs(1),
	RunE:    runItemsRm,
}

var itemsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every picked-up item",
	Args:  cobra.NoArgs,
	RunE:  runItemsClear,
}

var (
	listCategory string
	addCategory  string
	addPrice     float64
	editName     string
	editCategory string
	editPrice    float64
)

func init() {
	rootCmd.AddCommand(itemsCmd)
	itemsCmd.AddCommand(itemsListCmd, itemsAddCmd, itemsToggleCmd, itemsEditCmd, itemsRmCmd, itemsClearCmd)

	itemsListCmd.Flags().StringVarP(&listCategory, "category", "c", string(models.CategoryAll), "only show this category")
	itemsAddCmd.Flags().StringVarP(&addCategory, "category", "c", string(models.CategoryOther), "item category")
	itemsAddCmd.Flags().Float64VarP(&addPrice, "price", "p", 0, "item price")
	itemsEditCmd.Flags().StringVarP(&editName, "name", "n", "", "new name")
	itemsEditCmd.Flags().StringVarP(&editCategory, "category", "c", "", "new category")
	itemsEditCmd.Flags().Float64VarP(&editPrice, "price", "p", 0, "new price")
}

func runItemsList(cmd *cobra.Command, args []string) error {
	if _, err := env.requireSession(cmd.Context()); err != nil {
		return err
	}
	category, err := models.ParseCategory(listCategory)
	if err != nil {
		return err
	}
	if err := env.app.Items.SetCategory(category); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if category != models.CategoryAll {
		fmt.Fprintln(out, style.Header.Render(string(category)))
	}
	printItems(out, env.app.Items.Visible())
	printSummary(out, env.app.Items.Summary())
	return nil
}

func runItemsAdd(cmd *cobra.Command, args []string) error {
	if _, err := env.requireSession(cmd.Context()); err != nil {
		return err
	}
	category, err := models.ParseCategory(addCategory)
	if err != nil {
		return err
	}
	item, err := env.app.Items.AddItem(cmd.Context(), strings.Join(args, " "), category, addPrice)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s Added %s %s\n", style.SuccessPrefix, style.Bold.Render(item.Name), formatPrice(item.Price))
	return nil
}

func runItemsToggle(cmd *cobra.Command, args []string) error {
	item, err := resolveItem(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	item, err = env.app.Items.ToggleItem(cmd.Context(), item.ID)
	if err != nil {
		return err
	}
	verb := "still needed"
	if item.Completed {
		verb = "picked up"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n", style.Checkbox(item.Completed), style.Bold.Render(item.Name), verb)
	return nil
}

func runItemsEdit(cmd *cobra.Command, args []string) error {
	item, err := resolveItem(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	name, category, price := item.Name, item.Category, item.Price
	flags := cmd.Flags()
	if flags.Changed("name") {
		name = editName
	}
	if flags.Changed("category") {
		if category, err = models.ParseCategory(editCategory); err != nil {
			return err
		}
	}
	if flags.Changed("price") {
		price = editPrice
	}

	item, err = env.app.Items.EditItem(cmd.Context(), item.ID, name, category, price)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s Updated %s (%s) %s\n", style.SuccessPrefix, style.Bold.Render(item.Name), item.Category, formatPrice(item.Price))
	return nil
}

func runItemsRm(cmd *cobra.Command, args []string) error {
	item, err := resolveItem(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	if err := env.app.Items.DeleteItem(cmd.Context(), item.ID); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s Removed %s\n", style.SuccessPrefix, style.Bold.Render(item.Name))
	return nil
}

func runItemsClear(cmd *cobra.Command, args []string) error {
	if _, err := env.requireSession(cmd.Context()); err != nil {
		return err
	}
	n, err := env.app.Items.ClearCompletedItems(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s Cleared %d completed item(s)\n", style.SuccessPrefix, n)
	return nil
}

// resolveItem finds an item by its list number or a unique id prefix.
func resolveItem(ctx context.Context, ref string) (models.Item, error) {
	if _, err := env.requireSession(ctx); err != nil {
		return models.Item{}, err
	}
	return findItem(env.app.Items.Items(), ref)
}

func findItem(items []models.Item, ref string) (models.Item, error) {
	if n, err := strconv.Atoi(ref); err == nil {
		if n >= 1 && n <= len(items) {
			return items[n-1], nil
		}
		return models.Item{}, fmt.Errorf("no item number %d: %w", n, state.ErrNotFound)
	}

	var match []models.Item
	for _, item := range items {
		if strings.HasPrefix(item.ID, ref) {
			match = append(match, item)
		}
	}
	switch len(match) {
	case 0:
		return models.Item{}, fmt.Errorf("no item %q: %w", ref, state.ErrNotFound)
	case 1:
		return match[0], nil
	}
	return models.Item{}, fmt.Errorf("%q matches %d items; use more of the id", ref, len(match))
}
