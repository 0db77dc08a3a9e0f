package cli

import (
	"fmt"

	"github.com/felixgeelhaar/duet/internal/content/catalog"
	contentDomain "github.com/felixgeelhaar/duet/internal/content/domain"
	"github.com/spf13/cobra"
)

var contentCmd = &cobra.Command{
	Use:   "content",
	Short: "Browse and unlock conversation content",
}

var contentCategoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List available categories",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		ctx := cmd.Context()

		for _, category := range catalog.Categories() {
			count, err := app.Progress.AccessibleItemCount(ctx, category.ID, category.TotalItems)
			if err != nil {
				return err
			}
			tag := ""
			if category.IsPremium {
				tag = " [premium]"
			}
			fmt.Printf("%-16s %s%s - %d of %d unlocked\n",
				category.ID, category.Name, tag, count, category.TotalItems)
		}
		return nil
	},
}

var contentListCmd = &cobra.Command{
	Use:   "list <category>",
	Short: "Show the card stream for a category",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		ctx := cmd.Context()

		category, ok := catalog.FindCategory(args[0])
		if !ok {
			return fmt.Errorf("unknown category: %s", args[0])
		}

		subscribed, err := app.Billing.IsSubscribed(ctx, app.CurrentUserID)
		if err != nil {
			return err
		}

		cards, err := app.Stream.Build(ctx, category, catalog.Items(category.ID), subscribed)
		if err != nil {
			return err
		}

		for _, card := range cards {
			switch card.Kind {
			case contentDomain.CardItem:
				fmt.Printf("%4d. %s\n", card.Item.Position+1, card.Item.Text)
			case contentDomain.CardPackCompletion:
				fmt.Printf("      --- pack %d complete! run 'duet content unlock %s' for more ---\n",
					card.PackNumber, category.ID)
			case contentDomain.CardPaywall:
				fmt.Println("      --- subscribe to keep going ---")
			}
		}
		return nil
	},
}

var contentUnlockCmd = &cobra.Command{
	Use:   "unlock <category>",
	Short: "Unlock the next pack in a category",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		ctx := cmd.Context()

		category, ok := catalog.FindCategory(args[0])
		if !ok {
			return fmt.Errorf("unknown category: %s", args[0])
		}

		if err := app.Progress.UnlockNextPack(ctx, category.ID, category.TotalItems); err != nil {
			return err
		}

		count, err := app.Progress.AccessibleItemCount(ctx, category.ID, category.TotalItems)
		if err != nil {
			return err
		}
		fmt.Printf("%d of %d items now accessible in %s\n", count, category.TotalItems, category.Name)
		return nil
	},
}

func init() {
	contentCmd.AddCommand(contentCategoriesCmd)
	contentCmd.AddCommand(contentListCmd)
	contentCmd.AddCommand(contentUnlockCmd)
	rootCmd.AddCommand(contentCmd)
}
