package cli

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/duet/internal/content/catalog"
	onboardingDomain "github.com/felixgeelhaar/duet/internal/onboarding/domain"
	"github.com/spf13/cobra"
)

var onboardingCmd = &cobra.Command{
	Use:   "onboarding",
	Short: "Walk through onboarding",
}

var onboardingStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current onboarding step and progress",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if err := app.Onboarding.Start(cmd.Context()); err != nil {
			return err
		}
		fmt.Printf("Current step: %s\n", app.Onboarding.Current())
		fmt.Printf("Progress: %.0f%%\n", app.Onboarding.Progress()*100)
		return nil
	},
}

var onboardingNextCmd = &cobra.Command{
	Use:   "next",
	Short: "Advance to the next step",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		ctx := cmd.Context()
		if err := app.Onboarding.Start(ctx); err != nil {
			return err
		}

		// The partner step routes through pairing: an inherited
		// subscription jumps straight to completion.
		if app.Onboarding.Current() == onboardingDomain.StepPartner {
			result, err := app.Pairing.CheckExistingConnection(ctx)
			if err != nil {
				return err
			}
			if result != nil {
				contentReady := func(context.Context) bool {
					return len(catalog.Categories()) > 0
				}
				if err := app.Onboarding.AdvanceAfterPairing(ctx, result.Inherited, contentReady); err != nil {
					return err
				}
				fmt.Printf("Now at: %s\n", app.Onboarding.Current())
				return nil
			}
			fmt.Println("Not paired yet; continuing without a partner.")
			fmt.Println("You can pair any time with 'duet pair generate' or 'duet pair connect'.")
		}

		if err := app.Onboarding.Next(ctx); err != nil {
			return err
		}
		fmt.Printf("Now at: %s\n", app.Onboarding.Current())
		return nil
	},
}

var onboardingBackCmd = &cobra.Command{
	Use:   "back",
	Short: "Go back one step",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		ctx := cmd.Context()
		if err := app.Onboarding.Start(ctx); err != nil {
			return err
		}
		if err := app.Onboarding.Previous(ctx); err != nil {
			return err
		}
		fmt.Printf("Now at: %s\n", app.Onboarding.Current())
		return nil
	},
}

var onboardingAnswerCmd = &cobra.Command{
	Use:   "answer <step> <value>",
	Short: "Record an answer for a step",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		ctx := cmd.Context()
		if err := app.Onboarding.Start(ctx); err != nil {
			return err
		}
		step := onboardingDomain.Step(args[0])
		if err := app.Onboarding.RecordAnswer(ctx, step, args[1]); err != nil {
			return err
		}
		fmt.Printf("Recorded answer for %s\n", step)
		return nil
	},
}

var onboardingCompleteCmd = &cobra.Command{
	Use:   "complete",
	Short: "Finish onboarding",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		ctx := cmd.Context()
		if err := app.Onboarding.Start(ctx); err != nil {
			return err
		}
		if err := app.Onboarding.Complete(ctx); err != nil {
			return err
		}
		fmt.Println("Onboarding complete. Welcome to Duet!")
		return nil
	},
}

func init() {
	onboardingCmd.AddCommand(onboardingStatusCmd)
	onboardingCmd.AddCommand(onboardingNextCmd)
	onboardingCmd.AddCommand(onboardingBackCmd)
	onboardingCmd.AddCommand(onboardingAnswerCmd)
	onboardingCmd.AddCommand(onboardingCompleteCmd)
	rootCmd.AddCommand(onboardingCmd)
}
