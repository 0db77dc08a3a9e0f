package cli

import (
	"errors"
	"fmt"

	pairingDomain "github.com/felixgeelhaar/duet/internal/pairing/domain"
	"github.com/spf13/cobra"
)

var pairCmd = &cobra.Command{
	Use:   "pair",
	Short: "Pair with your partner",
}

var pairGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a partner code to share",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		ctx := cmd.Context()

		// An already paired user has nothing to generate.
		if result, err := app.Pairing.CheckExistingConnection(ctx); err == nil && result != nil {
			fmt.Printf("Already paired with partner %s\n", result.Partner.PartnerID)
			return nil
		}

		issued, err := app.Pairing.GeneratePartnerCode(ctx)
		if err != nil {
			if errors.Is(err, pairingDomain.ErrGenerationRefused) {
				fmt.Println("Already paired; no code needed.")
				return nil
			}
			return fmt.Errorf("could not generate a code, try again: %w", err)
		}

		fmt.Printf("Your partner code: %s\n", issued.Code)
		fmt.Printf("Expires: %s\n", issued.ExpiresAt.Format("2006-01-02 15:04 MST"))
		fmt.Println()
		fmt.Println(issued.Code.ShareText())
		return nil
	},
}

var pairConnectCmd = &cobra.Command{
	Use:   "connect <code>",
	Short: "Connect using your partner's code",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		ctx := cmd.Context()

		result, err := app.Pairing.ConnectWithPartnerCode(ctx, args[0])
		if err != nil {
			return pairingErrorMessage(err)
		}

		fmt.Printf("Connected with partner %s\n", result.Partner.PartnerID)
		if result.Inherited {
			fmt.Println("Your partner's subscription now covers you too.")
		}
		return nil
	},
}

var pairStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current pairing status",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		ctx := cmd.Context()

		result, err := app.Pairing.CheckExistingConnection(ctx)
		if err != nil {
			return err
		}
		if result == nil {
			fmt.Println("Not paired. Run 'duet pair generate' to get a code.")
			if issued := app.Pairing.IssuedCode(); issued != nil {
				fmt.Printf("Pending code: %s\n", issued.Code)
			}
			return nil
		}

		fmt.Printf("Paired with partner %s\n", result.Partner.PartnerID)
		subscribed, err := app.Billing.IsSubscribed(ctx, app.CurrentUserID)
		if err != nil {
			return err
		}
		fmt.Printf("Subscribed: %t\n", subscribed)
		return nil
	},
}

// pairingErrorMessage maps pairing failures to user-readable messages.
func pairingErrorMessage(err error) error {
	switch {
	case errors.Is(err, pairingDomain.ErrInvalidCodeFormat):
		return errors.New("that code doesn't look right: it should be 8 letters or digits")
	case errors.Is(err, pairingDomain.ErrCodeNotFound):
		return errors.New("code not found: check it with your partner and try again")
	case errors.Is(err, pairingDomain.ErrCodeExpired):
		return errors.New("that code has expired: ask your partner for a fresh one")
	case errors.Is(err, pairingDomain.ErrSelfPairing):
		return errors.New("you can't pair with your own code")
	case errors.Is(err, pairingDomain.ErrAlreadyPaired):
		return errors.New("one of you is already paired")
	default:
		return fmt.Errorf("connection failed: %w", err)
	}
}

func init() {
	pairCmd.AddCommand(pairGenerateCmd)
	pairCmd.AddCommand(pairConnectCmd)
	pairCmd.AddCommand(pairStatusCmd)
	rootCmd.AddCommand(pairCmd)
}
