package cli

import (
	"context"
	"io"
	"os"
	"testing"
	"time"

	appcontainer "github.com/felixgeelhaar/duet/internal/app"
	"github.com/felixgeelhaar/duet/pkg/config"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupCLI(t *testing.T) {
	t.Helper()

	cfg := &config.Config{
		AppEnv:                "test",
		LogLevel:              "error",
		UserID:                uuid.New().String(),
		SQLitePath:            ":memory:",
		PairingCodeTTL:        24 * time.Hour,
		FreeCategoryID:        "free-category",
		ReadinessTimeout:      time.Second,
		ReadinessPollInterval: 50 * time.Millisecond,
	}

	container, err := appcontainer.NewContainerWithConfig(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(container.Close)

	SetLogger(container.Logger)
	SetApp(&App{
		Pairing:       container.Pairing,
		Billing:       container.Billing,
		Progress:      container.Progress,
		Stream:        container.Stream,
		Onboarding:    container.Onboarding,
		Waiter:        container.Waiter,
		CurrentUserID: container.UserID,
	})
}

func runCommand(t *testing.T, args ...string) string {
	t.Helper()

	old := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w

	rootCmd.SetArgs(args)
	execErr := rootCmd.ExecuteContext(context.Background())

	_ = w.Close()
	os.Stdout = old
	out, err := io.ReadAll(r)
	require.NoError(t, err)
	require.NoError(t, execErr)
	return string(out)
}

func TestPairGenerateCommand(t *testing.T) {
	setupCLI(t)

	out := runCommand(t, "pair", "generate")
	assert.Contains(t, out, "Your partner code:")
	assert.Contains(t, out, "Join me on Duet!")
}

func TestPairStatusCommand_Unpaired(t *testing.T) {
	setupCLI(t)

	out := runCommand(t, "pair", "status")
	assert.Contains(t, out, "Not paired")
}

func TestContentCategoriesCommand(t *testing.T) {
	setupCLI(t)

	out := runCommand(t, "content", "categories")
	assert.Contains(t, out, "free-category")
	assert.Contains(t, out, "32 of 96 unlocked")
}

func TestContentUnlockCommand(t *testing.T) {
	setupCLI(t)

	out := runCommand(t, "content", "unlock", "free-category")
	assert.Contains(t, out, "64 of 96 items now accessible")
}

func TestOnboardingStatusCommand(t *testing.T) {
	setupCLI(t)

	out := runCommand(t, "onboarding", "status")
	assert.Contains(t, out, "Current step: welcome")
}

func TestOnboardingNextCommand(t *testing.T) {
	setupCLI(t)

	out := runCommand(t, "onboarding", "next")
	assert.Contains(t, out, "Now at: auth")
}
