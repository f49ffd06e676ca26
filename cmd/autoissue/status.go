package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/autoissue/autoissue/internal/config"
	"github.com/autoissue/autoissue/internal/session"
)

var statusFlags struct {
	sessionID  string
	configPath string
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print a saved session's progress",
	RunE:  runStatus,
}

func init() {
	statusCmd.Flags().StringVar(&statusFlags.sessionID, "session", "", "session ID to inspect (required)")
	statusCmd.Flags().StringVar(&statusFlags.configPath, "config", "", "path to config file (default ~/.config/autoissue/config.yaml)")
}

func runStatus(cmd *cobra.Command, args []string) error {
	if statusFlags.sessionID == "" {
		return fmt.Errorf("autoissue status: --session is required")
	}

	cfg, err := config.Load(statusFlags.configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	stateRoot, err := resolveStateRoot(cfg.StateRoot)
	if err != nil {
		return err
	}

	state, err := session.Load(stateRoot, statusFlags.sessionID)
	if err != nil {
		return fmt.Errorf("loading session %s: %w", statusFlags.sessionID, err)
	}

	fmt.Printf("session:    %s\n", state.SessionID)
	fmt.Printf("started:    %s\n", state.StartedAt.Format("2006-01-02T15:04:05Z07:00"))
	fmt.Printf("checkpoint: %s\n", state.LastCheckpointAt.Format("2006-01-02T15:04:05Z07:00"))
	fmt.Printf("completed:  %d issue(s) %v\n", len(state.CompletedIssueNumbers), state.CompletedIssueNumbers)
	fmt.Printf("failed:     %d issue(s) %v\n", len(state.FailedIssueNumbers), state.FailedIssueNumbers)
	fmt.Printf("totalCost:  $%.2f (budget $%.2f)\n", state.TotalCostUsd, state.ConfigSnapshot.MaxTotalBudgetUsd)
	return nil
}
