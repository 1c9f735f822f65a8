package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/creativeprojects/go-selfupdate"
	"github.com/spf13/cobra"
)

// ErrDevBuild is returned when a development build is asked to update itself
var ErrDevBuild = errors.New("development builds cannot be updated, install a release instead")

// NewUpdateCommand creates the update command
func NewUpdateCommand(container *CLIContainer) *cobra.Command {
	var checkOnly bool

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update calc to the latest release",
		Long: `Check the release repository for a newer calc and replace the running
executable with it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUpdate(cmd.Context(), cmd.OutOrStdout(), container.Config.ReleaseSlug, checkOnly)
		},
	}

	cmd.Flags().BoolVar(&checkOnly, "check", false, "Only report whether an update is available")
	return cmd
}

// runUpdate handles the update process
func runUpdate(ctx context.Context, w io.Writer, slug string, checkOnly bool) error {
	fmt.Fprintf(w, "Current version: %s\n", Version)
	if Version == "dev" {
		return ErrDevBuild
	}

	fmt.Fprintln(w, "Checking for updates...")
	latest, found, err := selfupdate.DetectLatest(ctx, selfupdate.ParseSlug(slug))
	if err != nil {
		return fmt.Errorf("failed to check for updates: %w", err)
	}
	if !found {
		return fmt.Errorf("no release found for %s", slug)
	}

	if latest.LessOrEqual(Version) {
		fmt.Fprintln(w, "Already at latest version.")
		return nil
	}

	if checkOnly {
		fmt.Fprintf(w, "Update available: %s\n", latest.Version())
		return nil
	}

	exe, err := selfupdate.ExecutablePath()
	if err != nil {
		return fmt.Errorf("could not locate executable path: %w", err)
	}

	fmt.Fprintf(w, "Updating to %s...\n", latest.Version())
	if err := selfupdate.UpdateTo(ctx, latest.AssetURL, latest.AssetName, exe); err != nil {
		return fmt.Errorf("update failed: %w", err)
	}

	fmt.Fprintf(w, "Successfully updated to %s\n", latest.Version())
	return nil
}
