package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"components.dev/calc/internal/core/ports"
	"components.dev/calc/internal/infrastructure/plugins"
)

// providersReport is the machine readable form of the providers command
type providersReport struct {
	Linked     []ports.Provider           `json:"linked"`
	Discovered []plugins.DiscoveredBinary `json:"discovered"`
}

// NewProvidersCommand creates the providers command
func NewProvidersCommand(container *CLIContainer) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "providers",
		Short: "List linked capability providers and discovered plugin binaries",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := link(cmd.Context(), container); err != nil {
				return err
			}

			discovered, err := plugins.Discover([]string{container.Config.PluginsDir})
			if err != nil {
				container.Logger.Warn("plugin discovery failed", "dir", container.Config.PluginsDir, "error", err)
			}

			report := providersReport{
				Linked:     container.Linker.Providers(),
				Discovered: discovered,
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			}
			printProviders(cmd.OutOrStdout(), report)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the report as JSON")
	return cmd
}

func printProviders(w io.Writer, report providersReport) {
	fmt.Fprintln(w, headerStyle.Render("Linked providers"))
	for _, p := range report.Linked {
		fmt.Fprintf(w, "  %-10s %-8s %s\n", p.Capability, p.Kind, mutedStyle.Render(p.Source))
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, headerStyle.Render("Discovered plugin binaries"))
	if len(report.Discovered) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("  none"))
		return
	}
	for _, b := range report.Discovered {
		fmt.Fprintf(w, "  %-10s %s\n", b.Capability, mutedStyle.Render(b.Path))
	}
}
