package plugins

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"components.dev/calc/internal/core/ports"
	"components.dev/calc/internal/infrastructure/config"
)

// DiscoveredBinary is a provider executable found on disk
type DiscoveredBinary struct {
	Capability string `json:"capability"`
	Path       string `json:"path"`
}

// Discover scans the directories for calc-provider-* executables.
// Missing directories are skipped; earlier directories win.
func Discover(dirs []string) ([]DiscoveredBinary, error) {
	seen := make(map[string]bool)
	var found []DiscoveredBinary

	for _, dir := range dirs {
		dir = config.ExpandPath(dir)
		entries, err := os.ReadDir(dir)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("failed to read plugin directory %s: %w", dir, err)
		}

		for _, entry := range entries {
			if entry.IsDir() || !strings.HasPrefix(entry.Name(), BinaryPrefix) {
				continue
			}
			capability := strings.TrimSuffix(strings.TrimPrefix(entry.Name(), BinaryPrefix), ".exe")
			if capability != ports.CapabilityAdder && capability != ports.CapabilitySubtractor {
				continue
			}
			if seen[capability] {
				continue
			}

			info, err := entry.Info()
			if err != nil || info.Mode()&0111 == 0 {
				continue
			}

			seen[capability] = true
			found = append(found, DiscoveredBinary{
				Capability: capability,
				Path:       filepath.Join(dir, entry.Name()),
			})
		}
	}

	sort.Slice(found, func(i, j int) bool {
		return found[i].Capability < found[j].Capability
	})
	return found, nil
}

// Locate returns the path of the provider binary for a capability
func Locate(capability string, dirs []string) (string, error) {
	found, err := Discover(dirs)
	if err != nil {
		return "", err
	}
	for _, b := range found {
		if b.Capability == capability {
			return b.Path, nil
		}
	}
	return "", fmt.Errorf("%w: no %s in %s", ports.ErrProviderUnavailable, BinaryName(capability), strings.Join(dirs, ", "))
}
