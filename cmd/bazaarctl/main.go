// Command bazaarctl runs operator tasks against the marketplace store.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"bazaar/internal/config"
	"bazaar/internal/repos"
)

var Version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:           "bazaarctl",
		Short:         "Operator tools for the bazaar marketplace",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.AddCommand(createAdminCmd())
	rootCmd.AddCommand(promoteUserCmd())
	rootCmd.AddCommand(seedCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// withRepos opens the configured store for the duration of fn.
func withRepos(ctx context.Context, fn func(config.Config, *repos.Repos) error) error {
	cfg := config.Load()
	store, err := repos.OpenStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close(ctx)
	return fn(cfg, repos.New(store))
}
