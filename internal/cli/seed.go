package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/sysmap/sam/pkg/store"
)

// newSeedCmd creates the seed command that loads a catalog into the store.
func newSeedCmd() *cobra.Command {
	var (
		force bool
		file  string
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load the demo catalog (or a JSON file) into the store",
		Long: `Load a catalog into the configured store.

Without --file the built-in demo catalog is loaded: ULM, AAM, and SAM with
their dependencies and routes. With --file a JSON snapshot (applications,
dependencies, routes) is imported instead.

A populated store is left untouched unless --force is given, which wipes
and reloads it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			st, err := openStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer func() { _ = st.Close(context.Background()) }()

			prog := newProgress(logger)

			var seeded bool
			if file != "" {
				cat, err := store.Load(file)
				if err != nil {
					return err
				}
				if seeded, err = store.Import(ctx, st, cat, force); err != nil {
					return err
				}
			} else if seeded, err = store.Seed(ctx, st, force); err != nil {
				return err
			}

			if !seeded {
				printWarning("store already populated, nothing seeded (use --force to reload)")
				return nil
			}

			count, err := st.CountApplications(ctx)
			if err != nil {
				return err
			}
			prog.done("Catalog loaded")
			printSuccess("seeded %d applications into %s store", count, cfg.Store.Backend)
			printNextStep("Inspect the graph", "sam graph")
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "wipe a populated store before loading")
	cmd.Flags().StringVar(&file, "file", "", "JSON catalog snapshot to import instead of the demo data")

	return cmd
}
