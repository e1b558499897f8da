package main

import (
	"github.com/pbinitiative/zenbpm-importer/internal/log"
	"github.com/pbinitiative/zenbpm-importer/internal/store"
	"github.com/spf13/cobra"
)

func newMigrateCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the projection tables and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := store.Open(opts.conf.Store, newLogger().Named("store"))
			if err != nil {
				return err
			}
			defer st.Close()
			if err := st.Migrate(cmd.Context()); err != nil {
				return err
			}
			log.Infof(cmd.Context(), "Projection schema ready in %s", st.Path())
			return nil
		},
	}
}
