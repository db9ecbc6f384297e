package main

import (
	"github.com/deppfellow/repertoire/internal/database"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the embedded schema migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return database.Migrate(cmd.Context(), &log, cfg)
	},
}
