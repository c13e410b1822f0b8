package commands

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(migrateCmd)
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Creates the database if needed and applies pending migrations.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := current.openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer st.Close()

		err = st.SeedLookups(cmd.Context())
		if err != nil {
			return fmt.Errorf("seed lookups: %w", err)
		}

		counts, err := st.Counts(cmd.Context())
		if err != nil {
			return err
		}
		t := newTable(cmd.OutOrStdout())
		t.SetTitle(fmt.Sprintf("%s schema is up to date", st.Dialect()))
		t.AppendHeader(table.Row{"Table", "Rows"})
		for _, c := range counts {
			t.AppendRow(table.Row{c.Table, c.Rows})
		}
		t.Render()
		return nil
	},
}
