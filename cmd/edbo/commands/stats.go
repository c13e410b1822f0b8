package commands

import (
	"fmt"
	"io"
	"time"

	"edbo-scraper/internal/applicants"
	"edbo-scraper/internal/store"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var (
	statsRuns    int
	statsSimilar float64
)

func init() {
	statsCmd.Flags().IntVar(&statsRuns, "runs", 10, "How many recent runs to list.")
	statsCmd.Flags().Float64Var(
		&statsSimilar,
		"similar",
		0,
		"List applicants whose names have a Jaro-Winkler similarity of at least this value (0 disables).",
	)
	rootCmd.AddCommand(statsCmd)
}

var statsCmd = &cobra.Command{
	Use:   "stats [--runs <n>] [--similar <threshold>]",
	Short: "Prints table sizes, the run history and optionally look-alike applicant names.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if statsSimilar < 0 || statsSimilar > 1 {
			return fmt.Errorf("--similar must be within [0, 1], got %v", statsSimilar)
		}

		ctx := cmd.Context()
		out := cmd.OutOrStdout()
		st, err := current.openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		counts, err := st.Counts(ctx)
		if err != nil {
			return err
		}
		t := newTable(out)
		t.AppendHeader(table.Row{"Table", "Rows"})
		for _, c := range counts {
			t.AppendRow(table.Row{c.Table, c.Rows})
		}
		t.Render()

		runs, err := st.Runs(ctx, statsRuns)
		if err != nil {
			return err
		}
		printRuns(out, runs, current.clock.Location())

		if statsSimilar == 0 {
			return nil
		}
		roster, err := st.FindApplicants(ctx)
		if err != nil {
			return err
		}
		pairs := applicants.SimilarNames(roster, statsSimilar)
		t = newTable(out)
		t.SetTitle(fmt.Sprintf("%d similar name pairs", len(pairs)))
		t.AppendHeader(table.Row{"ID", "Name", "ID", "Name", "Similarity"})
		for _, p := range pairs {
			t.AppendRow(table.Row{
				p.Left.ID, p.Left.Name,
				p.Right.ID, p.Right.Name,
				fmt.Sprintf("%.3f", p.Similarity),
			})
		}
		t.Render()
		return nil
	},
}

func printRuns(out io.Writer, runs []store.Run, location *time.Location) {
	const layout = "2006-01-02 15:04"

	t := newTable(out)
	t.SetTitle("recent runs")
	t.AppendHeader(table.Row{"Run", "Started", "Finished", "Offers", "Removed", "Applications", "Applicants", "Failed", "Error"})
	for _, r := range runs {
		finished := "-"
		if r.FinishedAt != nil {
			finished = r.FinishedAt.In(location).Format(layout)
		}
		t.AppendRow(table.Row{
			r.ID.String()[:8],
			r.StartedAt.In(location).Format(layout),
			finished,
			r.Stats.Offers,
			r.Stats.RemovedOffers,
			r.Stats.Applications,
			r.Stats.Applicants,
			r.Stats.FailedEntries,
			r.Error,
		})
	}
	t.Render()
}
