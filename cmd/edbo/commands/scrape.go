package commands

import (
	"context"
	"fmt"
	"io"

	"edbo-scraper/internal/edbo"
	"edbo-scraper/internal/edbocrypt"
	"edbo-scraper/internal/pipeline"
	"edbo-scraper/internal/store"
	"edbo-scraper/lib/restyutil"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var (
	refreshApplications bool
	dumpHTTP            string
)

func init() {
	scrapeCmd.Flags().BoolVar(
		&refreshApplications,
		"refresh-applications",
		false,
		"Rescrape applications and applicants even when both tables are populated.",
	)
	scrapeCmd.Flags().StringVar(
		&dumpHTTP,
		"dump-http",
		"",
		"Write every HTTP exchange to this directory.",
	)
	rootCmd.AddCommand(scrapeCmd)
}

var scrapeCmd = &cobra.Command{
	Use:   "scrape [--refresh-applications] [--dump-http <dir>]",
	Short: "Runs the scraping pipeline once, phases whose tables are populated are skipped.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := current.openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer st.Close()

		res, err := current.scrape(cmd.Context(), st, refreshApplications, dumpHTTP)
		printResult(cmd.OutOrStdout(), res)
		return err
	},
}

func (a *app) scrape(ctx context.Context, st store.Store, refresh bool, dumpDir string) (pipeline.Result, error) {
	specialities, err := a.cfg.ParseSpecialities()
	if err != nil {
		return pipeline.Result{}, err
	}

	var opts edbo.Options
	if dumpDir != "" {
		output, err := restyutil.NewFilesystemOutput(dumpDir)
		if err != nil {
			return pipeline.Result{}, err
		}
		opts.DumpOutput = output
	}
	client, err := edbo.NewClient(opts, a.tel)
	if err != nil {
		return pipeline.Result{}, err
	}

	p := pipeline.New(client, st, edbocrypt.NewCodec(), pipeline.Options{
		Specialities:        specialities,
		RefreshApplications: refresh,
		Now:                 a.clock.Now,
	}, a.tel)
	return p.Run(ctx)
}

func printResult(out io.Writer, res pipeline.Result) {
	stats := res.Stats()
	t := newTable(out)
	t.SetTitle(fmt.Sprintf("run %s", res.RunID))
	t.AppendHeader(table.Row{"Entity", "Count"})
	t.AppendRows([]table.Row{
		{"institutions", stats.Institutions},
		{"offers", stats.Offers},
		{"removed offers", stats.RemovedOffers},
		{"applications", stats.Applications},
		{"applicants", stats.Applicants},
		{"failed entries", stats.FailedEntries},
	})
	t.Render()
}
