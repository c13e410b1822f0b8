package commands

import (
	"fmt"

	"edbo-scraper/internal/components/chrono"

	"github.com/spf13/cobra"
)

const report_watch_scrape = "watch.scrape"

var (
	watchSpec        string
	watchImmediately bool
)

func init() {
	watchCmd.Flags().StringVar(&watchSpec, "cron", "", "Cron schedule in Kyiv time, EDBO_CRON or the config when empty.")
	watchCmd.Flags().BoolVar(&watchImmediately, "now", false, "Scrape once before waiting for the schedule.")
	rootCmd.AddCommand(watchCmd)
}

var watchCmd = &cobra.Command{
	Use:   "watch [--cron <spec>] [--now]",
	Short: "Refreshes applications on a schedule until interrupted.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		spec := watchSpec
		if spec == "" {
			spec = current.cfg.Cron
		}
		err := chrono.ValidateSpec(spec)
		if err != nil {
			return fmt.Errorf("invalid cron schedule %q: %w", spec, err)
		}

		ctx := cmd.Context()
		st, err := current.openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		scrape := func() {
			res, err := current.scrape(ctx, st, true, "")
			if err != nil {
				current.tel.ReportBroken(report_watch_scrape, err, res.RunID.String())
				return
			}
			current.tel.ReportDebug(
				"scheduled scrape finished",
				"run", res.RunID.String(),
				"applications", len(res.Applications),
				"failed", len(res.Failures),
			)
		}
		if watchImmediately {
			scrape()
		}

		scheduler := chrono.NewStandardCron(current.clock, current.tel)
		err = scheduler.Cron(spec, scrape)
		if err != nil {
			<-scheduler.Stop().Done()
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "watching with schedule %q (%s), Ctrl+C to stop\n", spec, chrono.LocationName)

		<-ctx.Done()
		// waits for a scrape in flight, it observes the same cancellation
		<-scheduler.Stop().Done()
		return nil
	},
}
