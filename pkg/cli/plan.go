package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/harrisonrobin/dayline/pkg/model"
	"github.com/harrisonrobin/dayline/pkg/plan"
)

func newPlanCmd(opts *options) *cobra.Command {
	planCmd := &cobra.Command{
		Use:   "plan",
		Short: "Manage the day plans kept in the data directory",
	}
	planCmd.AddCommand(newPlanCarryCmd(opts))
	return planCmd
}

func newPlanCarryCmd(opts *options) *cobra.Command {
	var from string
	cmd := &cobra.Command{
		Use:   "carry",
		Short: "Start a day from another day's sections and unfinished tasks",
		Long: `Copies the sections of the --from day (default the day before) into the
plan of --date, together with every task not yet done. Carried tasks keep
their ids, spent time and scheduled start, and are reset to open.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.planPath != "" {
				return fmt.Errorf("plan carry works on the data directory, not on --plan files")
			}
			cfg, _, err := opts.loadConfig()
			if err != nil {
				return err
			}
			loc, err := cfg.TimeLocation()
			if err != nil {
				return err
			}
			date, err := opts.planDate(time.Now().In(loc))
			if err != nil {
				return err
			}
			source := date.AddDate(0, 0, -1)
			if from != "" {
				if source, err = time.ParseInLocation("2006-01-02", from, loc); err != nil {
					return fmt.Errorf("invalid --from %q: %w", from, err)
				}
			}

			store := plan.NewStore(cfg.DataDir)
			target, err := store.Load(date)
			if err != nil {
				return err
			}
			if len(target.Sections) > 0 || len(target.Tasks) > 0 {
				return fmt.Errorf("%s already has a plan at %s", date.Format("2006-01-02"), store.Path(date))
			}
			prev, err := store.Load(source)
			if err != nil {
				return err
			}
			if len(prev.Sections) == 0 && len(prev.Tasks) == 0 {
				return fmt.Errorf("no plan for %s at %s", source.Format("2006-01-02"), store.Path(source))
			}

			next := carry(prev, target.Date)
			if err := store.Save(next); err != nil {
				return fmt.Errorf("failed to save plan: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "carried %d sections and %d tasks from %s to %s\n",
				len(next.Sections), len(next.Tasks), source.Format("2006-01-02"), store.Path(date))
			return nil
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "day to carry from, YYYY-MM-DD (default the day before --date)")
	return cmd
}

// carry builds the plan for date from prev's sections and unfinished tasks.
func carry(prev *plan.Plan, date time.Time) *plan.Plan {
	next := &plan.Plan{Date: date, Owner: prev.Owner, Sections: prev.Sections}
	for _, t := range prev.Tasks {
		if t.Status == model.StatusDone {
			continue
		}
		t.Status = model.StatusOpen
		t.StartedAt = time.Time{}
		next.Tasks = append(next.Tasks, t)
	}
	return next
}
