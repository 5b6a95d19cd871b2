package cli

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/harrisonrobin/dayline/pkg/model"
	"github.com/harrisonrobin/dayline/pkg/timeline"
)

func newTimelineCmd(opts *options) *cobra.Command {
	var showDone bool
	cmd := &cobra.Command{
		Use:   "timeline",
		Short: "Project the day's tasks from now",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := opts.loadDay(cmd.Context())
			if err != nil {
				return err
			}
			tl := timeline.Build(d.sections, d.tasks, d.now)
			return printTimeline(cmd.OutOrStdout(), tl, showDone)
		},
	}
	cmd.Flags().BoolVar(&showDone, "done", false, "also list finished tasks")
	return cmd
}

func printTimeline(out io.Writer, tl *timeline.Timeline, showDone bool) error {
	fmt.Fprintf(out, "now %s, in %s\n\n", tl.Now.Format("15:04"), tl.Current().Name)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "START\tEND\tSECTION\tSTATUS\tTASK\tNOTE")
	for _, e := range tl.Entries {
		if !e.Projected {
			if showDone && e.Task.Status == model.StatusDone {
				fmt.Fprintf(w, "-\t-\t%s\t%s\t%s\t\n", e.Section.Name, e.Task.Status, e.Task.Title)
			}
			continue
		}
		note := ""
		if e.Overlap > 0 {
			note = fmt.Sprintf("overlaps by %s", e.Overlap.Round(time.Minute))
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			e.Interval.Start.Format("15:04"), e.Interval.End.Format("15:04"),
			e.Section.Name, e.Task.Status, e.Task.Title, note)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if tl.Finish.IsZero() {
		fmt.Fprintln(out, "\nnothing left to do")
		return nil
	}
	fmt.Fprintf(out, "\nfinish at %s\n", tl.Finish.Format("15:04"))
	return nil
}
