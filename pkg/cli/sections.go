package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/harrisonrobin/dayline/pkg/clock"
	"github.com/harrisonrobin/dayline/pkg/layout"
	"github.com/harrisonrobin/dayline/pkg/timeline"
)

func newSectionsCmd(opts *options) *cobra.Command {
	var check bool
	cmd := &cobra.Command{
		Use:   "sections",
		Short: "Show the day's sections with gaps filled by intervals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := opts.loadDay(cmd.Context())
			if err != nil {
				return err
			}
			tl := timeline.Build(d.sections, d.tasks, d.now)
			displays := tl.Sections

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "START\tEND\tID\tNAME\tKIND\tTASKS")
			for _, s := range displays {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d\n", s.Start, s.End, s.ID, s.Name, s.Kind, len(tl.InSection(s.ID)))
			}
			if err := w.Flush(); err != nil {
				return err
			}

			if check && !layout.Covers(displays) {
				return fmt.Errorf("sections overlap: the layout does not tile %s-%s", clock.Midnight, clock.EndOfDay)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&check, "check", false, "fail when user sections overlap")
	return cmd
}

func newWhereCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "where [HH:MM]",
		Short: "Print the section owning a time of day (default now)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := opts.loadDay(cmd.Context())
			if err != nil {
				return err
			}
			at := clock.FromTime(d.now)
			if len(args) == 1 {
				if at, err = clock.Parse(args[0]); err != nil {
					return err
				}
			}

			id, err := layout.FindSectionForTime(d.sections, at)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), id)
			return nil
		},
	}
}
