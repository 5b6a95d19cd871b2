package cli

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/harrisonrobin/dayline/pkg/colors"
	"github.com/harrisonrobin/dayline/pkg/google"
	"github.com/harrisonrobin/dayline/pkg/index"
	"github.com/harrisonrobin/dayline/pkg/overdue"
	"github.com/harrisonrobin/dayline/pkg/timeline"
)

func newPublishCmd(opts *options) *cobra.Command {
	var calendarName string
	var prune bool
	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Publish the projected timeline to Google Calendar",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			d, err := opts.loadDay(ctx)
			if err != nil {
				return err
			}
			publisher, err := newPublisher(ctx, d, calendarName)
			if err != nil {
				return err
			}
			defer publisher.SaveState()

			tl := timeline.Build(d.sections, d.tasks, d.now)
			res, err := publisher.Publish(ctx, tl)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "published %d, completed %d, overdue %d, failed %d\n",
				res.Published, res.Completed, res.Overdue, res.Failed)

			if prune {
				pruned, err := publisher.Prune(ctx, tl)
				if err != nil {
					return fmt.Errorf("error pruning events: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "pruned %d\n", pruned)
			}
			if res.Failed > 0 {
				return fmt.Errorf("%d tasks could not be published", res.Failed)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&calendarName, "calendar", "", "Google Calendar name (overrides config)")
	cmd.Flags().BoolVar(&prune, "prune", false, "delete the day's events whose task is no longer planned")
	return cmd
}

// newPublisher connects to the calendar and opens the local caches. A cache
// that cannot be read only disables what it is used for.
func newPublisher(ctx context.Context, d *day, calendarName string) (*google.Publisher, error) {
	if calendarName == "" {
		calendarName = d.cfg.Calendar
	}

	evtIndex, err := index.NewEventIndex(d.configDir)
	if err != nil {
		log.Printf("Warning: failed to initialize event index: %v", err)
		evtIndex = nil
	}
	client, err := google.NewClient(ctx, d.configDir, calendarName, evtIndex)
	if err != nil {
		return nil, fmt.Errorf("error creating Google Calendar client: %w", err)
	}

	publisher := &google.Publisher{Client: client}
	if publisher.Colors, err = colors.NewColorCache(d.configDir); err != nil {
		log.Printf("Warning: could not load color cache: %v", err)
		publisher.Colors = nil
	}
	if publisher.Overdue, err = overdue.NewTable(d.configDir); err != nil {
		log.Printf("Warning: failed to initialize overdue sweep table: %v", err)
		publisher.Overdue = nil
	}
	return publisher, nil
}
