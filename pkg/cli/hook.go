package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/harrisonrobin/dayline/pkg/model"
	"github.com/harrisonrobin/dayline/pkg/taskwarrior"
	"github.com/harrisonrobin/dayline/pkg/timeline"
)

func newHookCmd(opts *options) *cobra.Command {
	var calendarName string
	cmd := &cobra.Command{
		Use:   "hook",
		Short: "Run as a Taskwarrior on-add or on-modify hook",
		Long: `Reads the task JSON Taskwarrior passes on stdin, echoes the final task back
unchanged and republishes the day with that task in place.

Install a script running "dayline hook --taskwarrior" as both
~/.task/hooks/on-add.dayline and ~/.task/hooks/on-modify.dayline.
Publishing errors are logged and never reject the change.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("error reading tasks from stdin: %w", err)
			}

			// Taskwarrior stores whatever the hook prints, so the line is
			// passed through as received.
			lines := strings.Split(strings.TrimSpace(string(data)), "\n")
			if last := strings.TrimSpace(lines[len(lines)-1]); last != "" {
				fmt.Fprintln(cmd.OutOrStdout(), last)
			}

			twTasks, err := taskwarrior.NewClient().ParseTasks(bytes.NewReader(data))
			if err != nil {
				log.Printf("Error parsing tasks from stdin: %v", err)
				return nil
			}
			if len(twTasks) == 0 {
				return nil
			}

			changed := twTasks[len(twTasks)-1]
			if err := syncChangedTask(cmd.Context(), opts, calendarName, changed); err != nil {
				log.Printf("Error syncing task %s: %v", changed.UUID, err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&calendarName, "calendar", "", "Google Calendar name (overrides config)")
	return cmd
}

// syncChangedTask republishes the day with the hook's version of a task, or
// removes the task's event when it no longer belongs to the day.
func syncChangedTask(ctx context.Context, opts *options, calendarName string, changed taskwarrior.Task) error {
	d, err := opts.loadDay(ctx)
	if err != nil {
		return err
	}
	publisher, err := newPublisher(ctx, d, calendarName)
	if err != nil {
		return err
	}
	defer publisher.SaveState()

	if task, ok := hookTask(changed, d.date, d.loc); ok {
		d.tasks = replaceTask(d.tasks, task)
	} else {
		d.tasks = dropTask(d.tasks, changed.UUID)
		if err := publisher.Remove(ctx, changed.UUID); err != nil {
			return err
		}
	}

	_, err = publisher.Publish(ctx, timeline.Build(d.sections, d.tasks, d.now))
	return err
}

// hookTask converts the task Taskwarrior handed over. ok is false when the
// task is deleted, waiting, blocked or scheduled on another day.
func hookTask(changed taskwarrior.Task, date time.Time, loc *time.Location) (model.Task, bool) {
	if changed.Status == taskwarrior.DELETED || changed.Status == taskwarrior.WAITING {
		return model.Task{}, false
	}
	for _, tag := range changed.Tags {
		if tag == "BLOCKED" {
			return model.Task{}, false
		}
	}
	converted := taskwarrior.ToModel(taskwarrior.OnDay([]taskwarrior.Task{changed}, date), loc)
	if len(converted) == 0 {
		return model.Task{}, false
	}
	return converted[0], true
}
