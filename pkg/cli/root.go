package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// options are the flags shared by every command.
type options struct {
	configPath  string
	planPath    string
	date        string
	now         string
	taskwarrior bool
	twFilter    []string
	orgFiles    []string
	orgTag      string
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "dayline",
		Short: "dayline - lay out your day and project your tasks onto it",
		Long: `dayline partitions a day into sections, fills the gaps with intervals and
projects the day's tasks from now onwards using their estimates, time already
spent, running state and scheduled starts.

Tasks come from a plan file, Taskwarrior or Org-mode files. Run as a
Taskwarrior hook, dayline keeps the published day in step with every change.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "config file (default ~/.config/dayline/config.yaml)")
	flags.StringVarP(&opts.planPath, "plan", "p", "", "plan file (default: the day's file in the data directory)")
	flags.StringVarP(&opts.date, "date", "d", "", "day to plan, YYYY-MM-DD (default today)")
	flags.StringVar(&opts.now, "now", "", "reference time HH:MM (default the current time)")
	flags.BoolVar(&opts.taskwarrior, "taskwarrior", false, "add pending tasks from Taskwarrior")
	flags.StringSliceVar(&opts.twFilter, "tw-filter", nil, "Taskwarrior filter arguments")
	flags.StringSliceVar(&opts.orgFiles, "org", nil, "add tasks from Org-mode files")
	flags.StringVar(&opts.orgTag, "org-tag", "", "only keep Org-mode tasks with this tag")

	rootCmd.AddCommand(newSectionsCmd(opts))
	rootCmd.AddCommand(newWhereCmd(opts))
	rootCmd.AddCommand(newTimelineCmd(opts))
	rootCmd.AddCommand(newPublishCmd(opts))
	rootCmd.AddCommand(newHookCmd(opts))
	rootCmd.AddCommand(newPlanCmd(opts))
	rootCmd.AddCommand(newAuthCmd(opts))
	rootCmd.AddCommand(newConfigCmd(opts))

	return rootCmd
}

// PrintError reports a command failure on stderr.
func PrintError(err error) {
	fmt.Fprintln(os.Stderr, "Error:", err)
}
