package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/harrisonrobin/dayline/pkg/clock"
	"github.com/harrisonrobin/dayline/pkg/config"
	"github.com/harrisonrobin/dayline/pkg/model"
	"github.com/harrisonrobin/dayline/pkg/orgmode"
	"github.com/harrisonrobin/dayline/pkg/plan"
	"github.com/harrisonrobin/dayline/pkg/taskwarrior"
)

// day is everything a command needs about the day being planned.
type day struct {
	cfg       *config.Config
	configDir string
	loc       *time.Location
	date      time.Time
	now       time.Time
	sections  []model.Section
	tasks     []model.Task
}

func (o *options) configFile() (string, error) {
	if o.configPath != "" {
		return o.configPath, nil
	}
	return config.GetConfigPath()
}

// loadConfig returns the config and the directory holding it, where
// credentials and caches live as well.
func (o *options) loadConfig() (*config.Config, string, error) {
	path, err := o.configFile()
	if err != nil {
		return nil, "", err
	}
	cfg, err := config.LoadFile(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, filepath.Dir(path), nil
}

// planDate is the --date day in today's location, or today.
func (o *options) planDate(today time.Time) (time.Time, error) {
	if o.date == "" {
		return today, nil
	}
	date, err := time.ParseInLocation("2006-01-02", o.date, today.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --date %q: %w", o.date, err)
	}
	return date, nil
}

// loadDay gathers sections and tasks from every configured source.
func (o *options) loadDay(ctx context.Context) (*day, error) {
	cfg, configDir, err := o.loadConfig()
	if err != nil {
		return nil, err
	}
	loc, err := cfg.TimeLocation()
	if err != nil {
		return nil, err
	}

	wall := time.Now().In(loc)
	date, err := o.planDate(wall)
	if err != nil {
		return nil, err
	}
	d := &day{cfg: cfg, configDir: configDir, loc: loc, date: date}

	d.now = clock.FromTime(wall).On(d.date)
	if o.now != "" {
		tod, err := clock.Parse(o.now)
		if err != nil {
			return nil, fmt.Errorf("invalid --now: %w", err)
		}
		d.now = tod.On(d.date)
	}

	var p *plan.Plan
	if o.planPath != "" {
		p, err = plan.Load(o.planPath)
	} else {
		p, err = plan.NewStore(cfg.DataDir).Load(d.date)
	}
	if err != nil {
		return nil, err
	}
	d.sections = p.Sections
	d.tasks = p.Tasks
	for i := range d.sections {
		if d.sections[i].Owner == "" {
			d.sections[i].Owner = cfg.Owner
		}
	}

	if o.taskwarrior {
		twTasks, err := taskwarrior.NewClient().GetTasks(ctx, o.twFilter)
		if err != nil {
			return nil, err
		}
		d.tasks = append(d.tasks, withOrderAfter(d.tasks, taskwarrior.ToModel(taskwarrior.OnDay(twTasks, d.date), loc))...)
	}

	if len(o.orgFiles) > 0 {
		orgTasks, err := orgmode.ParseFiles(o.orgFiles)
		if err != nil {
			return nil, err
		}
		orgTasks = orgmode.FilterDay(orgTasks, d.date)
		if o.orgTag != "" {
			orgTasks = orgmode.FilterTasks(orgTasks, o.orgTag)
		}
		d.tasks = append(d.tasks, withOrderAfter(d.tasks, orgTasks)...)
	}

	return d, nil
}

// withOrderAfter shifts the order of added tasks past the existing ones so
// that sources keep their relative order within a section.
func withOrderAfter(existing, added []model.Task) []model.Task {
	offset := 0
	for _, t := range existing {
		if t.Order >= offset {
			offset = t.Order + 1
		}
	}
	for i := range added {
		added[i].Order += offset
	}
	return added
}

// replaceTask swaps the task with the same id for t, keeping its position,
// or appends t after the existing tasks.
func replaceTask(tasks []model.Task, t model.Task) []model.Task {
	for i := range tasks {
		if tasks[i].ID == t.ID {
			t.Order = tasks[i].Order
			tasks[i] = t
			return tasks
		}
	}
	return append(tasks, withOrderAfter(tasks, []model.Task{t})...)
}

// dropTask removes the task with the given id.
func dropTask(tasks []model.Task, id string) []model.Task {
	out := tasks[:0]
	for _, t := range tasks {
		if t.ID != id {
			out = append(out, t)
		}
	}
	return out
}
