package plan

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/harrisonrobin/dayline/pkg/clock"
	"github.com/harrisonrobin/dayline/pkg/model"
)

// ErrInvalidPlan wraps every validation failure of a plan document.
var ErrInvalidPlan = errors.New("invalid plan")

const dateLayout = "2006-01-02"

// Plan is one day's sections and tasks.
type Plan struct {
	Date     time.Time
	Owner    string
	Sections []model.Section
	Tasks    []model.Task
}

type document struct {
	Date     string            `yaml:"date"`
	Owner    string            `yaml:"owner,omitempty"`
	Sections []sectionDocument `yaml:"sections,omitempty"`
	Tasks    []taskDocument    `yaml:"tasks,omitempty"`
}

type sectionDocument struct {
	ID    string `yaml:"id"`
	Name  string `yaml:"name"`
	Start string `yaml:"start,omitempty"`
	End   string `yaml:"end,omitempty"`
	Order int    `yaml:"order"`
}

type taskDocument struct {
	ID        string     `yaml:"id,omitempty"`
	Section   string     `yaml:"section,omitempty"`
	Title     string     `yaml:"title"`
	Status    string     `yaml:"status,omitempty"`
	Tags      []string   `yaml:"tags,omitempty"`
	Estimate  string     `yaml:"estimate,omitempty"` // Go duration, e.g. "1h30m"
	Actual    string     `yaml:"actual,omitempty"`
	StartedAt *time.Time `yaml:"started_at,omitempty"`
	Scheduled string     `yaml:"scheduled,omitempty"` // HH:MM
	Order     int        `yaml:"order"`
}

// Load reads and validates a plan file.
func Load(path string) (*Plan, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	p, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// Decode parses a YAML plan, rejecting malformed times and durations.
func Decode(r io.Reader) (*Plan, error) {
	var doc document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPlan, err)
	}
	return doc.toPlan()
}

func (doc document) toPlan() (*Plan, error) {
	p := &Plan{Owner: doc.Owner}

	if doc.Date != "" {
		date, err := time.ParseInLocation(dateLayout, doc.Date, time.Local)
		if err != nil {
			return nil, fmt.Errorf("%w: date %q: %v", ErrInvalidPlan, doc.Date, err)
		}
		p.Date = date
	}

	seen := make(map[string]bool, len(doc.Sections))
	for i, sd := range doc.Sections {
		if sd.ID == "" {
			return nil, fmt.Errorf("%w: section %d has no id", ErrInvalidPlan, i)
		}
		if seen[sd.ID] {
			return nil, fmt.Errorf("%w: duplicate section id %q", ErrInvalidPlan, sd.ID)
		}
		seen[sd.ID] = true
		if sd.Order < 0 {
			return nil, fmt.Errorf("%w: section %q has negative order %d", ErrInvalidPlan, sd.ID, sd.Order)
		}

		start, err := optionalTime(sd.Start)
		if err != nil {
			return nil, fmt.Errorf("%w: section %q start: %v", ErrInvalidPlan, sd.ID, err)
		}
		end, err := optionalTime(sd.End)
		if err != nil {
			return nil, fmt.Errorf("%w: section %q end: %v", ErrInvalidPlan, sd.ID, err)
		}

		p.Sections = append(p.Sections, model.Section{
			ID:    sd.ID,
			Owner: doc.Owner,
			Name:  sd.Name,
			Start: start,
			End:   end,
			Order: sd.Order,
			Kind:  model.UserDefined,
		})
	}

	occurrences := make(map[string]int)
	for i, td := range doc.Tasks {
		task, err := td.toTask()
		if err != nil {
			return nil, fmt.Errorf("%w: task %d (%s): %v", ErrInvalidPlan, i, td.Title, err)
		}
		if task.ID == "" {
			key := strings.Join([]string{doc.Date, td.Section, td.Title, strconv.Itoa(td.Order)}, "\x00")
			occurrences[key]++
			task.ID = taskID(key, occurrences[key])
		}
		p.Tasks = append(p.Tasks, task)
	}
	return p, nil
}

// taskNamespace seeds the ids of plan tasks written without one.
var taskNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/harrisonrobin/dayline/plan/task"))

// taskID derives an id from a task's date, section, title and order, so the
// same plan file yields the same ids, and therefore the same calendar events,
// on every load. n tells identical tasks apart.
func taskID(key string, n int) string {
	return uuid.NewSHA1(taskNamespace, []byte(key+"\x00"+strconv.Itoa(n))).String()
}

func (td taskDocument) toTask() (model.Task, error) {
	task := model.Task{
		ID:        td.ID,
		SectionID: td.Section,
		Title:     td.Title,
		Status:    model.Status(td.Status),
		Source:    "plan",
		Tags:      td.Tags,
		Order:     td.Order,
	}
	if task.Status == "" {
		task.Status = model.StatusOpen
	}
	if !task.Status.Valid() {
		return task, fmt.Errorf("unknown status %q", td.Status)
	}

	var err error
	if task.Estimated, err = optionalDuration(td.Estimate); err != nil {
		return task, fmt.Errorf("estimate: %w", err)
	}
	if task.Actual, err = optionalDuration(td.Actual); err != nil {
		return task, fmt.Errorf("actual: %w", err)
	}
	if task.ScheduledStart, err = optionalTime(td.Scheduled); err != nil {
		return task, fmt.Errorf("scheduled: %w", err)
	}
	if td.StartedAt != nil {
		task.StartedAt = *td.StartedAt
	}
	return task, nil
}

func optionalTime(s string) (*clock.TimeOfDay, error) {
	if s == "" {
		return nil, nil
	}
	t, err := clock.Parse(s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func optionalDuration(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	return time.ParseDuration(s)
}

// Encode writes p as YAML.
func Encode(w io.Writer, p *Plan) error {
	doc := document{Owner: p.Owner}
	if !p.Date.IsZero() {
		doc.Date = p.Date.Format(dateLayout)
	}
	for _, s := range p.Sections {
		if s.IsInterval() {
			continue
		}
		sd := sectionDocument{ID: s.ID, Name: s.Name, Order: s.Order}
		if s.Start != nil {
			sd.Start = s.Start.String()
		}
		if s.End != nil {
			sd.End = s.End.String()
		}
		doc.Sections = append(doc.Sections, sd)
	}
	for _, t := range p.Tasks {
		td := taskDocument{
			ID:      t.ID,
			Section: t.SectionID,
			Title:   t.Title,
			Status:  string(t.Status),
			Tags:    t.Tags,
			Order:   t.Order,
		}
		if t.Estimated != 0 {
			td.Estimate = t.Estimated.String()
		}
		if t.Actual != 0 {
			td.Actual = t.Actual.String()
		}
		if !t.StartedAt.IsZero() {
			startedAt := t.StartedAt
			td.StartedAt = &startedAt
		}
		if t.ScheduledStart != nil {
			td.Scheduled = t.ScheduledStart.String()
		}
		doc.Tasks = append(doc.Tasks, td)
	}

	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(doc); err != nil {
		return err
	}
	return encoder.Close()
}
