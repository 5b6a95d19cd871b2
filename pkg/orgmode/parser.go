package orgmode

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/harrisonrobin/dayline/pkg/clock"
	"github.com/harrisonrobin/dayline/pkg/model"
)

var (
	headingRegex   = regexp.MustCompile(`^\*+ (TODO|STARTED|DONE)\s*(?:\[#([A-Z])\])?\s*(.*?)(?:\s+(:(\w+(:\w+)*):))?\s*$`)
	scheduledRegex = regexp.MustCompile(`SCHEDULED:\s+<(\d{4}-\d{2}-\d{2})\s+[A-Za-z]{3}(?:\s+(\d{2}:\d{2}))?>`)
	propertyRegex  = regexp.MustCompile(`^:([A-Z_]+):\s+(.+)$`)
	startedRegex   = regexp.MustCompile(`\[(\d{4}-\d{2}-\d{2}\s+[A-Za-z]{3}\s+\d{2}:\d{2})\]`)
)

var keywordStatus = map[string]model.Status{
	"TODO":    model.StatusOpen,
	"STARTED": model.StatusInProgress,
	"DONE":    model.StatusDone,
}

// parseFile parses an Org-mode file and returns a slice of tasks.
func parseFile(filePath string) ([]model.Task, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return Parse(file, filePath)
}

// ParseFiles parses multiple Org-mode files and returns a slice of tasks.
func ParseFiles(filePaths []string) ([]model.Task, error) {
	var allTasks []model.Task
	for _, filePath := range filePaths {
		tasks, err := parseFile(filePath)
		if err != nil {
			return nil, err
		}
		allTasks = append(allTasks, tasks...)
	}
	return allTasks, nil
}

// Parse reads TODO, STARTED and DONE headings. A task is emitted when its
// property drawer closes and it carries an :ID:. Recognised properties are
// :EFFORT: and :SPENT: (H:MM), :SECTION:, and :STARTED: ([YYYY-MM-DD Day HH:MM]).
// Times are read in time.Local.
func Parse(r io.Reader, source string) ([]model.Task, error) {
	scanner := bufio.NewScanner(r)
	var tasks []model.Task
	var current *model.Task
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())

		if matches := headingRegex.FindStringSubmatch(line); matches != nil {
			current = &model.Task{
				Source: source,
				Status: keywordStatus[matches[1]],
				Title:  strings.TrimSpace(matches[3]),
				Order:  len(tasks),
			}
			if matches[4] != "" {
				current.Tags = strings.Split(strings.Trim(matches[4], ":"), ":")
			}
			continue
		}
		if current == nil {
			continue
		}

		if strings.HasPrefix(line, ":END:") {
			if current.ID != "" && current.Title != "" {
				tasks = append(tasks, *current)
			}
			current = nil
			continue
		}

		if matches := scheduledRegex.FindStringSubmatch(line); matches != nil {
			if err := applySchedule(current, matches[1], matches[2]); err != nil {
				return nil, fmt.Errorf("%s:%d: %w", source, lineNo, err)
			}
		} else if matches := propertyRegex.FindStringSubmatch(line); matches != nil {
			if err := applyProperty(current, matches[1], strings.TrimSpace(matches[2])); err != nil {
				return nil, fmt.Errorf("%s:%d: %w", source, lineNo, err)
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return tasks, nil
}

// applySchedule records the date of a SCHEDULED stamp and, when present, its time.
func applySchedule(task *model.Task, date, hhmm string) error {
	day, err := time.ParseInLocation("2006-01-02", date, time.Local)
	if err != nil {
		return fmt.Errorf("invalid SCHEDULED date %q", date)
	}
	task.ScheduledDay = day
	if hhmm == "" {
		return nil
	}
	tod, err := clock.Parse(hhmm)
	if err != nil {
		return err
	}
	task.ScheduledStart = &tod
	return nil
}

func applyProperty(task *model.Task, name, value string) error {
	var err error
	switch name {
	case "ID":
		task.ID = value
	case "SECTION":
		task.SectionID = value
	case "EFFORT":
		task.Estimated, err = parseEffort(value)
	case "SPENT":
		task.Actual, err = parseEffort(value)
	case "STARTED":
		matches := startedRegex.FindStringSubmatch(value)
		if matches == nil {
			return fmt.Errorf("invalid STARTED timestamp %q", value)
		}
		task.StartedAt, err = time.ParseInLocation("2006-01-02 Mon 15:04", matches[1], time.Local)
	}
	return err
}

// parseEffort reads org effort values such as "0:45" or "1:30".
func parseEffort(s string) (time.Duration, error) {
	h, m, ok := strings.Cut(s, ":")
	if !ok {
		return 0, fmt.Errorf("invalid effort %q", s)
	}
	hours, err := strconv.Atoi(h)
	if err != nil {
		return 0, fmt.Errorf("invalid effort %q", s)
	}
	minutes, err := strconv.Atoi(m)
	if err != nil || minutes > 59 {
		return 0, fmt.Errorf("invalid effort %q", s)
	}
	return time.Duration(hours)*time.Hour + time.Duration(minutes)*time.Minute, nil
}

// FilterTasks filters a slice of tasks by a given filter string.
// Currently, it only supports filtering by a single tag.
func FilterTasks(tasks []model.Task, filter string) []model.Task {
	var filteredTasks []model.Task
	for _, task := range tasks {
		for _, tag := range task.Tags {
			if tag == filter {
				filteredTasks = append(filteredTasks, task)
				break
			}
		}
	}
	return filteredTasks
}

// FilterDay keeps the tasks that belong to the day of date: undated ones and
// those scheduled on that day.
func FilterDay(tasks []model.Task, date time.Time) []model.Task {
	y, m, d := date.Date()
	var out []model.Task
	for _, task := range tasks {
		if !task.ScheduledDay.IsZero() {
			ty, tm, td := task.ScheduledDay.Date()
			if ty != y || tm != m || td != d {
				continue
			}
		}
		out = append(out, task)
	}
	return out
}
