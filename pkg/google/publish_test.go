package google

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/harrisonrobin/dayline/pkg/clock"
	"github.com/harrisonrobin/dayline/pkg/colors"
	"github.com/harrisonrobin/dayline/pkg/index"
	"github.com/harrisonrobin/dayline/pkg/model"
	"github.com/harrisonrobin/dayline/pkg/overdue"
	"github.com/harrisonrobin/dayline/pkg/schedule"
	"github.com/harrisonrobin/dayline/pkg/timeline"
	"github.com/harrisonrobin/dayline/pkg/util"
)

// fakeCalendar serves the subset of the Calendar v3 API the client uses.
type fakeCalendar struct {
	mu      sync.Mutex
	events  map[string]*calendar.Event
	nextID  int
	patches int
}

func (f *fakeCalendar) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	path := strings.TrimPrefix(r.URL.Path, "/")
	if path == "users/me/calendarList" {
		writeJSON(w, &calendar.CalendarList{Items: []*calendar.CalendarListEntry{
			{Id: "other", Summary: "Other"},
			{Id: "cal-1", Summary: "Today"},
		}})
		return
	}

	parts := strings.Split(path, "/")
	if len(parts) < 3 || parts[0] != "calendars" || parts[2] != "events" {
		http.NotFound(w, r)
		return
	}

	if len(parts) == 3 {
		switch r.Method {
		case http.MethodGet:
			list := &calendar.Events{}
			prop := r.URL.Query().Get("privateExtendedProperty")
			key, value, _ := strings.Cut(prop, "=")
			for _, e := range f.events {
				if prop == "" || (e.ExtendedProperties != nil && e.ExtendedProperties.Private[key] == value) {
					list.Items = append(list.Items, e)
				}
			}
			writeJSON(w, list)
		case http.MethodPost:
			var e calendar.Event
			json.NewDecoder(r.Body).Decode(&e)
			f.nextID++
			e.Id = fmt.Sprintf("evt-%d", f.nextID)
			f.events[e.Id] = &e
			writeJSON(w, &e)
		}
		return
	}

	e, ok := f.events[parts[3]]
	if !ok {
		http.NotFound(w, r)
		return
	}
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, e)
	case http.MethodPatch:
		var patch calendar.Event
		json.NewDecoder(r.Body).Decode(&patch)
		f.patches++
		if patch.Summary != "" {
			e.Summary = patch.Summary
		}
		if patch.Description != "" {
			e.Description = patch.Description
		}
		if patch.Start != nil {
			e.Start, e.End = patch.Start, patch.End
		}
		writeJSON(w, e)
	case http.MethodDelete:
		delete(f.events, e.Id)
		w.WriteHeader(http.StatusNoContent)
	}
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func newTestService(t *testing.T) (*calendar.Service, *fakeCalendar) {
	fake := &fakeCalendar{events: make(map[string]*calendar.Event)}
	ts := httptest.NewServer(fake)
	t.Cleanup(ts.Close)

	srv, err := calendar.NewService(context.Background(),
		option.WithEndpoint(ts.URL+"/"),
		option.WithHTTPClient(ts.Client()))
	require.NoError(t, err)
	return srv, fake
}

func (f *fakeCalendar) summaries() map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]string)
	for _, e := range f.events {
		out[e.ExtendedProperties.Private[util.TaskIDProperty]] = e.Summary
	}
	return out
}

func TestFindCalendarID(t *testing.T) {
	srv, _ := newTestService(t)

	id, err := FindCalendarID(context.Background(), srv, "Today")
	require.NoError(t, err)
	assert.Equal(t, "cal-1", id)

	_, err = FindCalendarID(context.Background(), srv, "Missing")
	assert.Error(t, err)
}

func TestPublishCreatesThenPatches(t *testing.T) {
	srv, fake := newTestService(t)
	idx, err := index.NewEventIndex(t.TempDir())
	require.NoError(t, err)
	client := NewCalendarClient(srv, "cal-1", idx)
	ctx := context.Background()

	start := time.Date(2024, 5, 14, 10, 0, 0, 0, time.UTC)
	in := util.EventInput{
		Task:     model.Task{ID: "t1", Title: "Write", Status: model.StatusOpen, Estimated: time.Hour},
		Interval: timelineInterval(start, time.Hour),
	}

	created, err := client.Publish(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, created.Id, idx.Get("t1"))

	same, err := client.Publish(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, created.Id, same.Id)
	assert.Equal(t, 0, fake.patches, "unchanged events are not patched")

	in.Interval = timelineInterval(start.Add(30*time.Minute), time.Hour)
	moved, err := client.Publish(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, created.Id, moved.Id)
	assert.Equal(t, 1, fake.patches)
	assert.Equal(t, "2024-05-14T10:30:00Z", moved.Start.DateTime)

	// a stale index falls back to the extended property search
	idx.Set("t1", "evt-missing")
	again, err := client.Publish(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, created.Id, again.Id)
	assert.Equal(t, created.Id, idx.Get("t1"))

	require.NoError(t, client.Unpublish(ctx, "t1"))
	assert.Empty(t, fake.summaries())
	assert.Empty(t, idx.Get("t1"))
}

func timelineInterval(start time.Time, d time.Duration) schedule.Interval {
	return schedule.Interval{Start: start, End: start.Add(d)}
}

func TestPublisherPublishTimeline(t *testing.T) {
	srv, fake := newTestService(t)
	dir := t.TempDir()
	idx, err := index.NewEventIndex(dir)
	require.NoError(t, err)
	cache, err := colors.NewColorCache(dir)
	require.NoError(t, err)
	table, err := overdue.NewTable(dir)
	require.NoError(t, err)
	publisher := &Publisher{Client: NewCalendarClient(srv, "cal-1", idx), Colors: cache, Overdue: table}
	ctx := context.Background()

	day := time.Date(2024, 5, 14, 0, 0, 0, 0, time.UTC)
	sections := []model.Section{{ID: "morning", Name: "Morning", Start: clock.Ptr(clock.MustParse("09:00"))}}
	tasks := []model.Task{
		{ID: "a", SectionID: "morning", Title: "A", Status: model.StatusOpen, Estimated: 30 * time.Minute},
		{ID: "b", SectionID: "morning", Title: "B", Status: model.StatusOpen, Estimated: 20 * time.Minute, Order: 1},
	}

	res, err := publisher.Publish(ctx, timeline.Build(sections, tasks, day.Add(10*time.Hour)))
	require.NoError(t, err)
	assert.Equal(t, Result{Published: 2}, res)
	assert.Equal(t, map[string]string{"a": "A", "b": "B"}, fake.summaries())

	// a is finished, b was never started and the day moved on
	tasks[0].Status = model.StatusDone
	later := timeline.Build(sections, tasks, day.Add(13*time.Hour))
	res, err = publisher.Publish(ctx, later)
	require.NoError(t, err)
	assert.Equal(t, Result{Published: 1, Completed: 1}, res)
	assert.Equal(t, map[string]string{"a": "✓ A", "b": "B"}, fake.summaries())
	assert.Len(t, table.Entries, 1)

	// nothing changes until b's projected end has passed
	res, err = publisher.Publish(ctx, &timeline.Timeline{Now: day.Add(14 * time.Hour)})
	require.NoError(t, err)
	assert.Equal(t, Result{Overdue: 1}, res)
	assert.Equal(t, "! B", fake.summaries()["b"])
}

func TestPublisherPruneAndRemove(t *testing.T) {
	srv, fake := newTestService(t)
	dir := t.TempDir()
	idx, err := index.NewEventIndex(dir)
	require.NoError(t, err)
	table, err := overdue.NewTable(dir)
	require.NoError(t, err)
	publisher := &Publisher{Client: NewCalendarClient(srv, "cal-1", idx), Overdue: table}
	ctx := context.Background()

	now := time.Date(2024, 5, 14, 9, 0, 0, 0, time.UTC)
	tasks := []model.Task{
		{ID: "a", Title: "A", Status: model.StatusOpen, Estimated: 30 * time.Minute},
		{ID: "b", Title: "B", Status: model.StatusOpen, Estimated: 30 * time.Minute, Order: 1},
		{ID: "c", Title: "C", Status: model.StatusOpen, Estimated: 30 * time.Minute, Order: 2},
	}
	_, err = publisher.Publish(ctx, timeline.Build(nil, tasks, now))
	require.NoError(t, err)
	require.Len(t, fake.summaries(), 3)

	// b was dropped from the plan
	pruned, err := publisher.Prune(ctx, timeline.Build(nil, []model.Task{tasks[0], tasks[2]}, now))
	require.NoError(t, err)
	assert.Equal(t, 1, pruned)
	assert.Equal(t, map[string]string{"a": "A", "c": "C"}, fake.summaries())
	assert.Empty(t, idx.Get("b"))
	assert.NotContains(t, table.Entries, "b")

	require.NoError(t, publisher.Remove(ctx, "c"))
	assert.Equal(t, map[string]string{"a": "A"}, fake.summaries())
	assert.NotContains(t, table.Entries, "c")

	publisher.SaveState()
	reopened, err := index.NewEventIndex(dir)
	require.NoError(t, err)
	assert.NotEmpty(t, reopened.Get("a"))
	assert.Empty(t, reopened.Get("c"))
}
