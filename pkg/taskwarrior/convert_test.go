package taskwarrior

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harrisonrobin/dayline/pkg/clock"
	"github.com/harrisonrobin/dayline/pkg/model"
)

func TestParseDuration(t *testing.T) {
	tests := map[string]time.Duration{
		"":        0,
		"PT1H":    time.Hour,
		"PT30M":   30 * time.Minute,
		"PT1H30M": 90 * time.Minute,
		"PT1M30S": 90 * time.Second,
	}
	for in, want := range tests {
		got, err := ParseDuration(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	for _, in := range []string{"1h", "P1D", "PT", "PTxM"} {
		_, err := ParseDuration(in)
		assert.Error(t, err, in)
	}
}

func at(t time.Time) *CustomTime {
	return &CustomTime{Time: t}
}

func TestToModel(t *testing.T) {
	loc := time.FixedZone("plus2", 2*60*60)
	started := time.Date(2024, 5, 14, 7, 50, 0, 0, time.UTC)
	tasks := []Task{
		{UUID: "open", Description: "Write", Status: PENDING, Est: "PT30M", Act: "PT10M", Section: "morning"},
		{UUID: "running", Status: PENDING, Start: at(started), Est: "PT1H"},
		{UUID: "done", Status: COMPLETED},
		{UUID: "waiting", Status: WAITING},
		{UUID: "gone", Status: DELETED},
		{UUID: "scheduled", Status: PENDING, Scheduled: at(time.Date(2024, 5, 14, 12, 0, 0, 0, time.UTC)), Est: "bogus"},
	}

	got := ToModel(tasks, loc)

	require.Len(t, got, 4)
	assert.Equal(t, model.Task{
		ID: "open", SectionID: "morning", Title: "Write", Status: model.StatusOpen, Source: "taskwarrior",
		Estimated: 30 * time.Minute, Actual: 10 * time.Minute, Order: 0,
	}, got[0])
	assert.Equal(t, model.StatusInProgress, got[1].Status)
	assert.Equal(t, started, got[1].StartedAt)
	assert.Equal(t, model.StatusDone, got[2].Status)
	assert.Equal(t, "scheduled", got[3].ID)
	assert.Equal(t, 5, got[3].Order)
	assert.Equal(t, time.Duration(0), got[3].Estimated)
	require.NotNil(t, got[3].ScheduledStart)
	assert.Equal(t, clock.MustParse("14:00"), *got[3].ScheduledStart)
}

func TestOnDay(t *testing.T) {
	day := time.Date(2024, 5, 14, 0, 0, 0, 0, time.UTC)
	tasks := []Task{
		{UUID: "unscheduled", Status: PENDING},
		{UUID: "today", Status: PENDING, Scheduled: at(day.Add(10 * time.Hour))},
		{UUID: "tomorrow", Status: PENDING, Scheduled: at(day.Add(34 * time.Hour))},
		{UUID: "done-today", Status: COMPLETED, End: at(day.Add(9 * time.Hour))},
		{UUID: "done-yesterday", Status: COMPLETED, End: at(day.Add(-2 * time.Hour))},
	}

	var ids []string
	for _, task := range OnDay(tasks, day) {
		ids = append(ids, task.UUID)
	}
	assert.Equal(t, []string{"unscheduled", "today", "done-today"}, ids)
}
