package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/harrisonrobin/dayline/pkg/model"
)

func TestOrderTasks(t *testing.T) {
	sections := []model.Section{
		{ID: "evening", Start: at("18:00")},
		{ID: "morning", Start: at("08:00")},
	}
	tasks := []model.Task{
		{ID: "stray", SectionID: "gone", Order: 0},
		{ID: "e1", SectionID: "evening", Order: 1},
		{ID: "m2", SectionID: "morning", Order: 2},
		{ID: "m1", SectionID: "morning", Order: 1},
		{ID: "e0", SectionID: "evening", Order: 0},
		{ID: "m1b", SectionID: "morning", Order: 1},
	}

	got := OrderTasks(sections, tasks)

	var ids []string
	for _, task := range got {
		ids = append(ids, task.ID)
	}
	assert.Equal(t, []string{"m1", "m1b", "m2", "e0", "e1", "stray"}, ids)
	assert.Equal(t, "stray", tasks[0].ID, "input must not be reordered")
}
