package layout

import (
	"sort"

	"github.com/harrisonrobin/dayline/pkg/model"
)

// OrderTasks sequences a day's tasks for projection: grouped by the position
// of their section in the resolved layout, then by task order, then by id.
// Tasks whose section is unknown come last.
func OrderTasks(sections []model.Section, tasks []model.Task) []model.Task {
	rank := make(map[string]int, len(sections))
	for i, d := range Resolve(sections) {
		if _, seen := rank[d.ID]; !seen {
			rank[d.ID] = i
		}
	}

	ordered := make([]model.Task, len(tasks))
	copy(ordered, tasks)
	sort.SliceStable(ordered, func(i, j int) bool {
		ri, okI := rank[ordered[i].SectionID]
		rj, okJ := rank[ordered[j].SectionID]
		if okI != okJ {
			return okI
		}
		if ri != rj {
			return ri < rj
		}
		if ordered[i].Order != ordered[j].Order {
			return ordered[i].Order < ordered[j].Order
		}
		return ordered[i].ID < ordered[j].ID
	})
	return ordered
}
