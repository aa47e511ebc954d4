package schedule

import "github.com/harborline/deploy-engine/engine"

// =============================================================================
// AUTO-SCHEDULE - Dependency-driven forward pass
// =============================================================================

// AutoSchedule pushes items forward so every successor starts after
// its predecessors finish, preserving each item's duration. Only the
// finish-to-start relation moves dates; lag is recorded on the
// dependency but not applied to the day grid. Dependencies referencing
// unknown items are ignored.
//
// Returns ErrDependencyCycle and the input unchanged when the
// dependency graph has a cycle.
func AutoSchedule(items []engine.ScheduleItem, deps []engine.ScheduleDependency) ([]engine.ScheduleItem, error) {
	if len(items) == 0 {
		return items, nil
	}

	index := make(map[engine.ScheduleItemID]int, len(items))
	for i, item := range items {
		index[item.ID] = i
	}

	successors := make(map[engine.ScheduleItemID][]engine.ScheduleItemID)
	predecessors := make(map[engine.ScheduleItemID][]engine.ScheduleItemID)
	inDegree := make(map[engine.ScheduleItemID]int, len(items))
	for _, item := range items {
		inDegree[item.ID] = 0
	}
	for _, d := range deps {
		if _, ok := index[d.PredecessorID]; !ok {
			continue
		}
		if _, ok := index[d.SuccessorID]; !ok {
			continue
		}
		successors[d.PredecessorID] = append(successors[d.PredecessorID], d.SuccessorID)
		predecessors[d.SuccessorID] = append(predecessors[d.SuccessorID], d.PredecessorID)
		inDegree[d.SuccessorID]++
	}

	// Kahn's algorithm. Seeding in item order keeps the pass stable.
	var queue []engine.ScheduleItemID
	for _, item := range items {
		if inDegree[item.ID] == 0 {
			queue = append(queue, item.ID)
		}
	}

	var order []engine.ScheduleItemID
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		order = append(order, id)
		for _, succ := range successors[id] {
			inDegree[succ]--
			if inDegree[succ] == 0 {
				queue = append(queue, succ)
			}
		}
	}

	if len(order) != len(items) {
		return items, engine.ErrDependencyCycle
	}

	scheduled := make([]engine.ScheduleItem, len(items))
	copy(scheduled, items)

	for _, id := range order {
		i := index[id]
		item := scheduled[i]
		duration := item.Span().DayCount()
		start := item.Start

		for _, predID := range predecessors[id] {
			pred := scheduled[index[predID]]
			candidate := pred.End.AddDays(1)
			if candidate.After(start) {
				start = candidate
			}
		}

		if duration < 1 {
			duration = 1
		}
		item.Start = start
		item.End = start.AddDays(duration - 1)
		scheduled[i] = item
	}

	return scheduled, nil
}
