/*
Package schedule reconciles authoritative deployment records with the
locally stored schedule collections into one coherent timeline.

PURPOSE:
  Deployments are owned elsewhere; schedule items, dependencies, and
  resource assignments are edited locally. The assembler merges the two
  on every read, and upserts of linked items sync their dates and title
  back into the underlying deployment.

MERGE RULES:
  - A local item linked to a deployment gets the deployment's title,
    dates, and item type overlaid; its parent, sort order, progress,
    and metadata stay local.
  - A deployment with no linked item appears as a transient synthetic
    item (id "dep_<deploymentID>").
  - Local items without a link pass through unmodified.
  - Every deployment appears exactly once in the merged list.

SYNC DIRECTION:
  Upserting a linked item writes start/end/title into the deployment.
  Editing the deployment alone is picked up on the next merge; there is
  no live synchronization.

SEE ALSO:
  - plan.go: Dependency-driven forward scheduling
*/
package schedule

import "github.com/harborline/deploy-engine/engine"

// metadataSourceKey marks synthetic rows so clients can tell them from
// locally stored items.
const metadataSourceKey = "source"

// Merge builds the unified timeline from deployments and local items.
// Linked items are overlaid in place; deployments without a local item
// are appended as synthetic rows in deployment order.
func Merge(deps []engine.Deployment, items []engine.ScheduleItem) []engine.ScheduleItem {
	merged := make([]engine.ScheduleItem, len(items))
	copy(merged, items)

	linked := make(map[engine.DeploymentID]int)
	for i, item := range merged {
		if item.DeploymentID != "" {
			// First link wins; duplicates stay as plain local rows so the
			// one-row-per-deployment invariant holds.
			if _, ok := linked[item.DeploymentID]; !ok {
				linked[item.DeploymentID] = i
			}
		}
	}

	for _, dep := range deps {
		if i, ok := linked[dep.ID]; ok {
			merged[i] = overlay(merged[i], dep)
			continue
		}
		merged = append(merged, synthesize(dep))
	}

	return merged
}

// overlay applies the deployment's authoritative fields onto a local
// item, keeping everything locally editable intact.
func overlay(item engine.ScheduleItem, dep engine.Deployment) engine.ScheduleItem {
	item.Title = dep.Name
	item.Type = engine.ItemDeployment
	item.Start = dep.Start
	item.End = deploymentEnd(dep)
	if item.Metadata == nil {
		item.Metadata = map[string]string{}
	}
	item.Metadata["deploymentType"] = string(dep.Type)
	return item
}

// synthesize builds the transient row for an unlinked deployment.
func synthesize(dep engine.Deployment) engine.ScheduleItem {
	return engine.ScheduleItem{
		ID:           engine.DeploymentItemID(dep.ID),
		Type:         engine.ItemDeployment,
		DeploymentID: dep.ID,
		Title:        dep.Name,
		Start:        dep.Start,
		End:          deploymentEnd(dep),
		Metadata: map[string]string{
			metadataSourceKey: "deployment",
			"deploymentType":  string(dep.Type),
		},
	}
}

// deploymentEnd maps an open deployment onto the timeline as a
// single-day row at its start; a concluded one keeps its real end.
func deploymentEnd(dep engine.Deployment) engine.Date {
	if dep.End != nil {
		return *dep.End
	}
	return dep.Start
}

// SyncBack writes a linked item's dates and title into its deployment.
// Returns false when the item carries no link or the deployment no
// longer exists (the item then simply stays local).
func SyncBack(item engine.ScheduleItem, deps []engine.Deployment) bool {
	if item.DeploymentID == "" {
		return false
	}
	for i := range deps {
		if deps[i].ID == item.DeploymentID {
			end := item.End
			deps[i].Name = item.Title
			deps[i].Start = item.Start
			deps[i].End = &end
			return true
		}
	}
	return false
}
