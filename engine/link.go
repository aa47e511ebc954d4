package engine

import "strings"

// =============================================================================
// DEPLOYMENT <-> SCHEDULE ITEM LINK - Synthetic id convention
// =============================================================================

// Deployments that have no locally stored schedule item appear on the
// timeline under a synthetic item id derived from the deployment id.
// Resource assignments may target either kind of id.

const deploymentItemPrefix = "dep_"

// DeploymentItemID derives the synthetic schedule-item id for a deployment.
func DeploymentItemID(id DeploymentID) ScheduleItemID {
	return ScheduleItemID(deploymentItemPrefix + string(id))
}

// DeploymentFromItemID inverts DeploymentItemID. The second return is
// false when the id does not follow the synthetic convention.
func DeploymentFromItemID(id ScheduleItemID) (DeploymentID, bool) {
	s := string(id)
	if !strings.HasPrefix(s, deploymentItemPrefix) {
		return "", false
	}
	return DeploymentID(strings.TrimPrefix(s, deploymentItemPrefix)), true
}
