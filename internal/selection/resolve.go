// Package selection derives which project is active from the organization,
// its project list and the remembered preference.
package selection

import "github.com/rpggio/todos/internal/domain/project"

// Resolution is the effective selection and whether it must be written back
// to the preference store.
type Resolution struct {
	ProjectID string
	WriteBack bool
}

// Resolve picks the effective project id. Without an organization nothing is
// selected and the stored value is left alone. Otherwise a stored id that
// still names a listed project wins; failing that the first project is
// chosen, or nothing when the list is empty. The result never names a
// project outside projects.
func Resolve(orgID string, projects []project.Project, stored string) Resolution {
	if orgID == "" {
		return Resolution{}
	}
	if stored != "" && contains(projects, stored) {
		return Resolution{ProjectID: stored}
	}
	if len(projects) == 0 {
		return Resolution{WriteBack: stored != ""}
	}
	first := projects[0].ID
	return Resolution{ProjectID: first, WriteBack: first != stored}
}

func contains(projects []project.Project, id string) bool {
	for _, p := range projects {
		if p.ID == id {
			return true
		}
	}
	return false
}
