package model

import "github.com/google/uuid"

// CreatesCycle reports whether replacing subjectID's prerequisite list with
// newPrereqs leaves the graph cyclic. It substitutes the new edges into the
// adjacency map, then walks depth-first from each new prerequisite looking
// for a path back to subjectID.
func CreatesCycle(edges map[uuid.UUID][]uuid.UUID, subjectID uuid.UUID, newPrereqs []uuid.UUID) bool {
	post := make(map[uuid.UUID][]uuid.UUID, len(edges)+1)
	for k, v := range edges {
		post[k] = v
	}
	post[subjectID] = newPrereqs

	visited := make(map[uuid.UUID]struct{})
	var reachable func(from uuid.UUID) bool
	reachable = func(from uuid.UUID) bool {
		if from == subjectID {
			return true
		}
		if _, ok := visited[from]; ok {
			return false
		}
		visited[from] = struct{}{}
		for _, next := range post[from] {
			if reachable(next) {
				return true
			}
		}
		return false
	}

	for _, p := range newPrereqs {
		if reachable(p) {
			return true
		}
	}
	return false
}
