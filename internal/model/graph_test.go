package model

import (
	"testing"

	"github.com/google/uuid"
)

func TestCreatesCycle(t *testing.T) {
	a := uuid.New()
	b := uuid.New()
	c := uuid.New()
	d := uuid.New()

	edges := func(pairs ...[2]uuid.UUID) map[uuid.UUID][]uuid.UUID {
		m := make(map[uuid.UUID][]uuid.UUID)
		for _, p := range pairs {
			m[p[0]] = append(m[p[0]], p[1])
		}
		return m
	}

	t.Run("empty graph stays acyclic", func(t *testing.T) {
		if CreatesCycle(edges(), a, []uuid.UUID{b}) {
			t.Error("a -> b on an empty graph is not a cycle")
		}
	})

	t.Run("direct two-node cycle", func(t *testing.T) {
		// a already requires b; making b require a closes the loop.
		g := edges([2]uuid.UUID{a, b})
		if !CreatesCycle(g, b, []uuid.UUID{a}) {
			t.Error("b -> a with existing a -> b must be a cycle")
		}
	})

	t.Run("self prerequisite", func(t *testing.T) {
		if !CreatesCycle(edges(), a, []uuid.UUID{a}) {
			t.Error("a -> a must be a cycle")
		}
	})

	t.Run("transitive cycle", func(t *testing.T) {
		// a -> b -> c exists; c -> a would close a three-node loop.
		g := edges([2]uuid.UUID{a, b}, [2]uuid.UUID{b, c})
		if !CreatesCycle(g, c, []uuid.UUID{a}) {
			t.Error("c -> a with a -> b -> c must be a cycle")
		}
	})

	t.Run("diamond is fine", func(t *testing.T) {
		// b and c both require d; a requiring both b and c shares d twice
		// without any loop.
		g := edges([2]uuid.UUID{b, d}, [2]uuid.UUID{c, d})
		if CreatesCycle(g, a, []uuid.UUID{b, c}) {
			t.Error("diamond dependency is acyclic")
		}
	})

	t.Run("replacement removes old edges", func(t *testing.T) {
		// a currently requires b. Replacing a's list with [c] while making
		// b require a is evaluated against the post-change graph, where
		// a -> b no longer exists.
		g := edges([2]uuid.UUID{b, a})
		if CreatesCycle(g, a, []uuid.UUID{c}) {
			t.Error("replaced edge list must not resurrect removed edges")
		}
	})

	t.Run("unrelated cycle elsewhere is not detected here", func(t *testing.T) {
		// c <-> d is already broken data, but setting a -> b must not walk it
		// forever or report a false positive for a.
		g := edges([2]uuid.UUID{c, d}, [2]uuid.UUID{d, c})
		if CreatesCycle(g, a, []uuid.UUID{b}) {
			t.Error("a -> b does not participate in the c/d loop")
		}
	})
}
