package store

import (
	"github.com/stagehand-app/stagehand/internal/errors"
	"github.com/stagehand-app/stagehand/internal/page"
)

// The host object graph is externally owned, untyped and cyclic. The
// store is found by a bounded breadth-first search from the graph root,
// following only a fixed allowlist of edge names, with a visited-set
// keyed on reference identity and a hard node cap.

// edgeAllowlist is the set of property names worth following. Edges the
// host adds outside this list are invisible to the search on purpose.
var edgeAllowlist = []string{
	"app",
	"core",
	"player",
	"playerController",
	"modules",
	"services",
	"state",
	"store",
	"_store",
	"default",
}

// Methods a node must expose to qualify as the state store.
var storeMethods = []string{"getState", "dispatch", "subscribe"}

// maxNodes caps the traversal; the graph is cyclic and unbounded from
// our point of view.
const maxNodes = 512

// findStore walks the graph looking for a node exposing the store
// contract. Returns ErrStoreNotFound when the cap is exhausted.
func findStore(g page.Graph) (page.Node, error) {
	root, err := g.Root()
	if err != nil {
		return nil, err
	}

	visited := map[uint64]bool{root.ID(): true}
	queue := []page.Node{root}
	inspected := 0

	for len(queue) > 0 && inspected < maxNodes {
		node := queue[0]
		queue = queue[1:]
		inspected++

		keys := node.Keys()
		if hasAll(keys, storeMethods) {
			return node, nil
		}

		for _, key := range keys {
			if !allowedEdge(key) {
				continue
			}
			child, ok := node.Child(key)
			if !ok || visited[child.ID()] {
				continue
			}
			visited[child.ID()] = true
			queue = append(queue, child)
		}
	}

	return nil, errors.ErrStoreNotFound
}

func allowedEdge(key string) bool {
	for _, e := range edgeAllowlist {
		if key == e {
			return true
		}
	}
	return false
}

func hasAll(keys, wanted []string) bool {
	for _, w := range wanted {
		found := false
		for _, k := range keys {
			if k == w {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
