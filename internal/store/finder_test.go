package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	stagehanderrors "github.com/stagehand-app/stagehand/internal/errors"
	"github.com/stagehand-app/stagehand/internal/page"
)

// fakeNode is an in-memory graph node. Children may form cycles.
type fakeNode struct {
	id       uint64
	children map[string]*fakeNode
	calls    map[string]func(args ...any) (json.RawMessage, error)
}

func (n *fakeNode) ID() uint64 { return n.id }

func (n *fakeNode) Keys() []string {
	keys := make([]string, 0, len(n.children)+len(n.calls))
	for k := range n.children {
		keys = append(keys, k)
	}
	for k := range n.calls {
		keys = append(keys, k)
	}
	return keys
}

func (n *fakeNode) Child(key string) (page.Node, bool) {
	c, ok := n.children[key]
	if !ok {
		return nil, false
	}
	return c, true
}

func (n *fakeNode) Call(method string, args ...any) (json.RawMessage, error) {
	fn, ok := n.calls[method]
	if !ok {
		return nil, fmt.Errorf("no method %q", method)
	}
	return fn(args...)
}

type fakeGraph struct {
	root *fakeNode
	err  error
}

func (g *fakeGraph) Root() (page.Node, error) {
	if g.err != nil {
		return nil, g.err
	}
	return g.root, nil
}

// newStoreNode returns a node satisfying the store contract.
func newStoreNode(id uint64, state string) *fakeNode {
	return &fakeNode{
		id: id,
		calls: map[string]func(args ...any) (json.RawMessage, error){
			"getState":  func(...any) (json.RawMessage, error) { return json.RawMessage(state), nil },
			"dispatch":  func(...any) (json.RawMessage, error) { return nil, nil },
			"subscribe": func(...any) (json.RawMessage, error) { return nil, nil },
		},
	}
}

func TestFindStore(t *testing.T) {
	storeNode := newStoreNode(10, `{}`)
	root := &fakeNode{
		id: 1,
		children: map[string]*fakeNode{
			"app": {
				id: 2,
				children: map[string]*fakeNode{
					"player": {
						id:       3,
						children: map[string]*fakeNode{"store": storeNode},
					},
				},
			},
		},
	}

	found, err := findStore(&fakeGraph{root: root})
	if err != nil {
		t.Fatalf("findStore: %v", err)
	}
	if found.ID() != 10 {
		t.Errorf("found node %d, want 10", found.ID())
	}
}

func TestFindStoreCyclicGraph(t *testing.T) {
	// app → core → app: the visited-set must break the cycle and the
	// search must terminate with a miss, not hang.
	a := &fakeNode{id: 1, children: map[string]*fakeNode{}}
	b := &fakeNode{id: 2, children: map[string]*fakeNode{"app": a}}
	a.children["core"] = b

	_, err := findStore(&fakeGraph{root: a})
	if !errors.Is(err, stagehanderrors.ErrStoreNotFound) {
		t.Errorf("findStore on cyclic graph = %v, want ErrStoreNotFound", err)
	}
}

func TestFindStoreIgnoresUnlistedEdges(t *testing.T) {
	// The store is reachable only through an edge name outside the
	// allowlist, so the search must not find it.
	root := &fakeNode{
		id: 1,
		children: map[string]*fakeNode{
			"randomEdge": {
				id:       2,
				children: map[string]*fakeNode{"store": newStoreNode(10, `{}`)},
			},
		},
	}

	if _, err := findStore(&fakeGraph{root: root}); !errors.Is(err, stagehanderrors.ErrStoreNotFound) {
		t.Errorf("findStore = %v, want ErrStoreNotFound", err)
	}
}

func TestFindStoreNodeCap(t *testing.T) {
	// A deep chain of allowlisted edges past the cap: bounded, misses.
	root := &fakeNode{id: 0, children: map[string]*fakeNode{}}
	cur := root
	for i := 1; i < maxNodes+50; i++ {
		next := &fakeNode{id: uint64(i), children: map[string]*fakeNode{}}
		cur.children["app"] = next
		cur = next
	}
	cur.children["store"] = newStoreNode(99999, `{}`)

	if _, err := findStore(&fakeGraph{root: root}); !errors.Is(err, stagehanderrors.ErrStoreNotFound) {
		t.Errorf("findStore past cap = %v, want ErrStoreNotFound", err)
	}
}
