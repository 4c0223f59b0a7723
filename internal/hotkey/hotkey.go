// Package hotkey maps key combinations reported by the wrapper shell to
// control intents.
package hotkey

import (
	"fmt"
	"sort"
	"strings"

	"github.com/stagehand-app/stagehand/internal/core"
	stagehanderrors "github.com/stagehand-app/stagehand/internal/errors"
)

// Binding pairs a control action with a key combination.
type Binding struct {
	Action core.IntentKind
	Combo  string
}

// Bindings is an ordered action-to-combination table. Order is
// insertion order; when a loaded config maps two actions to the same
// combination, Translate resolves to the later one.
type Bindings struct {
	order []Binding
}

// Normalize canonicalizes a combination: lowercase, no spaces, plus-
// separated, modifiers sorted ahead of the key.
func Normalize(combo string) string {
	parts := strings.Split(strings.ToLower(strings.ReplaceAll(combo, " ", "")), "+")
	if len(parts) < 2 {
		return strings.Join(parts, "+")
	}
	mods := parts[:len(parts)-1]
	sort.Strings(mods)
	return strings.Join(append(mods, parts[len(parts)-1]), "+")
}

// Set binds action to combo, replacing the action's previous binding.
// A combination already bound to a different action is rejected.
func (b *Bindings) Set(action core.IntentKind, combo string) error {
	if _, err := core.ParseIntent(string(action)); err != nil {
		return err
	}
	norm := Normalize(combo)
	if norm == "" {
		return fmt.Errorf("empty key combination for %s", action)
	}
	for _, bd := range b.order {
		if bd.Combo == norm && bd.Action != action {
			return fmt.Errorf("%q already bound to %s: %w",
				combo, bd.Action, stagehanderrors.ErrDuplicateBinding)
		}
	}
	for i, bd := range b.order {
		if bd.Action == action {
			b.order[i].Combo = norm
			return nil
		}
	}
	b.order = append(b.order, Binding{Action: action, Combo: norm})
	return nil
}

// Load builds a table from a config map. Conflicting combinations are
// tolerated here so a hand-edited config still starts; actions are
// inserted in sorted name order to keep last-wins resolution stable.
// Unknown action names are reported but do not fail the load.
func Load(m map[string]string) (*Bindings, []error) {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)

	b := &Bindings{}
	var errs []error
	for _, name := range names {
		if _, err := core.ParseIntent(name); err != nil {
			errs = append(errs, err)
			continue
		}
		norm := Normalize(m[name])
		if norm == "" {
			errs = append(errs, fmt.Errorf("empty key combination for %s", name))
			continue
		}
		b.order = append(b.order, Binding{Action: core.IntentKind(name), Combo: norm})
	}
	return b, errs
}

// Translate resolves a combination to an intent. The scan runs from the
// end so the most recently inserted binding wins a conflict.
func (b *Bindings) Translate(combo string) (core.Intent, bool) {
	norm := Normalize(combo)
	for i := len(b.order) - 1; i >= 0; i-- {
		if b.order[i].Combo == norm {
			return core.Intent{Kind: b.order[i].Action}, true
		}
	}
	return core.Intent{}, false
}

// All returns the bindings in insertion order.
func (b *Bindings) All() []Binding {
	out := make([]Binding, len(b.order))
	copy(out, b.order)
	return out
}
