package keymap

import "github.com/samber/lo"

// Resolver maps key strings to actions.
type Resolver struct {
	bindings map[string]Action
	byAction map[Action][]string
}

// NewResolver indexes bindings. A key bound twice resolves to the later
// binding.
func NewResolver(bindings []Binding) *Resolver {
	r := &Resolver{
		bindings: make(map[string]Action),
		byAction: make(map[Action][]string),
	}
	for _, b := range bindings {
		for _, key := range b.Keys {
			r.bindings[key] = b.Action
		}
		r.byAction[b.Action] = lo.Uniq(append(r.byAction[b.Action], b.Keys...))
	}
	return r
}

// Resolve returns the action bound to key, or "".
func (r *Resolver) Resolve(key string) Action {
	return r.bindings[key]
}

// KeysFor returns the keys bound to an action.
func (r *Resolver) KeysFor(action Action) []string {
	return r.byAction[action]
}
