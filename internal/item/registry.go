package item

import (
	"errors"
	"fmt"
	"sort"
)

// Registry holds the item types known to the host.
type Registry struct {
	types map[string]Type
}

// NewRegistry creates a registry pre-populated with the given types.
func NewRegistry(types ...Type) *Registry {
	r := &Registry{types: make(map[string]Type, len(types))}
	for _, t := range types {
		_ = r.Register(t)
	}
	return r
}

// Register adds or replaces an item type.
func (r *Registry) Register(t Type) error {
	if t.ID == "" {
		return errors.New("item type id required")
	}
	if t.MaxStack < 0 {
		return fmt.Errorf("item type %s: negative max stack %d", t.ID, t.MaxStack)
	}
	r.types[t.ID] = t
	return nil
}

// Lookup returns the type registered under id.
func (r *Registry) Lookup(id string) (Type, bool) {
	t, ok := r.types[id]
	return t, ok
}

// Stack builds a stack of count items of the registered type id.
func (r *Registry) Stack(id string, count int) (ItemStack, error) {
	t, ok := r.Lookup(id)
	if !ok {
		return ItemStack{}, fmt.Errorf("unknown item type: %s", id)
	}
	return NewItemStack(t, count), nil
}

// IDs lists the registered type ids in sorted order.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.types))
	for id := range r.types {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
