package inventory

import "invui/internal/item"

// Reason tags a mutation with its origin. A nil Reason is allowed and means
// the caller did not say.
type Reason interface {
	ReasonName() string
}

type suppressedReason struct{}

func (suppressedReason) ReasonName() string { return "suppressed" }

// Suppressed skips the pre-update and post-update handlers. Subscribers are
// still notified.
var Suppressed Reason = suppressedReason{}

// IsSuppressed reports whether r is the Suppressed reason.
func IsSuppressed(r Reason) bool {
	_, ok := r.(suppressedReason)
	return ok
}

// Machine marks a mutation started by the host rather than by a viewer.
type Machine string

func (m Machine) ReasonName() string { return string(m) }

func reasonName(r Reason) string {
	if r == nil {
		return "none"
	}
	return r.ReasonName()
}

// UpdateEvent describes a committed (or, for PreUpdateEvent, proposed) change
// of one slot. It is advisory: observers should read current state.
type UpdateEvent struct {
	Inventory *Inventory
	Slot      int
	Reason    Reason
	Previous  *item.ItemStack
	New       *item.ItemStack
}

// IsAdd reports whether the change only increased the amount of a similar stack
// or filled an empty slot.
func (e UpdateEvent) IsAdd() bool {
	if item.IsEmpty(e.New) {
		return false
	}
	if item.IsEmpty(e.Previous) {
		return true
	}
	return e.Inventory.Similar(*e.Previous, *e.New) && e.New.Count > e.Previous.Count
}

// IsRemove reports whether the change only decreased the amount of a stack.
func (e UpdateEvent) IsRemove() bool {
	if item.IsEmpty(e.Previous) {
		return false
	}
	if item.IsEmpty(e.New) {
		return true
	}
	return e.Inventory.Similar(*e.Previous, *e.New) && e.New.Count < e.Previous.Count
}

// IsSwap reports whether a stack was replaced by a dissimilar one.
func (e UpdateEvent) IsSwap() bool {
	if item.IsEmpty(e.Previous) || item.IsEmpty(e.New) {
		return false
	}
	return !e.Inventory.Similar(*e.Previous, *e.New)
}

// AddedAmount is the number of items added by an add change, 0 otherwise.
func (e UpdateEvent) AddedAmount() int {
	if !e.IsAdd() {
		return 0
	}
	return item.Count(e.New) - item.Count(e.Previous)
}

// RemovedAmount is the number of items removed by a remove change, 0 otherwise.
func (e UpdateEvent) RemovedAmount() int {
	if !e.IsRemove() {
		return 0
	}
	return item.Count(e.Previous) - item.Count(e.New)
}

// PreUpdateEvent is handed to the pre-update handler before a slot changes.
// The handler may cancel the change or replace New.
type PreUpdateEvent struct {
	UpdateEvent
	cancelled bool
}

func (e *PreUpdateEvent) Cancel()                  { e.cancelled = true }
func (e *PreUpdateEvent) SetCancelled(cancel bool) { e.cancelled = cancel }
func (e *PreUpdateEvent) IsCancelled() bool        { return e.cancelled }

// SetNewItem replaces the stack that will be committed.
func (e *PreUpdateEvent) SetNewItem(s *item.ItemStack) {
	e.New = item.Clone(s)
}

// PreUpdateHandler validates a proposed change.
type PreUpdateHandler func(e *PreUpdateEvent)

// UpdateHandler is called after a change has been committed.
type UpdateHandler func(e UpdateEvent)

// Subscriber is notified when a slot of an inventory changes its contents.
// Implementations must be comparable (usually pointers) so they can be
// unsubscribed.
type Subscriber interface {
	SlotUpdate(e UpdateEvent)
}
