package inventory

import (
	"fmt"

	"invui/internal/item"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Inventory is a fixed-length array of optional item stacks with a capacity
// limit per slot. It is shared by every container and window that displays
// it; all mutation goes through its methods so subscribers always hear about
// committed changes.
//
// An Inventory is not safe for concurrent use. Hosts drive it from their main
// loop.
type Inventory struct {
	id            uuid.UUID
	items         []*item.ItemStack
	maxStackSizes []int
	defaultMax    int
	similar       item.Similarity
	priority      int

	preUpdate   PreUpdateHandler
	postUpdate  UpdateHandler
	subscribers []Subscriber
	log         logrus.FieldLogger

	// Multi-slot operations buffer their notifications until the scan is over.
	batchDepth int
	pending    []pendingEvent
}

type pendingEvent struct {
	ev   UpdateEvent
	post bool
}

// Option configures inventory construction.
type Option func(*Inventory)

// WithID sets the stable identifier. A random one is generated otherwise.
func WithID(id uuid.UUID) Option {
	return func(inv *Inventory) { inv.id = id }
}

// WithDefaultMaxStackSize sets the capacity of every slot, including slots
// added later by Resize.
func WithDefaultMaxStackSize(n int) Option {
	return func(inv *Inventory) {
		if n <= 0 {
			panic(fmt.Sprintf("inventory: invalid default max stack size %d", n))
		}
		inv.defaultMax = n
		for i := range inv.maxStackSizes {
			inv.maxStackSizes[i] = n
		}
	}
}

// WithMaxStackSizes sets per-slot capacities. The slice length must equal the
// inventory size.
func WithMaxStackSizes(sizes []int) Option {
	return func(inv *Inventory) { inv.SetMaxStackSizes(sizes) }
}

// WithItems sets the initial contents. The slice length must equal the
// inventory size.
func WithItems(items []*item.ItemStack) Option {
	return func(inv *Inventory) {
		if len(items) != len(inv.items) {
			panic(fmt.Sprintf("inventory: %d initial items for %d slots", len(items), len(inv.items)))
		}
		for i, s := range items {
			inv.items[i] = item.Clone(s)
		}
	}
}

// WithSimilarity replaces the rule deciding which stacks may merge.
func WithSimilarity(fn item.Similarity) Option {
	return func(inv *Inventory) {
		if fn != nil {
			inv.similar = fn
		}
	}
}

// WithPriority sets the order in which interfaces pick this inventory for
// shift-moves and collects. Higher goes first.
func WithPriority(p int) Option {
	return func(inv *Inventory) { inv.priority = p }
}

func WithPreUpdateHandler(h PreUpdateHandler) Option {
	return func(inv *Inventory) { inv.preUpdate = h }
}

func WithUpdateHandler(h UpdateHandler) Option {
	return func(inv *Inventory) { inv.postUpdate = h }
}

func WithLogger(l logrus.FieldLogger) Option {
	return func(inv *Inventory) {
		if l != nil {
			inv.log = l
		}
	}
}

// New creates an inventory with size empty slots.
func New(size int, opts ...Option) *Inventory {
	if size < 0 {
		panic(fmt.Sprintf("inventory: negative size %d", size))
	}
	inv := &Inventory{
		id:            uuid.New(),
		items:         make([]*item.ItemStack, size),
		maxStackSizes: make([]int, size),
		defaultMax:    item.DefaultMaxStackSize,
		similar:       item.DefaultSimilarity,
		log:           logrus.StandardLogger(),
	}
	for i := range inv.maxStackSizes {
		inv.maxStackSizes[i] = inv.defaultMax
	}
	for _, opt := range opts {
		if opt != nil {
			opt(inv)
		}
	}
	return inv
}

func (inv *Inventory) ID() uuid.UUID { return inv.id }

func (inv *Inventory) Size() int { return len(inv.items) }

func (inv *Inventory) Priority() int { return inv.priority }

func (inv *Inventory) SetPriority(p int) { inv.priority = p }

func (inv *Inventory) SetPreUpdateHandler(h PreUpdateHandler) { inv.preUpdate = h }

func (inv *Inventory) SetUpdateHandler(h UpdateHandler) { inv.postUpdate = h }

// Similar applies the inventory's similarity rule.
func (inv *Inventory) Similar(a, b item.ItemStack) bool {
	return inv.similar(a, b)
}

func (inv *Inventory) String() string {
	return fmt.Sprintf("inventory %s (%d slots)", inv.id, len(inv.items))
}

// Subscribe registers s for slot updates. Subscribing twice means two
// notifications per change until Unsubscribe is called twice.
func (inv *Inventory) Subscribe(s Subscriber) {
	inv.subscribers = append(inv.subscribers, s)
}

// Unsubscribe removes one registration of s.
func (inv *Inventory) Unsubscribe(s Subscriber) {
	for i, cur := range inv.subscribers {
		if cur == s {
			inv.subscribers = append(inv.subscribers[:i], inv.subscribers[i+1:]...)
			return
		}
	}
}

// Subscribers returns the number of active registrations.
func (inv *Inventory) Subscribers() int { return len(inv.subscribers) }

func (inv *Inventory) checkSlot(slot int) {
	if slot < 0 || slot >= len(inv.items) {
		panic(fmt.Sprintf("inventory: slot %d out of range [0,%d)", slot, len(inv.items)))
	}
}

// GetItem returns a copy of the stack in slot, or nil.
func (inv *Inventory) GetItem(slot int) *item.ItemStack {
	inv.checkSlot(slot)
	return item.Clone(inv.items[slot])
}

// Items returns copies of all stacks.
func (inv *Inventory) Items() []*item.ItemStack {
	out := make([]*item.ItemStack, len(inv.items))
	for i, s := range inv.items {
		out[i] = item.Clone(s)
	}
	return out
}

// IsSynced reports whether expected matches the authoritative stack in slot.
func (inv *Inventory) IsSynced(slot int, expected *item.ItemStack) bool {
	inv.checkSlot(slot)
	return item.Equal(inv.items[slot], expected)
}

// MaxStackSize returns the capacity configured for slot, regardless of item.
func (inv *Inventory) MaxStackSize(slot int) int {
	inv.checkSlot(slot)
	return inv.maxStackSizes[slot]
}

// MaxStackSizes returns a copy of the per-slot capacities.
func (inv *Inventory) MaxStackSizes() []int {
	return append([]int(nil), inv.maxStackSizes...)
}

// SetMaxStackSize changes the capacity of one slot. Stacks already above the
// new limit are left alone; the limit applies to the next mutation.
func (inv *Inventory) SetMaxStackSize(slot, n int) {
	inv.checkSlot(slot)
	if n < 0 {
		panic(fmt.Sprintf("inventory: negative max stack size %d for slot %d", n, slot))
	}
	inv.maxStackSizes[slot] = n
}

// SetMaxStackSizes replaces all per-slot capacities.
func (inv *Inventory) SetMaxStackSizes(sizes []int) {
	if len(sizes) != len(inv.items) {
		panic(fmt.Sprintf("inventory: %d max stack sizes for %d slots", len(sizes), len(inv.items)))
	}
	for slot, n := range sizes {
		if n < 0 {
			panic(fmt.Sprintf("inventory: negative max stack size %d for slot %d", n, slot))
		}
	}
	copy(inv.maxStackSizes, sizes)
}

// MaxSlotStackSize returns how many items slot may hold: the slot limit capped
// by the item-type limit of alternative, or of the current stack when
// alternative is empty.
func (inv *Inventory) MaxSlotStackSize(slot int, alternative *item.ItemStack) int {
	inv.checkSlot(slot)
	limit := inv.maxStackSizes[slot]
	switch {
	case !item.IsEmpty(alternative):
		return min(limit, alternative.GetMaxStackSize())
	case inv.items[slot] != nil:
		return min(limit, inv.items[slot].GetMaxStackSize())
	default:
		return limit
	}
}

// Resize truncates or extends the inventory. New slots are empty and use the
// default capacity. Removed stacks are announced as cleared.
func (inv *Inventory) Resize(size int) {
	if size < 0 {
		panic(fmt.Sprintf("inventory: negative size %d", size))
	}
	old := len(inv.items)
	if size == old {
		return
	}
	inv.beginBatch()
	defer inv.endBatch()

	if size < old {
		for slot := size; slot < old; slot++ {
			if prev := inv.items[slot]; prev != nil {
				inv.emit(UpdateEvent{Inventory: inv, Slot: slot, Reason: Suppressed, Previous: prev}, false)
			}
		}
		inv.items = inv.items[:size:size]
		inv.maxStackSizes = inv.maxStackSizes[:size:size]
		return
	}
	inv.items = append(inv.items, make([]*item.ItemStack, size-old)...)
	for i := old; i < size; i++ {
		inv.maxStackSizes = append(inv.maxStackSizes, inv.defaultMax)
	}
}

// SetItemSilently overwrites slot without capacity checks or handlers. It is
// meant for repairing state; subscribers are still notified.
func (inv *Inventory) SetItemSilently(slot int, stack *item.ItemStack) {
	inv.checkSlot(slot)
	prev := inv.items[slot]
	next := item.Clone(stack)
	inv.items[slot] = next
	inv.emit(UpdateEvent{Inventory: inv, Slot: slot, Reason: Suppressed, Previous: prev, New: next}, false)
}

// ForceSetItem replaces slot ignoring its capacity. The pre-update handler may
// still cancel or alter the change. It reports whether anything was committed.
func (inv *Inventory) ForceSetItem(reason Reason, slot int, stack *item.ItemStack) bool {
	inv.checkSlot(slot)
	_, ok := inv.change(reason, slot, stack)
	return ok
}

// SetItem is ForceSetItem that refuses stacks above the slot capacity.
func (inv *Inventory) SetItem(reason Reason, slot int, stack *item.ItemStack) bool {
	inv.checkSlot(slot)
	if !item.IsEmpty(stack) && stack.Count > inv.MaxSlotStackSize(slot, stack) {
		return false
	}
	return inv.ForceSetItem(reason, slot, stack)
}

// change runs the pre-update handler for slot and commits the result. Stored
// stacks are never modified in place; every commit installs a fresh pointer.
func (inv *Inventory) change(reason Reason, slot int, next *item.ItemStack) (*item.ItemStack, bool) {
	prev := inv.items[slot]
	next = item.Clone(next)
	suppressed := IsSuppressed(reason)
	if !suppressed && inv.preUpdate != nil {
		ev := &PreUpdateEvent{UpdateEvent: UpdateEvent{
			Inventory: inv,
			Slot:      slot,
			Reason:    reason,
			Previous:  item.Clone(prev),
			New:       item.Clone(next),
		}}
		inv.preUpdate(ev)
		if ev.cancelled {
			inv.log.WithFields(logrus.Fields{
				"inventory": inv.id,
				"slot":      slot,
				"reason":    reasonName(reason),
			}).Debug("slot update vetoed")
			return prev, false
		}
		next = item.Clone(ev.New)
	}
	inv.items[slot] = next
	inv.emit(UpdateEvent{Inventory: inv, Slot: slot, Reason: reason, Previous: prev, New: next}, !suppressed)
	return next, true
}

func (inv *Inventory) emit(ev UpdateEvent, post bool) {
	if inv.batchDepth > 0 {
		inv.pending = append(inv.pending, pendingEvent{ev: ev, post: post})
		return
	}
	inv.deliver(ev, post)
}

func (inv *Inventory) deliver(ev UpdateEvent, post bool) {
	ev.Previous = item.Clone(ev.Previous)
	ev.New = item.Clone(ev.New)
	subs := append([]Subscriber(nil), inv.subscribers...)
	for _, s := range subs {
		s.SlotUpdate(ev)
	}
	if post && inv.postUpdate != nil {
		inv.postUpdate(ev)
	}
}

func (inv *Inventory) beginBatch() { inv.batchDepth++ }

func (inv *Inventory) endBatch() {
	inv.batchDepth--
	if inv.batchDepth > 0 || len(inv.pending) == 0 {
		return
	}
	pending := inv.pending
	inv.pending = nil
	for _, p := range pending {
		inv.deliver(p.ev, p.post)
	}
}

// Copy returns a detached deep copy with the same contents, capacities,
// similarity rule and priority. Handlers and subscribers are not copied and the
// copy gets its own identifier.
func (inv *Inventory) Copy() *Inventory {
	return &Inventory{
		id:            uuid.New(),
		items:         inv.Items(),
		maxStackSizes: inv.MaxStackSizes(),
		defaultMax:    inv.defaultMax,
		similar:       inv.similar,
		priority:      inv.priority,
		log:           inv.log,
	}
}

// FirstEmptySlot returns the index of the first empty slot, or -1.
func (inv *Inventory) FirstEmptySlot() int {
	for i, s := range inv.items {
		if s == nil {
			return i
		}
	}
	return -1
}

// IsEmpty reports whether no slot holds a stack.
func (inv *Inventory) IsEmpty() bool {
	for _, s := range inv.items {
		if s != nil {
			return false
		}
	}
	return true
}

// IsFull reports whether every slot holds a stack at its capacity.
func (inv *Inventory) IsFull() bool {
	for i, s := range inv.items {
		if s == nil || s.Count < inv.MaxSlotStackSize(i, s) {
			return false
		}
	}
	return true
}

// ContainsSimilar reports whether any slot holds a stack similar to template.
func (inv *Inventory) ContainsSimilar(template item.ItemStack) bool {
	for _, s := range inv.items {
		if s != nil && inv.similar(*s, template) {
			return true
		}
	}
	return false
}

// CountSimilar sums the amounts of all stacks similar to template.
func (inv *Inventory) CountSimilar(template item.ItemStack) int {
	total := 0
	for _, s := range inv.items {
		if s != nil && inv.similar(*s, template) {
			total += s.Count
		}
	}
	return total
}
