package inventory

import (
	"fmt"
	"math"

	"invui/internal/item"
)

// PutItem merges stack onto slot, which must be empty or hold a similar stack,
// up to the slot capacity. It returns the amount that did not fit.
func (inv *Inventory) PutItem(reason Reason, slot int, stack item.ItemStack) int {
	inv.checkSlot(slot)
	if stack.Count <= 0 {
		return 0
	}

	cur := inv.items[slot]
	var next item.ItemStack
	if cur == nil {
		amount := min(stack.Count, inv.MaxSlotStackSize(slot, &stack))
		if amount <= 0 {
			return stack.Count
		}
		next = stack.WithCount(amount)
	} else {
		if !inv.similar(*cur, stack) {
			return stack.Count
		}
		room := inv.MaxSlotStackSize(slot, cur) - cur.Count
		if room <= 0 {
			return stack.Count
		}
		next = cur.WithCount(cur.Count + min(room, stack.Count))
	}

	committed, ok := inv.change(reason, slot, &next)
	if !ok {
		return stack.Count
	}
	return stack.Count - inv.absorbed(cur, committed, stack)
}

// absorbed works out how much of stack ended up in a slot that went from prev
// to committed, clamped to what was offered.
func (inv *Inventory) absorbed(prev, committed *item.ItemStack, stack item.ItemStack) int {
	if committed == nil || !inv.similar(*committed, stack) {
		return 0
	}
	added := committed.Count - item.Count(prev)
	return max(0, min(added, stack.Count))
}

// AddItem spreads stack over the inventory: first onto similar stacks that are
// not full, then into empty slots, both in ascending slot order. It returns
// the amount that could not be placed.
func (inv *Inventory) AddItem(reason Reason, stack item.ItemStack) int {
	if stack.Count <= 0 {
		return 0
	}
	inv.beginBatch()
	defer inv.endBatch()

	left := stack.Count
	for _, slot := range inv.partialSlots(stack) {
		if left == 0 {
			return 0
		}
		left = inv.PutItem(reason, slot, stack.WithCount(left))
	}
	for _, slot := range inv.emptySlots() {
		if left == 0 {
			return 0
		}
		left = inv.PutItem(reason, slot, stack.WithCount(left))
	}
	return left
}

// SimulateAdd predicts AddItem for each stack in turn, as if they were added
// one after another, without touching the inventory. The result holds one
// leftover per input, in input order.
func (inv *Inventory) SimulateAdd(stacks ...item.ItemStack) []int {
	sim := inv.Copy()
	out := make([]int, len(stacks))
	for i, s := range stacks {
		out[i] = sim.AddItem(Suppressed, s)
	}
	return out
}

// CanHold reports whether all stacks would fit together.
func (inv *Inventory) CanHold(stacks ...item.ItemStack) bool {
	for _, left := range inv.SimulateAdd(stacks...) {
		if left != 0 {
			return false
		}
	}
	return true
}

// SetItemAmount changes the amount of the stack in slot, clamped to the slot
// capacity. Amounts of zero or less clear the slot. It returns the committed
// amount, which is the unchanged amount when the update is vetoed.
//
// Calling it on an empty slot is a programming error.
func (inv *Inventory) SetItemAmount(reason Reason, slot int, amount int) int {
	inv.checkSlot(slot)
	cur := inv.items[slot]
	if cur == nil {
		panic(fmt.Sprintf("inventory: SetItemAmount on empty slot %d", slot))
	}
	amount = min(amount, inv.MaxSlotStackSize(slot, cur))
	if amount == cur.Count {
		return amount
	}
	var next *item.ItemStack
	if amount > 0 {
		next = item.Ptr(cur.WithCount(amount))
	}
	committed, ok := inv.change(reason, slot, next)
	if !ok {
		return cur.Count
	}
	return item.Count(committed)
}

// AddItemAmount adds delta (which may be negative) to the stack in slot and
// returns the change that was actually committed.
//
// Calling it on an empty slot is a programming error.
func (inv *Inventory) AddItemAmount(reason Reason, slot int, delta int) int {
	inv.checkSlot(slot)
	cur := inv.items[slot]
	if cur == nil {
		panic(fmt.Sprintf("inventory: AddItemAmount on empty slot %d", slot))
	}
	before := cur.Count
	return inv.SetItemAmount(reason, slot, before+delta) - before
}

// TakeItemAmount removes up to n items from slot and returns how many were
// removed. Unlike SetItemAmount it never clamps to the slot capacity, so a
// slot whose limit was lowered below its stack loses exactly what was asked.
func (inv *Inventory) TakeItemAmount(reason Reason, slot int, n int) int {
	inv.checkSlot(slot)
	return inv.takeFrom(reason, slot, n)
}

// CollectSimilar gathers stacks similar to template into a hand already
// holding baseAmount of it. Partially filled slots are drained first, full
// ones only afterwards, each in ascending order, until the item-type limit of
// template is reached. It returns baseAmount plus everything collected,
// capped at that limit.
func (inv *Inventory) CollectSimilar(reason Reason, template item.ItemStack, baseAmount int) int {
	limit := template.GetMaxStackSize()
	amount := baseAmount
	if amount >= limit {
		return limit
	}
	inv.beginBatch()
	defer inv.endBatch()

	for _, slot := range inv.partialSlots(template) {
		amount += inv.takeFrom(reason, slot, limit-amount)
		if amount >= limit {
			return limit
		}
	}
	for _, slot := range inv.fullSlots(template) {
		amount += inv.takeFrom(reason, slot, limit-amount)
		if amount >= limit {
			return limit
		}
	}
	return amount
}

// RemoveFirst removes up to limit items from stacks matching pred, scanning in
// ascending slot order. It returns the amount removed.
func (inv *Inventory) RemoveFirst(reason Reason, limit int, pred func(item.ItemStack) bool) int {
	if limit <= 0 {
		return 0
	}
	inv.beginBatch()
	defer inv.endBatch()

	removed := 0
	for slot := 0; slot < len(inv.items) && removed < limit; slot++ {
		cur := inv.items[slot]
		if cur == nil || !pred(*cur) {
			continue
		}
		removed += inv.takeFrom(reason, slot, limit-removed)
	}
	return removed
}

// RemoveIf removes every stack matching pred and returns the amount removed.
func (inv *Inventory) RemoveIf(reason Reason, pred func(item.ItemStack) bool) int {
	return inv.RemoveFirst(reason, math.MaxInt, pred)
}

// RemoveFirstSimilar removes up to limit items similar to template.
func (inv *Inventory) RemoveFirstSimilar(reason Reason, limit int, template item.ItemStack) int {
	return inv.RemoveFirst(reason, limit, func(s item.ItemStack) bool {
		return inv.similar(s, template)
	})
}

// RemoveSimilar removes every stack similar to template.
func (inv *Inventory) RemoveSimilar(reason Reason, template item.ItemStack) int {
	return inv.RemoveIf(reason, func(s item.ItemStack) bool {
		return inv.similar(s, template)
	})
}

// takeFrom removes up to limit items from slot and returns how many left it.
func (inv *Inventory) takeFrom(reason Reason, slot int, limit int) int {
	cur := inv.items[slot]
	if cur == nil || limit <= 0 {
		return 0
	}
	take := min(limit, cur.Count)
	var next *item.ItemStack
	if take < cur.Count {
		next = item.Ptr(cur.WithCount(cur.Count - take))
	}
	committed, ok := inv.change(reason, slot, next)
	if !ok {
		return 0
	}
	remaining := 0
	if committed != nil && inv.similar(*committed, *cur) {
		remaining = committed.Count
	}
	return max(0, min(cur.Count-remaining, take))
}

// partialSlots lists slots holding a stack similar to template that still has
// room, in ascending order.
func (inv *Inventory) partialSlots(template item.ItemStack) []int {
	var slots []int
	for i, s := range inv.items {
		if s != nil && inv.similar(*s, template) && s.Count < inv.MaxSlotStackSize(i, s) {
			slots = append(slots, i)
		}
	}
	return slots
}

// fullSlots lists slots holding a similar stack at or above capacity.
func (inv *Inventory) fullSlots(template item.ItemStack) []int {
	var slots []int
	for i, s := range inv.items {
		if s != nil && inv.similar(*s, template) && s.Count >= inv.MaxSlotStackSize(i, s) {
			slots = append(slots, i)
		}
	}
	return slots
}

func (inv *Inventory) emptySlots() []int {
	var slots []int
	for i, s := range inv.items {
		if s == nil {
			slots = append(slots, i)
		}
	}
	return slots
}
