package gui

import (
	"invui/internal/inventory"
	"invui/internal/item"
)

// Item is a static cell content supplied by the host. It decides what a viewer
// sees; the container only decides when to ask again.
//
// Implementations must be comparable (usually pointers) so NotifyItem can find
// the cells holding them.
type Item interface {
	ItemStack(viewer string) *item.ItemStack
}

// SimpleItem shows the same stack to every viewer.
type SimpleItem struct {
	Stack *item.ItemStack
}

// NewSimpleItem creates a static item showing stack.
func NewSimpleItem(stack item.ItemStack) *SimpleItem {
	return &SimpleItem{Stack: item.Ptr(stack)}
}

func (s *SimpleItem) ItemStack(string) *item.ItemStack { return item.Clone(s.Stack) }

// SlotElement is the content of one container cell: an ItemElement, an
// InventoryElement or a LinkElement. A nil SlotElement is an empty cell.
// The set of variants is closed.
type SlotElement interface {
	slotElement()
}

// ItemElement is a terminal cell showing a static item.
type ItemElement struct {
	Item Item
}

// InventoryElement shows one slot of a shared inventory. Background is shown
// while that slot is empty and may be nil.
type InventoryElement struct {
	Inventory  *inventory.Inventory
	Slot       int
	Background Item
}

// LinkElement mirrors a cell of another container.
type LinkElement struct {
	Container *Container
	Slot      int
}

func (ItemElement) slotElement()      {}
func (InventoryElement) slotElement() {}
func (LinkElement) slotElement()      {}

// Stack returns the current stack of the referenced slot, or nil when the slot
// is empty or no longer exists.
func (e InventoryElement) Stack() *item.ItemStack {
	if e.Inventory == nil || e.Slot < 0 || e.Slot >= e.Inventory.Size() {
		return nil
	}
	return e.Inventory.GetItem(e.Slot)
}

// Valid reports whether the referenced slot exists.
func (e InventoryElement) Valid() bool {
	return e.Inventory != nil && e.Slot >= 0 && e.Slot < e.Inventory.Size()
}

// content returns what viewer sees for a resolved terminal element.
func content(el SlotElement, viewer string) *item.ItemStack {
	switch e := el.(type) {
	case ItemElement:
		if e.Item == nil {
			return nil
		}
		return item.Clone(e.Item.ItemStack(viewer))
	case InventoryElement:
		if s := e.Stack(); s != nil {
			return s
		}
		if e.Background != nil {
			return item.Clone(e.Background.ItemStack(viewer))
		}
	}
	return nil
}
