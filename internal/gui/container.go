package gui

import (
	"fmt"
	"slices"

	"invui/internal/inventory"
	"invui/internal/item"

	"github.com/sirupsen/logrus"
)

// DefaultMaxLinkDepth bounds link resolution and change propagation.
const DefaultMaxLinkDepth = 64

// Parent observes a container: another container linking into it, or a
// surface displaying it. Implementations must be comparable.
type Parent interface {
	HandleSlotChanged(c *Container, slot int)
}

type parentRef struct {
	p Parent
	n int
}

// Container is a fixed-size grid of slot elements. It represents the logical
// side of an interface (a chest, a player inventory, a paged menu) and can be
// nested into other containers through LinkElements.
type Container struct {
	width, height int
	cells         []SlotElement

	parents     []parentRef
	links       map[*Container]int
	inventories map[*inventory.Inventory]int

	maxDepth int
	log      logrus.FieldLogger
}

// Option configures container construction.
type Option func(*Container)

// WithMaxLinkDepth sets how many links may be followed before a chain is
// treated as cyclic.
func WithMaxLinkDepth(n int) Option {
	return func(c *Container) {
		if n > 0 {
			c.maxDepth = n
		}
	}
}

func WithLogger(l logrus.FieldLogger) Option {
	return func(c *Container) {
		if l != nil {
			c.log = l
		}
	}
}

// NewContainer creates an empty container of width*height cells.
func NewContainer(width, height int, opts ...Option) *Container {
	if width < 0 || height < 0 {
		panic(fmt.Sprintf("gui: invalid container size %dx%d", width, height))
	}
	c := &Container{
		width:       width,
		height:      height,
		cells:       make([]SlotElement, width*height),
		links:       make(map[*Container]int),
		inventories: make(map[*inventory.Inventory]int),
		maxDepth:    DefaultMaxLinkDepth,
		log:         logrus.StandardLogger(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

func (c *Container) Width() int  { return c.width }
func (c *Container) Height() int { return c.height }
func (c *Container) Size() int   { return len(c.cells) }

func (c *Container) String() string {
	return fmt.Sprintf("container %dx%d", c.width, c.height)
}

func (c *Container) checkIndex(index int) {
	if index < 0 || index >= len(c.cells) {
		panic(fmt.Sprintf("gui: cell %d out of range [0,%d)", index, len(c.cells)))
	}
}

// Cell returns the element stored at index, without resolving links.
func (c *Container) Cell(index int) SlotElement {
	c.checkIndex(index)
	return c.cells[index]
}

// SetCell replaces the element at index and notifies the parents.
func (c *Container) SetCell(index int, el SlotElement) {
	c.checkIndex(index)
	el = normalize(el)
	old := c.cells[index]
	c.cells[index] = el
	// Attach before detaching so replacing a link with another link to the same
	// container keeps the registration alive.
	c.attach(el)
	c.detach(old)
	c.notify(index, 0)
}

// SetCellAt is SetCell addressed by grid position.
func (c *Container) SetCellAt(x, y int, el SlotElement) {
	if x < 0 || x >= c.width || y < 0 || y >= c.height {
		panic(fmt.Sprintf("gui: position (%d,%d) outside %dx%d", x, y, c.width, c.height))
	}
	c.SetCell(y*c.width+x, el)
}

func (c *Container) ClearCell(index int) { c.SetCell(index, nil) }

// Clear empties every cell, dropping all link and inventory registrations.
func (c *Container) Clear() {
	for i := range c.cells {
		if c.cells[i] != nil {
			c.SetCell(i, nil)
		}
	}
}

// SetInventory fills cells starting at offset with consecutive slots of inv.
func (c *Container) SetInventory(offset int, inv *inventory.Inventory, background Item) {
	for slot := 0; slot < inv.Size() && offset+slot < len(c.cells); slot++ {
		c.SetCell(offset+slot, InventoryElement{Inventory: inv, Slot: slot, Background: background})
	}
}

func normalize(el SlotElement) SlotElement {
	switch e := el.(type) {
	case *ItemElement:
		if e == nil {
			return nil
		}
		return *e
	case *InventoryElement:
		if e == nil {
			return nil
		}
		return *e
	case *LinkElement:
		if e == nil {
			return nil
		}
		return *e
	case LinkElement:
		if e.Container == nil {
			panic("gui: link to nil container")
		}
	case InventoryElement:
		if e.Inventory == nil {
			panic("gui: inventory element without inventory")
		}
	}
	return el
}

func (c *Container) attach(el SlotElement) {
	switch e := el.(type) {
	case LinkElement:
		c.links[e.Container]++
		if c.links[e.Container] == 1 {
			e.Container.AddParent(c)
		}
	case InventoryElement:
		c.inventories[e.Inventory]++
		if c.inventories[e.Inventory] == 1 {
			e.Inventory.Subscribe(c)
		}
	}
}

func (c *Container) detach(el SlotElement) {
	switch e := el.(type) {
	case LinkElement:
		c.links[e.Container]--
		if c.links[e.Container] <= 0 {
			delete(c.links, e.Container)
			e.Container.RemoveParent(c)
		}
	case InventoryElement:
		c.inventories[e.Inventory]--
		if c.inventories[e.Inventory] <= 0 {
			delete(c.inventories, e.Inventory)
			e.Inventory.Unsubscribe(c)
		}
	}
}

// AddParent registers p. Registrations are counted; p is notified once per
// change however many times it was added.
func (c *Container) AddParent(p Parent) {
	for i := range c.parents {
		if c.parents[i].p == p {
			c.parents[i].n++
			return
		}
	}
	c.parents = append(c.parents, parentRef{p: p, n: 1})
}

// RemoveParent drops one registration of p.
func (c *Container) RemoveParent(p Parent) {
	for i := range c.parents {
		if c.parents[i].p != p {
			continue
		}
		c.parents[i].n--
		if c.parents[i].n <= 0 {
			c.parents = append(c.parents[:i], c.parents[i+1:]...)
		}
		return
	}
}

// Parents lists the registered parents in registration order.
func (c *Container) Parents() []Parent {
	out := make([]Parent, len(c.parents))
	for i, r := range c.parents {
		out[i] = r.p
	}
	return out
}

// Resolve follows links from index until it reaches an item, an inventory
// slot or an empty cell. Chains longer than the link depth limit are treated
// as cyclic and resolve to nil.
func (c *Container) Resolve(index int) SlotElement {
	c.checkIndex(index)
	cur, idx := c, index
	for hops := 0; ; hops++ {
		if idx < 0 || idx >= len(cur.cells) {
			return nil
		}
		link, ok := cur.cells[idx].(LinkElement)
		if !ok {
			return cur.cells[idx]
		}
		if hops >= c.maxDepth {
			c.log.WithFields(logrus.Fields{
				"cell":  index,
				"limit": c.maxDepth,
			}).Warn("link chain too deep, treating cell as empty")
			return nil
		}
		cur, idx = link.Container, link.Slot
	}
}

// ItemStack returns what viewer should see at index.
func (c *Container) ItemStack(index int, viewer string) *item.ItemStack {
	return content(c.Resolve(index), viewer)
}

// Inventories lists the distinct inventories reachable from this container in
// ascending cell order, stable-sorted by descending priority.
func (c *Container) Inventories() []*inventory.Inventory {
	var out []*inventory.Inventory
	seen := make(map[*inventory.Inventory]bool)
	for i := range c.cells {
		e, ok := c.Resolve(i).(InventoryElement)
		if !ok || seen[e.Inventory] {
			continue
		}
		seen[e.Inventory] = true
		out = append(out, e.Inventory)
	}
	slices.SortStableFunc(out, func(a, b *inventory.Inventory) int {
		return b.Priority() - a.Priority()
	})
	return out
}

// HandleSlotChanged is called by a linked child container. Every cell linking
// to (child, slot) is reported to this container's parents.
func (c *Container) HandleSlotChanged(child *Container, slot int) {
	c.childChanged(child, slot, 1)
}

func (c *Container) childChanged(child *Container, slot int, depth int) {
	if depth > c.maxDepth {
		c.log.WithFields(logrus.Fields{
			"slot":  slot,
			"limit": c.maxDepth,
		}).Warn("change propagation too deep, dropping notification")
		return
	}
	for i, el := range c.cells {
		if link, ok := el.(LinkElement); ok && link.Container == child && link.Slot == slot {
			c.notify(i, depth)
		}
	}
}

// SlotUpdate implements inventory.Subscriber.
func (c *Container) SlotUpdate(ev inventory.UpdateEvent) {
	for i, el := range c.cells {
		if e, ok := el.(InventoryElement); ok && e.Inventory == ev.Inventory && e.Slot == ev.Slot {
			c.notify(i, 0)
		}
	}
}

// NotifySlot tells the parents that index has to be redrawn.
func (c *Container) NotifySlot(index int) {
	c.checkIndex(index)
	c.notify(index, 0)
}

// NotifyItem redraws every cell holding it, for items whose appearance changed.
func (c *Container) NotifyItem(it Item) {
	if it == nil {
		return
	}
	for i, el := range c.cells {
		switch e := el.(type) {
		case ItemElement:
			if e.Item == it {
				c.notify(i, 0)
			}
		case InventoryElement:
			if e.Background == it {
				c.notify(i, 0)
			}
		}
	}
}

func (c *Container) notify(index int, depth int) {
	if len(c.parents) == 0 {
		return
	}
	parents := append([]parentRef(nil), c.parents...)
	for _, r := range parents {
		if pc, ok := r.p.(*Container); ok {
			pc.childChanged(c, index, depth+1)
			continue
		}
		r.p.HandleSlotChanged(c, index)
	}
}
