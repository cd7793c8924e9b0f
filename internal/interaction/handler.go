package interaction

import (
	"fmt"

	"invui/internal/gui"
	"invui/internal/inventory"
	"invui/internal/item"
	"invui/internal/profiling"

	"github.com/sirupsen/logrus"
)

// Viewer is the user performing a gesture.
type Viewer struct {
	ID string
	// Inventory is the viewer's own inventory, used for hotbar swaps, moves to
	// the external container and as a last collect source. It may be nil.
	Inventory *inventory.Inventory
}

// Target is one slot covered by a drag, with the stack the viewer saw there.
type Target struct {
	Slot      int
	Displayed *item.ItemStack
}

// Click is a gesture delivered by the host.
type Click struct {
	Gesture   Gesture
	Container *gui.Container
	Slot      int
	// Held is the stack on the viewer's cursor before the gesture.
	Held *item.ItemStack
	// Displayed is what the viewer saw at Slot. A mismatch with the inventory
	// rejects the gesture.
	Displayed *item.ItemStack
	Viewer    Viewer

	Amount     int      // place-some
	HotbarSlot int      // hotbar-quick-swap, a slot of Viewer.Inventory
	Targets    []Target // drag gestures

	// HotbarDisplayed is what the viewer saw in HotbarSlot. It is only checked
	// when HotbarShown is set, as the hotbar slot may not be on screen.
	HotbarDisplayed *item.ItemStack
	HotbarShown     bool
}

// Result is returned for every click. Held is the new cursor stack; it equals
// the incoming one when the gesture was cancelled.
type Result struct {
	Cancelled bool
	Held      *item.ItemStack
}

// ViewerReason tags inventory mutations caused by a viewer's gesture.
type ViewerReason struct {
	Viewer  string
	Gesture Gesture
}

func (r ViewerReason) ReasonName() string {
	return fmt.Sprintf("viewer %s %s", r.Viewer, r.Gesture)
}

// Clickable is implemented by static items with their own click behavior.
type Clickable interface {
	HandleClick(c Click)
}

// Handler turns gestures into inventory mutations.
type Handler struct {
	log logrus.FieldLogger
}

type Option func(*Handler)

func WithLogger(l logrus.FieldLogger) Option {
	return func(h *Handler) {
		if l != nil {
			h.log = l
		}
	}
}

func NewHandler(opts ...Option) *Handler {
	h := &Handler{log: logrus.StandardLogger()}
	for _, opt := range opts {
		if opt != nil {
			opt(h)
		}
	}
	return h
}

// gesture carries the state of one Handle call.
type gesture struct {
	h      *Handler
	click  Click
	reason ViewerReason
	held   *item.ItemStack
}

func (g *gesture) cancel(cause string) Result {
	g.h.log.WithFields(logrus.Fields{
		"gesture": g.click.Gesture,
		"viewer":  g.click.Viewer.ID,
		"slot":    g.click.Slot,
	}).Debugf("gesture cancelled: %s", cause)
	return Result{Cancelled: true, Held: item.Clone(g.click.Held)}
}

func (g *gesture) done() Result {
	return Result{Held: item.Clone(g.held)}
}

// Handle applies c and reports the new held stack. Rejections never modify
// any inventory.
func (h *Handler) Handle(c Click) Result {
	defer profiling.Track("interaction.Handle")()

	g := &gesture{
		h:      h,
		click:  c,
		reason: ViewerReason{Viewer: c.Viewer.ID, Gesture: c.Gesture},
		held:   item.Clone(c.Held),
	}
	if c.Container == nil {
		return g.cancel("no container")
	}
	if c.Gesture.IsDrag() {
		return g.drag()
	}
	if c.Slot < 0 || c.Slot >= c.Container.Size() {
		return g.cancel("slot out of range")
	}

	switch e := c.Container.Resolve(c.Slot).(type) {
	case gui.InventoryElement:
		if !e.Valid() {
			return g.cancel("inventory slot gone")
		}
		if !e.Inventory.IsSynced(e.Slot, c.Displayed) {
			return g.cancel("stale slot")
		}
		return g.apply(e.Inventory, e.Slot)
	case gui.ItemElement:
		if cl, ok := e.Item.(Clickable); ok {
			cl.HandleClick(c)
			return g.done()
		}
		return g.cancel("static item")
	default:
		return g.cancel("empty cell")
	}
}

func (g *gesture) apply(inv *inventory.Inventory, slot int) Result {
	switch g.click.Gesture {
	case PickUpAll:
		return g.pickUp(inv, slot, func(n int) int { return 0 })
	case PickUpHalf:
		return g.pickUp(inv, slot, func(n int) int { return n / 2 })
	case PickUpOne:
		return g.pickUp(inv, slot, func(n int) int { return n - 1 })
	case PlaceAll:
		return g.place(inv, slot, item.Count(g.held))
	case PlaceOne:
		return g.place(inv, slot, 1)
	case PlaceSome:
		if g.click.Amount <= 0 {
			return g.cancel("nothing to place")
		}
		return g.place(inv, slot, min(g.click.Amount, item.Count(g.held)))
	case SwapWithHeld:
		return g.swap(inv, slot)
	case ShiftMoveOut:
		var dests []*inventory.Inventory
		for _, other := range g.click.Container.Inventories() {
			if other != inv {
				dests = append(dests, other)
			}
		}
		return g.move(inv, slot, dests)
	case MoveToExternalContainer:
		ext := g.click.Viewer.Inventory
		if ext == nil || ext == inv {
			return g.cancel("no external inventory")
		}
		return g.move(inv, slot, []*inventory.Inventory{ext})
	case CollectToHeld:
		return g.collect(inv)
	case HotbarQuickSwap:
		return g.hotbarSwap(inv, slot)
	default:
		return g.cancel("unknown gesture")
	}
}

// pickUp leaves keep(n) items in the slot and adds the rest to the held stack.
func (g *gesture) pickUp(inv *inventory.Inventory, slot int, keep func(n int) int) Result {
	cur := inv.GetItem(slot)
	if cur == nil {
		return g.cancel("empty slot")
	}
	room := cur.GetMaxStackSize()
	if g.held != nil {
		if g.click.Gesture != PickUpOne || !inv.Similar(*g.held, *cur) {
			return g.cancel("hand not empty")
		}
		room -= g.held.Count
	}
	want := min(cur.Count-keep(cur.Count), room)
	if want <= 0 {
		return g.cancel("nothing to pick up")
	}
	taken := inv.TakeItemAmount(g.reason, slot, want)
	if taken <= 0 {
		return g.cancel("vetoed")
	}
	g.held = item.Ptr(cur.WithCount(item.Count(g.held) + taken))
	return g.done()
}

// place puts amount items of the held stack onto the slot.
func (g *gesture) place(inv *inventory.Inventory, slot int, amount int) Result {
	if g.held == nil || amount <= 0 {
		return g.cancel("nothing held")
	}
	cur := inv.GetItem(slot)
	if cur != nil && !inv.Similar(*cur, *g.held) {
		if g.click.Gesture == PlaceAll {
			return g.swap(inv, slot)
		}
		return g.cancel("dissimilar stack")
	}
	left := inv.PutItem(g.reason, slot, g.held.WithCount(amount))
	placed := amount - left
	if placed <= 0 {
		return g.cancel("slot refused")
	}
	g.held = item.Ptr(g.held.WithCount(g.held.Count - placed))
	return g.done()
}

// swap exchanges the held stack with the slot contents.
func (g *gesture) swap(inv *inventory.Inventory, slot int) Result {
	if g.held == nil {
		return g.cancel("nothing held")
	}
	cur := inv.GetItem(slot)
	if cur == nil || inv.Similar(*cur, *g.held) {
		return g.place(inv, slot, g.held.Count)
	}
	if !inv.SetItem(g.reason, slot, g.held) {
		return g.cancel("slot refused")
	}
	if !inv.IsSynced(slot, g.held) {
		// The pre-update handler replaced the stack; put the old one back.
		inv.SetItemSilently(slot, cur)
		return g.cancel("slot altered the swap")
	}
	g.held = cur
	return g.done()
}

// move sends the slot contents to dests, in order, leaving what does not fit.
// Destinations are simulated first so the source is only reduced by what they
// accept; anything refused at commit time is put back.
func (g *gesture) move(inv *inventory.Inventory, slot int, dests []*inventory.Inventory) Result {
	cur := inv.GetItem(slot)
	if cur == nil {
		return g.cancel("empty slot")
	}
	type share struct {
		inv    *inventory.Inventory
		amount int
	}
	var plan []share
	remaining := cur.Count
	for _, d := range dests {
		if remaining == 0 {
			break
		}
		left := d.SimulateAdd(cur.WithCount(remaining))[0]
		if moved := remaining - left; moved > 0 {
			plan = append(plan, share{inv: d, amount: moved})
			remaining = left
		}
	}
	if len(plan) == 0 {
		return g.cancel("no room")
	}

	taken := inv.TakeItemAmount(g.reason, slot, cur.Count-remaining)
	if taken <= 0 {
		return g.cancel("vetoed")
	}
	moved := 0
	for _, s := range plan {
		if taken == 0 {
			break
		}
		n := min(s.amount, taken)
		accepted := n - s.inv.AddItem(g.reason, cur.WithCount(n))
		moved += accepted
		taken -= accepted
	}
	if taken > 0 {
		g.restore(inv, slot, cur.WithCount(taken))
	}
	if moved == 0 {
		return g.cancel("destinations refused")
	}
	return g.done()
}

// restore puts back items a destination refused after the source was reduced.
// The slot held them a moment ago, so they go back regardless of its capacity.
func (g *gesture) restore(inv *inventory.Inventory, slot int, stack item.ItemStack) {
	cur := inv.GetItem(slot)
	if cur == nil || inv.Similar(*cur, stack) {
		inv.ForceSetItem(inventory.Suppressed, slot, item.Ptr(stack.WithCount(item.Count(cur)+stack.Count)))
		return
	}
	if left := inv.AddItem(inventory.Suppressed, stack); left > 0 {
		g.h.log.WithFields(logrus.Fields{
			"inventory": inv.ID(),
			"slot":      slot,
			"item":      stack.Type.ID,
			"lost":      left,
		}).Error("could not restore refused items")
	}
}

// collect gathers similar stacks into the held stack: from the clicked
// inventory, then the other inventories of the interface, then the viewer's.
func (g *gesture) collect(clicked *inventory.Inventory) Result {
	if g.held == nil {
		return g.cancel("nothing held")
	}
	sources := []*inventory.Inventory{clicked}
	for _, inv := range g.click.Container.Inventories() {
		if inv != clicked {
			sources = append(sources, inv)
		}
	}
	if own := g.click.Viewer.Inventory; own != nil && !contains(sources, own) {
		sources = append(sources, own)
	}

	amount := g.held.Count
	limit := g.held.GetMaxStackSize()
	for _, inv := range sources {
		if amount >= limit {
			break
		}
		amount = inv.CollectSimilar(g.reason, *g.held, amount)
	}
	g.held = item.Ptr(g.held.WithCount(amount))
	return g.done()
}

func contains(list []*inventory.Inventory, inv *inventory.Inventory) bool {
	for _, cur := range list {
		if cur == inv {
			return true
		}
	}
	return false
}

// hotbarSwap exchanges the clicked slot with a slot of the viewer's inventory.
func (g *gesture) hotbarSwap(inv *inventory.Inventory, slot int) Result {
	hot := g.click.Viewer.Inventory
	hs := g.click.HotbarSlot
	if hot == nil || hs < 0 || hs >= hot.Size() {
		return g.cancel("no hotbar slot")
	}
	if g.held != nil {
		return g.cancel("hand not empty")
	}
	if g.click.HotbarShown && !hot.IsSynced(hs, g.click.HotbarDisplayed) {
		return g.cancel("stale hotbar slot")
	}
	if hot == inv && hs == slot {
		return g.cancel("same slot")
	}
	a, b := inv.GetItem(slot), hot.GetItem(hs)
	if a == nil && b == nil {
		return g.cancel("both slots empty")
	}
	if b != nil && b.Count > inv.MaxSlotStackSize(slot, b) {
		return g.cancel("slot too small")
	}
	if a != nil && a.Count > hot.MaxSlotStackSize(hs, a) {
		return g.cancel("hotbar slot too small")
	}

	if !inv.ForceSetItem(g.reason, slot, b) {
		return g.cancel("slot refused")
	}
	if !inv.IsSynced(slot, b) {
		inv.SetItemSilently(slot, a)
		return g.cancel("slot altered the swap")
	}
	if !hot.ForceSetItem(g.reason, hs, a) || !hot.IsSynced(hs, a) {
		// Both writes go back so no item is duplicated or lost.
		inv.SetItemSilently(slot, a)
		if hot != inv || hs != slot {
			hot.SetItemSilently(hs, b)
		}
		return g.cancel("hotbar slot refused")
	}
	return g.done()
}

type dragTarget struct {
	inv  *inventory.Inventory
	slot int
}

// drag spreads the held stack over the targets. Dissimilar slots are skipped;
// whatever the targets do not take stays held.
func (g *gesture) drag() Result {
	if g.held == nil {
		return g.cancel("nothing held")
	}
	var eligible []dragTarget
	seen := make(map[dragTarget]bool)
	for _, t := range g.click.Targets {
		if t.Slot < 0 || t.Slot >= g.click.Container.Size() {
			return g.cancel("drag target out of range")
		}
		e, ok := g.click.Container.Resolve(t.Slot).(gui.InventoryElement)
		if !ok || !e.Valid() {
			continue
		}
		if !e.Inventory.IsSynced(e.Slot, t.Displayed) {
			return g.cancel("stale drag target")
		}
		dt := dragTarget{inv: e.Inventory, slot: e.Slot}
		if seen[dt] {
			continue
		}
		if cur := e.Inventory.GetItem(e.Slot); cur != nil && !e.Inventory.Similar(*cur, *g.held) {
			continue
		}
		seen[dt] = true
		eligible = append(eligible, dt)
	}
	if len(eligible) == 0 {
		return g.cancel("no drag targets")
	}

	per := 1
	if g.click.Gesture == DragDistributeEven {
		n := min(len(eligible), g.held.Count)
		per = g.held.Count / n
	}
	remaining := g.held.Count
	for _, t := range eligible {
		if remaining < per {
			break
		}
		left := t.inv.PutItem(g.reason, t.slot, g.held.WithCount(per))
		remaining -= per - left
	}
	if remaining == g.held.Count {
		return g.cancel("drag targets refused")
	}
	g.held = item.Ptr(g.held.WithCount(remaining))
	return g.done()
}
