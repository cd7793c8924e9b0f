package window

import (
	"invui/internal/gui"
	"invui/internal/interaction"
	"invui/internal/inventory"
	"invui/internal/item"
	"invui/internal/scheduler"

	"github.com/sirupsen/logrus"
)

// Renderer draws slot contents for one viewer. A nil stack clears the slot.
type Renderer interface {
	RenderSlot(slot int, stack *item.ItemStack)
}

type nopRenderer struct{}

func (nopRenderer) RenderSlot(int, *item.ItemStack) {}

// Window displays a container to one viewer. It owns the viewer's cursor
// (held) stack, keeps a snapshot of what was last drawn in every slot and
// feeds clicks into the interaction handler.
//
// Changes reported while a gesture is being handled are redrawn on the next
// scheduler tick; all others are redrawn immediately.
type Window struct {
	container *gui.Container
	viewer    interaction.Viewer

	renderer Renderer
	handler  *interaction.Handler
	sched    *scheduler.Scheduler
	decoder  *interaction.Decoder
	log      logrus.FieldLogger

	held      *item.ItemStack
	displayed []*item.ItemStack
	open      bool
	handling  int
}

type Option func(*Window)

func WithRenderer(r Renderer) Option {
	return func(w *Window) {
		if r != nil {
			w.renderer = r
		}
	}
}

func WithHandler(h *interaction.Handler) Option {
	return func(w *Window) {
		if h != nil {
			w.handler = h
		}
	}
}

// WithScheduler shares a scheduler between windows. Each window gets its own
// otherwise, which the host must tick.
func WithScheduler(s *scheduler.Scheduler) Option {
	return func(w *Window) {
		if s != nil {
			w.sched = s
		}
	}
}

func WithDecoder(d *interaction.Decoder) Option {
	return func(w *Window) {
		if d != nil {
			w.decoder = d
		}
	}
}

func WithLogger(l logrus.FieldLogger) Option {
	return func(w *Window) {
		if l != nil {
			w.log = l
		}
	}
}

// New creates a closed window showing c to viewer.
func New(c *gui.Container, viewer interaction.Viewer, opts ...Option) *Window {
	w := &Window{
		container: c,
		viewer:    viewer,
		renderer:  nopRenderer{},
		log:       logrus.StandardLogger(),
		displayed: make([]*item.ItemStack, c.Size()),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(w)
		}
	}
	if w.handler == nil {
		w.handler = interaction.NewHandler(interaction.WithLogger(w.log))
	}
	if w.sched == nil {
		w.sched = scheduler.New()
	}
	if w.decoder == nil {
		w.decoder = interaction.NewDecoder(0)
	}
	return w
}

func (w *Window) Container() *gui.Container      { return w.container }
func (w *Window) Viewer() interaction.Viewer      { return w.viewer }
func (w *Window) Scheduler() *scheduler.Scheduler { return w.sched }
func (w *Window) IsOpen() bool                    { return w.open }

// Held returns a copy of the cursor stack.
func (w *Window) Held() *item.ItemStack { return item.Clone(w.held) }

// SetHeld replaces the cursor stack.
func (w *Window) SetHeld(s *item.ItemStack) { w.held = item.Clone(s) }

// Displayed returns what was last drawn at slot.
func (w *Window) Displayed(slot int) *item.ItemStack {
	if slot < 0 || slot >= len(w.displayed) {
		return nil
	}
	return item.Clone(w.displayed[slot])
}

// Open registers the window with its container and draws every slot.
func (w *Window) Open() {
	if w.open {
		return
	}
	w.open = true
	w.container.AddParent(w)
	for slot := range w.displayed {
		w.Redraw(slot)
	}
	w.log.WithFields(logrus.Fields{
		"viewer": w.viewer.ID,
		"slots":  len(w.displayed),
	}).Debug("window opened")
}

// Close unregisters the window and drops its pending redraws. The held stack
// goes back into the viewer's inventory; whatever does not fit is returned.
func (w *Window) Close() *item.ItemStack {
	if !w.open {
		return w.Held()
	}
	w.open = false
	w.container.RemoveParent(w)
	w.sched.Cancel(w)

	if w.held != nil && w.viewer.Inventory != nil {
		left := w.viewer.Inventory.AddItem(nil, *w.held)
		w.held = item.Ptr(w.held.WithCount(left))
	}
	w.log.WithField("viewer", w.viewer.ID).Debug("window closed")
	return w.Held()
}

// HandleSlotChanged implements gui.Parent.
func (w *Window) HandleSlotChanged(_ *gui.Container, slot int) {
	if !w.open {
		return
	}
	if w.handling > 0 {
		w.sched.Schedule(w, slot)
		return
	}
	w.Redraw(slot)
}

// Redraw asks the container for the slot contents and renders them.
func (w *Window) Redraw(slot int) {
	if !w.open || slot < 0 || slot >= len(w.displayed) {
		return
	}
	stack := w.container.ItemStack(slot, w.viewer.ID)
	w.displayed[slot] = stack
	w.renderer.RenderSlot(slot, item.Clone(stack))
}

// Click performs g on slot.
func (w *Window) Click(g interaction.Gesture, slot int) interaction.Result {
	return w.handle(interaction.Click{Gesture: g, Slot: slot})
}

// PlaceSome places amount items of the held stack on slot.
func (w *Window) PlaceSome(slot, amount int) interaction.Result {
	return w.handle(interaction.Click{Gesture: interaction.PlaceSome, Slot: slot, Amount: amount})
}

// HotbarSwap swaps slot with hotbar slot n of the viewer's inventory.
func (w *Window) HotbarSwap(slot, n int) interaction.Result {
	return w.handle(interaction.Click{Gesture: interaction.HotbarQuickSwap, Slot: slot, HotbarSlot: n})
}

// Drag spreads the held stack over slots.
func (w *Window) Drag(g interaction.Gesture, slots []int) interaction.Result {
	targets := make([]interaction.Target, 0, len(slots))
	for _, slot := range slots {
		targets = append(targets, interaction.Target{Slot: slot})
	}
	first := -1
	if len(slots) > 0 {
		first = slots[0]
	}
	return w.handle(interaction.Click{Gesture: g, Slot: first, Targets: targets})
}

// Input decodes a raw click and performs the resulting gesture.
func (w *Window) Input(raw interaction.RawClick) interaction.Result {
	g := w.decoder.Decode(raw, w.held, w.Displayed(raw.Slot))
	c := interaction.Click{Gesture: g, Slot: raw.Slot}
	if g == interaction.HotbarQuickSwap {
		c.HotbarSlot = raw.HotbarKey
	}
	return w.handle(c)
}

// InputDrag performs the drag made with button over slots.
func (w *Window) InputDrag(button interaction.MouseButton, slots []int) interaction.Result {
	return w.Drag(w.decoder.DecodeDrag(button), slots)
}

func (w *Window) handle(c interaction.Click) interaction.Result {
	if !w.open {
		return interaction.Result{Cancelled: true, Held: w.Held()}
	}
	c.Container = w.container
	c.Held = w.Held()
	c.Displayed = w.Displayed(c.Slot)
	c.Viewer = w.viewer
	for i := range c.Targets {
		c.Targets[i].Displayed = w.Displayed(c.Targets[i].Slot)
	}
	hotbarCell := -1
	if c.Gesture == interaction.HotbarQuickSwap {
		hotbarCell = w.cellOf(w.viewer.Inventory, c.HotbarSlot)
		if hotbarCell >= 0 {
			c.HotbarShown = true
			c.HotbarDisplayed = w.Displayed(hotbarCell)
		}
	}

	res := w.dispatch(c)

	w.held = item.Clone(res.Held)
	if res.Cancelled {
		// Undo whatever the client drew optimistically.
		if c.Slot >= 0 && c.Slot < len(w.displayed) {
			w.sched.Schedule(w, c.Slot)
		}
		if hotbarCell >= 0 {
			w.sched.Schedule(w, hotbarCell)
		}
		for _, t := range c.Targets {
			if t.Slot >= 0 && t.Slot < len(w.displayed) {
				w.sched.Schedule(w, t.Slot)
			}
		}
	}
	return res
}

// dispatch runs the handler with notifications deferred. The counter is
// restored even if the handler panics.
func (w *Window) dispatch(c interaction.Click) interaction.Result {
	w.handling++
	defer func() { w.handling-- }()
	return w.handler.Handle(c)
}

// cellOf returns the first cell showing slot of inv, or -1.
func (w *Window) cellOf(inv *inventory.Inventory, slot int) int {
	if inv == nil {
		return -1
	}
	for i := 0; i < w.container.Size(); i++ {
		if e, ok := w.container.Resolve(i).(gui.InventoryElement); ok && e.Inventory == inv && e.Slot == slot {
			return i
		}
	}
	return -1
}
