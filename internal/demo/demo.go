package demo

import (
	"fmt"
	"time"

	"invui/internal/config"
	"invui/internal/gui"
	"invui/internal/interaction"
	"invui/internal/inventory"
	"invui/internal/item"
	"invui/internal/layout"
	"invui/internal/profiling"
	"invui/internal/window"

	"github.com/sirupsen/logrus"
)

// Player inventory layout: hotbar first, then the three main rows.
const (
	HotbarSlots = 9
	PlayerSlots = 36
)

// DefaultItems is used when the configuration declares no item types.
var DefaultItems = []item.Type{
	{ID: "stone"},
	{ID: "dirt"},
	{ID: "cobblestone"},
	{ID: "oak_planks"},
	{ID: "ender_pearl", MaxStack: 16},
	{ID: "snowball", MaxStack: 16},
	{ID: "diamond_sword", MaxStack: 1},
}

// Session is a chest opened by one viewer: the chest and player inventories,
// the composed chest surface and the window showing it.
type Session struct {
	Items   *item.Registry
	Chest   *inventory.Inventory
	Player  *inventory.Inventory
	Surface *gui.Container
	Window  *window.Window

	log logrus.FieldLogger
}

type Option func(*options)

type options struct {
	renderer window.Renderer
	log      logrus.FieldLogger
}

// WithRenderer replaces the logging renderer.
func WithRenderer(r window.Renderer) Option {
	return func(o *options) { o.renderer = r }
}

func WithLogger(l logrus.FieldLogger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

// NewRegistry builds the item registry from configured types.
func NewRegistry(types []config.ItemConfig) (*item.Registry, error) {
	if len(types) == 0 {
		return item.NewRegistry(DefaultItems...), nil
	}
	r := item.NewRegistry()
	for _, t := range types {
		if err := r.Register(item.Type{ID: t.ID, MaxStack: t.MaxStack}); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// NewPlayerContainer shows a player inventory as four rows of nine: the main
// slots 9-35 on top and the hotbar 0-8 underneath.
func NewPlayerContainer(inv *inventory.Inventory, opts ...gui.Option) *gui.Container {
	c := gui.NewContainer(layout.Columns, 4, opts...)
	for row := 0; row < 3; row++ {
		for col := 0; col < layout.Columns; col++ {
			index := col + (row+1)*layout.Columns // row=0: 9-17, row=1: 18-26, row=2: 27-35
			c.SetCellAt(col, row, gui.InventoryElement{Inventory: inv, Slot: index})
		}
	}
	for col := 0; col < HotbarSlots; col++ {
		c.SetCellAt(col, 3, gui.InventoryElement{Inventory: inv, Slot: col})
	}
	return c
}

// NewChestContainer stacks rows of chest slots on top of links into a player
// container, in the cell order of layout.ChestGrid.
func NewChestContainer(chest *inventory.Inventory, player *gui.Container, rows int, opts ...gui.Option) *gui.Container {
	c := gui.NewContainer(layout.Columns, rows+player.Height(), opts...)
	c.SetInventory(0, chest, nil)
	offset := rows * layout.Columns
	for i := 0; i < player.Size() && offset+i < c.Size(); i++ {
		c.SetCell(offset+i, gui.LinkElement{Container: player, Slot: i})
	}
	return c
}

// New builds a session from cfg and opens its window.
func New(cfg *config.Config, opts ...Option) (*Session, error) {
	o := options{log: logrus.StandardLogger()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.renderer == nil {
		o.renderer = NewLogRenderer(o.log)
	}

	reg, err := NewRegistry(cfg.Items)
	if err != nil {
		return nil, err
	}

	invOpts := []inventory.Option{
		inventory.WithDefaultMaxStackSize(cfg.Inventory.DefaultMaxStack),
		inventory.WithLogger(o.log),
	}
	rows := cfg.Demo.ChestRows
	s := &Session{
		Items:  reg,
		Chest:  inventory.New(rows*layout.Columns, invOpts...),
		Player: inventory.New(PlayerSlots, invOpts...),
		log:    o.log,
	}
	if err := fill(reg, s.Chest, cfg.Demo.Chest); err != nil {
		return nil, fmt.Errorf("chest: %w", err)
	}
	if err := fill(reg, s.Player, cfg.Demo.Player); err != nil {
		return nil, fmt.Errorf("player: %w", err)
	}

	guiOpts := []gui.Option{gui.WithMaxLinkDepth(cfg.GUI.MaxLinkDepth), gui.WithLogger(o.log)}
	s.Surface = NewChestContainer(s.Chest, NewPlayerContainer(s.Player, guiOpts...), rows, guiOpts...)

	viewer := interaction.Viewer{ID: cfg.Demo.Viewer, Inventory: s.Player}
	s.Window = window.New(s.Surface, viewer,
		window.WithRenderer(o.renderer),
		window.WithHandler(interaction.NewHandler(interaction.WithLogger(o.log))),
		window.WithDecoder(interaction.NewDecoder(time.Duration(cfg.Input.DoubleClickMs)*time.Millisecond)),
		window.WithLogger(o.log),
	)
	s.Window.Open()
	return s, nil
}

func fill(reg *item.Registry, inv *inventory.Inventory, slots []config.SlotConfig) error {
	for _, sc := range slots {
		if sc.Slot >= inv.Size() {
			return fmt.Errorf("slot %d out of range (%d slots)", sc.Slot, inv.Size())
		}
		st, err := reg.Stack(sc.Item, sc.Count)
		if err != nil {
			return err
		}
		inv.SetItemSilently(sc.Slot, item.Ptr(st))
	}
	return nil
}

// Step performs one scripted gesture and runs the redraws it caused.
func (s *Session) Step(step config.StepConfig) (interaction.Result, error) {
	defer profiling.Track("demo.Step")()
	g, err := interaction.ParseGesture(step.Gesture)
	if err != nil {
		return interaction.Result{}, err
	}

	var res interaction.Result
	switch {
	case g == interaction.PlaceSome:
		res = s.Window.PlaceSome(step.Slot, step.Amount)
	case g == interaction.HotbarQuickSwap:
		res = s.Window.HotbarSwap(step.Slot, step.Hotbar)
	case g.IsDrag():
		res = s.Window.Drag(g, step.Slots)
	default:
		res = s.Window.Click(g, step.Slot)
	}
	redrawn := s.Window.Scheduler().Tick()

	s.log.WithFields(logrus.Fields{
		"gesture":   g,
		"slot":      step.Slot,
		"cancelled": res.Cancelled,
		"held":      res.Held,
		"redrawn":   redrawn,
	}).Info("step")
	return res, nil
}

// Run replays steps in order, stopping at the first invalid one.
func (s *Session) Run(steps []config.StepConfig) error {
	for i, step := range steps {
		if _, err := s.Step(step); err != nil {
			return fmt.Errorf("step %d: %w", i, err)
		}
	}
	return nil
}

// Close closes the window and reports items that did not fit back into the
// player inventory.
func (s *Session) Close() *item.ItemStack {
	left := s.Window.Close()
	if left != nil {
		s.log.WithField("stack", left).Warn("held items did not fit into the player inventory")
	}
	return left
}

// Contents lists the non-empty slots of inv.
func Contents(inv *inventory.Inventory) map[int]string {
	out := make(map[int]string)
	for slot, st := range inv.Items() {
		if st != nil {
			out[slot] = st.String()
		}
	}
	return out
}
