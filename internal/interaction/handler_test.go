package interaction

import (
	"testing"

	"invui/internal/gui"
	"invui/internal/inventory"
	"invui/internal/item"

	"github.com/google/go-cmp/cmp"
)

var (
	stone = item.Type{ID: "stone"}
	dirt  = item.Type{ID: "dirt"}
)

func ptr(t item.Type, n int) *item.ItemStack { return item.Ptr(item.NewItemStack(t, n)) }

func counts(inv *inventory.Inventory) []int {
	out := make([]int, inv.Size())
	for i, s := range inv.Items() {
		out[i] = item.Count(s)
	}
	return out
}

// view shows chest followed by player in a single row.
func view(chest, player *inventory.Inventory) *gui.Container {
	size := chest.Size()
	if player != nil {
		size += player.Size()
	}
	c := gui.NewContainer(size, 1)
	c.SetInventory(0, chest, nil)
	if player != nil {
		c.SetInventory(chest.Size(), player, nil)
	}
	return c
}

func TestStaleClickIsRejected(t *testing.T) {
	chest := inventory.New(1, inventory.WithItems([]*item.ItemStack{ptr(stone, 5)}))
	h := NewHandler()

	res := h.Handle(Click{Gesture: PickUpAll, Container: view(chest, nil), Slot: 0, Displayed: ptr(stone, 4)})
	if !res.Cancelled {
		t.Fatalf("expected stale click to be cancelled")
	}
	if res.Held != nil {
		t.Fatalf("expected held to stay empty, got %v", res.Held)
	}
	if got := item.Count(chest.GetItem(0)); got != 5 {
		t.Fatalf("expected slot untouched, got %d", got)
	}
}

func TestPickUp(t *testing.T) {
	tests := []struct {
		name      string
		gesture   Gesture
		slot      int
		held      *item.ItemStack
		wantSlot  int
		wantHeld  int
		cancelled bool
	}{
		{"all", PickUpAll, 5, nil, 0, 5, false},
		{"half odd", PickUpHalf, 5, nil, 2, 3, false},
		{"half single", PickUpHalf, 1, nil, 0, 1, false},
		{"one onto similar", PickUpOne, 5, ptr(stone, 2), 4, 3, false},
		{"one onto full hand", PickUpOne, 5, ptr(stone, 64), 5, 64, true},
		{"all with full hand", PickUpAll, 5, ptr(stone, 1), 5, 1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chest := inventory.New(1, inventory.WithItems([]*item.ItemStack{ptr(stone, tt.slot)}))
			res := NewHandler().Handle(Click{
				Gesture:   tt.gesture,
				Container: view(chest, nil),
				Held:      tt.held,
				Displayed: ptr(stone, tt.slot),
			})
			if res.Cancelled != tt.cancelled {
				t.Fatalf("expected cancelled=%v, got %v", tt.cancelled, res.Cancelled)
			}
			if got := item.Count(chest.GetItem(0)); got != tt.wantSlot {
				t.Errorf("expected slot %d, got %d", tt.wantSlot, got)
			}
			if got := item.Count(res.Held); got != tt.wantHeld {
				t.Errorf("expected held %d, got %d", tt.wantHeld, got)
			}
		})
	}
}

func TestPlace(t *testing.T) {
	tests := []struct {
		name     string
		gesture  Gesture
		amount   int
		slot     *item.ItemStack
		held     *item.ItemStack
		wantSlot *item.ItemStack
		wantHeld *item.ItemStack
	}{
		{"all partial", PlaceAll, 0, ptr(stone, 60), ptr(stone, 10), ptr(stone, 64), ptr(stone, 6)},
		{"all empty slot", PlaceAll, 0, nil, ptr(stone, 10), ptr(stone, 10), nil},
		{"one", PlaceOne, 0, ptr(stone, 1), ptr(stone, 10), ptr(stone, 2), ptr(stone, 9)},
		{"some", PlaceSome, 3, nil, ptr(stone, 10), ptr(stone, 3), ptr(stone, 7)},
		{"some capped by held", PlaceSome, 30, nil, ptr(stone, 10), ptr(stone, 10), nil},
		{"all dissimilar swaps", PlaceAll, 0, ptr(dirt, 2), ptr(stone, 10), ptr(stone, 10), ptr(dirt, 2)},
		{"swap", SwapWithHeld, 0, ptr(dirt, 2), ptr(stone, 10), ptr(stone, 10), ptr(dirt, 2)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chest := inventory.New(1, inventory.WithItems([]*item.ItemStack{tt.slot}))
			res := NewHandler().Handle(Click{
				Gesture:   tt.gesture,
				Container: view(chest, nil),
				Held:      tt.held,
				Displayed: tt.slot,
				Amount:    tt.amount,
			})
			if res.Cancelled {
				t.Fatalf("expected gesture to succeed")
			}
			if diff := cmp.Diff(tt.wantSlot, chest.GetItem(0)); diff != "" {
				t.Errorf("unexpected slot (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.wantHeld, res.Held); diff != "" {
				t.Errorf("unexpected held (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSwapRefusedOverCapacity(t *testing.T) {
	chest := inventory.New(1,
		inventory.WithMaxStackSizes([]int{4}),
		inventory.WithItems([]*item.ItemStack{ptr(stone, 1)}),
	)
	res := NewHandler().Handle(Click{
		Gesture:   SwapWithHeld,
		Container: view(chest, nil),
		Held:      ptr(dirt, 10),
		Displayed: ptr(stone, 1),
	})
	if !res.Cancelled {
		t.Fatalf("expected swap above capacity to be cancelled")
	}
	if diff := cmp.Diff(ptr(dirt, 10), res.Held); diff != "" {
		t.Fatalf("unexpected held (-want +got):\n%s", diff)
	}
}

func TestVetoCancels(t *testing.T) {
	chest := inventory.New(1,
		inventory.WithItems([]*item.ItemStack{ptr(stone, 5)}),
		inventory.WithPreUpdateHandler(func(e *inventory.PreUpdateEvent) { e.Cancel() }),
	)
	res := NewHandler().Handle(Click{Gesture: PickUpAll, Container: view(chest, nil), Displayed: ptr(stone, 5)})
	if !res.Cancelled || res.Held != nil {
		t.Fatalf("expected vetoed pickup to be cancelled, got %+v", res)
	}
}

func TestViewerReason(t *testing.T) {
	var got []inventory.Reason
	chest := inventory.New(1,
		inventory.WithItems([]*item.ItemStack{ptr(stone, 5)}),
		inventory.WithUpdateHandler(func(e inventory.UpdateEvent) { got = append(got, e.Reason) }),
	)
	NewHandler().Handle(Click{
		Gesture:   PickUpHalf,
		Container: view(chest, nil),
		Displayed: ptr(stone, 5),
		Viewer:    Viewer{ID: "alex"},
	})
	want := []inventory.Reason{ViewerReason{Viewer: "alex", Gesture: PickUpHalf}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected reasons (-want +got):\n%s", diff)
	}
}

func TestShiftMoveOut(t *testing.T) {
	tests := []struct {
		name       string
		player     []*item.ItemStack
		wantChest  []int
		wantPlayer []int
		cancelled  bool
	}{
		{"all fits", []*item.ItemStack{ptr(stone, 60), nil}, []int{0, 0}, []int{64, 60}, false},
		{"partial", []*item.ItemStack{ptr(stone, 60), ptr(dirt, 64)}, []int{60, 0}, []int{64, 64}, false},
		{"no room", []*item.ItemStack{ptr(dirt, 64), ptr(dirt, 64)}, []int{64, 0}, []int{64, 64}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chest := inventory.New(2, inventory.WithItems([]*item.ItemStack{ptr(stone, 64), nil}))
			player := inventory.New(2, inventory.WithItems(tt.player))

			res := NewHandler().Handle(Click{
				Gesture:   ShiftMoveOut,
				Container: view(chest, player),
				Slot:      0,
				Displayed: ptr(stone, 64),
			})
			if res.Cancelled != tt.cancelled {
				t.Fatalf("expected cancelled=%v, got %v", tt.cancelled, res.Cancelled)
			}
			if diff := cmp.Diff(tt.wantChest, counts(chest)); diff != "" {
				t.Errorf("unexpected chest (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.wantPlayer, counts(player)); diff != "" {
				t.Errorf("unexpected player (-want +got):\n%s", diff)
			}
		})
	}
}

func TestShiftMoveRestoresRefusedItems(t *testing.T) {
	chest := inventory.New(1, inventory.WithItems([]*item.ItemStack{ptr(stone, 20)}))
	player := inventory.New(2, inventory.WithPreUpdateHandler(func(e *inventory.PreUpdateEvent) {
		if e.Slot == 0 {
			e.Cancel()
		}
	}))

	NewHandler().Handle(Click{Gesture: ShiftMoveOut, Container: view(chest, player), Displayed: ptr(stone, 20)})

	if diff := cmp.Diff([]int{0, 20}, counts(player)); diff != "" {
		t.Fatalf("unexpected player (-want +got):\n%s", diff)
	}
	if got := chest.GetItem(0); got != nil {
		t.Fatalf("expected chest slot emptied, got %v", got)
	}

	// Every player slot refuses now; the items must come back.
	player.SetPreUpdateHandler(func(e *inventory.PreUpdateEvent) { e.Cancel() })
	player.SetItemSilently(1, nil)
	chest.SetItemSilently(0, ptr(stone, 20))
	NewHandler().Handle(Click{Gesture: ShiftMoveOut, Container: view(chest, player), Displayed: ptr(stone, 20)})

	if got := item.Count(chest.GetItem(0)); got != 20 {
		t.Fatalf("expected refused items restored, got %d", got)
	}
	if !player.IsEmpty() {
		t.Fatalf("expected player untouched, got %v", counts(player))
	}
}

func total(invs ...*inventory.Inventory) int {
	n := 0
	for _, inv := range invs {
		for _, st := range inv.Items() {
			n += item.Count(st)
		}
	}
	return n
}

// A slot may hold more than its capacity after the limit was lowered. Gestures
// on it must neither lose nor create items.
func TestGesturesOnLoweredCapacity(t *testing.T) {
	tests := []struct {
		name       string
		gesture    Gesture
		held       *item.ItemStack
		playerCap  int
		refuse     bool
		wantChest  int
		wantPlayer int
		wantHeld   int
		cancelled  bool
	}{
		{"shift-move into small slot", ShiftMoveOut, nil, 5, false, 59, 5, 0, false},
		{"move to external into small slot", MoveToExternalContainer, nil, 5, false, 59, 5, 0, false},
		{"shift-move refused everywhere", ShiftMoveOut, nil, 64, true, 64, 0, 0, true},
		{"pick-up-one onto held", PickUpOne, ptr(stone, 60), 64, false, 63, 0, 61, false},
		{"pick-up-all", PickUpAll, nil, 64, false, 0, 0, 64, false},
		{"pick-up-half", PickUpHalf, nil, 64, false, 32, 0, 32, false},
		{"place-one over capacity", PlaceOne, ptr(stone, 5), 64, false, 64, 0, 5, true},
		{"place-all over capacity", PlaceAll, ptr(stone, 5), 64, false, 64, 0, 5, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chest := inventory.New(1, inventory.WithItems([]*item.ItemStack{ptr(stone, 64)}))
			chest.SetMaxStackSize(0, 10)
			player := inventory.New(1, inventory.WithMaxStackSizes([]int{tt.playerCap}))
			if tt.refuse {
				player.SetPreUpdateHandler(func(e *inventory.PreUpdateEvent) { e.Cancel() })
			}
			before := 64 + item.Count(tt.held)

			c := view(chest, player)
			if tt.gesture == MoveToExternalContainer {
				c = view(chest, nil)
			}
			res := NewHandler().Handle(Click{
				Gesture:   tt.gesture,
				Container: c,
				Held:      tt.held,
				Displayed: ptr(stone, 64),
				Viewer:    Viewer{Inventory: player},
			})
			if res.Cancelled != tt.cancelled {
				t.Fatalf("expected cancelled=%v, got %v", tt.cancelled, res.Cancelled)
			}
			if got := item.Count(chest.GetItem(0)); got != tt.wantChest {
				t.Errorf("expected chest %d, got %d", tt.wantChest, got)
			}
			if got := item.Count(player.GetItem(0)); got != tt.wantPlayer {
				t.Errorf("expected player %d, got %d", tt.wantPlayer, got)
			}
			if got := item.Count(res.Held); got != tt.wantHeld {
				t.Errorf("expected held %d, got %d", tt.wantHeld, got)
			}
			if got := item.Count(res.Held); got > stone.MaxStackSize() {
				t.Errorf("expected held within the item limit, got %d", got)
			}
			if after := total(chest, player) + item.Count(res.Held); after != before {
				t.Errorf("expected %d items conserved, got %d", before, after)
			}
		})
	}
}

func TestMoveToExternalContainer(t *testing.T) {
	chest := inventory.New(2, inventory.WithItems([]*item.ItemStack{ptr(stone, 10), nil}))
	player := inventory.New(1, inventory.WithItems([]*item.ItemStack{ptr(stone, 60)}))
	c := view(chest, nil)

	res := NewHandler().Handle(Click{
		Gesture:   MoveToExternalContainer,
		Container: c,
		Displayed: ptr(stone, 10),
		Viewer:    Viewer{ID: "alex", Inventory: player},
	})
	if res.Cancelled {
		t.Fatalf("expected move to succeed")
	}
	if diff := cmp.Diff([]int{6, 0}, counts(chest)); diff != "" {
		t.Errorf("unexpected chest (-want +got):\n%s", diff)
	}
	if got := item.Count(player.GetItem(0)); got != 64 {
		t.Errorf("expected player slot full, got %d", got)
	}

	res = NewHandler().Handle(Click{Gesture: MoveToExternalContainer, Container: c, Displayed: ptr(stone, 6)})
	if !res.Cancelled {
		t.Errorf("expected move without external inventory to be cancelled")
	}
}

func TestCollectToHeld(t *testing.T) {
	chest := inventory.New(3, inventory.WithItems([]*item.ItemStack{ptr(stone, 30), ptr(stone, 64), nil}))

	res := NewHandler().Handle(Click{
		Gesture:   CollectToHeld,
		Container: view(chest, nil),
		Slot:      2,
		Held:      ptr(stone, 5),
	})
	if res.Cancelled {
		t.Fatalf("expected collect to succeed")
	}
	if got := item.Count(res.Held); got != 64 {
		t.Fatalf("expected 64 held, got %d", got)
	}
	if diff := cmp.Diff([]int{0, 35, 0}, counts(chest)); diff != "" {
		t.Fatalf("unexpected chest (-want +got):\n%s", diff)
	}
}

func TestCollectToHeldSourceOrder(t *testing.T) {
	chest := inventory.New(1, inventory.WithItems([]*item.ItemStack{ptr(stone, 3)}))
	other := inventory.New(1, inventory.WithItems([]*item.ItemStack{ptr(stone, 4)}))
	own := inventory.New(1, inventory.WithItems([]*item.ItemStack{ptr(stone, 50)}))

	c := gui.NewContainer(2, 1)
	c.SetCell(0, gui.InventoryElement{Inventory: other, Slot: 0})
	c.SetCell(1, gui.InventoryElement{Inventory: chest, Slot: 0})

	res := NewHandler().Handle(Click{
		Gesture:   CollectToHeld,
		Container: c,
		Slot:      1,
		Held:      ptr(stone, 10),
		Displayed: ptr(stone, 3),
		Viewer:    Viewer{Inventory: own},
	})
	if got := item.Count(res.Held); got != 64 {
		t.Fatalf("expected 64 held, got %d", got)
	}
	got := []int{item.Count(chest.GetItem(0)), item.Count(other.GetItem(0)), item.Count(own.GetItem(0))}
	if diff := cmp.Diff([]int{0, 0, 3}, got); diff != "" {
		t.Fatalf("expected clicked, then reachable, then own inventory drained (-want +got):\n%s", diff)
	}
}

func TestHotbarQuickSwap(t *testing.T) {
	chest := inventory.New(1, inventory.WithItems([]*item.ItemStack{ptr(stone, 10)}))
	player := inventory.New(2, inventory.WithItems([]*item.ItemStack{nil, ptr(dirt, 3)}))

	res := NewHandler().Handle(Click{
		Gesture:    HotbarQuickSwap,
		Container:  view(chest, nil),
		Displayed:  ptr(stone, 10),
		Viewer:     Viewer{Inventory: player},
		HotbarSlot: 1,
	})
	if res.Cancelled {
		t.Fatalf("expected swap to succeed")
	}
	if diff := cmp.Diff(ptr(dirt, 3), chest.GetItem(0)); diff != "" {
		t.Errorf("unexpected chest slot (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(ptr(stone, 10), player.GetItem(1)); diff != "" {
		t.Errorf("unexpected hotbar slot (-want +got):\n%s", diff)
	}
}

func TestHotbarQuickSwapStaleHotbar(t *testing.T) {
	chest := inventory.New(1, inventory.WithItems([]*item.ItemStack{ptr(stone, 10)}))
	player := inventory.New(2, inventory.WithItems([]*item.ItemStack{nil, ptr(dirt, 3)}))

	click := Click{
		Gesture:         HotbarQuickSwap,
		Container:       view(chest, nil),
		Displayed:       ptr(stone, 10),
		Viewer:          Viewer{Inventory: player},
		HotbarSlot:      1,
		HotbarShown:     true,
		HotbarDisplayed: ptr(dirt, 2),
	}
	if res := NewHandler().Handle(click); !res.Cancelled {
		t.Fatalf("expected swap with a stale hotbar slot to be cancelled")
	}
	if diff := cmp.Diff(ptr(stone, 10), chest.GetItem(0)); diff != "" {
		t.Errorf("expected chest untouched (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(ptr(dirt, 3), player.GetItem(1)); diff != "" {
		t.Errorf("expected hotbar untouched (-want +got):\n%s", diff)
	}

	click.HotbarDisplayed = ptr(dirt, 3)
	if res := NewHandler().Handle(click); res.Cancelled {
		t.Fatalf("expected swap with a current hotbar snapshot to succeed")
	}
}

func TestHotbarQuickSwapRepairsOnVeto(t *testing.T) {
	chest := inventory.New(1, inventory.WithItems([]*item.ItemStack{ptr(stone, 10)}))
	player := inventory.New(2,
		inventory.WithItems([]*item.ItemStack{nil, ptr(dirt, 3)}),
		inventory.WithPreUpdateHandler(func(e *inventory.PreUpdateEvent) { e.Cancel() }),
	)

	res := NewHandler().Handle(Click{
		Gesture:    HotbarQuickSwap,
		Container:  view(chest, nil),
		Displayed:  ptr(stone, 10),
		Viewer:     Viewer{Inventory: player},
		HotbarSlot: 1,
	})
	if !res.Cancelled {
		t.Fatalf("expected vetoed swap to be cancelled")
	}
	if diff := cmp.Diff(ptr(stone, 10), chest.GetItem(0)); diff != "" {
		t.Errorf("expected chest repaired (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(ptr(dirt, 3), player.GetItem(1)); diff != "" {
		t.Errorf("expected hotbar untouched (-want +got):\n%s", diff)
	}
}

func TestDragDistribute(t *testing.T) {
	tests := []struct {
		name      string
		gesture   Gesture
		held      int
		wantChest []*item.ItemStack
		wantHeld  *item.ItemStack
	}{
		{
			name:      "even skips dissimilar and caps at capacity",
			gesture:   DragDistributeEven,
			held:      10,
			wantChest: []*item.ItemStack{ptr(stone, 5), ptr(dirt, 1), ptr(stone, 64)},
			wantHeld:  ptr(stone, 3),
		},
		{
			name:      "even with fewer items than slots",
			gesture:   DragDistributeEven,
			held:      1,
			wantChest: []*item.ItemStack{ptr(stone, 1), ptr(dirt, 1), ptr(stone, 62)},
			wantHeld:  nil,
		},
		{
			name:      "one each",
			gesture:   DragDistributeOneEach,
			held:      10,
			wantChest: []*item.ItemStack{ptr(stone, 1), ptr(dirt, 1), ptr(stone, 63)},
			wantHeld:  ptr(stone, 8),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			initial := []*item.ItemStack{nil, ptr(dirt, 1), ptr(stone, 62)}
			chest := inventory.New(3, inventory.WithItems(initial))
			targets := make([]Target, len(initial))
			for i, s := range initial {
				targets[i] = Target{Slot: i, Displayed: s}
			}

			res := NewHandler().Handle(Click{
				Gesture:   tt.gesture,
				Container: view(chest, nil),
				Held:      ptr(stone, tt.held),
				Targets:   targets,
			})
			if res.Cancelled {
				t.Fatalf("expected drag to succeed")
			}
			if diff := cmp.Diff(tt.wantChest, chest.Items()); diff != "" {
				t.Errorf("unexpected chest (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.wantHeld, res.Held); diff != "" {
				t.Errorf("unexpected held (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDragStaleTarget(t *testing.T) {
	chest := inventory.New(2, inventory.WithItems([]*item.ItemStack{nil, ptr(stone, 2)}))
	res := NewHandler().Handle(Click{
		Gesture:   DragDistributeEven,
		Container: view(chest, nil),
		Held:      ptr(stone, 10),
		Targets:   []Target{{Slot: 0}, {Slot: 1, Displayed: ptr(stone, 1)}},
	})
	if !res.Cancelled {
		t.Fatalf("expected stale drag to be cancelled")
	}
	if diff := cmp.Diff([]int{0, 2}, counts(chest)); diff != "" {
		t.Fatalf("expected chest untouched (-want +got):\n%s", diff)
	}
}

type button struct {
	gui.SimpleItem
	clicks []Gesture
}

func (b *button) HandleClick(c Click) { b.clicks = append(b.clicks, c.Gesture) }

func TestStaticItems(t *testing.T) {
	b := &button{}
	c := gui.NewContainer(3, 1)
	c.SetCell(0, gui.ItemElement{Item: b})
	c.SetCell(1, gui.ItemElement{Item: gui.NewSimpleItem(item.NewItemStack(stone, 1))})

	h := NewHandler()
	if res := h.Handle(Click{Gesture: PickUpAll, Container: c, Slot: 0, Held: ptr(dirt, 1)}); res.Cancelled {
		t.Errorf("expected clickable item to accept the click")
	} else if diff := cmp.Diff(ptr(dirt, 1), res.Held); diff != "" {
		t.Errorf("expected held untouched (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]Gesture{PickUpAll}, b.clicks); diff != "" {
		t.Errorf("unexpected clicks (-want +got):\n%s", diff)
	}
	if res := h.Handle(Click{Gesture: PickUpAll, Container: c, Slot: 1}); !res.Cancelled {
		t.Errorf("expected plain static item to cancel")
	}
	if res := h.Handle(Click{Gesture: PickUpAll, Container: c, Slot: 2}); !res.Cancelled {
		t.Errorf("expected empty cell to cancel")
	}
}

func TestUnknownGesture(t *testing.T) {
	chest := inventory.New(1, inventory.WithItems([]*item.ItemStack{ptr(stone, 1)}))
	res := NewHandler().Handle(Click{Gesture: GestureUnknown, Container: view(chest, nil), Displayed: ptr(stone, 1)})
	if !res.Cancelled {
		t.Fatalf("expected unknown gesture to be cancelled")
	}
}
