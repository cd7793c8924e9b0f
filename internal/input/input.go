package input

import (
	"time"

	"invui/internal/interaction"
	"invui/internal/layout"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
)

// Target receives decoded slot input, usually a *window.Window.
type Target interface {
	Input(raw interaction.RawClick) interaction.Result
	InputDrag(button interaction.MouseButton, slots []int) interaction.Result
}

// SlotInput turns GLFW cursor, mouse button and key events into slot clicks
// and drags for a target. Callbacks run on the main thread during
// glfw.PollEvents, so no locking is needed.
type SlotInput struct {
	grid   *layout.Grid
	target Target

	cursor  mgl32.Vec2
	hovered int
	shift   bool

	// Button held down and the distinct slots it crossed
	pressed    bool
	pressedBtn interaction.MouseButton
	dragSlots  []int

	// Number key to hotbar slot mapping
	hotbarKeys map[glfw.Key]int

	now func() time.Time
}

// NewSlotInput creates an adapter with keys 1-9 bound to hotbar slots 0-8.
func NewSlotInput(grid *layout.Grid, target Target) *SlotInput {
	in := &SlotInput{
		grid:       grid,
		target:     target,
		hovered:    -1,
		hotbarKeys: make(map[glfw.Key]int),
		now:        time.Now,
	}
	keys := []glfw.Key{glfw.Key1, glfw.Key2, glfw.Key3, glfw.Key4, glfw.Key5, glfw.Key6, glfw.Key7, glfw.Key8, glfw.Key9}
	for i, k := range keys {
		in.BindHotbarKey(k, i)
	}
	return in
}

// BindHotbarKey makes key swap the hovered slot with hotbar slot n.
func (in *SlotInput) BindHotbarKey(key glfw.Key, n int) {
	in.hotbarKeys[key] = n
}

// UnbindKey removes the hotbar binding of key
func (in *SlotInput) UnbindKey(key glfw.Key) {
	delete(in.hotbarKeys, key)
}

// Install sets the GLFW callbacks of w.
// This should be called once during initialization
func (in *SlotInput) Install(w *glfw.Window) {
	w.SetCursorPosCallback(func(_ *glfw.Window, x, y float64) {
		in.HandleCursorPos(x, y)
	})
	w.SetMouseButtonCallback(func(_ *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
		in.HandleMouseButtonEvent(button, action, mods)
	})
	w.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, mods glfw.ModifierKey) {
		in.HandleKeyEvent(key, action, mods)
	})
	w.SetSizeCallback(func(_ *glfw.Window, width, height int) {
		in.grid.Center(mgl32.Vec2{float32(width), float32(height)})
	})
}

// Hovered returns the cell under the cursor, or -1.
func (in *SlotInput) Hovered() int { return in.hovered }

// HandleCursorPos tracks the hovered slot and extends a running drag.
func (in *SlotInput) HandleCursorPos(x, y float64) {
	in.cursor = mgl32.Vec2{float32(x), float32(y)}
	in.hovered = in.grid.SlotAt(in.cursor)
	if in.pressed && in.hovered >= 0 && !containsSlot(in.dragSlots, in.hovered) {
		in.dragSlots = append(in.dragSlots, in.hovered)
	}
}

// HandleMouseButtonEvent sends a click on release, or a drag when the button
// crossed more than one slot while held.
func (in *SlotInput) HandleMouseButtonEvent(button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
	in.shift = mods&glfw.ModShift != 0
	btn, ok := mouseButton(button)
	if !ok {
		return
	}

	switch action {
	case glfw.Press:
		if in.pressed {
			return
		}
		in.pressed = true
		in.pressedBtn = btn
		in.dragSlots = in.dragSlots[:0]
		if in.hovered >= 0 {
			in.dragSlots = append(in.dragSlots, in.hovered)
		}
	case glfw.Release:
		if !in.pressed || btn != in.pressedBtn {
			return
		}
		in.pressed = false
		slots := append([]int(nil), in.dragSlots...)
		if len(slots) > 1 && !in.shift {
			in.target.InputDrag(btn, slots)
			return
		}
		if len(slots) == 1 {
			in.target.Input(interaction.RawClick{
				Slot:      slots[0],
				Button:    btn,
				Shift:     in.shift,
				HotbarKey: -1,
				Time:      in.now(),
			})
		}
	}
}

// HandleKeyEvent processes number keys while a slot is hovered.
func (in *SlotInput) HandleKeyEvent(key glfw.Key, action glfw.Action, mods glfw.ModifierKey) {
	in.shift = mods&glfw.ModShift != 0
	if action != glfw.Press || in.hovered < 0 {
		return
	}
	n, ok := in.hotbarKeys[key]
	if !ok {
		return
	}
	in.target.Input(interaction.RawClick{
		Slot:      in.hovered,
		Button:    interaction.MouseButtonLeft,
		HotbarKey: n,
		Time:      in.now(),
	})
}

func mouseButton(b glfw.MouseButton) (interaction.MouseButton, bool) {
	switch b {
	case glfw.MouseButtonLeft:
		return interaction.MouseButtonLeft, true
	case glfw.MouseButtonRight:
		return interaction.MouseButtonRight, true
	case glfw.MouseButtonMiddle:
		return interaction.MouseButtonMiddle, true
	}
	return 0, false
}

func containsSlot(slots []int, slot int) bool {
	for _, s := range slots {
		if s == slot {
			return true
		}
	}
	return false
}
