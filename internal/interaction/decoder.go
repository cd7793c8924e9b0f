package interaction

import (
	"time"

	"invui/internal/item"
)

// MouseButton represents a mouse button click
type MouseButton int

const (
	MouseButtonLeft   MouseButton = 0
	MouseButtonRight  MouseButton = 1
	MouseButtonMiddle MouseButton = 2
)

// DefaultDoubleClickWindow is the time within which a second left click on
// the same slot counts as a double click.
const DefaultDoubleClickWindow = 300 * time.Millisecond

// RawClick is a physical click on a slot as reported by the host.
type RawClick struct {
	Slot   int
	Button MouseButton
	Shift  bool
	// HotbarKey is the number key (0-8) pressed while hovering the slot, or -1.
	HotbarKey int
	Time      time.Time
}

// Decoder maps raw clicks to gestures. It remembers the last click to detect
// double clicks and is meant to be kept per viewer.
type Decoder struct {
	window    time.Duration
	similar   item.Similarity
	lastSlot  int
	lastClick time.Time
}

// NewDecoder creates a decoder. A non-positive window uses the default.
func NewDecoder(window time.Duration) *Decoder {
	if window <= 0 {
		window = DefaultDoubleClickWindow
	}
	return &Decoder{window: window, similar: item.DefaultSimilarity, lastSlot: -1}
}

// SetSimilarity changes how held and displayed stacks are compared.
func (d *Decoder) SetSimilarity(fn item.Similarity) {
	if fn != nil {
		d.similar = fn
	}
}

// Decode returns the gesture for raw given what is held and what the viewer
// sees at the slot. GestureUnknown means the click does nothing.
func (d *Decoder) Decode(raw RawClick, held, displayed *item.ItemStack) Gesture {
	// Double-click detection (within the window on the same slot)
	isDoubleClick := raw.Button == MouseButtonLeft && !raw.Shift && raw.Slot == d.lastSlot &&
		!d.lastClick.IsZero() && raw.Time.Sub(d.lastClick) < d.window
	if isDoubleClick {
		d.lastSlot = -1
		d.lastClick = time.Time{}
	} else {
		d.lastSlot = raw.Slot
		d.lastClick = raw.Time
	}

	if raw.HotbarKey >= 0 {
		return HotbarQuickSwap
	}
	if isDoubleClick && held != nil {
		return CollectToHeld
	}
	if raw.Shift && raw.Button != MouseButtonMiddle {
		if displayed == nil {
			return GestureUnknown
		}
		return ShiftMoveOut
	}

	switch raw.Button {
	case MouseButtonLeft:
		switch {
		case held == nil && displayed == nil:
			return GestureUnknown
		case held == nil:
			return PickUpAll
		case displayed == nil || d.similar(*held, *displayed):
			return PlaceAll
		default:
			return SwapWithHeld
		}
	case MouseButtonRight:
		switch {
		case held == nil && displayed == nil:
			return GestureUnknown
		case held == nil:
			return PickUpHalf
		case displayed == nil || d.similar(*held, *displayed):
			return PlaceOne
		default:
			return SwapWithHeld
		}
	}
	return GestureUnknown
}

// DecodeDrag returns the gesture for a drag made with button.
func (d *Decoder) DecodeDrag(button MouseButton) Gesture {
	d.lastSlot = -1
	switch button {
	case MouseButtonLeft:
		return DragDistributeEven
	case MouseButtonRight:
		return DragDistributeOneEach
	}
	return GestureUnknown
}
