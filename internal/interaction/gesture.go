package interaction

import "fmt"

// Gesture is a single user interaction with a slot.
type Gesture int

const (
	GestureUnknown Gesture = iota
	PickUpAll
	PickUpHalf
	PickUpOne
	PlaceAll
	PlaceOne
	PlaceSome
	SwapWithHeld
	ShiftMoveOut
	DragDistributeEven
	DragDistributeOneEach
	CollectToHeld
	MoveToExternalContainer
	HotbarQuickSwap
)

var gestureNames = [...]string{
	GestureUnknown:          "unknown",
	PickUpAll:               "pick-up-all",
	PickUpHalf:              "pick-up-half",
	PickUpOne:               "pick-up-one",
	PlaceAll:                "place-all",
	PlaceOne:                "place-one",
	PlaceSome:               "place-some",
	SwapWithHeld:            "swap-with-held",
	ShiftMoveOut:            "shift-move-out",
	DragDistributeEven:      "drag-distribute-even",
	DragDistributeOneEach:   "drag-distribute-one-each",
	CollectToHeld:           "collect-to-held",
	MoveToExternalContainer: "move-to-external-container",
	HotbarQuickSwap:         "hotbar-quick-swap",
}

func (g Gesture) String() string {
	if g < 0 || int(g) >= len(gestureNames) {
		return fmt.Sprintf("gesture(%d)", int(g))
	}
	return gestureNames[g]
}

// IsDrag reports whether g spreads the held stack over several slots.
func (g Gesture) IsDrag() bool {
	return g == DragDistributeEven || g == DragDistributeOneEach
}

// ParseGesture looks a gesture up by its text name.
func ParseGesture(s string) (Gesture, error) {
	for g, name := range gestureNames {
		if name == s && Gesture(g) != GestureUnknown {
			return Gesture(g), nil
		}
	}
	return GestureUnknown, fmt.Errorf("unknown gesture %q", s)
}

func (g Gesture) MarshalText() ([]byte, error) {
	return []byte(g.String()), nil
}

func (g *Gesture) UnmarshalText(b []byte) error {
	parsed, err := ParseGesture(string(b))
	if err != nil {
		return err
	}
	*g = parsed
	return nil
}
