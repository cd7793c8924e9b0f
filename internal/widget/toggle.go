package widget

import (
	"invui/internal/gui"
	"invui/internal/interaction"
	"invui/internal/item"
)

// Toggle flips between two icons when clicked and asks the containers
// showing it to redraw.
type Toggle struct {
	On, Off  *item.ItemStack
	OnChange func(on bool)

	on      bool
	watched []*gui.Container
}

func NewToggle(on, off item.ItemStack, initial bool, onChange func(bool)) *Toggle {
	return &Toggle{On: item.Ptr(on), Off: item.Ptr(off), OnChange: onChange, on: initial}
}

func (t *Toggle) IsOn() bool { return t.on }

// Watch adds a container to redraw on changes besides the clicked one. Use
// it for containers that hold the toggle below a link.
func (t *Toggle) Watch(c *gui.Container) {
	for _, w := range t.watched {
		if w == c {
			return
		}
	}
	t.watched = append(t.watched, c)
}

// Set changes the state and notifies every watched container.
func (t *Toggle) Set(on bool) {
	if t.on == on {
		return
	}
	t.on = on
	for _, c := range t.watched {
		c.NotifyItem(t)
	}
	if t.OnChange != nil {
		t.OnChange(on)
	}
}

func (t *Toggle) ItemStack(string) *item.ItemStack {
	if t.on {
		return item.Clone(t.On)
	}
	return item.Clone(t.Off)
}

func (t *Toggle) HandleClick(c interaction.Click) {
	if c.Gesture.IsDrag() {
		return
	}
	t.Watch(c.Container)
	t.Set(!t.on)
}
