package widget

import (
	"invui/internal/interaction"
	"invui/internal/item"
)

// Button is a static cell that runs OnClick for every gesture made on it.
type Button struct {
	Icon    *item.ItemStack
	OnClick func(c interaction.Click)
}

func NewButton(icon item.ItemStack, onClick func(c interaction.Click)) *Button {
	return &Button{Icon: item.Ptr(icon), OnClick: onClick}
}

func (b *Button) ItemStack(string) *item.ItemStack { return item.Clone(b.Icon) }

func (b *Button) HandleClick(c interaction.Click) {
	if b.OnClick != nil {
		b.OnClick(c)
	}
}
