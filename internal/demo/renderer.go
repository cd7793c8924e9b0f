package demo

import (
	"invui/internal/item"

	"github.com/sirupsen/logrus"
)

// LogRenderer draws slots as debug log lines.
type LogRenderer struct {
	log   logrus.FieldLogger
	draws int
}

func NewLogRenderer(l logrus.FieldLogger) *LogRenderer {
	return &LogRenderer{log: l}
}

func (r *LogRenderer) RenderSlot(slot int, stack *item.ItemStack) {
	r.draws++
	entry := r.log.WithField("slot", slot)
	if stack == nil {
		entry.Debug("draw empty")
		return
	}
	entry.WithField("stack", stack.String()).Debug("draw")
}

// Draws returns how many slots were drawn so far.
func (r *LogRenderer) Draws() int { return r.draws }
