package item

import "fmt"

// DefaultMaxStackSize is used for item types that do not declare their own limit.
const DefaultMaxStackSize = 64

// Type identifies a kind of item and how many of it fit in one stack.
type Type struct {
	ID       string
	MaxStack int
}

// MaxStackSize returns the item-type capacity
func (t Type) MaxStackSize() int {
	if t.MaxStack <= 0 {
		return DefaultMaxStackSize
	}
	return t.MaxStack
}

// ItemStack represents a stack of items
type ItemStack struct {
	Type  Type
	Count int
	// Meta is opaque metadata (display name, enchantments, ...). Stacks only
	// merge when their metadata matches.
	Meta string
}

// NewItemStack creates a new item stack
func NewItemStack(t Type, count int) ItemStack {
	return ItemStack{
		Type:  t,
		Count: count,
	}
}

// GetMaxStackSize returns the maximum stack size for this item
func (s ItemStack) GetMaxStackSize() int {
	return s.Type.MaxStackSize()
}

// IsItemEqual checks if two stacks contain the same item, ignoring amount.
func (s ItemStack) IsItemEqual(other ItemStack) bool {
	return s.Type.ID == other.Type.ID && s.Meta == other.Meta
}

// WithCount returns a copy of the stack holding count items.
func (s ItemStack) WithCount(count int) ItemStack {
	s.Count = count
	return s
}

func (s ItemStack) String() string {
	if s.Meta == "" {
		return fmt.Sprintf("%dx%s", s.Count, s.Type.ID)
	}
	return fmt.Sprintf("%dx%s{%s}", s.Count, s.Type.ID, s.Meta)
}

// Similarity decides whether two stacks may merge. Amounts are never compared.
type Similarity func(a, b ItemStack) bool

// DefaultSimilarity compares type and metadata.
func DefaultSimilarity(a, b ItemStack) bool {
	return a.IsItemEqual(b)
}

// Clone returns a copy of s, or nil for an empty stack. Stacks with a
// non-positive count are treated as empty.
func Clone(s *ItemStack) *ItemStack {
	if IsEmpty(s) {
		return nil
	}
	c := *s
	return &c
}

// Ptr returns a pointer to a copy of s, normalizing empty stacks to nil.
func Ptr(s ItemStack) *ItemStack {
	return Clone(&s)
}

// IsEmpty reports whether s holds nothing.
func IsEmpty(s *ItemStack) bool {
	return s == nil || s.Count <= 0
}

// Count returns the amount held by s, 0 for empty stacks.
func Count(s *ItemStack) int {
	if IsEmpty(s) {
		return 0
	}
	return s.Count
}

// Equal compares two optional stacks including their amount.
func Equal(a, b *ItemStack) bool {
	if IsEmpty(a) || IsEmpty(b) {
		return IsEmpty(a) && IsEmpty(b)
	}
	return *a == *b
}
