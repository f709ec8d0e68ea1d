package input

import "showreel/internal/carousel"

// ModelContext implements the Context interface over a carousel snapshot
type ModelContext struct {
	Snapshot carousel.Snapshot
}

// ItemCount returns the number of items in the carousel
func (c *ModelContext) ItemCount() int {
	return len(c.Snapshot.Items)
}

// ActiveIndex returns the centered item, -1 when empty
func (c *ModelContext) ActiveIndex() int {
	return c.Snapshot.Active
}
