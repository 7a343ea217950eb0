package cart

import (
	"github.com/foamwash/foamwash-backend/internal/catalog"
	"github.com/foamwash/foamwash-backend/pkg/enums"
)

// Item is one service line in the cart. Size and WashType start empty and
// must both be chosen before a quotation can be generated.
type Item struct {
	ServiceID   string
	ServiceName string
	BasePrice   int64
	Quantity    int
	Size        string
	WashType    string
}

// HasDetails reports whether both configurable attributes are set.
func (i Item) HasDetails() bool {
	return i.Size != "" && i.WashType != ""
}

// UnitPrice is the base price plus the flat surcharge for the chosen size.
func (i Item) UnitPrice(surchargeFor func(string) int64) int64 {
	price := i.BasePrice
	if i.Size != "" && surchargeFor != nil {
		price += surchargeFor(i.Size)
	}
	return price
}

// Subtotal is the unit price times the quantity.
func (i Item) Subtotal(surchargeFor func(string) int64) int64 {
	return i.UnitPrice(surchargeFor) * int64(i.Quantity)
}

// Cart holds at most one line per service, in insertion order.
type Cart struct {
	items []Item
}

// New returns an empty cart.
func New() *Cart {
	return &Cart{}
}

// FromItems rebuilds a cart from persisted lines, preserving order.
func FromItems(items []Item) *Cart {
	c := &Cart{items: make([]Item, len(items))}
	copy(c.items, items)
	return c
}

// Add puts the service in the cart with quantity one, or bumps the quantity
// when the service is already present.
func (c *Cart) Add(svc catalog.Service) {
	if idx := c.indexOf(svc.ID); idx >= 0 {
		c.items[idx].Quantity++
		return
	}
	c.items = append(c.items, Item{
		ServiceID:   svc.ID,
		ServiceName: svc.Name,
		BasePrice:   svc.BasePrice,
		Quantity:    1,
	})
}

// SetQuantity replaces the quantity for the service line. A quantity of zero
// or less removes the line. Unknown service ids are a no-op.
func (c *Cart) SetQuantity(serviceID string, quantity int) {
	idx := c.indexOf(serviceID)
	if idx < 0 {
		return
	}
	if quantity <= 0 {
		c.items = append(c.items[:idx], c.items[idx+1:]...)
		return
	}
	c.items[idx].Quantity = quantity
}

// SetDetail assigns the size or wash type of an existing line. Unknown
// service ids are a no-op.
func (c *Cart) SetDetail(serviceID string, field enums.DetailField, value string) {
	idx := c.indexOf(serviceID)
	if idx < 0 {
		return
	}
	switch field {
	case enums.DetailFieldSize:
		c.items[idx].Size = value
	case enums.DetailFieldWashType:
		c.items[idx].WashType = value
	}
}

// Remove drops the service line entirely.
func (c *Cart) Remove(serviceID string) {
	c.SetQuantity(serviceID, 0)
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.items = nil
}

// Items returns a copy of the cart lines.
func (c *Cart) Items() []Item {
	out := make([]Item, len(c.items))
	copy(out, c.items)
	return out
}

// Item returns the line for the service id.
func (c *Cart) Item(serviceID string) (Item, bool) {
	if idx := c.indexOf(serviceID); idx >= 0 {
		return c.items[idx], true
	}
	return Item{}, false
}

// Len returns the number of distinct service lines.
func (c *Cart) Len() int {
	return len(c.items)
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.items) == 0
}

// ItemCount is the total unit count across all lines.
func (c *Cart) ItemCount() int {
	total := 0
	for _, item := range c.items {
		total += item.Quantity
	}
	return total
}

// Total sums every line's subtotal using the provided surcharge lookup.
func (c *Cart) Total(surchargeFor func(string) int64) int64 {
	var total int64
	for _, item := range c.items {
		total += item.Subtotal(surchargeFor)
	}
	return total
}

// IsComplete reports whether every line has both size and wash type chosen.
// An empty cart is not complete.
func (c *Cart) IsComplete() bool {
	if len(c.items) == 0 {
		return false
	}
	for _, item := range c.items {
		if !item.HasDetails() {
			return false
		}
	}
	return true
}

// IncompleteServiceIDs lists lines still missing a size or wash type.
func (c *Cart) IncompleteServiceIDs() []string {
	var ids []string
	for _, item := range c.items {
		if !item.HasDetails() {
			ids = append(ids, item.ServiceID)
		}
	}
	return ids
}

func (c *Cart) indexOf(serviceID string) int {
	for i, item := range c.items {
		if item.ServiceID == serviceID {
			return i
		}
	}
	return -1
}
