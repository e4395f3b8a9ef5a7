package cart

import "time"

// Item is one cart line. The (Slug, Size) pair is the item key; the
// price here is only a display snapshot and is never trusted when the
// order is actually priced.
type Item struct {
	Slug     string  `json:"slug"`
	Name     string  `json:"name"`
	Size     string  `json:"size,omitempty"`
	Price    float64 `json:"price"`
	Image    string  `json:"image,omitempty"`
	Quantity int     `json:"quantity"`
}

type Cart struct {
	Token     string    `json:"token"`
	Items     []Item    `json:"items"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AddItem merges by (slug, size): adding an existing key increments its
// quantity instead of appending a second line.
func (c *Cart) AddItem(item Item) {
	for i := range c.Items {
		if c.Items[i].Slug == item.Slug && c.Items[i].Size == item.Size {
			c.Items[i].Quantity += item.Quantity
			return
		}
	}
	c.Items = append(c.Items, item)
}

func (c *Cart) RemoveItem(slug, size string) {
	for i, item := range c.Items {
		if item.Slug == slug && item.Size == size {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return
		}
	}
}

func (c *Cart) UpdateQuantity(slug, size string, quantity int) {
	for i := range c.Items {
		if c.Items[i].Slug == slug && c.Items[i].Size == size {
			c.Items[i].Quantity = quantity
			return
		}
	}
}

func (c *Cart) Clear() {
	c.Items = nil
}

func (c *Cart) Total() float64 {
	var total float64
	for _, item := range c.Items {
		total += item.Price * float64(item.Quantity)
	}
	return total
}
