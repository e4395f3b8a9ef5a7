package domain

// Variant is a named size option of a product carrying its own price.
type Variant struct {
	Size  string  `json:"size"`
	Price float64 `json:"price"`
}

type Product struct {
	Slug        string    `json:"slug"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Image       string    `json:"image"`
	Category    string    `json:"category"`
	Sizes       []Variant `json:"sizes"`
}

// VariantPrice returns the price for the given size, falling back to the
// product base price when no matching variant exists.
func (p *Product) VariantPrice(size string) float64 {
	if size == "" {
		return p.Price
	}
	for _, v := range p.Sizes {
		if v.Size == size {
			return v.Price
		}
	}
	return p.Price
}

type Category struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}
