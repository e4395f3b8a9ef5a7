package catalog

import (
	"context"

	"github.com/Pu11en/peptide-website/internal/domain"
)

// Categories is the fixed set of product categories shown by the storefront.
var Categories = []domain.Category{
	{
		ID:          "muscle-growth",
		Name:        "Muscle Growth & Performance",
		Description: "Peptides designed to enhance muscle growth, recovery, and athletic performance.",
	},
	{
		ID:          "healing-recovery",
		Name:        "Healing & Recovery",
		Description: "Peptides that support tissue repair, healing, and recovery processes.",
	},
	{
		ID:          "anti-aging",
		Name:        "Anti-Aging & Skin",
		Description: "Peptides that promote skin health, collagen production, and anti-aging effects.",
	},
	{
		ID:          "energy-metabolism",
		Name:        "Energy & Metabolism",
		Description: "Peptides that support metabolic function, energy production, and weight management.",
	},
}

var staticProducts = []*domain.Product{
	{
		Slug:        "reta",
		Name:        "Reta",
		Description: "A research peptide known for its potential effects on metabolic function and weight management.",
		Price:       100,
		Image:       "/products/reta 10mg bottle.png",
		Category:    "energy-metabolism",
		Sizes: []domain.Variant{
			{Size: "10mg", Price: 100},
			{Size: "15mg", Price: 140},
		},
	},
	{
		Slug:        "triz",
		Name:        "Triz",
		Description: "A research peptide being studied for its potential effects on glucose metabolism and weight management.",
		Price:       90,
		Image:       "/products/tirz 15mg.png",
		Category:    "energy-metabolism",
		Sizes: []domain.Variant{
			{Size: "10mg", Price: 90},
			{Size: "15mg", Price: 130},
		},
	},
	{
		Slug:        "tesamorelin",
		Name:        "Tesamorelin",
		Description: "A research peptide being studied for its potential effects on reducing visceral fat and improving body composition.",
		Price:       70,
		Image:       "/products/tesamorlin 10mg bottle.png",
		Category:    "energy-metabolism",
		Sizes: []domain.Variant{
			{Size: "5mg", Price: 70},
			{Size: "10mg", Price: 110},
		},
	},
	{
		Slug:        "bpc-157-tb-500",
		Name:        "BPC-157 + TB-500",
		Description: "A research peptide blend being studied for its potential healing and recovery properties.",
		Price:       100,
		Image:       "/products/bpc 157 tb500 10mg.png",
		Category:    "healing-recovery",
		Sizes: []domain.Variant{
			{Size: "10mg", Price: 100},
			{Size: "20mg", Price: 140},
		},
	},
	{
		Slug:        "ghk",
		Name:        "GHK-Cu",
		Description: "A research peptide being studied for its potential skin rejuvenation and wound healing properties.",
		Price:       50,
		Image:       "/products/ghk cu 50mg.png",
		Category:    "anti-aging",
		Sizes: []domain.Variant{
			{Size: "50mg", Price: 50},
		},
	},
	{
		Slug:        "mots-c",
		Name:        "MOTS-C",
		Description: "A research peptide being studied for its potential effects on metabolic function and exercise performance.",
		Price:       70,
		Image:       "/products/Mots c 10mg bottle.png",
		Category:    "energy-metabolism",
		Sizes: []domain.Variant{
			{Size: "10mg", Price: 70},
		},
	},
	{
		Slug:        "melanotan-ii",
		Name:        "Melanotan II",
		Description: "A research peptide being studied for its potential effects on skin pigmentation and tanning.",
		Price:       40,
		Image:       "/products/Melanotan II 10mg bottle.png",
		Category:    "anti-aging",
		Sizes: []domain.Variant{
			{Size: "10mg", Price: 40},
		},
	},
	{
		Slug:        "igf-1",
		Name:        "IGF-1 LR3",
		Description: "A research peptide being studied for its potential effects on muscle growth and recovery.",
		Price:       60,
		Image:       "/products/IGF1 lr3 1mg bottle.png",
		Category:    "muscle-growth",
		Sizes: []domain.Variant{
			{Size: "1mg", Price: 60},
		},
	},
	{
		Slug:        "nad",
		Name:        "NAD+",
		Description: "A research compound being studied for its potential effects on cellular energy production and anti-aging properties.",
		Price:       30,
		Image:       "/products/NAD+ 100mg (2).png",
		Category:    "anti-aging",
		Sizes: []domain.Variant{
			{Size: "100mg", Price: 30},
		},
	},
}

// StaticCatalog serves the seed product list without any external storage.
// It is the fallback pricing source when no database is configured or the
// database cannot resolve a batch.
type StaticCatalog struct {
	bySlug map[string]*domain.Product
	list   []*domain.Product
}

func NewStaticCatalog() *StaticCatalog {
	m := make(map[string]*domain.Product, len(staticProducts))
	for _, p := range staticProducts {
		m[p.Slug] = p
	}
	return &StaticCatalog{bySlug: m, list: staticProducts}
}

func (c *StaticCatalog) FindBySlug(_ context.Context, slug string) (*domain.Product, error) {
	p, ok := c.bySlug[slug]
	if !ok {
		return nil, ErrProductNotFound
	}
	return p, nil
}

func (c *StaticCatalog) List(_ context.Context) ([]*domain.Product, error) {
	out := make([]*domain.Product, len(c.list))
	copy(out, c.list)
	return out, nil
}
