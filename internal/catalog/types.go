package catalog

import (
	"github.com/angelmondragon/storefront/pkg/enums"
	"github.com/shopspring/decimal"
)

// Image is a product image as served by the catalog.
type Image struct {
	URL    string `json:"url"`
	Alt    string `json:"alt"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// ProductOption declares an axis of variation and its legal values.
type ProductOption struct {
	Name   string   `json:"name" validate:"required"`
	Values []string `json:"values" validate:"required,min=1,dive,required"`
}

// VariantOption is one axis assignment of a variant.
type VariantOption struct {
	Name  string `json:"name" validate:"required"`
	Value string `json:"value" validate:"required"`
}

// ProductVariant is a concrete purchasable configuration.
type ProductVariant struct {
	ID      string          `json:"id" validate:"required"`
	Name    string          `json:"name"`
	SKU     string          `json:"sku,omitempty"`
	Price   decimal.Decimal `json:"price"`
	Stock   int             `json:"stock" validate:"gte=0"`
	Options []VariantOption `json:"options" validate:"dive"`
}

// OptionValue returns the variant's value for the named axis.
func (v ProductVariant) OptionValue(name string) (string, bool) {
	for _, opt := range v.Options {
		if opt.Name == name {
			return opt.Value, true
		}
	}
	return "", false
}

// InStock reports whether at least one unit is available.
func (v ProductVariant) InStock() bool {
	return v.Stock > 0
}

// Product is the full product snapshot used on the detail view.
type Product struct {
	ID          string           `json:"id" validate:"required"`
	Name        string           `json:"name" validate:"required"`
	Slug        string           `json:"slug" validate:"required"`
	Description string           `json:"description,omitempty"`
	Price       decimal.Decimal  `json:"price"`
	Currency    enums.Currency   `json:"currency" validate:"required"`
	Images      []Image          `json:"images,omitempty"`
	Stock       int              `json:"stock" validate:"gte=0"`
	Active      bool             `json:"active"`
	HasVariants bool             `json:"has_variants"`
	Options     []ProductOption  `json:"options,omitempty" validate:"dive"`
	Variants    []ProductVariant `json:"variants,omitempty" validate:"dive"`
}

// Configurable reports whether the product is sold through variants.
func (p Product) Configurable() bool {
	return len(p.Options) > 0 && len(p.Variants) > 0
}

// ProductListItem is the condensed listing shape.
type ProductListItem struct {
	ID       string          `json:"id" validate:"required"`
	Name     string          `json:"name" validate:"required"`
	Slug     string          `json:"slug" validate:"required"`
	Price    decimal.Decimal `json:"price"`
	Currency enums.Currency  `json:"currency" validate:"required"`
	Image    *Image          `json:"image,omitempty"`
}
