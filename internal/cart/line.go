package cart

import (
	"github.com/angelmondragon/storefront/pkg/enums"
	"github.com/shopspring/decimal"
)

// Image is the display image attached to a line.
type Image struct {
	URL    string `json:"url"`
	Alt    string `json:"alt"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// Identity keys a line. An empty VariantID is the bare product.
type Identity struct {
	ProductID string
	VariantID string
}

// Entry is the single input shape accepted by AddItem.
type Entry struct {
	ProductID   string
	Name        string
	Slug        string
	Price       decimal.Decimal
	Currency    enums.Currency
	Image       *Image
	VariantID   string
	VariantName string
}

// Identity returns the key the entry merges on.
func (e Entry) Identity() Identity {
	return Identity{ProductID: e.ProductID, VariantID: e.VariantID}
}

// Line is one cart entry with its accumulated quantity.
type Line struct {
	ProductID   string          `json:"product_id"`
	VariantID   string          `json:"variant_id,omitempty"`
	Name        string          `json:"name"`
	Slug        string          `json:"slug"`
	Price       decimal.Decimal `json:"price"`
	Currency    enums.Currency  `json:"currency"`
	Quantity    int             `json:"quantity"`
	Image       *Image          `json:"image,omitempty"`
	VariantName string          `json:"variant_name,omitempty"`
}

// Identity returns the key of the line.
func (l Line) Identity() Identity {
	return Identity{ProductID: l.ProductID, VariantID: l.VariantID}
}

// LineTotal is price times quantity.
func (l Line) LineTotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Matches reports whether the line belongs to the given product and variant.
// A bare-product lookup never matches a variant line and vice versa.
func (l Line) Matches(productID, variantID string) bool {
	return l.ProductID == productID && l.VariantID == variantID
}

func lineFromEntry(e Entry) Line {
	return Line{
		ProductID:   e.ProductID,
		VariantID:   e.VariantID,
		Name:        e.Name,
		Slug:        e.Slug,
		Price:       e.Price,
		Currency:    e.Currency,
		Quantity:    1,
		Image:       cloneImage(e.Image),
		VariantName: e.VariantName,
	}
}

func cloneImage(img *Image) *Image {
	if img == nil {
		return nil
	}
	cp := *img
	return &cp
}

func cloneLines(lines []Line) []Line {
	out := make([]Line, len(lines))
	for i, line := range lines {
		line.Image = cloneImage(line.Image)
		out[i] = line
	}
	return out
}
