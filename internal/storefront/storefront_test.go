package storefront

import (
	"context"
	"testing"

	"github.com/angelmondragon/storefront/internal/cart"
	"github.com/angelmondragon/storefront/internal/catalog"
	"github.com/angelmondragon/storefront/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/shopspring/decimal"
)

func teeProduct() catalog.Product {
	return catalog.Product{
		ID:       "tee",
		Name:     "Tee",
		Slug:     "tee",
		Price:    decimal.NewFromInt(20),
		Currency: enums.CurrencyUSD,
		Images:   []catalog.Image{{URL: "https://cdn/tee-1.jpg"}, {URL: "https://cdn/tee-2.jpg"}},
		Active:   true,
		Options: []catalog.ProductOption{
			{Name: "Color", Values: []string{"Red", "Blue"}},
			{Name: "Size", Values: []string{"S", "M"}},
		},
		Variants: []catalog.ProductVariant{
			{ID: "red-s", Name: "Red / S", Price: decimal.NewFromInt(22), Stock: 0, Options: []catalog.VariantOption{{Name: "Color", Value: "Red"}, {Name: "Size", Value: "S"}}},
			{ID: "red-m", Name: "Red / M", Price: decimal.NewFromInt(24), Stock: 5, Options: []catalog.VariantOption{{Name: "Color", Value: "Red"}, {Name: "Size", Value: "M"}}},
		},
	}
}

func TestEntryFromListItemAndProduct(t *testing.T) {
	t.Parallel()
	item := catalog.ProductListItem{
		ID: "mug", Name: "Mug", Slug: "mug", Price: decimal.NewFromInt(9), Currency: enums.CurrencyEUR,
		Image: &catalog.Image{URL: "https://cdn/mug.jpg", Alt: "Mug"},
	}
	fromItem := EntryFromListItem(item)
	if fromItem.ProductID != "mug" || fromItem.VariantID != "" || fromItem.Image == nil || fromItem.Image.URL != "https://cdn/mug.jpg" {
		t.Fatalf("unexpected entry %+v", fromItem)
	}

	fromProduct := EntryFromProduct(teeProduct())
	if fromProduct.Image == nil || fromProduct.Image.URL != "https://cdn/tee-1.jpg" {
		t.Fatalf("expected first product image, got %+v", fromProduct.Image)
	}
	if !fromProduct.Price.Equal(decimal.NewFromInt(20)) {
		t.Fatalf("expected base price, got %s", fromProduct.Price)
	}

	noImages := teeProduct()
	noImages.Images = nil
	if EntryFromProduct(noImages).Image != nil {
		t.Fatal("expected nil image without product images")
	}
}

func TestProductViewDefaultsToFirstValues(t *testing.T) {
	t.Parallel()
	view := NewProductView(teeProduct())
	sel := view.Selection()
	if sel["Color"] != "Red" || sel["Size"] != "S" {
		t.Fatalf("unexpected default selection %v", sel)
	}

	res := view.Resolve()
	if res.State != catalog.FullSelectionMatched || res.Variant == nil || res.Variant.ID != "red-s" {
		t.Fatalf("expected red-s match, got %+v", res)
	}
	if !res.Price.Equal(decimal.NewFromInt(22)) || res.Stock != 0 || res.InStock || res.CanAddToCart {
		t.Fatalf("sold-out variant must show its price and disable add, got %+v", res)
	}
}

func TestProductViewSelectResolvesVariant(t *testing.T) {
	t.Parallel()
	view, err := NewProductView(teeProduct()).Select("Size", "M")
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	res := view.Resolve()
	if !res.CanAddToCart || !res.Price.Equal(decimal.NewFromInt(24)) || res.Stock != 5 {
		t.Fatalf("unexpected resolution %+v", res)
	}
	if len(res.Options) != 2 || !res.Options[1].Values[1].Selected {
		t.Fatalf("unexpected availability matrix %+v", res.Options)
	}
}

func TestProductViewUnmatchedFallsBackToBasePrice(t *testing.T) {
	t.Parallel()
	view, err := NewProductView(teeProduct()).Select("Color", "Blue")
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	res := view.Resolve()
	if res.State != catalog.FullSelectionUnmatched || res.Variant != nil {
		t.Fatalf("expected unmatched, got %+v", res)
	}
	if !res.Price.Equal(decimal.NewFromInt(20)) || res.Stock != 0 || res.CanAddToCart {
		t.Fatalf("expected base price and no stock, got %+v", res)
	}
	if _, err := view.Entry(); !pkgerrors.IsCode(err, pkgerrors.CodeStateConflict) {
		t.Fatalf("expected state conflict, got %v", err)
	}
}

func TestProductViewRejectsUnknownOptions(t *testing.T) {
	t.Parallel()
	view := NewProductView(teeProduct())
	if _, err := view.Select("Fit", "Slim"); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for unknown option, got %v", err)
	}
	if _, err := view.Select("Color", "Green"); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for unknown value, got %v", err)
	}
}

func TestProductViewSimpleProductUsesOwnStock(t *testing.T) {
	t.Parallel()
	simple := catalog.Product{ID: "mug", Name: "Mug", Slug: "mug", Price: decimal.NewFromInt(9), Currency: enums.CurrencyUSD, Stock: 2}
	res := NewProductView(simple).Resolve()
	if res.State != catalog.NoSelection || !res.CanAddToCart || res.Stock != 2 {
		t.Fatalf("unexpected resolution %+v", res)
	}

	simple.Stock = 0
	if NewProductView(simple).Resolve().CanAddToCart {
		t.Fatal("out of stock simple product must not be addable")
	}
}

func TestProductViewAddToCart(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := cart.NewStore(cart.Options{})
	view, err := NewProductView(teeProduct()).Select("Size", "M")
	if err != nil {
		t.Fatalf("select: %v", err)
	}

	if err := view.AddToCart(ctx, store); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := view.AddToCart(ctx, store); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := NewProductView(teeProduct()).AddToCart(ctx, store); err == nil {
		t.Fatal("sold-out default selection must be rejected")
	}

	lines := store.Lines()
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	line := lines[0]
	if line.VariantID != "red-m" || line.VariantName != "Red / M" || line.Quantity != 2 || !line.Price.Equal(decimal.NewFromInt(24)) {
		t.Fatalf("unexpected line %+v", line)
	}
}

func TestAddRequestEntry(t *testing.T) {
	t.Parallel()
	item := &catalog.ProductListItem{ID: "mug", Name: "Mug", Slug: "mug", Price: decimal.NewFromInt(9), Currency: enums.CurrencyUSD}
	product := teeProduct()

	if _, err := (AddRequest{}).Entry(); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for empty request, got %v", err)
	}
	if _, err := (AddRequest{ListItem: item, Product: &product}).Entry(); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for ambiguous request, got %v", err)
	}

	entry, err := AddRequest{ListItem: item}.Entry()
	if err != nil || entry.ProductID != "mug" {
		t.Fatalf("unexpected list item entry %+v err=%v", entry, err)
	}

	entry, err = AddRequest{Product: &product, Selection: catalog.Selection{"Size": "M"}}.Entry()
	if err != nil || entry.VariantID != "red-m" {
		t.Fatalf("expected red-m entry, got %+v err=%v", entry, err)
	}

	if _, err := (AddRequest{Product: &product}).Entry(); !pkgerrors.IsCode(err, pkgerrors.CodeStateConflict) {
		t.Fatalf("default selection is sold out, expected state conflict, got %v", err)
	}
}
