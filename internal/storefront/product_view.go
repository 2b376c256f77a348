package storefront

import (
	"context"

	"github.com/angelmondragon/storefront/internal/cart"
	"github.com/angelmondragon/storefront/internal/catalog"
	"github.com/angelmondragon/storefront/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/shopspring/decimal"
)

// ProductView is the detail page state: one product plus the current pick.
// Values are immutable; Select returns a new view.
type ProductView struct {
	product   catalog.Product
	selection catalog.Selection
}

// NewProductView starts with the first value of every option selected.
func NewProductView(p catalog.Product) ProductView {
	return ProductView{product: p, selection: catalog.DefaultSelection(p.Options)}
}

// Product returns the underlying product.
func (v ProductView) Product() catalog.Product {
	return v.product
}

// Selection returns a copy of the current pick.
func (v ProductView) Selection() catalog.Selection {
	out := make(catalog.Selection, len(v.selection))
	for k, val := range v.selection {
		out[k] = val
	}
	return out
}

// Select picks value for the named option.
func (v ProductView) Select(name, value string) (ProductView, error) {
	if err := v.checkOption(name, value); err != nil {
		return v, err
	}
	return ProductView{product: v.product, selection: v.selection.With(name, value)}, nil
}

// WithSelection applies every pick in sel on top of the current selection.
func (v ProductView) WithSelection(sel catalog.Selection) (ProductView, error) {
	next := v
	for name, value := range sel {
		var err error
		if next, err = next.Select(name, value); err != nil {
			return v, err
		}
	}
	return next, nil
}

func (v ProductView) checkOption(name, value string) error {
	for _, opt := range v.product.Options {
		if opt.Name != name {
			continue
		}
		for _, legal := range opt.Values {
			if legal == value {
				return nil
			}
		}
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown option value").
			WithDetails(map[string]any{"option": name, "value": value})
	}
	return pkgerrors.New(pkgerrors.CodeValidation, "unknown option").
		WithDetails(map[string]any{"option": name})
}

// Resolution is everything the detail page renders for the current pick.
type Resolution struct {
	State        catalog.SelectionState       `json:"state"`
	Selection    catalog.Selection            `json:"selection"`
	Variant      *catalog.ProductVariant      `json:"variant,omitempty"`
	Price        decimal.Decimal              `json:"price"`
	Currency     enums.Currency               `json:"currency"`
	Stock        int                          `json:"stock"`
	InStock      bool                         `json:"in_stock"`
	CanAddToCart bool                         `json:"can_add_to_cart"`
	Options      []catalog.OptionAvailability `json:"options"`
}

// Resolve computes price, stock and button state. Configurable products show
// the matched variant's price and stock, else the base price and no stock.
// Products without variants use their own price and stock.
func (v ProductView) Resolve() Resolution {
	p := v.product
	res := Resolution{
		Selection: v.Selection(),
		Price:     p.Price,
		Currency:  p.Currency,
		Options:   []catalog.OptionAvailability{},
	}

	if !p.Configurable() {
		res.State = catalog.NoSelection
		res.Stock = p.Stock
		res.InStock = p.Stock > 0
		res.CanAddToCart = res.InStock
		return res
	}

	state, variant := catalog.Classify(p.Options, p.Variants, v.selection)
	res.State = state
	res.Variant = variant
	res.Options = catalog.Availability(p.Options, p.Variants, v.selection)
	if variant != nil {
		res.Price = variant.Price
		res.Stock = variant.Stock
	}
	res.InStock = res.Stock > 0
	res.CanAddToCart = catalog.CanAddToCart(state, variant)
	return res
}

// Entry returns the cart entry for the current pick, or a state conflict
// when the product cannot be added.
func (v ProductView) Entry() (cart.Entry, error) {
	res := v.Resolve()
	if !res.CanAddToCart {
		return cart.Entry{}, pkgerrors.New(pkgerrors.CodeStateConflict, "product is not purchasable with the current selection").
			WithDetails(map[string]any{"state": res.State, "stock": res.Stock})
	}
	if res.Variant != nil {
		return EntryFromVariant(v.product, *res.Variant), nil
	}
	return EntryFromProduct(v.product), nil
}

// AddToCart adds the current pick to the store.
func (v ProductView) AddToCart(ctx context.Context, store *cart.Store) error {
	entry, err := v.Entry()
	if err != nil {
		return err
	}
	store.AddItem(ctx, entry)
	return nil
}
