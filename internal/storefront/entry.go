package storefront

import (
	"github.com/angelmondragon/storefront/internal/cart"
	"github.com/angelmondragon/storefront/internal/catalog"
	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
)

// EntryFromListItem maps a listing card onto a bare-product cart entry.
func EntryFromListItem(item catalog.ProductListItem) cart.Entry {
	return cart.Entry{
		ProductID: item.ID,
		Name:      item.Name,
		Slug:      item.Slug,
		Price:     item.Price,
		Currency:  item.Currency,
		Image:     cartImage(item.Image),
	}
}

// EntryFromProduct maps a full product onto a bare-product cart entry using
// its first image.
func EntryFromProduct(p catalog.Product) cart.Entry {
	return cart.Entry{
		ProductID: p.ID,
		Name:      p.Name,
		Slug:      p.Slug,
		Price:     p.Price,
		Currency:  p.Currency,
		Image:     firstImage(p.Images),
	}
}

// EntryFromVariant maps a product and one of its variants onto a cart entry
// priced at the variant price.
func EntryFromVariant(p catalog.Product, v catalog.ProductVariant) cart.Entry {
	entry := EntryFromProduct(p)
	entry.Price = v.Price
	entry.VariantID = v.ID
	entry.VariantName = v.Name
	return entry
}

// AddRequest is the add-to-cart input. Exactly one of ListItem or Product
// is set; Selection only applies to configurable products and falls back to
// the default selection when empty.
type AddRequest struct {
	ListItem  *catalog.ProductListItem
	Product   *catalog.Product
	Selection catalog.Selection
}

// Entry normalizes the request into the single shape the cart accepts.
func (r AddRequest) Entry() (cart.Entry, error) {
	switch {
	case r.ListItem != nil && r.Product != nil:
		return cart.Entry{}, pkgerrors.New(pkgerrors.CodeValidation, "provide either a list item or a product, not both")
	case r.ListItem != nil:
		return EntryFromListItem(*r.ListItem), nil
	case r.Product != nil:
		view := NewProductView(*r.Product)
		if r.Selection.Len() > 0 {
			next, err := view.WithSelection(r.Selection)
			if err != nil {
				return cart.Entry{}, err
			}
			view = next
		}
		return view.Entry()
	default:
		return cart.Entry{}, pkgerrors.New(pkgerrors.CodeValidation, "a list item or a product is required")
	}
}

func cartImage(img *catalog.Image) *cart.Image {
	if img == nil {
		return nil
	}
	return &cart.Image{URL: img.URL, Alt: img.Alt, Width: img.Width, Height: img.Height}
}

func firstImage(images []catalog.Image) *cart.Image {
	if len(images) == 0 {
		return nil
	}
	return cartImage(&images[0])
}
