package controllers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/storefront/api/middleware"
	"github.com/angelmondragon/storefront/api/responses"
	"github.com/angelmondragon/storefront/api/validators"
	"github.com/angelmondragon/storefront/internal/cart"
	"github.com/angelmondragon/storefront/internal/catalog"
	"github.com/angelmondragon/storefront/internal/storefront"
	"github.com/angelmondragon/storefront/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/angelmondragon/storefront/pkg/logger"
)

const maxVariantIDLen = 128

// CartResolver hands out the cart store of a session. Detached returns an
// uncached empty store for sessions that cannot have a cart yet.
type CartResolver interface {
	Get(ctx context.Context, session string) *cart.Store
	Detached(session string) *cart.Store
}

type cartResponse struct {
	Session       string                             `json:"session"`
	Items         []cart.Line                        `json:"items"`
	Subtotal      decimal.Decimal                    `json:"subtotal"`
	ItemCount     int                                `json:"item_count"`
	Currency      enums.Currency                     `json:"currency"`
	Totals        map[enums.Currency]decimal.Decimal `json:"totals"`
	MixedCurrency bool                               `json:"mixed_currency"`
}

func newCartResponse(session string, summary cart.Summary) cartResponse {
	items := summary.Lines
	if items == nil {
		items = []cart.Line{}
	}
	return cartResponse{
		Session:       session,
		Items:         items,
		Subtotal:      summary.Subtotal,
		ItemCount:     summary.ItemCount,
		Currency:      summary.Currency,
		Totals:        summary.Totals,
		MixedCurrency: summary.MixedCurrency(),
	}
}

func sessionStore(r *http.Request, carts CartResolver) (string, *cart.Store, error) {
	if carts == nil {
		return "", nil, pkgerrors.New(pkgerrors.CodeInternal, "cart registry unavailable")
	}
	session := middleware.CartSessionFromContext(r.Context())
	if session == "" {
		return "", nil, pkgerrors.New(pkgerrors.CodeValidation, "cart session missing")
	}
	return session, carts.Get(r.Context(), session), nil
}

// existingStore is sessionStore for handlers that only read or shrink a cart.
// A session minted for this request gets a detached empty store so anonymous
// reads never open a cached store.
func existingStore(r *http.Request, carts CartResolver) (string, *cart.Store, error) {
	if carts != nil && middleware.CartSessionIsNew(r.Context()) {
		session := middleware.CartSessionFromContext(r.Context())
		return session, carts.Detached(session), nil
	}
	return sessionStore(r, carts)
}

// CartFetch returns the session's lines and totals.
func CartFetch(carts CartResolver, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, store, err := existingStore(r, carts)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartResponse(session, store.Summary()))
	}
}

// CartClear empties the session's cart.
func CartClear(carts CartResolver, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, store, err := existingStore(r, carts)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		store.ClearCart(r.Context())
		responses.WriteSuccess(w, newCartResponse(session, store.Summary()))
	}
}

type addItemRequest struct {
	ListItem  *catalog.ProductListItem `json:"list_item,omitempty"`
	Product   *catalog.Product         `json:"product,omitempty"`
	Selection map[string]string        `json:"selection,omitempty"`
}

func (p addItemRequest) toRequest() (storefront.AddRequest, error) {
	switch {
	case p.ListItem != nil && !p.ListItem.Currency.IsValid():
		return storefront.AddRequest{}, invalidCurrency(p.ListItem.Currency)
	case p.Product != nil && !p.Product.Currency.IsValid():
		return storefront.AddRequest{}, invalidCurrency(p.Product.Currency)
	}
	return storefront.AddRequest{
		ListItem:  p.ListItem,
		Product:   p.Product,
		Selection: catalog.Selection(p.Selection),
	}, nil
}

func invalidCurrency(c enums.Currency) error {
	return pkgerrors.New(pkgerrors.CodeValidation, "unsupported currency").
		WithDetails(map[string]any{"currency": string(c)})
}

// CartAddItem adds one unit of a listing item or of the selected product
// configuration.
func CartAddItem(carts CartResolver, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, store, err := sessionStore(r, carts)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload addItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		req, err := payload.toRequest()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		entry, err := req.Entry()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		store.AddItem(r.Context(), entry)
		responses.WriteSuccessStatus(w, http.StatusCreated, newCartResponse(session, store.Summary()))
	}
}

type updateQuantityRequest struct {
	Quantity  *int   `json:"quantity" validate:"required"`
	VariantID string `json:"variant_id,omitempty" validate:"omitempty,max=128"`
}

// CartUpdateQuantity overwrites a line's quantity. Zero or less removes it.
func CartUpdateQuantity(carts CartResolver, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, store, err := existingStore(r, carts)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := validators.PathParam("productId", chi.URLParam(r, "productId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateQuantityRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		store.UpdateQuantity(r.Context(), productID, *payload.Quantity, payload.VariantID)
		responses.WriteSuccess(w, newCartResponse(session, store.Summary()))
	}
}

// CartRemoveItem deletes the line keyed by the product and optional variant.
func CartRemoveItem(carts CartResolver, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, store, err := existingStore(r, carts)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := validators.PathParam("productId", chi.URLParam(r, "productId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		variantID, err := validators.OptionalQueryString(r, "variant_id", maxVariantIDLen)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		store.RemoveItem(r.Context(), productID, variantID)
		responses.WriteSuccess(w, newCartResponse(session, store.Summary()))
	}
}
