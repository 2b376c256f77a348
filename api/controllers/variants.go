package controllers

import (
	"net/http"

	"github.com/angelmondragon/storefront/api/responses"
	"github.com/angelmondragon/storefront/api/validators"
	"github.com/angelmondragon/storefront/internal/catalog"
	"github.com/angelmondragon/storefront/internal/storefront"
	"github.com/angelmondragon/storefront/pkg/logger"
)

type resolveVariantRequest struct {
	Product   catalog.Product   `json:"product"`
	Selection map[string]string `json:"selection,omitempty"`
}

// VariantResolve returns the price, stock, matched variant and per-value
// availability for a selection. An empty selection uses the default picks.
func VariantResolve(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload resolveVariantRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view := storefront.NewProductView(payload.Product)
		if len(payload.Selection) > 0 {
			next, err := view.WithSelection(catalog.Selection(payload.Selection))
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			view = next
		}

		responses.WriteSuccess(w, view.Resolve())
	}
}
