package middleware

import (
	"net/http"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/angelmondragon/storefront/api/responses"
	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/angelmondragon/storefront/pkg/logger"
)

// CartSessionHeader carries the shopper's cart session in both directions.
const CartSessionHeader = "X-Cart-Session"

var cartSessionRe = regexp.MustCompile(`^[A-Za-z0-9_-]{8,64}$`)

// CartSession resolves the cart session from the request header, minting a
// new one when absent. Malformed sessions are rejected. Handlers can tell a
// minted session apart with CartSessionIsNew.
func CartSession(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			session := strings.TrimSpace(r.Header.Get(CartSessionHeader))
			if session == "" {
				session = uuid.NewString()
				ctx = withNewCartSession(ctx)
			} else if !cartSessionRe.MatchString(session) {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid cart session").
					WithDetails(map[string]string{"header": CartSessionHeader}))
				return
			}

			w.Header().Set(CartSessionHeader, session)

			ctx = WithCartSession(ctx, session)
			if logg != nil {
				ctx = logg.WithCartSession(ctx, session)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
