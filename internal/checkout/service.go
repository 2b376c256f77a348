package checkout

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/angelmondragon/storefront/internal/cart"
	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/angelmondragon/storefront/pkg/logger"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" {
			return f.Name
		}
		return tag
	})
	return v
}

// Service prices carts and completes orders.
type Service interface {
	Draft(ctx context.Context, store *cart.Store, input Input) (*Draft, error)
	Complete(ctx context.Context, store *cart.Store, input Input) (*Confirmation, error)
}

type service struct {
	placer Placer
	logg   *logger.Logger
}

// NewService builds the checkout service.
func NewService(placer Placer, logg *logger.Logger) (Service, error) {
	if placer == nil {
		return nil, fmt.Errorf("order placer required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{placer: placer, logg: logg}, nil
}

// Draft validates the input and prices the current cart.
func (s *service) Draft(ctx context.Context, store *cart.Store, input Input) (*Draft, error) {
	if store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "cart store required")
	}
	if err := validateInput(input); err != nil {
		return nil, err
	}

	summary := store.Summary()
	if len(summary.Lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no items in cart")
	}
	if summary.MixedCurrency() {
		totals := map[string]string{}
		for currency, amount := range summary.Totals {
			totals[string(currency)] = amount.String()
		}
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "cart contains more than one currency").
			WithDetails(map[string]any{"totals": totals})
	}

	shipping := decimal.Zero
	tax := decimal.Zero
	return &Draft{
		Items:           summary.Lines,
		ItemCount:       summary.ItemCount,
		Currency:        summary.Currency,
		Subtotal:        summary.Subtotal,
		Shipping:        shipping,
		Tax:             tax,
		Total:           summary.Subtotal.Add(shipping).Add(tax),
		ShippingAddress: *input.ShippingAddress,
		CustomerEmail:   strings.TrimSpace(input.CustomerEmail),
	}, nil
}

// Complete places the order and, once the placer accepts it, removes the
// ordered quantities from the cart. Lines added while the order was being
// placed are kept for the next checkout.
func (s *service) Complete(ctx context.Context, store *cart.Store, input Input) (*Confirmation, error) {
	draft, err := s.Draft(ctx, store, input)
	if err != nil {
		return nil, err
	}

	conf, err := s.placer.Place(ctx, *draft)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to create order")
	}

	store.Deduct(ctx, draft.Items)
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"order_id":   conf.OrderID,
		"item_count": draft.ItemCount,
	}), "checkout.completed")
	return &conf, nil
}

func validateInput(input Input) error {
	if err := validate.Struct(input); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok {
			details := map[string]string{}
			for _, fe := range errs {
				details[fe.Namespace()] = fe.Tag()
			}
			return pkgerrors.New(pkgerrors.CodeValidation, "missing shipping address or email").WithDetails(details)
		}
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "validation failed")
	}
	return nil
}
