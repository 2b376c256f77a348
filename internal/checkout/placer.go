package checkout

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/storefront/pkg/logger"
	"github.com/google/uuid"
)

// Placer hands a draft to the order collaborator.
type Placer interface {
	Place(ctx context.Context, draft Draft) (Confirmation, error)
}

// LogPlacer accepts every draft and only records it in the log. It stands in
// for an external order service.
type LogPlacer struct {
	logg *logger.Logger
	now  func() time.Time
}

func NewLogPlacer(logg *logger.Logger) *LogPlacer {
	if logg == nil {
		logg = logger.Nop()
	}
	return &LogPlacer{logg: logg, now: time.Now}
}

func (p *LogPlacer) Place(ctx context.Context, draft Draft) (Confirmation, error) {
	id := uuid.New()
	placedAt := p.now().UTC()
	conf := Confirmation{
		OrderID:     id.String(),
		OrderNumber: orderNumber(placedAt, id),
		Total:       draft.Total,
		Currency:    draft.Currency,
		PlacedAt:    placedAt,
	}
	p.logg.Info(p.logg.WithFields(ctx, map[string]any{
		"order_id":     conf.OrderID,
		"order_number": conf.OrderNumber,
		"total":        draft.Total.StringFixed(2),
		"currency":     string(draft.Currency),
		"item_count":   draft.ItemCount,
	}), "checkout.order.placed")
	return conf, nil
}

func orderNumber(at time.Time, id uuid.UUID) string {
	return fmt.Sprintf("ORD-%s-%s", at.Format("20060102"), strings.ToUpper(id.String()[:8]))
}
