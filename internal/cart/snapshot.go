package cart

import (
	"encoding/json"
	"fmt"

	"github.com/angelmondragon/storefront/pkg/enums"
	"github.com/shopspring/decimal"
)

// SnapshotVersion is the version stamped on every persisted snapshot.
const SnapshotVersion = 0

// The persisted layout is {"state":{"items":[...]},"version":0} with camelCase
// item fields so snapshots written by the browser cart can be restored as-is.
type snapshot struct {
	State   snapshotState `json:"state"`
	Version int           `json:"version"`
}

type snapshotState struct {
	Items []snapshotItem `json:"items"`
}

type snapshotItem struct {
	ProductID   string      `json:"productId"`
	Name        string      `json:"name"`
	Slug        string      `json:"slug"`
	Price       json.Number `json:"price"`
	Currency    string      `json:"currency"`
	Quantity    int         `json:"quantity"`
	Image       *Image      `json:"image,omitempty"`
	VariantID   string      `json:"variantId,omitempty"`
	VariantName string      `json:"variantName,omitempty"`
}

// EncodeSnapshot serializes the full line sequence.
func EncodeSnapshot(lines []Line) ([]byte, error) {
	items := make([]snapshotItem, 0, len(lines))
	for _, line := range lines {
		items = append(items, snapshotItem{
			ProductID:   line.ProductID,
			Name:        line.Name,
			Slug:        line.Slug,
			Price:       json.Number(line.Price.String()),
			Currency:    string(line.Currency),
			Quantity:    line.Quantity,
			Image:       line.Image,
			VariantID:   line.VariantID,
			VariantName: line.VariantName,
		})
	}
	return json.Marshal(snapshot{State: snapshotState{Items: items}, Version: SnapshotVersion})
}

// DecodeSnapshot parses a persisted snapshot. Lines with a non-positive
// quantity or no product id are dropped and duplicate identities are merged,
// so the result always satisfies the one-line-per-identity rule.
func DecodeSnapshot(data []byte) ([]Line, error) {
	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode cart snapshot: %w", err)
	}
	if snap.Version != SnapshotVersion {
		return nil, fmt.Errorf("unsupported cart snapshot version %d", snap.Version)
	}

	lines := make([]Line, 0, len(snap.State.Items))
	index := map[Identity]int{}
	for _, item := range snap.State.Items {
		if item.ProductID == "" || item.Quantity <= 0 {
			continue
		}
		price := decimal.Zero
		if item.Price != "" {
			parsed, err := decimal.NewFromString(item.Price.String())
			if err != nil {
				return nil, fmt.Errorf("decode price for %s: %w", item.ProductID, err)
			}
			price = parsed
		}
		line := Line{
			ProductID:   item.ProductID,
			VariantID:   item.VariantID,
			Name:        item.Name,
			Slug:        item.Slug,
			Price:       price,
			Currency:    enums.Currency(item.Currency),
			Quantity:    item.Quantity,
			Image:       item.Image,
			VariantName: item.VariantName,
		}
		if i, ok := index[line.Identity()]; ok {
			lines[i].Quantity += line.Quantity
			continue
		}
		index[line.Identity()] = len(lines)
		lines = append(lines, line)
	}
	return lines, nil
}
