package catalog

// SelectionState tracks how far a shopper has configured a product.
type SelectionState string

const (
	NoSelection            SelectionState = "no_selection"
	PartialSelection       SelectionState = "partial_selection"
	FullSelectionMatched   SelectionState = "full_selection_matched"
	FullSelectionUnmatched SelectionState = "full_selection_unmatched"
)

// Classify places a selection in the selection state machine. The result is
// full only when every declared option has a value.
func Classify(options []ProductOption, variants []ProductVariant, selection Selection) (SelectionState, *ProductVariant) {
	picked := 0
	for _, opt := range options {
		if _, ok := selection.Chosen(opt.Name); ok {
			picked++
		}
	}

	switch {
	case picked == 0:
		return NoSelection, nil
	case picked < len(options):
		return PartialSelection, nil
	}

	variant, ok := FindVariantByOptions(variants, selection)
	if !ok {
		return FullSelectionUnmatched, nil
	}
	return FullSelectionMatched, &variant
}

// CanAddToCart is true only for a matched selection whose variant has stock.
func CanAddToCart(state SelectionState, variant *ProductVariant) bool {
	return state == FullSelectionMatched && variant != nil && variant.InStock()
}

// ValueAvailability drives one option button.
type ValueAvailability struct {
	Value     string `json:"value"`
	Selected  bool   `json:"selected"`
	Available bool   `json:"available"`
}

// OptionAvailability lists the buttons of one option axis.
type OptionAvailability struct {
	Name   string              `json:"name"`
	Values []ValueAvailability `json:"values"`
}

// Availability computes the selected/available flags for every option value.
func Availability(options []ProductOption, variants []ProductVariant, selection Selection) []OptionAvailability {
	out := make([]OptionAvailability, 0, len(options))
	for _, opt := range options {
		axis := OptionAvailability{Name: opt.Name, Values: make([]ValueAvailability, 0, len(opt.Values))}
		current, _ := selection.Chosen(opt.Name)
		for _, value := range opt.Values {
			axis.Values = append(axis.Values, ValueAvailability{
				Value:     value,
				Selected:  value == current,
				Available: IsOptionValueAvailable(opt.Name, value, selection, variants),
			})
		}
		out = append(out, axis)
	}
	return out
}
