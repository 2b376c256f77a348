package catalog

// FindVariantByOptions returns the variant agreeing with every picked value.
// The selection must pin every option name any variant declares; a partial
// or empty selection never matches. A variant that lacks a selected option
// name does not match on that name.
func FindVariantByOptions(variants []ProductVariant, selection Selection) (ProductVariant, bool) {
	if selection.Len() == 0 {
		return ProductVariant{}, false
	}
	for _, name := range declaredNames(variants) {
		if _, ok := selection.Chosen(name); !ok {
			return ProductVariant{}, false
		}
	}

	for _, variant := range variants {
		if agreesOnSelection(variant, selection) {
			return variant, true
		}
	}
	return ProductVariant{}, false
}

// IsOptionValueAvailable reports whether picking value for optionName can
// still reach an in-stock variant. Axes with no pick yet are wildcards.
func IsOptionValueAvailable(optionName, value string, selection Selection, variants []ProductVariant) bool {
	hypothetical := selection.With(optionName, value)
	for _, variant := range variants {
		if variant.InStock() && compatible(variant, hypothetical) {
			return true
		}
	}
	return false
}

func agreesOnSelection(variant ProductVariant, selection Selection) bool {
	for name, want := range selection {
		if want == "" {
			continue
		}
		got, ok := variant.OptionValue(name)
		if !ok || got != want {
			return false
		}
	}
	return true
}

// compatible checks only the axes the variant declares, treating unpicked
// axes as matching anything.
func compatible(variant ProductVariant, selection Selection) bool {
	for _, opt := range variant.Options {
		want, ok := selection.Chosen(opt.Name)
		if ok && opt.Value != want {
			return false
		}
	}
	return true
}

func declaredNames(variants []ProductVariant) []string {
	seen := map[string]struct{}{}
	var names []string
	for _, variant := range variants {
		for _, opt := range variant.Options {
			if _, ok := seen[opt.Name]; ok {
				continue
			}
			seen[opt.Name] = struct{}{}
			names = append(names, opt.Name)
		}
	}
	return names
}
