package catalog

// Selection maps an option name to the chosen value. Empty values count as
// not chosen.
type Selection map[string]string

// With returns a copy of the selection with name set to value.
func (s Selection) With(name, value string) Selection {
	out := make(Selection, len(s)+1)
	for k, v := range s {
		out[k] = v
	}
	out[name] = value
	return out
}

// Chosen returns the value for name when one has been picked.
func (s Selection) Chosen(name string) (string, bool) {
	v, ok := s[name]
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// Len counts the picked values.
func (s Selection) Len() int {
	n := 0
	for _, v := range s {
		if v != "" {
			n++
		}
	}
	return n
}

// DefaultSelection picks the first value of every option that has one.
func DefaultSelection(options []ProductOption) Selection {
	sel := Selection{}
	for _, opt := range options {
		if len(opt.Values) > 0 {
			sel[opt.Name] = opt.Values[0]
		}
	}
	return sel
}
