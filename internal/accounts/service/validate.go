package service

// fieldRule pairs a wire-level field name with its value. Optional
// fields are simply not listed. Rules are checked in declaration order
// so validation messages name fields in the order clients send them.
type fieldRule struct {
	name  string
	value string
}

// requireFields returns a ValidationError naming every empty required
// field, or nil when all are populated.
func requireFields(rules ...fieldRule) error {
	var missing []string
	for _, r := range rules {
		if r.value == "" {
			missing = append(missing, r.name)
		}
	}
	if len(missing) > 0 {
		return &ValidationError{Fields: missing}
	}
	return nil
}
