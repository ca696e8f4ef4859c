package graph

import "strings"

// Partial-update inputs distinguish three states per field: omitted (no
// change), provided null (clear), and provided value. The helpers below make
// that split explicit instead of leaning on interface{} nil checks at every
// call site.

type optionalField struct {
	value    interface{}
	provided bool
}

func field(input map[string]interface{}, key string) optionalField {
	v, ok := input[key]
	return optionalField{value: v, provided: ok}
}

func (f optionalField) isNull() bool {
	return f.provided && f.value == nil
}

func (f optionalField) stringValue() (string, bool) {
	if !f.provided || f.value == nil {
		return "", false
	}
	s, ok := f.value.(string)
	return s, ok
}

func (f optionalField) intValue() (int, bool) {
	if !f.provided || f.value == nil {
		return 0, false
	}
	n, ok := f.value.(int)
	return n, ok
}

func (f optionalField) boolValue() (bool, bool) {
	if !f.provided || f.value == nil {
		return false, false
	}
	b, ok := f.value.(bool)
	return b, ok
}

func (f optionalField) stringSliceValue() ([]string, bool) {
	if !f.provided || f.value == nil {
		return nil, false
	}
	raw, ok := f.value.([]interface{})
	if !ok {
		return nil, false
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		s, ok := v.(string)
		if !ok {
			return nil, false
		}
		out = append(out, s)
	}
	return out, true
}

// requiredTitle trims a mandatory free-text title, rejecting values that are
// empty after trimming.
func requiredTitle(value interface{}) (string, error) {
	s, _ := value.(string)
	title := strings.TrimSpace(s)
	if title == "" {
		return "", errBadInput("Title is required")
	}
	return title, nil
}

func inputMap(args map[string]interface{}) map[string]interface{} {
	input, _ := args["input"].(map[string]interface{})
	if input == nil {
		input = map[string]interface{}{}
	}
	return input
}
