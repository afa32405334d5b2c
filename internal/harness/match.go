package harness

import (
	"encoding/json"
	"reflect"
)

// matchSubset reports whether every key in expected is present in actual
// with an equal value. Extra keys in actual are OK.
func matchSubset(actual map[string]interface{}, expected map[string]interface{}) bool {
	for key, expectedVal := range expected {
		actualVal, exists := actual[key]
		if !exists {
			return false
		}
		if !valuesEqual(actualVal, expectedVal) {
			return false
		}
	}
	return true
}

// valuesEqual compares a decoded JSON value with a YAML-decoded expectation.
// The expectation is passed through JSON first so that YAML ints compare
// equal to JSON float64 numbers.
func valuesEqual(actual, expected interface{}) bool {
	return reflect.DeepEqual(actual, normalize(expected))
}

func normalize(v interface{}) interface{} {
	b, err := json.Marshal(v)
	if err != nil {
		return v
	}
	var out interface{}
	if err := json.Unmarshal(b, &out); err != nil {
		return v
	}
	return out
}
