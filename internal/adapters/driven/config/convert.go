// Package config holds the value conversions shared by the config stores.
// TOML decoding yields int64, float64 and []any; in-memory callers pass
// native Go values. Both shapes are accepted.
package config

// ToInt converts a numeric config value to int.
func ToInt(val any) (int, bool) {
	switch v := val.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}

// ToFloat converts a numeric config value to float64.
func ToFloat(val any) (float64, bool) {
	switch v := val.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}

// ToStringSlice converts a string array config value.
// Non-string elements are dropped.
func ToStringSlice(val any) []string {
	switch v := val.(type) {
	case []string:
		return v
	case []any:
		result := make([]string, 0, len(v))
		for _, item := range v {
			if str, ok := item.(string); ok {
				result = append(result, str)
			}
		}
		return result
	default:
		return nil
	}
}

// ToFloatSlice converts a numeric array config value. It returns nil if
// any element is not numeric.
func ToFloatSlice(val any) []float64 {
	switch v := val.(type) {
	case []float64:
		return v
	case []any:
		result := make([]float64, len(v))
		for i, item := range v {
			f, ok := ToFloat(item)
			if !ok {
				return nil
			}
			result[i] = f
		}
		return result
	case []int64:
		result := make([]float64, len(v))
		for i, item := range v {
			result[i] = float64(item)
		}
		return result
	default:
		return nil
	}
}
