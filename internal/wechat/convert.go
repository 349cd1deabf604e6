package wechat

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// ToStringList coerces an untrusted payload list into strings.
//
// Entries already strings are kept, numeric entries are formatted, and
// anything else becomes the empty string. The output always has the same
// length as the input.
func ToStringList(list []interface{}) []string {
	result := make([]string, 0, len(list))
	for _, item := range list {
		switch v := item.(type) {
		case string:
			result = append(result, v)
		case float64:
			result = append(result, formatJSONNumber(v))
		case json.Number:
			result = append(result, v.String())
		case int:
			result = append(result, strconv.Itoa(v))
		case int64:
			result = append(result, strconv.FormatInt(v, 10))
		default:
			result = append(result, "")
		}
	}
	return result
}

// ToIntList coerces an untrusted payload list into ints.
//
// Integral entries are kept, numeric strings are parsed, and anything else
// becomes zero. The output always has the same length as the input.
func ToIntList(list []interface{}) []int {
	result := make([]int, 0, len(list))
	for _, item := range list {
		switch v := item.(type) {
		case float64:
			result = append(result, int(v))
		case json.Number:
			if n, err := v.Int64(); err == nil {
				result = append(result, int(n))
			} else if f, err := v.Float64(); err == nil {
				result = append(result, int(f))
			} else {
				result = append(result, 0)
			}
		case int:
			result = append(result, v)
		case int64:
			result = append(result, int(v))
		case string:
			if n, err := strconv.ParseFloat(v, 64); err == nil {
				result = append(result, int(n))
			} else {
				result = append(result, 0)
			}
		default:
			result = append(result, 0)
		}
	}
	return result
}

// InterceptTypeCode normalizes the intercept_type value of a detail payload
// into its string code. The vendor sends it either as a string or a number;
// anything unrecognizable yields the empty string.
func InterceptTypeCode(value interface{}) string {
	switch v := value.(type) {
	case string:
		return v
	case float64:
		return formatJSONNumber(v)
	case json.Number:
		return v.String()
	case int:
		return strconv.Itoa(v)
	default:
		return ""
	}
}

// formatJSONNumber renders a JSON float the way an integral value reads,
// avoiding the "1e+06" style for ids that arrive as numbers.
func formatJSONNumber(f float64) string {
	if f == float64(int64(f)) {
		return strconv.FormatInt(int64(f), 10)
	}
	return fmt.Sprintf("%v", f)
}
