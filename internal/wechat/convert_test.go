package wechat

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToStringList(t *testing.T) {
	tests := []struct {
		name string
		in   []interface{}
		want []string
	}{
		{
			name: "Strings pass through",
			in:   []interface{}{"damn", "refund"},
			want: []string{"damn", "refund"},
		},
		{
			name: "Numbers are formatted without exponent notation",
			in:   []interface{}{float64(12), float64(1000000)},
			want: []string{"12", "1000000"},
		},
		{
			name: "Unsupported entries become empty strings, length preserved",
			in:   []interface{}{"ok", nil, map[string]interface{}{}},
			want: []string{"ok", "", ""},
		},
		{
			name: "Empty input",
			in:   []interface{}{},
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToStringList(tt.in))
		})
	}
}

func TestToIntList(t *testing.T) {
	tests := []struct {
		name string
		in   []interface{}
		want []int
	}{
		{
			name: "Floats are truncated to ints",
			in:   []interface{}{float64(3), float64(4)},
			want: []int{3, 4},
		},
		{
			name: "Numeric strings are parsed",
			in:   []interface{}{"5", "12"},
			want: []int{5, 12},
		},
		{
			name: "Garbage becomes zero, length preserved",
			in:   []interface{}{"not a number", nil, float64(7)},
			want: []int{0, 0, 7},
		},
		{
			name: "json.Number entries",
			in:   []interface{}{json.Number("9")},
			want: []int{9},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToIntList(tt.in))
		})
	}
}

func TestInterceptTypeCode(t *testing.T) {
	tests := []struct {
		name string
		in   interface{}
		want string
	}{
		{name: "String code", in: "1", want: "1"},
		{name: "Numeric code", in: float64(2), want: "2"},
		{name: "json.Number code", in: json.Number("1"), want: "1"},
		{name: "Missing value", in: nil, want: ""},
		{name: "Unsupported type", in: []interface{}{}, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, InterceptTypeCode(tt.in))
		})
	}
}
