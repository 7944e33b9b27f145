package gateway

import (
	"slices"
	"testing"
)

func TestSelectRecipients(t *testing.T) {
	tests := []struct {
		name      string
		requested []string
		defaults  []string
		want      []string
	}{
		{
			name:      "request list takes precedence",
			requested: []string{"+821011111111"},
			defaults:  []string{"+821022222222"},
			want:      []string{"+821011111111"},
		},
		{
			name:     "falls back to profile defaults",
			defaults: []string{"+821022222222", "+821033333333"},
			want:     []string{"+821022222222", "+821033333333"},
		},
		{
			name: "both empty",
			want: nil,
		},
		{
			// No dedup, no reorder: the list is used verbatim.
			name:      "duplicates and order preserved",
			requested: []string{"+821033333333", "+821011111111", "+821033333333"},
			want:      []string{"+821033333333", "+821011111111", "+821033333333"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := selectRecipients(tt.requested, tt.defaults)
			if !slices.Equal(got, tt.want) {
				t.Errorf("selectRecipients() = %v, want %v", got, tt.want)
			}
		})
	}
}
