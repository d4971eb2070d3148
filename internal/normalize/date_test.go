package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDate(t *testing.T) {
	tests := []struct {
		raw  string
		want string
		ok   bool
	}{
		{"15 de marzo del 2024", "2024-03-15", true},
		{"1 de Enero de 2023", "2023-01-01", true},
		{"Santiago, 30 de setiembre del 2022", "2022-09-30", true},
		{"15-03-2024", "2024-03-15", true},
		{"05/11/2023", "2023-11-05", true},
		{"2024-02-29", "2024-02-29", true},
		{"31 de febrero del 2024", "", false},
		{"15 de brumario del 2024", "", false},
		{"2023-02-29", "", false},
		{"mañana", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := Date(tt.raw)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
