package s3_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"backoffice/internal/storage/s3"
)

func TestPublicObjectURL(t *testing.T) {
	tests := []struct {
		name     string
		base     string
		endpoint string
		key      string
		want     string
	}{
		{
			name: "public base url",
			base: "https://cdn.example.cl",
			key:  "invoices/invoice-1-a.pdf",
			want: "https://cdn.example.cl/invoices/invoice-1-a.pdf",
		},
		{
			name:     "custom endpoint",
			endpoint: "http://localhost:9000",
			key:      "invoices/invoice-1-a.pdf",
			want:     "http://localhost:9000/invoices/invoices/invoice-1-a.pdf",
		},
		{
			name: "aws virtual hosted",
			key:  "invoices/invoice-1-a.pdf",
			want: "https://invoices.s3.sa-east-1.amazonaws.com/invoices/invoice-1-a.pdf",
		},
		{
			name: "escaped segments",
			base: "https://cdn.example.cl",
			key:  "invoices/factura marzo#1.pdf",
			want: "https://cdn.example.cl/invoices/factura%20marzo%231.pdf",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s3.PublicObjectURL(tt.base, tt.endpoint, "sa-east-1", "invoices", tt.key)
			assert.Equal(t, tt.want, got)
		})
	}
}
