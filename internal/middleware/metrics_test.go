package middleware

import "testing"

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		path     string
		expected string
	}{
		{"/health", "/health"},
		{"/metrics", "/metrics"},
		{"/api/calculations", "/api/calculations"},
		{"/api/calculations/0b110e41-9718-4c2f-8d4f-3fb1fbb7a7b1", "/api/calculations/:id"},
		{"/api/calculations/0b110e41-9718-4c2f-8d4f-3fb1fbb7a7b1/profitability", "/api/calculations/:id/profitability"},
		{"/api/calculations/0b110e41-9718-4c2f-8d4f-3fb1fbb7a7b1/scenario", "/api/calculations/:id/scenario"},
		{"/api/ncm/search", "/api/ncm/search"},
		{"/api/ncm/popular", "/api/ncm/popular"},
		{"/api/ncm/85171200", "/api/ncm/:code"},
		{"/api/exchange-rate", "/api/exchange-rate"},
		{"/api/exchange-rate/history", "/api/exchange-rate/history"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := normalizePath(tt.path); got != tt.expected {
				t.Errorf("normalizePath(%q) = %q, want %q", tt.path, got, tt.expected)
			}
		})
	}
}
