package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractAPIKey(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		want    string
	}{
		{name: "x-api-key header", headers: map[string]string{"X-Api-Key": "key-123"}, want: "key-123"},
		{name: "bearer token", headers: map[string]string{"Authorization": "Bearer key-456"}, want: "key-456"},
		{
			name:    "x-api-key wins over bearer",
			headers: map[string]string{"X-Api-Key": "key-123", "Authorization": "Bearer key-456"},
			want:    "key-123",
		},
		{name: "basic auth ignored", headers: map[string]string{"Authorization": "Basic dXNlcjpwYXNz"}, want: ""},
		{name: "no headers", headers: nil, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/api/hub/scan-status", nil)
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, extractAPIKey(r))
		})
	}
}
