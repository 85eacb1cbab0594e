package middleware

import "testing"

func TestIsOriginAllowed(t *testing.T) {
	testCases := []struct {
		name   string
		origin string
		config CORSConfig
		want   bool
	}{
		{
			name:   "allow all",
			origin: "http://example.com",
			config: CORSConfig{AllowAllOrigins: true},
			want:   true,
		},
		{
			name:   "listed origin",
			origin: "http://localhost:8051",
			config: CORSConfig{AllowedOrigins: []string{"http://localhost:8051"}},
			want:   true,
		},
		{
			name:   "case insensitive match",
			origin: "http://LOCALHOST:8051",
			config: CORSConfig{AllowedOrigins: []string{"http://localhost:8051"}},
			want:   true,
		},
		{
			name:   "unlisted origin",
			origin: "http://evil.example.com",
			config: CORSConfig{AllowedOrigins: []string{"http://localhost:8051"}},
			want:   false,
		},
		{
			name:   "wildcard entry",
			origin: "http://anything.example.com",
			config: CORSConfig{AllowedOrigins: []string{"*"}},
			want:   true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsOriginAllowed(tc.origin, tc.config); got != tc.want {
				t.Errorf("IsOriginAllowed(%q) = %v, want %v", tc.origin, got, tc.want)
			}
		})
	}
}
