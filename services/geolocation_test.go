package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCountryFromIP(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/203.0.113.10/json/":
			w.Write([]byte(`{"country_name":"Sweden"}`))
		case "/203.0.113.11/json/":
			w.WriteHeader(http.StatusTooManyRequests)
		case "/203.0.113.12/json/":
			w.Write([]byte(`{"country_name":""}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	previous := geoAPIBase
	geoAPIBase = server.URL
	defer func() { geoAPIBase = previous }()

	ctx := context.Background()

	tests := []struct {
		name string
		ip   string
		want string
	}{
		{"resolved", "203.0.113.10", "Sweden"},
		{"service error", "203.0.113.11", "Unknown"},
		{"empty country", "203.0.113.12", "Unknown"},
		{"loopback", "127.0.0.1", "Development"},
		{"private", "192.168.1.20", "Development"},
		{"garbage", "not-an-ip", "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CountryFromIP(ctx, tt.ip); got != tt.want {
				t.Errorf("CountryFromIP(%q) = %q, want %q", tt.ip, got, tt.want)
			}
		})
	}
}
