package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"time"
)

// geoAPIBase points at the IP geolocation service; overridable for tests and
// self-hosted mirrors via IP_GEO_API_BASE.
var geoAPIBase = func() string {
	if base := os.Getenv("IP_GEO_API_BASE"); base != "" {
		return base
	}
	return "https://ipapi.co"
}()

var geoHTTPClient = &http.Client{Timeout: 3 * time.Second}

// CountryFromIP resolves an IP address to a country name, best effort. Any
// lookup failure degrades to "Unknown"; loopback and private addresses skip
// the external call entirely.
func CountryFromIP(ctx context.Context, ip string) string {
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return defaultLocation
	}
	if parsed.IsLoopback() || parsed.IsPrivate() {
		return "Development"
	}

	url := fmt.Sprintf("%s/%s/json/", geoAPIBase, ip)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return defaultLocation
	}

	resp, err := geoHTTPClient.Do(req)
	if err != nil {
		log.Printf("IP geolocation lookup failed: %v", err)
		return defaultLocation
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("IP geolocation service returned status %d", resp.StatusCode)
		return defaultLocation
	}

	var payload struct {
		CountryName string `json:"country_name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return defaultLocation
	}
	if payload.CountryName == "" {
		return defaultLocation
	}
	return payload.CountryName
}
