// File: middleware/geolocation.go
package middleware

import (
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"retreatly/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ContextKeyGeoPoint is where the resolved user coordinate lands in the gin
// context. Absent when resolution failed; the only consequence is that the
// distance sort mode is disabled for the request.
const ContextKeyGeoPoint = "userGeoPoint"

// GeoLocation represents the geolocation information for an IP.
type GeoLocation struct {
	IP        string  `json:"ip"`
	City      string  `json:"city"`
	Region    string  `json:"region"`
	Country   string  `json:"country_name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Timezone  string  `json:"timezone"`
}

// geoCache caches geolocation results keyed by IP address.
var geoCache = make(map[string]*GeoLocation)
var cacheMutex sync.RWMutex

// isPrivateIP checks if an IP is private or loopback.
func isPrivateIP(ip string) bool {
	parsedIP := net.ParseIP(ip)
	if parsedIP == nil {
		return false
	}
	if parsedIP.IsLoopback() {
		return true
	}
	privateIPBlocks := []*net.IPNet{
		{IP: net.IPv4(10, 0, 0, 0), Mask: net.CIDRMask(8, 32)},
		{IP: net.IPv4(172, 16, 0, 0), Mask: net.CIDRMask(12, 32)},
		{IP: net.IPv4(192, 168, 0, 0), Mask: net.CIDRMask(16, 32)},
	}
	for _, block := range privateIPBlocks {
		if block.Contains(parsedIP) {
			return true
		}
	}
	return false
}

// resolveGeolocation retrieves geolocation data from an external API (using
// ipapi.co) and caches the result. Private IPs and API failures resolve to
// nil rather than an error: geolocation is best-effort.
func resolveGeolocation(ip string, logger *zap.Logger) *GeoLocation {
	cacheMutex.RLock()
	if geo, exists := geoCache[ip]; exists {
		cacheMutex.RUnlock()
		return geo
	}
	cacheMutex.RUnlock()

	if isPrivateIP(ip) {
		logger.Debug("Client IP is private; skipping geolocation", zap.String("ip", ip))
		return nil
	}

	url := fmt.Sprintf("https://ipapi.co/%s/json/", ip)
	client := http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get(url)
	if err != nil {
		logger.Warn("Failed to query external geolocation API", zap.String("ip", ip), zap.Error(err))
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logger.Warn("External geolocation API returned non-OK status", zap.String("ip", ip), zap.Int("status", resp.StatusCode))
		return nil
	}

	var geo GeoLocation
	if err := json.NewDecoder(resp.Body).Decode(&geo); err != nil {
		logger.Warn("Failed to decode geolocation response", zap.String("ip", ip), zap.Error(err))
		return nil
	}
	if geo.Latitude == 0 && geo.Longitude == 0 {
		return nil
	}

	cacheMutex.Lock()
	geoCache[ip] = &geo
	cacheMutex.Unlock()

	return &geo
}

// GeolocationMiddleware retrieves the client's IP, resolves it to a
// coordinate, and sets the resolved GeoPoint in the context for the
// distance sort mode. Resolution failure never fails the request.
func GeolocationMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := zap.L()

		clientIP := getClientIP(c)
		if clientIP == "" {
			c.Next()
			return
		}

		if geo := resolveGeolocation(clientIP, logger); geo != nil {
			point := models.NewGeoPoint(geo.Latitude, geo.Longitude)
			c.Set(ContextKeyGeoPoint, &point)
		}
		c.Next()
	}
}
