package constants

import (
	"strings"
	"time"
)

// Redis Cache Configuration
// This file centralizes all Redis keys and TTL values used by busdesk
// Pattern: busdesk:{module}:{operation}:{identifier}:{params?}

// ================== CACHE TTL DURATIONS ==================

// Semi-Static Data (Medium TTL: changes occasionally)
const (
	TTL_SEMI_STATIC_LONG = 4 * time.Hour // 4 hours - for coach layouts
)

// Session Data (Short TTL: tied to a booking flow)
const (
	TTL_SESSION_MEDIUM = 30 * time.Minute // 30 minutes - for payment redirect context
)

// ================== REDIS KEY PREFIXES ==================

const (
	CACHE_PREFIX = "busdesk"
)

// ================== LAYOUTS MODULE ==================

const (
	CACHE_KEY_LAYOUT = CACHE_PREFIX + ":layouts:bus:" // + bus-plate:type:seat-type
)

const (
	TTL_LAYOUT = TTL_SEMI_STATIC_LONG
)

// ================== SESSIONS MODULE ==================

const (
	CACHE_KEY_PAYMENT_CONTEXT = CACHE_PREFIX + ":sessions:payment:ref:" // + booking-reference
)

const (
	TTL_PAYMENT_CONTEXT = TTL_SESSION_MEDIUM
)

// ================== RATE LIMIT ==================

const (
	CACHE_KEY_RATE_LIMIT = CACHE_PREFIX + ":ratelimit:" // + type:client-ip
)

// ================== KEY BUILDERS ==================

// BuildLayoutKey builds the cache key for a bus plate / seat type layout
func BuildLayoutKey(busPlate, seatType string) string {
	if seatType == "" {
		seatType = "any"
	}
	return CACHE_KEY_LAYOUT + normalizeKeyPart(busPlate) + ":type:" + normalizeKeyPart(seatType)
}

// BuildPaymentContextKey builds the key mirroring a booking's payment context
func BuildPaymentContextKey(bookingReference string) string {
	return CACHE_KEY_PAYMENT_CONTEXT + bookingReference
}

// BuildRateLimitKey builds the sliding window key for a client
func BuildRateLimitKey(limitType, clientIP string) string {
	return CACHE_KEY_RATE_LIMIT + limitType + ":" + clientIP
}

func normalizeKeyPart(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), " ", "")
}
