package apisports

import (
	"net/http"
	"strconv"
	"strings"
)

const (
	headerAPIKey         = "x-apisports-key"
	headerQuotaRemaining = "x-ratelimit-requests-remaining"
	headerQuotaLimit     = "x-ratelimit-requests-limit"
)

// quotaFromHeaders reads the daily quota headers. Both must be present and
// numeric for the quota to be Known.
func quotaFromHeaders(header http.Header) Quota {
	if header == nil {
		return Quota{}
	}

	remaining, okRemaining := headerInt(header, headerQuotaRemaining)
	limit, okLimit := headerInt(header, headerQuotaLimit)
	if !okRemaining || !okLimit {
		return Quota{}
	}

	return Quota{Remaining: remaining, Limit: limit, Known: true}
}

func headerInt(header http.Header, key string) (int, bool) {
	raw := strings.TrimSpace(header.Get(key))
	if raw == "" {
		return 0, false
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return value, true
}
