// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package limiter

import (
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"

	"codeberg.org/transtrings/transtrings/config"
	"codeberg.org/transtrings/transtrings/server/request_context"
	"codeberg.org/transtrings/transtrings/server/routes"
)

// Rate limiting header names.
//
// ref: https://www.ietf.org/archive/id/draft-polli-ratelimit-headers-02.html
const (
	HeaderRateLimitLimit     string = "RateLimit-Limit"
	HeaderRateLimitRemaining string = "RateLimit-Remaining"
	HeaderRateLimitReset     string = "RateLimit-Reset"
)

var (
	errRateLimited   = errors.New("rate limit exceeded")
	errUnknownClient = errors.New("could not determine client address")
)

// Evaluate is the entrypoint to the limiter middleware.
//
// Addresses in the pass-list are never limited. Every other request consumes a
// token from the bucket of the client's network and is rejected with
// 429 Too Many Requests when the bucket is empty.
func Evaluate(w http.ResponseWriter, r *http.Request, next http.Handler) {
	defer DoCleanup()

	ctx := request_context.FromRequest(r)

	addr, ok := clientAddr(r)
	if !ok {
		ctx.StatusCode = http.StatusBadRequest
		ctx.RequestError = errUnknownClient

		routes.ErrorResponse(w, r)

		return
	}

	if inPassList(addr, config.Global.Limiter.PassIPs) {
		next.ServeHTTP(w, r)

		return
	}

	network := networkOf(addr, config.Global.Limiter.IPv4Prefix, config.Global.Limiter.IPv6Prefix).String()
	d := checkRateLimit(getOrCreateLimiter(network))

	headers := w.Header()
	headers.Set(HeaderRateLimitLimit, strconv.Itoa(d.limit))
	headers.Set(HeaderRateLimitRemaining, strconv.Itoa(d.remaining))
	headers.Set(HeaderRateLimitReset, strconv.Itoa(ceilSeconds(d)))

	if !d.allowed {
		log.Warn().
			Str("request_id", ctx.RequestID).
			Str("ip", addr.String()).
			Str("network", network).
			Msg("Rate limit exceeded")

		headers.Set("Retry-After", strconv.Itoa(max(ceilSeconds(d), 1)))

		ctx.StatusCode = http.StatusTooManyRequests
		ctx.RequestError = errRateLimited

		routes.ErrorResponse(w, r)

		return
	}

	next.ServeHTTP(w, r)
}

func ceilSeconds(d decision) int {
	return int(math.Ceil(d.reset.Seconds()))
}
