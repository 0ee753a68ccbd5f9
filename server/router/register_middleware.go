// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package router

import (
	"codeberg.org/transtrings/transtrings/config"
	"codeberg.org/transtrings/transtrings/server/middleware"
	"codeberg.org/transtrings/transtrings/server/middleware/limiter"
	"codeberg.org/transtrings/transtrings/server/middleware/set_request_context"
	"codeberg.org/transtrings/transtrings/server/request_context"
)

// RegisterMiddleware installs the middleware chain, matching each request's
// preferred locale with matcher.
func (router *Router) RegisterMiddleware(matcher request_context.LocaleMatcher) error {
	// the first middleware is the most outer / first executed one
	router.Use(middleware.WithServerTiming)
	router.Use(middleware.NormalizeURL)                         // handle trailing slashes
	router.Use(set_request_context.WithRequestContext(matcher)) // needed for everything else
	router.Use(middleware.SetResponseHeaders)                   // all responses need this

	if config.Global.HTTP.Compression {
		compress, err := middleware.Compress()
		if err != nil {
			return err
		}

		router.Use(compress)
	}

	if config.Global.Limiter.Enabled {
		router.Use(limiter.Evaluate)
	}

	return nil
}
