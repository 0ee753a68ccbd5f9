// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

// Package router maps the admin routes to their handlers behind the middleware chain.
package router

import (
	"net/http"

	"codeberg.org/transtrings/transtrings/server/middleware"
)

// Router is an http.ServeMux behind an ordered middleware chain.
type Router struct {
	*http.ServeMux

	middlewares []middleware.Middleware
	chain       http.Handler
}

// NewRouter returns a Router without middleware.
func NewRouter() *Router {
	mux := http.NewServeMux()

	return &Router{ServeMux: mux, chain: mux}
}

// Use appends m to the chain. The first middleware added runs first.
func (router *Router) Use(m middleware.Middleware) {
	router.middlewares = append(router.middlewares, m)

	var h http.Handler = router.ServeMux
	for i := len(router.middlewares) - 1; i >= 0; i-- {
		h = middleware.Wrap(router.middlewares[i], h)
	}

	router.chain = h
}

func (router *Router) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	router.chain.ServeHTTP(w, r)
}
