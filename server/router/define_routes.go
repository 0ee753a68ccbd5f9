// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package router

import (
	"net/http"
	"net/http/pprof"
	"runtime/trace"
	"time"

	"codeberg.org/transtrings/transtrings/config"
	"codeberg.org/transtrings/transtrings/server/middleware"
	"codeberg.org/transtrings/transtrings/server/routes"
)

// DefineRoutes registers the admin routes under the configured route prefix.
func (router *Router) DefineRoutes(h *routes.TranslatableStrings) {
	prefix := config.Global.HTTP.RoutePrefix

	// Translatable strings routes
	router.HandleFunc("GET "+prefix+"/translatable-strings/load", middleware.CatchError(h.Load))
	router.HandleFunc("POST "+prefix+"/translatable-strings/load", middleware.CatchError(h.Load))
	router.HandleFunc("POST "+prefix+"/translatable-strings/update", middleware.CatchError(h.Update))
	router.HandleFunc("GET "+prefix+"/translatable-strings/widget", middleware.CatchError(h.Widget))

	// About routes
	router.HandleFunc("GET "+prefix+"/about", middleware.CatchError(routes.AboutPage))

	if config.Global.Development.InDevelopment {
		registerDebugRoutes(router)
	}
}

var (
	flightRecorder        = trace.NewFlightRecorder(trace.FlightRecorderConfig{MinAge: time.Minute})
	flightRecorderStarted bool
)

func registerDebugRoutes(router *Router) {
	if !flightRecorderStarted {
		if err := flightRecorder.Start(); err != nil {
			panic(err)
		}

		flightRecorderStarted = true
	}

	router.HandleFunc("GET /debug/pprof/", pprof.Index)
	router.HandleFunc("GET /debug/pprof/cmdline", pprof.Cmdline)
	router.HandleFunc("GET /debug/pprof/profile", pprof.Profile)
	router.HandleFunc("GET /debug/pprof/symbol", pprof.Symbol)
	router.HandleFunc("GET /debug/pprof/trace", pprof.Trace)
	router.HandleFunc("GET /debug/flight", func(w http.ResponseWriter, r *http.Request) {
		_, _ = flightRecorder.WriteTo(w)
	})
}
