// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package audit

import (
	"context"
	"encoding/base64"
	"fmt"
	"runtime/trace"
	"strconv"
	"time"

	servertiming "github.com/mitchellh/go-server-timing"
	"github.com/rs/zerolog/log"
)

// Span represents a unit of work in flight: an HTTP request being served,
// a file being scanned or a translation file being rewritten.
type Span struct {
	// only these fields are set automatically
	task     *trace.Task
	start    time.Time
	duration time.Duration
	metric   *servertiming.Metric

	Destination TrafficDestination
	RequestID   string
	// Method is the HTTP method, or the operation for filesystem spans ("scan", "read", "write").
	Method string
	// URL is the request URL, or the path for filesystem spans.
	URL        string
	StatusCode int
	Error      error
	// Size is the number of bytes sent or processed.
	Size int
	// Matches is the number of strings a scan produced.
	Matches int
}

// TrafficDestination describes the logical destination of a span.
type TrafficDestination string

// Constants for traffic destinations.
const (
	ToUser       TrafficDestination = "user"
	ToFilesystem TrafficDestination = "fs"
)

func (span Span) ServerTimingName() string {
	// base64 without trailing '=' match the syntax
	return string(span.Destination) + "$" + span.Method + "$" + base64.RawURLEncoding.EncodeToString([]byte(span.URL))
}

func (span *Span) Begin(ctx context.Context) context.Context {
	span.start = time.Now()

	ctx, span.task = trace.NewTask(ctx, string(span.Destination)+"."+span.Method)
	if servertimingContext := servertiming.FromContext(ctx); servertimingContext != nil {
		span.metric = servertimingContext.NewMetric(span.ServerTimingName())
		span.metric.Extra = make(map[string]string)
		span.metric.Extra["start"] = strconv.FormatFloat(float64(span.start.UnixNano())/float64(time.Millisecond), 'f', -1, 64)
	}

	return ctx
}

// End records the duration of the span. Calling it more than once is a no-op.
func (span *Span) End() {
	if span.task != nil {
		span.duration = time.Since(span.start)
		span.task.End()

		if span.metric != nil {
			span.metric.Duration = span.duration
		}

		span.task = nil
	}
}

func (span Span) Log() {
	event := log.Debug()

	if span.Error != nil {
		event = log.Warn()
	}

	event.Str("sys", string(span.Destination))
	event.Str("method", span.Method)
	event.Str("url", span.URL)

	if span.Destination == ToUser {
		event.Int("status_code", span.StatusCode)
	} else {
		event.Int("matches", span.Matches)
	}

	event.Str("len", humanizeSize(span.Size))
	event.Dur("dur", span.duration)
	event.Str("destination", string(span.Destination))

	if span.RequestID != "" {
		event.Str("request_id", span.RequestID)
	}

	if span.Error != nil {
		event.Err(span.Error)
	}

	event.Send()
}

const (
	bytesInKB = 1024
	bytesInMB = bytesInKB * bytesInKB
	bytesInGB = bytesInMB * bytesInKB
)

func humanizeSize(x int) string {
	if x < bytesInKB {
		return strconv.Itoa(x)
	}

	if x < bytesInMB {
		return fmt.Sprintf("%.2fK", float64(x)/bytesInKB)
	}

	if x < bytesInGB {
		return fmt.Sprintf("%.2fM", float64(x)/bytesInMB)
	}

	return fmt.Sprintf("%.2fG", float64(x)/bytesInGB)
}
