// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package middleware provides the HTTP middleware of the admin server.

Every middleware has the Middleware signature and is chained by router.Router
in the order given to router.RegisterMiddleware. Handlers returning an error
are adapted with CatchError.
*/
package middleware
