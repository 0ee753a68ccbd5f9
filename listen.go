// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/user"
	"strconv"

	"github.com/rs/zerolog/log"

	"codeberg.org/transtrings/transtrings/config"
)

var (
	errChmodSocket = errors.New("failed to change unix socket permissions")
	errChownSocket = errors.New("failed to change unix socket ownership")
)

// listen opens the unix socket when one is configured and the TCP address otherwise.
func listen(cfg *config.ServerConfig) (net.Listener, error) {
	var lc net.ListenConfig

	if path := cfg.Basic.UnixSocket; path != "" {
		ln, err := lc.Listen(context.Background(), "unix", path)
		if err != nil {
			return nil, fmt.Errorf("failed to listen on unix socket %s: %w", path, err)
		}

		if err := prepareSocket(path, cfg.Basic.UnixSocketUser, cfg.Basic.UnixSocketGroup, cfg.Basic.UnixSocketPermissions); err != nil {
			_ = ln.Close()

			return nil, err
		}

		log.Info().
			Str("address", path).
			Msg("Listening on Unix domain socket")

		return ln, nil
	}

	ln, err := lc.Listen(context.Background(), "tcp", net.JoinHostPort(cfg.Basic.Host, cfg.Basic.Port))
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s:%s: %w", cfg.Basic.Host, cfg.Basic.Port, err)
	}

	addr := ln.Addr().String()

	// The port differs from the configured one when it was 0.
	_, port, err := net.SplitHostPort(addr)
	if err != nil {
		_ = ln.Close()

		return nil, fmt.Errorf("failed to parse listener address %q: %w", addr, err)
	}

	log.Info().
		Str("address", addr).
		Str("url", "http://localhost:"+port+cfg.HTTP.RoutePrefix+"/translatable-strings/widget").
		Msg("Listening on address")

	return ln, nil
}

// prepareSocket sets the owner and the permissions of the socket file.
// Empty owner and group are left unchanged.
func prepareSocket(path, owner, group string, perm os.FileMode) error {
	uid, err := lookupID(owner, func(name string) (string, error) {
		u, err := user.Lookup(name)
		if err != nil {
			return "", err
		}

		return u.Uid, nil
	})
	if err != nil {
		return fmt.Errorf("%w: user %q: %w", errChownSocket, owner, err)
	}

	gid, err := lookupID(group, func(name string) (string, error) {
		g, err := user.LookupGroup(name)
		if err != nil {
			return "", err
		}

		return g.Gid, nil
	})
	if err != nil {
		return fmt.Errorf("%w: group %q: %w", errChownSocket, group, err)
	}

	if uid != -1 || gid != -1 {
		if err := os.Chown(path, uid, gid); err != nil {
			return fmt.Errorf("%w: %w", errChownSocket, err)
		}
	}

	if err := os.Chmod(path, perm); err != nil {
		return fmt.Errorf("%w: %w", errChmodSocket, err)
	}

	return nil
}

// lookupID resolves a numeric ID or a name through lookup. An empty value is -1.
func lookupID(value string, lookup func(name string) (string, error)) (int, error) {
	if value == "" {
		return -1, nil
	}

	if id, err := strconv.Atoi(value); err == nil {
		return id, nil
	}

	raw, err := lookup(value)
	if err != nil {
		return -1, err
	}

	return strconv.Atoi(raw)
}
