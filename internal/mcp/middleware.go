package mcp

import (
	"context"
	"fmt"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/todos/internal/identity"
)

// authMiddleware implements bearer token authentication as MCP middleware.
func authMiddleware(resolver identity.Resolver) sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			// Protocol handshake is public.
			if method == "initialize" || method == "ping" || strings.HasPrefix(method, "notifications/") {
				return next(ctx, method, req)
			}

			extra := req.GetExtra()
			if extra == nil || extra.Header == nil {
				return nil, fmt.Errorf("%w: missing headers", identity.ErrUnauthorized)
			}

			auth := extra.Header.Get("Authorization")
			token := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
			if token == "" {
				return nil, fmt.Errorf("%w: missing bearer token", identity.ErrUnauthorized)
			}

			id, err := resolver.Resolve(ctx, token)
			if err != nil {
				return nil, err
			}
			if id.UserID == "" {
				return nil, fmt.Errorf("%w: invalid bearer token", identity.ErrUnauthorized)
			}

			return next(identity.WithIdentity(ctx, id), method, req)
		}
	}
}

// staticIdentityMiddleware injects a fixed identity when auth is disabled.
func staticIdentityMiddleware(id identity.Identity) sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			return next(identity.WithIdentity(ctx, id), method, req)
		}
	}
}
