package middleware

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/taskpro/backend/api/transport"
	"github.com/taskpro/backend/domain"
	"github.com/taskpro/backend/pkg/httpcontext"
)

// TokenVerifier validates an access token and resolves its live session.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (userID, sessionID string, err error)
}

// SessionAuth rejects requests without a valid bearer token. Verification
// includes a session lookup, so logged-out tokens stop working immediately.
// The verified identity travels to handlers via request headers, replacing
// anything the client may have supplied there.
func SessionAuth(verifier TokenVerifier, logger *zap.Logger) func(fasthttp.RequestHandler) fasthttp.RequestHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			ctx.Request.Header.Del(httpcontext.HeaderUserID)
			ctx.Request.Header.Del(httpcontext.HeaderSessionID)

			tokenString := extractToken(ctx)
			if tokenString == "" {
				unauthorized(ctx, "authentication required")
				return
			}

			userID, sessionID, err := verifier.Verify(ctx, tokenString)
			if err != nil {
				logger.Warn("rejected access token", zap.Error(err))
				unauthorized(ctx, "invalid or expired token")
				return
			}

			ctx.Request.Header.Set(httpcontext.HeaderUserID, userID)
			ctx.Request.Header.Set(httpcontext.HeaderSessionID, sessionID)
			next(ctx)
		}
	}
}

func unauthorized(ctx *fasthttp.RequestCtx, message string) {
	ctx.Response.Header.SetContentType("application/json")
	ctx.SetStatusCode(fasthttp.StatusUnauthorized)
	body, _ := json.Marshal(transport.NewError(string(domain.ErrCodeUnauthorized), message))
	ctx.SetBody(body)
}

func extractToken(ctx *fasthttp.RequestCtx) string {
	header := string(ctx.Request.Header.Peek("Authorization"))
	if header == "" {
		return ""
	}
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return header
}
