package authware

import (
	"github.com/goliatone/go-router"
)

// GuardConfig tunes how route guards locate claims and report denials
type GuardConfig struct {
	ContextKey   string
	ErrorHandler func(ctx router.Context, err error) error
}

// ErrUnauthorized is what guards hand to the error handler on denial
var ErrUnauthorized = &guardError{message: "Unauthorized"}

type guardError struct {
	message string
}

func (e *guardError) Error() string { return e.message }

func getGuardConfig(config ...GuardConfig) GuardConfig {
	var cfg GuardConfig
	if len(config) > 0 {
		cfg = config[0]
	}

	if cfg.ContextKey == "" {
		cfg.ContextKey = "user"
	}

	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = func(ctx router.Context, err error) error {
			return ctx.JSON(router.StatusUnauthorized, map[string]any{
				"error": err.Error(),
			})
		}
	}

	return cfg
}

func claimsFromContext(ctx router.Context, key string) (AuthClaims, bool) {
	raw := ctx.Locals(key)
	if raw == nil {
		return nil, false
	}
	claims, ok := raw.(AuthClaims)
	return claims, ok
}

// RequireAdmin rejects any request that does not carry admin claims.
// Anonymous requests fail the presence check before the flag is ever
// consulted.
func RequireAdmin(config ...GuardConfig) router.MiddlewareFunc {
	cfg := getGuardConfig(config...)
	return func(hf router.HandlerFunc) router.HandlerFunc {
		return func(ctx router.Context) error {
			claims, ok := claimsFromContext(ctx, cfg.ContextKey)
			if !ok {
				return cfg.ErrorHandler(ctx, ErrUnauthorized)
			}

			if !claims.IsAdmin() {
				return cfg.ErrorHandler(ctx, ErrUnauthorized)
			}

			return ctx.Next()
		}
	}
}

// RequireSelfOrAdmin admits the account owner named by the route param
// or any admin. The presence check runs first so anonymous requests are
// rejected without touching claim fields.
func RequireSelfOrAdmin(param string, config ...GuardConfig) router.MiddlewareFunc {
	cfg := getGuardConfig(config...)
	return func(hf router.HandlerFunc) router.HandlerFunc {
		return func(ctx router.Context) error {
			claims, ok := claimsFromContext(ctx, cfg.ContextKey)
			if !ok {
				return cfg.ErrorHandler(ctx, ErrUnauthorized)
			}

			if claims.Username() == ctx.Param(param) {
				return ctx.Next()
			}

			if claims.IsAdmin() {
				return ctx.Next()
			}

			return cfg.ErrorHandler(ctx, ErrUnauthorized)
		}
	}
}
