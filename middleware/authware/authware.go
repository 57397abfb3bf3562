package authware

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-router"
)

var (
	defaultTokenLookup       = "header:" + router.HeaderAuthorization
	ErrJWTMissingOrMalformed = errors.New("missing or malformed JWT")
)

// TokenValidator interface for validating tokens without import cycles.
// This mirrors the TokenService.Validate method from the root package.
type TokenValidator interface {
	Validate(tokenString string) (AuthClaims, error)
}

// AuthClaims interface for structured claims without import cycles.
// This mirrors the AuthClaims interface from the root package.
type AuthClaims interface {
	Subject() string
	UserID() string
	Username() string
	IsAdmin() bool
}

type Config struct {
	// Filter skips the middleware entirely when it returns true
	Filter func(router.Context) bool

	// TokenValidator validates raw tokens. When nil, a local validator
	// is built from the signing key configuration below.
	TokenValidator TokenValidator

	SigningKey  SigningKey
	SigningKeys map[string]SigningKey
	JWKSetURLs  []string
	KeyFunc     jwt.Keyfunc

	ContextKey  string
	TokenLookup string
	AuthScheme  string

	// ContextEnricher is an optional function to propagate claims to the
	// standard Go context after successful validation.
	ContextEnricher func(c context.Context, claims AuthClaims) context.Context
}

type SigningKey struct {
	JWTAlg string
	Key    any
}

// New builds the optional-auth middleware. A request with no token, or
// with a token that fails validation, proceeds as anonymous: nothing is
// stored under the context key and no error is returned. Only a token
// that validates attaches claims. Route guards decide what anonymous
// requests may do.
func New(config ...Config) router.MiddlewareFunc {
	return func(hf router.HandlerFunc) router.HandlerFunc {
		cfg := GetDefaultConfig(config...)
		return func(ctx router.Context) error {
			if cfg.Filter != nil && cfg.Filter(ctx) {
				return ctx.Next()
			}

			raw, err := ExtractRawTokenFromContext(ctx, cfg.getExtractors())
			if err != nil || raw == "" {
				return ctx.Next()
			}

			claims, err := cfg.TokenValidator.Validate(raw)
			if err != nil {
				return ctx.Next()
			}

			ctx.Locals(cfg.ContextKey, claims)

			if cfg.ContextEnricher != nil {
				stdCtx := ctx.Context()
				ctx.SetContext(cfg.ContextEnricher(stdCtx, claims))
			}

			return ctx.Next()
		}
	}
}

func GetDefaultConfig(config ...Config) (cfg Config) {
	if len(config) > 0 {
		cfg = config[0]
	}

	if cfg.ContextKey == "" {
		cfg.ContextKey = "user"
	}

	if cfg.TokenLookup == "" {
		cfg.TokenLookup = defaultTokenLookup
	}

	if cfg.AuthScheme == "" {
		cfg.AuthScheme = "Bearer"
	}

	if cfg.TokenValidator == nil {
		if cfg.SigningKey.Key == nil && len(cfg.SigningKeys) == 0 && len(cfg.JWKSetURLs) == 0 && cfg.KeyFunc == nil {
			panic("AUTH: middleware configuration: At least one of the following is required: TokenValidator, KeyFunc, JWKSetURLs, SigningKeys, or SigningKey.")
		}

		if cfg.KeyFunc == nil {
			if len(cfg.SigningKeys) > 0 || len(cfg.JWKSetURLs) > 0 {
				var givenKeys map[string]keyfunc.GivenKey
				if cfg.SigningKeys != nil {
					givenKeys = make(map[string]keyfunc.GivenKey, len(cfg.SigningKeys))
					for kid, key := range cfg.SigningKeys {
						givenKeys[kid] = keyfunc.NewGivenCustom(key.Key, keyfunc.GivenKeyOptions{
							Algorithm: key.JWTAlg,
						})
					}
				}
				if len(cfg.JWKSetURLs) > 0 {
					var err error
					cfg.KeyFunc, err = multiKeyfunc(givenKeys, cfg.JWKSetURLs)
					if err != nil {
						panic("Failed to create keyfunc from JWK Set URL: " + err.Error())
					}
				} else {
					cfg.KeyFunc = keyfunc.NewGiven(givenKeys).Keyfunc
				}
			} else {
				cfg.KeyFunc = signingKeyFunc(cfg.SigningKey)
			}
		}

		cfg.TokenValidator = &keyValidator{keyFunc: cfg.KeyFunc}
	}

	return cfg
}

// keyValidator validates tokens directly against a keyfunc when no
// TokenValidator implementation was supplied
type keyValidator struct {
	keyFunc jwt.Keyfunc
}

type jwtClaims struct {
	jwt.RegisteredClaims
	UID      string `json:"uid,omitempty"`
	UserName string `json:"username,omitempty"`
	Admin    bool   `json:"is_admin"`
}

func (c *jwtClaims) Subject() string { return c.RegisteredClaims.Subject }

func (c *jwtClaims) UserID() string {
	if c.UID != "" {
		return c.UID
	}
	return c.RegisteredClaims.Subject
}

func (c *jwtClaims) Username() string {
	if c.UserName != "" {
		return c.UserName
	}
	return c.RegisteredClaims.Subject
}

func (c *jwtClaims) IsAdmin() bool { return c.Admin }

func (v *keyValidator) Validate(tokenString string) (AuthClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwtClaims{}, v.keyFunc)
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*jwtClaims)
	if !ok || !token.Valid {
		return nil, ErrJWTMissingOrMalformed
	}

	return claims, nil
}

func multiKeyfunc(givenKeys map[string]keyfunc.GivenKey, jwtSetUrls []string) (jwt.Keyfunc, error) {
	opts := keyfuncOptions(givenKeys)
	m := make(map[string]keyfunc.Options, len(jwtSetUrls))
	for _, url := range jwtSetUrls {
		m[url] = opts
	}
	mopts := keyfunc.MultipleOptions{
		KeySelector: keyfunc.KeySelectorFirst,
	}
	multi, err := keyfunc.GetMultiple(m, mopts)
	if err != nil {
		return nil, fmt.Errorf("failed to get JWT URLs: %w", err)
	}
	return multi.Keyfunc, nil
}

func keyfuncOptions(givenKeys map[string]keyfunc.GivenKey) keyfunc.Options {
	return keyfunc.Options{
		GivenKeys: givenKeys,
		RefreshErrorHandler: func(err error) {
			log.Printf("failed to do a background refresh of JWT set: %s", err)
		},
		RefreshInterval:   time.Hour,
		RefreshRateLimit:  time.Minute * 5,
		RefreshTimeout:    time.Second * 10,
		RefreshUnknownKID: true,
	}
}

func signingKeyFunc(key SigningKey) jwt.Keyfunc {
	return func(token *jwt.Token) (any, error) {
		if key.JWTAlg != "" {
			alg, ok := token.Header["alg"].(string)
			if !ok {
				return nil, fmt.Errorf("unexpected JWT signing method: expected %q got: missing json type", key.JWTAlg)
			}
			if alg != key.JWTAlg {
				return nil, fmt.Errorf("unexpected jwt signing method: expected: %q: got: %q", key.JWTAlg, alg)
			}
		}
		return key.Key, nil
	}
}

func (cfg *Config) getExtractors() []JWTExtractor {
	return GetExtractors(cfg.TokenLookup, cfg.AuthScheme)
}
