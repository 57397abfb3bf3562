package hikeusers

import (
	"context"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-router"
	"github.com/stretchr/testify/assert"
)

func TestGetClaims(t *testing.T) {
	tests := []struct {
		name     string
		setupCtx func() context.Context
		wantOK   bool
	}{
		{
			name: "should return claims when present in context",
			setupCtx: func() context.Context {
				claims := &JWTClaims{
					RegisteredClaims: jwt.RegisteredClaims{
						Subject: "user123",
					},
					UID:      "user123",
					UserName: "user123",
				}
				return WithClaimsContext(context.Background(), claims)
			},
			wantOK: true,
		},
		{
			name: "should return false when no claims in context",
			setupCtx: func() context.Context {
				return context.Background()
			},
			wantOK: false,
		},
		{
			name: "should return false when context has wrong type",
			setupCtx: func() context.Context {
				return context.WithValue(context.Background(), claimsCtxKey, "not-a-claims-object")
			},
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := tt.setupCtx()
			gotClaims, gotOK := GetClaims(ctx)

			assert.Equal(t, tt.wantOK, gotOK)
			if tt.wantOK {
				assert.NotNil(t, gotClaims)
				assert.Equal(t, "user123", gotClaims.Subject())
			} else {
				assert.Nil(t, gotClaims)
			}
		})
	}
}

func TestUserContext(t *testing.T) {
	user := &User{Username: "walker"}

	ctx := WithContext(context.Background(), user)
	got, ok := FromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, "walker", got.Username)

	_, ok = FromContext(context.Background())
	assert.False(t, ok)
}

func TestGetRouterClaims(t *testing.T) {
	claims := &JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "walker"},
		Admin:            true,
	}

	ctx := router.NewMockContext()
	ctx.LocalsMock["user"] = claims

	got, ok := GetRouterClaims(ctx, "")
	assert.True(t, ok)
	assert.Equal(t, "walker", got.Subject())
	assert.True(t, IsAdminFromRouter(ctx, ""))

	empty := router.NewMockContext()
	_, ok = GetRouterClaims(empty, "")
	assert.False(t, ok)
	assert.False(t, IsAdminFromRouter(empty, ""))
}
