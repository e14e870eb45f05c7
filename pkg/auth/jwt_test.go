package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWTService(t *testing.T) *JWTService {
	t.Helper()
	svc, err := NewJWTService(JWTConfig{
		Secret:     "test-secret-key-for-unit-tests",
		Issuer:     "rockfall-test",
		Expiration: 15 * time.Minute,
	})
	require.NoError(t, err)
	return svc
}

func TestNewJWTService_RequiresSecret(t *testing.T) {
	_, err := NewJWTService(JWTConfig{Issuer: "rockfall"})
	assert.Error(t, err)
}

func TestGenerateAndValidateToken(t *testing.T) {
	svc := newTestJWTService(t)

	token, err := svc.GenerateToken("shift-lead", []string{RoleOperator})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "shift-lead", claims.Subject)
	assert.Equal(t, "rockfall-test", claims.Issuer)
	assert.Equal(t, []string{RoleOperator}, claims.Roles)
	assert.NotEmpty(t, claims.ID)
}

func TestValidateToken_Rejects(t *testing.T) {
	svc := newTestJWTService(t)

	expiredSvc, err := NewJWTService(JWTConfig{Secret: "test-secret-key-for-unit-tests", Issuer: "rockfall-test", Expiration: -time.Hour})
	require.NoError(t, err)
	otherKey, err := NewJWTService(JWTConfig{Secret: "another-secret", Issuer: "rockfall-test"})
	require.NoError(t, err)
	otherIssuer, err := NewJWTService(JWTConfig{Secret: "test-secret-key-for-unit-tests", Issuer: "elsewhere"})
	require.NoError(t, err)

	tests := []struct {
		name   string
		issuer *JWTService
	}{
		{name: "expired", issuer: expiredSvc},
		{name: "wrong signature", issuer: otherKey},
		{name: "wrong issuer", issuer: otherIssuer},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := tt.issuer.GenerateToken("someone", []string{RoleViewer})
			require.NoError(t, err)

			_, err = svc.ValidateToken(token)
			assert.Error(t, err)
		})
	}

	t.Run("garbage", func(t *testing.T) {
		_, err := svc.ValidateToken("not.a.token")
		assert.Error(t, err)
	})
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header  string
		want    string
		wantErr bool
	}{
		{header: "Bearer abc", want: "abc"},
		{header: "bearer  abc ", want: "abc"},
		{header: "", wantErr: true},
		{header: "Basic abc", wantErr: true},
		{header: "Bearer", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			got, err := BearerToken(tt.header)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := BearerToken("")
	assert.True(t, errors.Is(err, ErrMissingToken))
}

func TestClaims_Allows(t *testing.T) {
	viewer := Claims{Roles: []string{RoleViewer}}
	admin := Claims{Roles: []string{RoleAdmin}}

	assert.True(t, viewer.Allows())
	assert.True(t, viewer.Allows(RoleViewer, RoleOperator))
	assert.False(t, viewer.Allows(RoleOperator))
	assert.True(t, admin.Allows(RoleOperator))
	assert.False(t, Claims{}.HasRole(RoleViewer))
}

func TestClaimsFromContext(t *testing.T) {
	_, ok := ClaimsFromContext(context.Background())
	assert.False(t, ok)

	expected := &Claims{Roles: []string{RoleOperator}}
	got, ok := ClaimsFromContext(ContextWithClaims(context.Background(), expected))
	require.True(t, ok)
	assert.Same(t, expected, got)
}
