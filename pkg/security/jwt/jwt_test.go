package jwt

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artem13815/library/pkg/auth"
)

const (
	testSecret = "unit-test-secret"
	testIssuer = "library-service"
)

func testUser() auth.User {
	return auth.User{ID: uuid.New(), Username: "alice", Email: "alice@example.com"}
}

func TestGenerateAndVerify(t *testing.T) {
	gen := NewGenerator(testSecret, testIssuer, time.Hour)
	user := testUser()

	token, err := gen.Generate(context.Background(), user)
	require.NoError(t, err)

	claims, err := Verify(token, testSecret, testIssuer)
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), claims.Subject)
	assert.Equal(t, "alice", claims.Username)
	assert.NotEmpty(t, claims.ID, "token must carry a jti for revocation")
}

func TestVerify_Failures(t *testing.T) {
	gen := NewGenerator(testSecret, testIssuer, time.Hour)
	token, err := gen.Generate(context.Background(), testUser())
	require.NoError(t, err)

	t.Run("wrong_secret", func(t *testing.T) {
		_, err := Verify(token, "other-secret", testIssuer)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong_issuer", func(t *testing.T) {
		_, err := Verify(token, testSecret, "someone-else")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := Verify("not.a.token", testSecret, testIssuer)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		expiredGen := NewGenerator(testSecret, testIssuer, -time.Minute)
		expired, err := expiredGen.Generate(context.Background(), testUser())
		require.NoError(t, err)
		_, err = Verify(expired, testSecret, testIssuer)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestClaims_TTLRemaining(t *testing.T) {
	gen := NewGenerator(testSecret, testIssuer, time.Hour)
	token, err := gen.Generate(context.Background(), testUser())
	require.NoError(t, err)
	claims, err := Verify(token, testSecret, testIssuer)
	require.NoError(t, err)

	remaining := claims.TTLRemaining(time.Now().UTC())
	assert.Greater(t, remaining, 59*time.Minute)
	assert.LessOrEqual(t, remaining, time.Hour)

	assert.Equal(t, time.Duration(0), claims.TTLRemaining(time.Now().UTC().Add(2*time.Hour)))
}

func TestTokenFromHeader(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
	}{
		{name: "bearer_prefix", header: "Bearer abc.def.ghi", want: "abc.def.ghi"},
		{name: "lowercase_bearer", header: "bearer abc", want: "abc"},
		{name: "bare_token", header: "abc.def.ghi", want: "abc.def.ghi"},
		{name: "empty", header: "", want: ""},
		{name: "whitespace", header: "   ", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TokenFromHeader(tt.header))
		})
	}
}
