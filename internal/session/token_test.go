package session

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCodec(t *testing.T) {
	_, err := NewCodec("", time.Hour)
	assert.ErrorIs(t, err, ErrEmptySecret)

	c, err := NewCodec("secret", time.Hour)
	require.NoError(t, err)
	assert.Len(t, c.key, keySize)
	assert.Equal(t, time.Hour, c.TTL())
}

func TestDeriveKey(t *testing.T) {
	a1, err := deriveKey("alpha")
	require.NoError(t, err)
	a2, err := deriveKey("alpha")
	require.NoError(t, err)
	b, err := deriveKey("beta")
	require.NoError(t, err)

	assert.Equal(t, a1, a2)
	assert.NotEqual(t, a1, b)
	assert.NotEqual(t, []byte("alpha"), a1)
}

func TestCodec_IssueAndParse(t *testing.T) {
	c, err := NewCodec("secret", time.Hour)
	require.NoError(t, err)

	sid := NewID()
	token, err := c.Issue(sid)
	require.NoError(t, err)

	claims, err := c.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, sid, claims.SessionID())
	assert.Equal(t, issuer, claims.Issuer)
}

func TestCodec_ParseRejects(t *testing.T) {
	c, err := NewCodec("secret", time.Hour)
	require.NoError(t, err)
	other, err := NewCodec("other-secret", time.Hour)
	require.NoError(t, err)

	forged, err := other.Issue(NewID())
	require.NoError(t, err)

	notUUID, err := c.Issue("not-a-uuid")
	require.NoError(t, err)

	expiredCodec, err := NewCodec("secret", time.Hour)
	require.NoError(t, err)
	expiredCodec.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, err := expiredCodec.Issue(NewID())
	require.NoError(t, err)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{RegisteredClaims: jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   NewID(),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not.a.token"},
		{"wrong key", forged},
		{"expired", expired},
		{"subject not a session id", notUUID},
		{"alg none", unsigned},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.Parse(tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestCodec_NeedsRefresh(t *testing.T) {
	c, err := NewCodec("secret", time.Hour)
	require.NoError(t, err)

	fresh := &Claims{RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(50 * time.Minute))}}
	stale := &Claims{RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(10 * time.Minute))}}

	assert.False(t, c.NeedsRefresh(fresh))
	assert.True(t, c.NeedsRefresh(stale))
	assert.True(t, c.NeedsRefresh(&Claims{}))
}

func TestNewID(t *testing.T) {
	assert.NotEqual(t, NewID(), NewID())
	assert.Len(t, NewID(), 36)
}
