package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	j, err := New("some-secret")
	require.NoError(t, err)
	require.NotNil(t, j)

	// 空密钥不允许启动
	j, err = New("")
	require.Error(t, err)
	assert.Nil(t, j)
}

func TestSignAndParse(t *testing.T) {
	j, err := New("some-secret")
	require.NoError(t, err)

	expires := time.Now().Add(time.Hour).Unix()
	token, err := j.SignToken(&User{
		ID:       42,
		Username: "alice",
		Expires:  expires,
	})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	user, err := j.ParseUser(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), user.ID)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, expires, user.Expires)
}

func TestParseUserInvalid(t *testing.T) {
	j, err := New("some-secret")
	require.NoError(t, err)

	valid, err := j.SignToken(&User{ID: 1, Username: "alice", Expires: time.Now().Add(time.Hour).Unix()})
	require.NoError(t, err)

	// 其他密钥签出来的 token
	other, err := New("another-secret")
	require.NoError(t, err)
	forged, err := other.SignToken(&User{ID: 1, Username: "alice", Expires: time.Now().Add(time.Hour).Unix()})
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not-a-token"},
		{"forged", forged},
		{"tampered", valid + "x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, err := j.ParseUser(tt.token)
			require.Error(t, err)
			assert.Nil(t, user)
		})
	}
}

func TestParseUserExpired(t *testing.T) {
	j, err := New("some-secret")
	require.NoError(t, err)

	// 已经过期的 token ，签名本身没问题
	token, err := j.SignToken(&User{
		ID:       1,
		Username: "alice",
		Expires:  time.Now().Add(-time.Minute).Unix(),
	})
	require.NoError(t, err)

	user, err := j.ParseUser(token)
	require.Error(t, err)
	assert.Nil(t, user)
}
