package handlers

import (
	"boutique-backend/app/server/models"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileGet(t *testing.T) {
	a := newTestApp(t)
	alice := createTestUser(t, a, "alice", "secret1", false)

	c, rec := newTestContext(t, http.MethodGet, "/api/profile", "", signTestToken(t, a, alice))
	require.NoError(t, a.ProfileGet(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var res UserInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, "alice", res.Username)

	// 未登录
	c, rec = newTestContext(t, http.MethodGet, "/api/profile", "", "")
	require.NoError(t, a.ProfileGet(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestProfileUpdate(t *testing.T) {
	a := newTestApp(t)
	alice := createTestUser(t, a, "alice", "secret1", false)

	c, rec := newTestContext(t, http.MethodPut, "/api/profile",
		`{"phone":"123456","city":"Shanghai","gender":"female"}`, signTestToken(t, a, alice))
	require.NoError(t, a.ProfileUpdate(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var user models.User
	require.NoError(t, a.db.First(&user, "id = ?", alice.ID).Error)
	assert.Equal(t, "123456", user.Phone)
	assert.Equal(t, "Shanghai", user.City)
	assert.Equal(t, "female", user.Gender)
	// 没传的字段不动
	assert.Equal(t, "alice", user.Name)
	// 凭据字段不受资料更新影响
	assert.Equal(t, alice.Password, user.Password)
	assert.False(t, user.IsAdmin)
}

func TestProfilePasswordUpdate(t *testing.T) {
	a := newTestApp(t)
	alice := createTestUser(t, a, "alice", "secret1", false)
	token := signTestToken(t, a, alice)

	// 旧密码错，换不了
	c, rec := newTestContext(t, http.MethodPut, "/api/profile/password",
		`{"old_password":"wrong","new_password":"newsecret"}`, token)
	require.NoError(t, a.ProfilePasswordUpdate(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// 新密码太短
	c, rec = newTestContext(t, http.MethodPut, "/api/profile/password",
		`{"old_password":"secret1","new_password":"123"}`, token)
	require.NoError(t, a.ProfilePasswordUpdate(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// 正常换密码
	c, rec = newTestContext(t, http.MethodPut, "/api/profile/password",
		`{"old_password":"secret1","new_password":"newsecret"}`, token)
	require.NoError(t, a.ProfilePasswordUpdate(c))
	require.Equal(t, http.StatusOK, rec.Code)

	// 换完之后旧 token 仍然有效（无状态会话，到期自然失效）
	c, _ = newTestContext(t, http.MethodGet, "/api/profile", "", token)
	user, err, statusCode := a.authUser(c, false)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, user.ID)
	assert.Equal(t, http.StatusOK, statusCode)
}
