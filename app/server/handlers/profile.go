package handlers

import (
	"boutique-backend/app/server/constants"
	"github.com/alexedwards/argon2id"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"net/http"
)

// ProfileGet 返回当前登录用户自己的信息
func (a *App) ProfileGet(c echo.Context) error {
	// 抓取 user 信息（认证），这里拿到的就是数据库里的当前状态
	user, err, statusCode := a.authUser(c, false)
	if err != nil {
		a.l.Error("failed to auth", zap.Error(err))
		return a.er(c, statusCode)
	}

	return c.JSON(http.StatusOK, userInfoFromModel(user))
}

// ProfileUpdate 只能改非凭据字段，用户名、邮箱、角色都不在这里
func (a *App) ProfileUpdate(c echo.Context) error {
	// 抓取 user 信息（认证）
	user, err, statusCode := a.authUser(c, false)
	if err != nil {
		a.l.Error("failed to auth", zap.Error(err))
		return a.er(c, statusCode)
	}

	rctx := c.Request().Context()

	// 绑定请求体
	var req UserProfileInput
	if err := c.Bind(&req); err != nil {
		a.l.Error("failed to bind request", zap.Error(err))
		return a.er(c, http.StatusBadRequest)
	}

	a.userMapFields(&req, user)

	// 更新用户信息。显式列出字段，让清空某项资料（写空串）也能落库
	if err := a.db.WithContext(rctx).Model(user).
		Select("name", "phone", "address", "city", "post_code", "avatar", "birthday", "gender").
		Updates(user).Error; err != nil {
		a.l.Error("failed to update profile", zap.Uint("id", user.ID), zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}

	return c.JSON(http.StatusOK, userInfoFromModel(user))
}

// ProfilePasswordUpdate 需要先验旧密码再换新密码
func (a *App) ProfilePasswordUpdate(c echo.Context) error {
	// 抓取 user 信息（认证）
	user, err, statusCode := a.authUser(c, false)
	if err != nil {
		a.l.Error("failed to auth", zap.Error(err))
		return a.er(c, statusCode)
	}

	rctx := c.Request().Context()

	// 绑定请求体
	var req struct {
		OldPassword string `json:"old_password"`
		NewPassword string `json:"new_password"`
	}
	if err := c.Bind(&req); err != nil {
		a.l.Error("failed to bind request", zap.Error(err))
		return a.er(c, http.StatusBadRequest)
	}
	if len(req.NewPassword) < constants.PasswordMinLength {
		return a.erMsg(c, http.StatusBadRequest, "password must be at least 6 characters")
	}

	// 校验旧密码
	if match, _, err := argon2id.CheckHash(req.OldPassword, user.Password); err != nil {
		a.l.Error("failed to check password", zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	} else if !match {
		return a.er(c, http.StatusUnauthorized)
	}

	newPasswordHash, err := argon2id.CreateHash(req.NewPassword, argon2id.DefaultParams)
	if err != nil {
		a.l.Error("failed to hash password", zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}

	// 更新用户信息。已签出的 token 不会失效，会话到自然过期为止
	if err := a.db.WithContext(rctx).Model(user).Update("password", newPasswordHash).Error; err != nil {
		a.l.Error("failed to update password", zap.Uint("id", user.ID), zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}

	return c.NoContent(http.StatusOK)
}
