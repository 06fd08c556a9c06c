package handlers

import (
	"boutique-backend/app/server/models"
	"errors"
	"fmt"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
	"net/http"
	"strings"
)

// extractBearer 从 Authorization 头里取出 token ，格式不符时返回空串
func extractBearer(headerValue string) string {
	if headerValue == "" {
		return ""
	}

	splits := strings.Split(headerValue, " ")
	if len(splits) != 2 {
		return ""
	}

	if strings.ToLower(splits[0]) != "bearer" {
		return ""
	}

	return splits[1]
}

func (a *App) authUser(c echo.Context, requireAdminRole bool) (*models.User, error, int) {
	// 提取 token
	token := extractBearer(c.Request().Header.Get("Authorization"))
	if token == "" {
		return nil, fmt.Errorf("missing auth token"), http.StatusUnauthorized
	}

	// 验证 token
	jwtUser, err := a.jwt.ParseUser(token)
	if err != nil {
		// 无效的 token ，过期、伪造等情况不向外区分
		return nil, fmt.Errorf("failed to parse token: %w", err), http.StatusUnauthorized
	}

	rctx := c.Request().Context()

	// token 只用来定位身份，权限信息（以及用户是否还存在）每次都重新查库，
	// 这样降权、删号在下一个请求就能生效，不受 token 自然有效期影响
	var user models.User
	if err := a.db.WithContext(rctx).First(&user, "id = ?", jwtUser.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// 用户已不存在，按未认证处理，不暴露存在性
			return nil, fmt.Errorf("token user not found"), http.StatusUnauthorized
		} else {
			return nil, fmt.Errorf("failed to find user: %w", err), http.StatusInternalServerError
		}
	}

	// 验证权限
	if requireAdminRole && !user.IsAdmin {
		return nil, fmt.Errorf("requires admin role"), http.StatusForbidden
	}

	return &user, nil, http.StatusOK
}
