package handlers

import (
	"boutique-backend/app/server/constants"
	"boutique-backend/app/server/jwt"
	"boutique-backend/app/server/models"
	"errors"
	"github.com/alexedwards/argon2id"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"net/http"
	"strings"
	"time"
)

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginToken struct {
	Token string `json:"token"`
}

func (a *App) AuthRegister(c echo.Context) error {
	rctx := c.Request().Context()

	// 绑定请求体
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		a.l.Error("failed to bind json body", zap.Error(err))
		return a.er(c, http.StatusBadRequest)
	}

	// 校验表单内容
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email)) // 邮箱统一存小写
	if req.Username == "" {
		return a.erMsg(c, http.StatusBadRequest, "username is required")
	}
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		return a.erMsg(c, http.StatusBadRequest, "a valid email is required")
	}
	if len(req.Password) < constants.PasswordMinLength {
		return a.erMsg(c, http.StatusBadRequest, "password must be at least 6 characters")
	}

	// 预检查重名，只是为了能给出友好提示；真正兜底的是数据库的唯一索引
	var counter int64
	if err := a.db.WithContext(rctx).Model(&models.User{}).
		Where("username = ? OR email = ?", req.Username, req.Email).
		Count(&counter).Error; err != nil {
		a.l.Error("failed to check user existence", zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	} else if counter > 0 {
		return a.erMsg(c, http.StatusBadRequest, "username or email already taken")
	}

	// 处理密码
	passwordHash, err := argon2id.CreateHash(req.Password, argon2id.DefaultParams)
	if err != nil {
		a.l.Error("failed to hash password", zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}

	// 创建用户，自助注册永远不是管理员
	user := models.User{
		Username: req.Username,
		Email:    req.Email,
		Name:     req.Name,
		IsAdmin:  false,
		Password: passwordHash,
	}
	if err := a.db.WithContext(rctx).Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// 并发注册撞在唯一索引上，同样按重名处理
			return a.erMsg(c, http.StatusBadRequest, "username or email already taken")
		}
		a.l.Error("failed to create user", zap.String("username", user.Username), zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}

	return c.JSON(http.StatusCreated, userInfoFromModel(&user))
}

func (a *App) AuthLogin(c echo.Context) error {
	rctx := c.Request().Context()

	// 绑定请求体
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		a.l.Error("failed to bind json body", zap.Error(err))
		return a.er(c, http.StatusBadRequest)
	}

	// 没有写用户名或密码
	if req.Username == "" || req.Password == "" {
		return a.er(c, http.StatusBadRequest)
	}

	// 先按用户名查，查不到再按邮箱查（严格小写比较，没有任何变体特判）
	var user models.User
	if err := a.db.WithContext(rctx).First(&user, "username = ?", req.Username).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			a.l.Error("failed to find user", zap.Error(err))
			return a.er(c, http.StatusInternalServerError)
		}
		if err := a.db.WithContext(rctx).First(&user, "email = ?", strings.ToLower(req.Username)).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// 用户不存在和密码错误对外是同一种失败
				return a.er(c, http.StatusUnauthorized)
			}
			a.l.Error("failed to find user", zap.Error(err))
			return a.er(c, http.StatusInternalServerError)
		}
	}

	// 提取密码 hash 并进行校验
	if match, _, err := argon2id.CheckHash(req.Password, user.Password); err != nil {
		a.l.Error("failed to check password", zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	} else if !match {
		// 密码不一致
		return a.er(c, http.StatusUnauthorized)
	}

	// 签出 JWT
	expires := time.Now().Add(constants.AuthTokenDuration)
	token, err := a.jwt.SignToken(&jwt.User{
		ID:       user.ID,
		Username: user.Username,
		Expires:  expires.Unix(),
	})
	if err != nil {
		a.l.Error("failed to sign token", zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}

	// 返回
	return c.JSON(http.StatusOK, &LoginToken{
		Token: token,
	})
}
