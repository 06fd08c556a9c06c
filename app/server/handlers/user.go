package handlers

import (
	"boutique-backend/app/server/constants"
	"boutique-backend/app/server/models"
	"errors"
	"github.com/alexedwards/argon2id"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"net/http"
	"strings"
)

type UserInfo struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	IsAdmin  bool   `json:"is_admin"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	City     string `json:"city"`
	PostCode string `json:"post_code"`
	Avatar   string `json:"avatar"`
	Birthday string `json:"birthday"`
	Gender   string `json:"gender"`
}

type UserProfileInput struct {
	Name     *string `json:"name"`
	Phone    *string `json:"phone"`
	Address  *string `json:"address"`
	City     *string `json:"city"`
	PostCode *string `json:"post_code"`
	Avatar   *string `json:"avatar"`
	Birthday *string `json:"birthday"`
	Gender   *string `json:"gender"`
}

type UserCreateRequest struct {
	Username string  `json:"username"`
	Email    string  `json:"email"`
	Password string  `json:"password"`
	IsAdmin  *bool   `json:"is_admin"`
	Name     *string `json:"name"`
}

type UserListResponse struct {
	Limit   int        `json:"limit"`
	PageMax int64      `json:"page_max"`
	List    []UserInfo `json:"list"`
}

// 密码 hash 永远不进响应体
func userInfoFromModel(user *models.User) *UserInfo {
	return &UserInfo{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		Name:     user.Name,
		IsAdmin:  user.IsAdmin,
		Phone:    user.Phone,
		Address:  user.Address,
		City:     user.City,
		PostCode: user.PostCode,
		Avatar:   user.Avatar,
		Birthday: user.Birthday,
		Gender:   user.Gender,
	}
}

func (a *App) userMapFields(req *UserProfileInput, user *models.User) {
	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}
	if req.Address != nil {
		user.Address = *req.Address
	}
	if req.City != nil {
		user.City = *req.City
	}
	if req.PostCode != nil {
		user.PostCode = *req.PostCode
	}
	if req.Avatar != nil {
		user.Avatar = *req.Avatar
	}
	if req.Birthday != nil {
		user.Birthday = *req.Birthday
	}
	if req.Gender != nil {
		user.Gender = *req.Gender
	}
}

func (a *App) UserCreate(c echo.Context) error {
	// 抓取 user 信息（认证）
	_, err, statusCode := a.authUser(c, true)
	if err != nil {
		a.l.Error("failed to auth", zap.Error(err))
		return a.er(c, statusCode)
	}

	rctx := c.Request().Context()

	// 绑定请求体
	var req UserCreateRequest
	if err := c.Bind(&req); err != nil {
		a.l.Error("failed to bind request", zap.Error(err))
		return a.er(c, http.StatusBadRequest)
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Username == "" || req.Email == "" {
		return a.er(c, http.StatusBadRequest)
	}
	if len(req.Password) < constants.PasswordMinLength {
		return a.erMsg(c, http.StatusBadRequest, "password must be at least 6 characters")
	}

	// 处理密码
	passwordHash, err := argon2id.CreateHash(req.Password, argon2id.DefaultParams)
	if err != nil {
		a.l.Error("failed to hash password", zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}

	// 创建用户，管理员通道可以直接指定角色
	user := models.User{
		Username: req.Username,
		Email:    req.Email,
		Password: passwordHash,
	}
	if req.IsAdmin != nil {
		user.IsAdmin = *req.IsAdmin
	}
	a.userMapFields(&UserProfileInput{
		Name: req.Name,
	}, &user)

	if err := a.db.WithContext(rctx).Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return a.erMsg(c, http.StatusBadRequest, "username or email already taken")
		}
		a.l.Error("failed to create user", zap.String("username", user.Username), zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}

	return c.JSON(http.StatusCreated, userInfoFromModel(&user))
}

func (a *App) UserList(c echo.Context) error {
	// 抓取 user 信息（认证）
	_, err, statusCode := a.authUser(c, true)
	if err != nil {
		a.l.Error("failed to auth", zap.Error(err))
		return a.er(c, statusCode)
	}

	rctx := c.Request().Context()

	var (
		users      []models.User
		usersCount int64
	)

	showAll, page, limit := a.parsePagination(queryParamUint(c, "page"), queryParamUint(c, "limit"))
	queryBase := a.db.WithContext(rctx).Model(&models.User{}).Order("id ASC")
	if !showAll {
		queryBase = queryBase.Limit(limit).Offset(page * limit)
	}

	if err := queryBase.Find(&users).Error; err != nil {
		a.l.Error("failed to get user list", zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}
	if err := a.db.WithContext(rctx).Model(&models.User{}).Count(&usersCount).Error; err != nil {
		a.l.Error("failed to count user", zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}

	resUsers := []UserInfo{}
	for _, user := range users {
		resUsers = append(resUsers, *userInfoFromModel(&user))
	}

	return c.JSON(http.StatusOK, &UserListResponse{
		Limit:   limit,
		PageMax: a.calcMaxPage(usersCount, showAll, limit),
		List:    resUsers,
	})
}

func (a *App) UserInfoGet(c echo.Context) error {
	// 抓取 user 信息（认证）
	_, err, statusCode := a.authUser(c, true)
	if err != nil {
		a.l.Error("failed to auth", zap.Error(err))
		return a.er(c, statusCode)
	}

	id, err := pathParamID(c)
	if err != nil {
		return a.er(c, http.StatusBadRequest)
	}

	rctx := c.Request().Context()

	// 从数据库中获得指定的用户
	var user models.User
	if err := a.db.WithContext(rctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return a.er(c, http.StatusNotFound)
		} else {
			a.l.Error("failed to get user", zap.Uint("id", id), zap.Error(err))
			return a.er(c, http.StatusInternalServerError)
		}
	}

	return c.JSON(http.StatusOK, userInfoFromModel(&user))
}

func (a *App) UserInfoUpdate(c echo.Context) error {
	// 抓取 user 信息（认证）
	_, err, statusCode := a.authUser(c, true)
	if err != nil {
		a.l.Error("failed to auth", zap.Error(err))
		return a.er(c, statusCode)
	}

	id, err := pathParamID(c)
	if err != nil {
		return a.er(c, http.StatusBadRequest)
	}

	rctx := c.Request().Context()

	// 绑定请求体
	var req UserProfileInput
	if err := c.Bind(&req); err != nil {
		a.l.Error("failed to bind request", zap.Error(err))
		return a.er(c, http.StatusBadRequest)
	}

	// 从数据库中获得指定的用户
	var user models.User
	if err := a.db.WithContext(rctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return a.er(c, http.StatusNotFound)
		} else {
			a.l.Error("failed to get user", zap.Uint("id", id), zap.Error(err))
			return a.er(c, http.StatusInternalServerError)
		}
	}

	a.userMapFields(&req, &user)

	// 更新用户信息。显式列出字段，让清空某项资料（写空串）也能落库
	if err := a.db.WithContext(rctx).Model(&user).
		Select("name", "phone", "address", "city", "post_code", "avatar", "birthday", "gender").
		Updates(&user).Error; err != nil {
		a.l.Error("failed to update user", zap.Uint("id", id), zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}

	return c.JSON(http.StatusOK, userInfoFromModel(&user))
}

func (a *App) UserRoleUpdate(c echo.Context) error {
	// 抓取 user 信息（认证）
	actor, err, statusCode := a.authUser(c, true)
	if err != nil {
		a.l.Error("failed to auth", zap.Error(err))
		return a.er(c, statusCode)
	}

	id, err := pathParamID(c)
	if err != nil {
		return a.er(c, http.StatusBadRequest)
	}

	rctx := c.Request().Context()

	// 绑定请求体
	var req struct {
		IsAdmin *bool `json:"is_admin"`
	}
	if err := c.Bind(&req); err != nil {
		a.l.Error("failed to bind request", zap.Error(err))
		return a.er(c, http.StatusBadRequest)
	}
	if req.IsAdmin == nil {
		return a.er(c, http.StatusBadRequest)
	}

	// 不允许摘掉自己的管理员标记，避免把系统锁死
	if actor.ID == id && !*req.IsAdmin {
		return a.erMsg(c, http.StatusBadRequest, "cannot revoke own admin role")
	}

	// 从数据库中获得指定的用户
	var user models.User
	if err := a.db.WithContext(rctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return a.er(c, http.StatusNotFound)
		} else {
			a.l.Error("failed to get user", zap.Uint("id", id), zap.Error(err))
			return a.er(c, http.StatusInternalServerError)
		}
	}

	// 更新用户信息，未过期的旧 token 下一个请求就会按新角色处理
	if err := a.db.WithContext(rctx).Model(&user).Update("is_admin", *req.IsAdmin).Error; err != nil {
		a.l.Error("failed to update user", zap.Uint("id", id), zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}

	return c.JSON(http.StatusOK, userInfoFromModel(&user))
}

func (a *App) UserPasswordUpdate(c echo.Context) error {
	// 抓取 user 信息（认证）
	_, err, statusCode := a.authUser(c, true)
	if err != nil {
		a.l.Error("failed to auth", zap.Error(err))
		return a.er(c, statusCode)
	}

	id, err := pathParamID(c)
	if err != nil {
		return a.er(c, http.StatusBadRequest)
	}

	rctx := c.Request().Context()

	// 绑定请求体
	var req struct {
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		a.l.Error("failed to bind request", zap.Error(err))
		return a.er(c, http.StatusBadRequest)
	}
	if len(req.Password) < constants.PasswordMinLength {
		return a.erMsg(c, http.StatusBadRequest, "password must be at least 6 characters")
	}

	// 从数据库中获得指定的用户
	var user models.User
	if err := a.db.WithContext(rctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return a.er(c, http.StatusNotFound)
		} else {
			a.l.Error("failed to get user", zap.Uint("id", id), zap.Error(err))
			return a.er(c, http.StatusInternalServerError)
		}
	}

	newPasswordHash, err := argon2id.CreateHash(req.Password, argon2id.DefaultParams)
	if err != nil {
		a.l.Error("failed to hash password", zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}

	// 更新用户信息。已签出的 token 不会失效，会话到自然过期为止
	if err := a.db.WithContext(rctx).Model(&user).Update("password", newPasswordHash).Error; err != nil {
		a.l.Error("failed to update user", zap.Uint("id", id), zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}

	return c.NoContent(http.StatusOK)
}

func (a *App) UserDelete(c echo.Context) error {
	// 抓取 user 信息（认证）
	actor, err, statusCode := a.authUser(c, true)
	if err != nil {
		a.l.Error("failed to auth", zap.Error(err))
		return a.er(c, statusCode)
	}

	id, err := pathParamID(c)
	if err != nil {
		return a.er(c, http.StatusBadRequest)
	}

	// 不允许删除自己
	if actor.ID == id {
		return a.erMsg(c, http.StatusBadRequest, "cannot delete own account")
	}

	rctx := c.Request().Context()

	// 删除用户
	if err := a.db.WithContext(rctx).Delete(&models.User{}, id).Error; err != nil {
		a.l.Error("failed to delete user", zap.Uint("id", id), zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}

	return c.NoContent(http.StatusOK)
}
