package handlers

import (
	"boutique-backend/app/server/constants"
	"boutique-backend/app/server/jwt"
	"boutique-backend/app/server/models"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const testSecret = "test-signature-secret"

// newTestApp 用临时文件上的 sqlite 搭一个完整的 App 。
// redis 指向一个连不上的地址：缓存读写失败在代码里都是降级处理，正好让测试只走数据库路径
func newTestApp(t *testing.T) *App {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Comment{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
	))

	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})

	j, err := jwt.New(testSecret)
	require.NoError(t, err)

	return NewApp(zap.NewNop(), db, rdb, j)
}

func createTestUser(t *testing.T, a *App, username string, password string, isAdmin bool) *models.User {
	t.Helper()

	hash, err := argon2id.CreateHash(password, argon2id.DefaultParams)
	require.NoError(t, err)

	user := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Name:     username,
		IsAdmin:  isAdmin,
		Password: hash,
	}
	require.NoError(t, a.db.Create(user).Error)
	return user
}

func createTestProduct(t *testing.T, a *App, name string, price int64, stock int64, published bool) *models.Product {
	t.Helper()

	product := &models.Product{
		Name:        name,
		Category:    "test",
		Price:       price,
		Stock:       stock,
		IsPublished: published,
	}
	require.NoError(t, a.db.Create(product).Error)
	return product
}

func signTestToken(t *testing.T, a *App, user *models.User) string {
	t.Helper()

	token, err := a.jwt.SignToken(&jwt.User{
		ID:       user.ID,
		Username: user.Username,
		Expires:  time.Now().Add(constants.AuthTokenDuration).Unix(),
	})
	require.NoError(t, err)
	return token
}

func uintToParam(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

// newTestContext 构造一个经过 echo 的请求上下文， token 为空表示匿名请求
func newTestContext(t *testing.T, method string, target string, body string, token string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	return echo.New().NewContext(req, rec), rec
}
