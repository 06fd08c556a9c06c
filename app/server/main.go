package main

import (
	"boutique-backend/app/server/handlers"
	"boutique-backend/app/server/inits"
	"boutique-backend/app/server/jwt"
	"boutique-backend/app/server/middlewares"
	"fmt"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"log"
	"time"
)

func main() {
	// 初始化配置
	cfg, err := inits.Config()
	if err != nil {
		log.Fatal(fmt.Errorf("error loading config: %w", err))
	}

	// 初始化日志
	l, err := inits.Logger(!cfg.System.IsProd)
	if err != nil {
		log.Fatal(fmt.Errorf("error initializing logger: %w", err))
	}

	// 切换日志系统
	l.Debug("logger initialized")

	// 初始化数据库连接
	db, err := inits.DB(cfg.System.DBPath, cfg.Security.BootstrapAdminPassword, l)
	if err != nil {
		l.Fatal("error initializing DB connection", zap.Error(err))
	}

	// 初始化 redis 连接
	rdb, err := inits.Redis(cfg.System.RedisConnectionString)
	if err != nil {
		l.Fatal("error initializing Redis connection", zap.Error(err))
	}

	// 初始化 JWT
	j, err := jwt.New(cfg.Security.SignatureSecretKey)
	if err != nil {
		l.Fatal("error initializing JWT", zap.Error(err))
	}

	// 准备 handler app
	handlerApp := handlers.NewApp(l, db, rdb, j)

	// 准备 echo 服务
	e := echo.New()
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:    true,
		LogStatus: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			l.Info("request",
				zap.String("URI", v.URI),
				zap.Int("status", v.Status),
			)

			return nil
		},
	}))
	e.Use(middleware.Recover())

	// 登录接口单独限流
	loginLimiter := middlewares.NewLoginLimiter(1*time.Minute, 10)

	// 公开接口
	e.GET("/healthz", handlerApp.HealthCheck)
	e.POST("/api/auth/register", handlerApp.AuthRegister)
	e.POST("/api/auth/login", handlerApp.AuthLogin, middlewares.LoginLimit(loginLimiter, l))
	e.GET("/api/products", handlerApp.ProductList)
	e.GET("/api/products/:id", handlerApp.ProductInfoGet)
	e.GET("/api/products/:id/comments", handlerApp.CommentListByProduct)

	// 登录后接口
	e.GET("/api/profile", handlerApp.ProfileGet)
	e.PUT("/api/profile", handlerApp.ProfileUpdate)
	e.PUT("/api/profile/password", handlerApp.ProfilePasswordUpdate)
	e.GET("/api/cart", handlerApp.CartGet)
	e.POST("/api/cart", handlerApp.CartAdd)
	e.PUT("/api/cart/:id", handlerApp.CartItemUpdate)
	e.DELETE("/api/cart/:id", handlerApp.CartItemDelete)
	e.POST("/api/checkout", handlerApp.Checkout)
	e.GET("/api/orders", handlerApp.OrderList)
	e.GET("/api/orders/:ref", handlerApp.OrderGet)
	e.POST("/api/products/:id/comments", handlerApp.CommentCreate)
	e.DELETE("/api/comments/:id", handlerApp.CommentDelete)

	// 管理接口
	e.GET("/api/admin/products", handlerApp.ProductAdminList)
	e.POST("/api/admin/products", handlerApp.ProductCreate)
	e.PUT("/api/admin/products/:id", handlerApp.ProductUpdate)
	e.DELETE("/api/admin/products/:id", handlerApp.ProductDelete)
	e.GET("/api/admin/users", handlerApp.UserList)
	e.POST("/api/admin/users", handlerApp.UserCreate)
	e.GET("/api/admin/users/:id", handlerApp.UserInfoGet)
	e.PUT("/api/admin/users/:id", handlerApp.UserInfoUpdate)
	e.DELETE("/api/admin/users/:id", handlerApp.UserDelete)
	e.PUT("/api/admin/users/:id/role", handlerApp.UserRoleUpdate)
	e.PUT("/api/admin/users/:id/password", handlerApp.UserPasswordUpdate)
	e.GET("/api/admin/comments", handlerApp.CommentAdminList)
	e.DELETE("/api/admin/comments/:id", handlerApp.CommentDelete)
	e.GET("/api/admin/orders", handlerApp.OrderAdminList)
	e.PUT("/api/admin/orders/:ref/status", handlerApp.OrderStatusUpdate)

	// 启动 echo 服务
	if err := e.Start(cfg.System.Listen); err != nil {
		l.Fatal("shutting down the server", zap.Error(err))
	}
}
