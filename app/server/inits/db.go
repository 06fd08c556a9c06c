package inits

import (
	"boutique-backend/app/server/models"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"github.com/alexedwards/argon2id"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func DB(path string, bootstrapAdminPassword string, l *zap.Logger) (db *gorm.DB, err error) {
	// 打开连接
	// TranslateError 让唯一约束冲突映射成 gorm.ErrDuplicatedKey ，注册时用于判重
	if db, err = gorm.Open(sqlite.Open(path), &gorm.Config{TranslateError: true}); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// 迁移
	if err = mig(db); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	// 初始化启动数据
	if err = initData(db, bootstrapAdminPassword, l); err != nil {
		return nil, fmt.Errorf("failed to init data into database: %w", err)
	}

	// 返回
	return db, nil
}

func mig(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Comment{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
	)
}

func initData(db *gorm.DB, bootstrapAdminPassword string, l *zap.Logger) (err error) {
	// 查询现有记录数量
	var counter int64

	// 初始化用户
	if err = db.Model(&models.User{}).Count(&counter).Error; err != nil {
		return fmt.Errorf("failed to get user count: %w", err)
	} else if counter == 0 { // 没有任何用户，添加初始管理员（只有这一个，后续管理员由它创建）
		// 没有配置初始密码时随机生成一个，打印出来供首次登录使用
		if bootstrapAdminPassword == "" {
			randBytes := make([]byte, 16)
			if _, err = rand.Read(randBytes); err != nil {
				return fmt.Errorf("failed to generate admin password: %w", err)
			}
			bootstrapAdminPassword = hex.EncodeToString(randBytes)
			l.Warn("generated bootstrap admin password", zap.String("password", bootstrapAdminPassword))
		}

		// 创建密码
		var password string
		if password, err = argon2id.CreateHash(bootstrapAdminPassword, argon2id.DefaultParams); err != nil {
			return fmt.Errorf("failed to generate password: %w", err)
		}

		// 插入记录
		if err = db.Create(&models.User{
			Username: "admin",
			Email:    "admin@localhost",
			Name:     "Shop Admin",
			IsAdmin:  true,
			Password: password,
		}).Error; err != nil {
			return fmt.Errorf("failed to create admin user: %w", err)
		}
	}

	// 初始化商品
	if err = db.Model(&models.Product{}).Count(&counter).Error; err != nil {
		return fmt.Errorf("failed to get product count: %w", err)
	} else if counter == 0 { // 没有任何商品，添加示例商品
		// 插入记录
		if err = db.Create([]*models.Product{
			{
				Name:        "手织羊毛围巾",
				Description: "手工编织的纯羊毛围巾，秋冬保暖",
				Category:    "配饰",
				Price:       12900,
				Stock:       20,
				IsPublished: true,
			},
			{
				Name:        "陶瓷马克杯",
				Description: "手作陶瓷马克杯，每只纹理独一无二",
				Category:    "家居",
				Price:       6800,
				Stock:       50,
				IsPublished: true,
			},
			{
				Name:        "帆布托特包",
				Description: "厚实帆布托特包，日常通勤均可",
				Category:    "箱包",
				Price:       9900,
				Stock:       35,
				IsPublished: true,
			},
		}).Error; err != nil {
			return fmt.Errorf("failed to create initial products: %w", err)
		}
	}

	// 已有数据或全部导入成功
	return nil
}
