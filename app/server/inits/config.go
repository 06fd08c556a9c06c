package inits

import (
	"boutique-backend/app/server/config"
	"fmt"
	"github.com/joho/godotenv"
	"os"
	"strings"
)

func Config() (cfg *config.Config, err error) {
	// 尝试加载 .env 文件，不存在就直接用进程环境变量
	_ = godotenv.Load()

	cfg = &config.Config{}

	// 手动配置映射，如果这里有什么自动映射工具就好了， viper 好像处理这种基于环境变量的配置也不是很方便
	{
		mode, exist := os.LookupEnv("MODE")
		cfg.System.IsProd = exist && strings.HasPrefix(strings.ToLower(mode), "p")
	}

	if listen, exist := os.LookupEnv("LISTEN"); !exist {
		cfg.System.Listen = ":1323" // 默认监听地址
	} else {
		cfg.System.Listen = listen
	}

	if dbpath, exist := os.LookupEnv("DB_PATH"); !exist {
		return nil, fmt.Errorf("DB_PATH environment variable not set")
	} else {
		cfg.System.DBPath = dbpath
	}

	if redisconn, exist := os.LookupEnv("REDIS_CONN"); !exist {
		return nil, fmt.Errorf("REDIS_CONN environment variable not set")
	} else {
		cfg.System.RedisConnectionString = redisconn
	}

	// 签名密钥必须显式配置，没有任何默认值可回落
	if sigsk, exist := os.LookupEnv("SIGNATURE_SECRET_KEY"); !exist || sigsk == "" {
		return nil, fmt.Errorf("SIGNATURE_SECRET_KEY environment variable not set")
	} else {
		cfg.Security.SignatureSecretKey = sigsk
	}

	// 初始管理员密码可选
	cfg.Security.BootstrapAdminPassword = os.Getenv("BOOTSTRAP_ADMIN_PASSWORD")

	return cfg, nil
}
