package config

type Config struct {
	System struct {
		IsProd                bool   // 是否为生产环境
		Listen                string // 监听地址
		DBPath                string // SQLite 数据库文件路径
		RedisConnectionString string // Redis 数据库的连接字符串
	}
	Security struct {
		SignatureSecretKey     string // 签名密钥，用于产生签名（例如 JWT ），更新会导致旧有会话失效，但不影响使用
		BootstrapAdminPassword string // 初始管理员密码，仅在用户表为空时用于初始化，可以不设置（会随机生成并打印）
	}
}
