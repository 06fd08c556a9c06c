package constants

import "time"

const (
	AuthTokenDuration = 7 * 24 * time.Hour // 登录令牌有效期

	PasswordMinLength = 6 // 注册时密码最短长度
)
