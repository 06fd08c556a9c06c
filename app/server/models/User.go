package models

import "gorm.io/gorm"

type User struct {
	gorm.Model

	// 基础信息
	Username string `gorm:"column:username;uniqueIndex"` // 用户名，全局唯一
	Email    string `gorm:"column:email;uniqueIndex"`    // 邮箱，全局唯一，统一存小写
	Name     string `gorm:"column:name"`                 // 显示名称
	IsAdmin  bool   `gorm:"column:is_admin"`             // 是否为管理员：管理员可以管理商品、用户与评论，普通用户只能操作自己的数据

	// 登录与授权认证相关
	Password string `gorm:"column:password"` // 密码，使用 argon2id 储存，不存明文

	// 个人资料（可选，注册后可修改）
	Phone    string `gorm:"column:phone"`     // 联系电话
	Address  string `gorm:"column:address"`   // 收货地址
	City     string `gorm:"column:city"`      // 城市
	PostCode string `gorm:"column:post_code"` // 邮编
	Avatar   string `gorm:"column:avatar"`    // 头像引用（外部图床地址）
	Birthday string `gorm:"column:birthday"`  // 出生日期
	Gender   string `gorm:"column:gender"`    // 性别
}
