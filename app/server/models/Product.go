package models

import "gorm.io/gorm"

type Product struct {
	gorm.Model

	// 商品基础信息
	Name        string `gorm:"column:name"`           // 商品名称
	Description string `gorm:"column:description"`    // 商品描述（介绍）
	Category    string `gorm:"column:category;index"` // 分类，用于列表筛选
	Image       string `gorm:"column:image"`          // 商品图片引用（外部图床地址）

	// 售卖信息
	Price       int64 `gorm:"column:price"`        // 价格，以分为单位，避免浮点误差
	Stock       int64 `gorm:"column:stock"`        // 库存数量，结算时扣减
	IsPublished bool  `gorm:"column:is_published"` // 是否上架：未上架商品只有管理员可见
}
