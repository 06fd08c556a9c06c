package models

import "gorm.io/gorm"

type CartItem struct {
	gorm.Model

	UserID    uint  `gorm:"column:user_id;uniqueIndex:idx_cart_user_product"`    // 购物车所属用户
	ProductID uint  `gorm:"column:product_id;uniqueIndex:idx_cart_user_product"` // 商品 ID ，同一用户同一商品只有一行
	Quantity  int64 `gorm:"column:quantity"`                                     // 数量

	// 连接模型时使用
	Product Product `gorm:"foreignKey:ProductID"` // 商品
}
