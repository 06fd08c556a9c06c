package models

import "gorm.io/gorm"

type Comment struct {
	gorm.Model

	ProductID uint   `gorm:"column:product_id;index"` // 所评论的商品 ID
	UserID    uint   `gorm:"column:user_id;index"`    // 评论者 ID
	Content   string `gorm:"column:content"`          // 评论内容
	Rating    int    `gorm:"column:rating"`           // 评分， 1 到 5

	// 连接模型时使用
	Product Product `gorm:"foreignKey:ProductID"` // 商品
	User    User    `gorm:"foreignKey:UserID"`    // 评论者
}
