package models

import "gorm.io/gorm"

const (
	OrderStatusCreated   = "created"   // 已创建，等待处理
	OrderStatusShipped   = "shipped"   // 已发货
	OrderStatusCompleted = "completed" // 已完成
	OrderStatusCancelled = "cancelled" // 已取消
)

type Order struct {
	gorm.Model

	Reference string `gorm:"column:reference;uniqueIndex"` // 订单号，对外展示使用的 UUID
	UserID    uint   `gorm:"column:user_id;index"`         // 下单用户
	Status    string `gorm:"column:status"`                // 订单状态
	Total     int64  `gorm:"column:total"`                 // 订单总额，以分为单位

	// 连接模型时使用
	Items []OrderItem `gorm:"foreignKey:OrderID"` // 订单内容
}

type OrderItem struct {
	gorm.Model

	OrderID   uint  `gorm:"column:order_id;index"`   // 所属订单
	ProductID uint  `gorm:"column:product_id;index"` // 商品 ID
	Quantity  int64 `gorm:"column:quantity"`         // 数量

	// 结算时的商品快照，后续商品改价改名不影响已有订单
	Name  string `gorm:"column:name"`  // 结算时的商品名称
	Price int64  `gorm:"column:price"` // 结算时的单价，以分为单位
}
