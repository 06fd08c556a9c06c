package handlers

import (
	"boutique-backend/app/server/models"
	"errors"
	"fmt"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"net/http"
)

var errInsufficientStock = errors.New("insufficient stock")
var errEmptyCart = errors.New("cart is empty")

type OrderItemInfo struct {
	ProductID uint   `json:"product_id"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	Quantity  int64  `json:"quantity"`
}

type OrderInfo struct {
	Reference string          `json:"reference"`
	Status    string          `json:"status"`
	Total     int64           `json:"total"`
	CreatedAt int64           `json:"created_at"` // Unix second
	Items     []OrderItemInfo `json:"items"`
}

type OrderListResponse struct {
	Limit   int         `json:"limit"`
	PageMax int64       `json:"page_max"`
	List    []OrderInfo `json:"list"`
}

func orderInfoFromModel(order *models.Order) *OrderInfo {
	res := &OrderInfo{
		Reference: order.Reference,
		Status:    order.Status,
		Total:     order.Total,
		CreatedAt: order.CreatedAt.Unix(),
		Items:     []OrderItemInfo{},
	}
	for _, item := range order.Items {
		res.Items = append(res.Items, OrderItemInfo{
			ProductID: item.ProductID,
			Name:      item.Name,
			Price:     item.Price,
			Quantity:  item.Quantity,
		})
	}
	return res
}

// Checkout 把购物车结算成订单。没有接入任何支付，订单创建即结束
func (a *App) Checkout(c echo.Context) error {
	// 抓取 user 信息（认证）
	user, err, statusCode := a.authUser(c, false)
	if err != nil {
		a.l.Error("failed to auth", zap.Error(err))
		return a.er(c, statusCode)
	}

	rctx := c.Request().Context()

	var order models.Order

	// 读购物车、扣库存、生成订单、清空购物车要么全部完成，要么全部不做
	txErr := a.db.WithContext(rctx).Transaction(func(tx *gorm.DB) error {
		var items []models.CartItem
		if err := tx.Preload("Product").
			Where("user_id = ?", user.ID).
			Order("id ASC").
			Find(&items).Error; err != nil {
			return fmt.Errorf("load cart: %w", err)
		}
		if len(items) == 0 {
			return errEmptyCart
		}

		order = models.Order{
			Reference: uuid.New().String(),
			UserID:    user.ID,
			Status:    models.OrderStatusCreated,
		}

		for _, item := range items {
			// 已下架或库存不足都会让整单失败
			if !item.Product.IsPublished || item.Product.Stock < item.Quantity {
				return fmt.Errorf("%w: product %d", errInsufficientStock, item.ProductID)
			}

			if err := tx.Model(&models.Product{}).
				Where("id = ?", item.ProductID).
				Update("stock", gorm.Expr("stock - ?", item.Quantity)).Error; err != nil {
				return fmt.Errorf("decrement stock: %w", err)
			}

			order.Items = append(order.Items, models.OrderItem{
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				Name:      item.Product.Name,
				Price:     item.Product.Price,
			})
			order.Total += item.Product.Price * item.Quantity
		}

		if err := tx.Create(&order).Error; err != nil {
			return fmt.Errorf("create order: %w", err)
		}

		if err := tx.Where("user_id = ?", user.ID).Delete(&models.CartItem{}).Error; err != nil {
			return fmt.Errorf("clear cart: %w", err)
		}

		return nil
	})
	if txErr != nil {
		if errors.Is(txErr, errEmptyCart) {
			return a.erMsg(c, http.StatusBadRequest, "cart is empty")
		}
		if errors.Is(txErr, errInsufficientStock) {
			return a.erMsg(c, http.StatusConflict, "insufficient stock")
		}
		a.l.Error("failed to checkout", zap.Uint("userId", user.ID), zap.Error(txErr))
		return a.er(c, http.StatusInternalServerError)
	}

	// 库存变了，商品缓存作废
	for _, item := range order.Items {
		a.productClearCache(rctx, item.ProductID)
	}

	return c.JSON(http.StatusCreated, orderInfoFromModel(&order))
}

func (a *App) OrderList(c echo.Context) error {
	// 抓取 user 信息（认证）
	user, err, statusCode := a.authUser(c, false)
	if err != nil {
		a.l.Error("failed to auth", zap.Error(err))
		return a.er(c, statusCode)
	}

	rctx := c.Request().Context()

	var (
		orders      []models.Order
		ordersCount int64
	)

	showAll, page, limit := a.parsePagination(queryParamUint(c, "page"), queryParamUint(c, "limit"))
	queryBase := a.db.WithContext(rctx).Model(&models.Order{}).
		Preload("Items").
		Where("user_id = ?", user.ID).
		Order("id DESC")
	if !showAll {
		queryBase = queryBase.Limit(limit).Offset(page * limit)
	}

	if err := queryBase.Find(&orders).Error; err != nil {
		a.l.Error("failed to get order list", zap.Uint("userId", user.ID), zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}
	if err := a.db.WithContext(rctx).Model(&models.Order{}).Where("user_id = ?", user.ID).Count(&ordersCount).Error; err != nil {
		a.l.Error("failed to count order", zap.Uint("userId", user.ID), zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}

	resOrders := []OrderInfo{}
	for _, order := range orders {
		resOrders = append(resOrders, *orderInfoFromModel(&order))
	}

	return c.JSON(http.StatusOK, &OrderListResponse{
		Limit:   limit,
		PageMax: a.calcMaxPage(ordersCount, showAll, limit),
		List:    resOrders,
	})
}

func (a *App) OrderGet(c echo.Context) error {
	// 抓取 user 信息（认证）
	user, err, statusCode := a.authUser(c, false)
	if err != nil {
		a.l.Error("failed to auth", zap.Error(err))
		return a.er(c, statusCode)
	}

	rctx := c.Request().Context()

	ref := c.Param("ref")

	// 只能看自己的订单
	var order models.Order
	if err := a.db.WithContext(rctx).Preload("Items").
		First(&order, "reference = ? AND user_id = ?", ref, user.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return a.er(c, http.StatusNotFound)
		} else {
			a.l.Error("failed to get order", zap.String("reference", ref), zap.Error(err))
			return a.er(c, http.StatusInternalServerError)
		}
	}

	return c.JSON(http.StatusOK, orderInfoFromModel(&order))
}

func (a *App) OrderAdminList(c echo.Context) error {
	// 抓取 user 信息（认证）
	_, err, statusCode := a.authUser(c, true)
	if err != nil {
		a.l.Error("failed to auth", zap.Error(err))
		return a.er(c, statusCode)
	}

	rctx := c.Request().Context()

	var (
		orders      []models.Order
		ordersCount int64
	)

	showAll, page, limit := a.parsePagination(queryParamUint(c, "page"), queryParamUint(c, "limit"))
	queryBase := a.db.WithContext(rctx).Model(&models.Order{}).
		Preload("Items").
		Order("id DESC")
	if !showAll {
		queryBase = queryBase.Limit(limit).Offset(page * limit)
	}

	if err := queryBase.Find(&orders).Error; err != nil {
		a.l.Error("failed to get order list", zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}
	if err := a.db.WithContext(rctx).Model(&models.Order{}).Count(&ordersCount).Error; err != nil {
		a.l.Error("failed to count order", zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}

	resOrders := []OrderInfo{}
	for _, order := range orders {
		resOrders = append(resOrders, *orderInfoFromModel(&order))
	}

	return c.JSON(http.StatusOK, &OrderListResponse{
		Limit:   limit,
		PageMax: a.calcMaxPage(ordersCount, showAll, limit),
		List:    resOrders,
	})
}

func (a *App) OrderStatusUpdate(c echo.Context) error {
	// 抓取 user 信息（认证）
	_, err, statusCode := a.authUser(c, true)
	if err != nil {
		a.l.Error("failed to auth", zap.Error(err))
		return a.er(c, statusCode)
	}

	rctx := c.Request().Context()

	ref := c.Param("ref")

	// 绑定请求体
	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		a.l.Error("failed to bind request", zap.Error(err))
		return a.er(c, http.StatusBadRequest)
	}
	switch req.Status {
	case models.OrderStatusCreated, models.OrderStatusShipped, models.OrderStatusCompleted, models.OrderStatusCancelled:
	default:
		return a.erMsg(c, http.StatusBadRequest, "unknown order status")
	}

	var order models.Order
	if err := a.db.WithContext(rctx).Preload("Items").First(&order, "reference = ?", ref).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return a.er(c, http.StatusNotFound)
		} else {
			a.l.Error("failed to get order", zap.String("reference", ref), zap.Error(err))
			return a.er(c, http.StatusInternalServerError)
		}
	}

	if err := a.db.WithContext(rctx).Model(&order).Update("status", req.Status).Error; err != nil {
		a.l.Error("failed to update order", zap.String("reference", ref), zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}

	return c.JSON(http.StatusOK, orderInfoFromModel(&order))
}
