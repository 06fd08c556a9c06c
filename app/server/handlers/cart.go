package handlers

import (
	"boutique-backend/app/server/models"
	"errors"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"net/http"
)

type CartItemInfo struct {
	ID        uint   `json:"id"`
	ProductID uint   `json:"product_id"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	Quantity  int64  `json:"quantity"`
	Subtotal  int64  `json:"subtotal"`
}

type CartResponse struct {
	Items []CartItemInfo `json:"items"`
	Total int64          `json:"total"`
}

type CartAddRequest struct {
	ProductID uint  `json:"product_id"`
	Quantity  int64 `json:"quantity"`
}

func (a *App) CartGet(c echo.Context) error {
	// 抓取 user 信息（认证）
	user, err, statusCode := a.authUser(c, false)
	if err != nil {
		a.l.Error("failed to auth", zap.Error(err))
		return a.er(c, statusCode)
	}

	rctx := c.Request().Context()

	var items []models.CartItem
	if err := a.db.WithContext(rctx).Preload("Product").
		Where("user_id = ?", user.ID).
		Order("id ASC").
		Find(&items).Error; err != nil {
		a.l.Error("failed to get cart", zap.Uint("userId", user.ID), zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}

	res := CartResponse{Items: []CartItemInfo{}}
	for _, item := range items {
		subtotal := item.Product.Price * item.Quantity
		res.Items = append(res.Items, CartItemInfo{
			ID:        item.ID,
			ProductID: item.ProductID,
			Name:      item.Product.Name,
			Price:     item.Product.Price,
			Quantity:  item.Quantity,
			Subtotal:  subtotal,
		})
		res.Total += subtotal
	}

	return c.JSON(http.StatusOK, &res)
}

func (a *App) CartAdd(c echo.Context) error {
	// 抓取 user 信息（认证）
	user, err, statusCode := a.authUser(c, false)
	if err != nil {
		a.l.Error("failed to auth", zap.Error(err))
		return a.er(c, statusCode)
	}

	rctx := c.Request().Context()

	// 绑定请求体
	var req CartAddRequest
	if err := c.Bind(&req); err != nil {
		a.l.Error("failed to bind request", zap.Error(err))
		return a.er(c, http.StatusBadRequest)
	}
	if req.ProductID == 0 || req.Quantity < 1 {
		return a.er(c, http.StatusBadRequest)
	}

	// 商品必须存在且已上架
	var product models.Product
	if err := a.db.WithContext(rctx).First(&product, "id = ? AND is_published = ?", req.ProductID, true).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return a.er(c, http.StatusNotFound)
		} else {
			a.l.Error("failed to get product", zap.Uint("id", req.ProductID), zap.Error(err))
			return a.er(c, http.StatusInternalServerError)
		}
	}

	// 同一商品已在购物车里就累加数量
	var item models.CartItem
	if err := a.db.WithContext(rctx).First(&item, "user_id = ? AND product_id = ?", user.ID, req.ProductID).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			a.l.Error("failed to get cart item", zap.Error(err))
			return a.er(c, http.StatusInternalServerError)
		}

		item = models.CartItem{
			UserID:    user.ID,
			ProductID: req.ProductID,
			Quantity:  req.Quantity,
		}
		if err := a.db.WithContext(rctx).Create(&item).Error; err != nil {
			a.l.Error("failed to create cart item", zap.Error(err))
			return a.er(c, http.StatusInternalServerError)
		}
	} else {
		if err := a.db.WithContext(rctx).Model(&item).Update("quantity", item.Quantity+req.Quantity).Error; err != nil {
			a.l.Error("failed to update cart item", zap.Uint("id", item.ID), zap.Error(err))
			return a.er(c, http.StatusInternalServerError)
		}
	}

	return c.NoContent(http.StatusCreated)
}

func (a *App) CartItemUpdate(c echo.Context) error {
	// 抓取 user 信息（认证）
	user, err, statusCode := a.authUser(c, false)
	if err != nil {
		a.l.Error("failed to auth", zap.Error(err))
		return a.er(c, statusCode)
	}

	id, err := pathParamID(c)
	if err != nil {
		return a.er(c, http.StatusBadRequest)
	}

	rctx := c.Request().Context()

	// 绑定请求体
	var req struct {
		Quantity int64 `json:"quantity"`
	}
	if err := c.Bind(&req); err != nil {
		a.l.Error("failed to bind request", zap.Error(err))
		return a.er(c, http.StatusBadRequest)
	}
	if req.Quantity < 1 {
		return a.er(c, http.StatusBadRequest)
	}

	// 只能操作自己的购物车行
	var item models.CartItem
	if err := a.db.WithContext(rctx).First(&item, "id = ? AND user_id = ?", id, user.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return a.er(c, http.StatusNotFound)
		} else {
			a.l.Error("failed to get cart item", zap.Uint("id", id), zap.Error(err))
			return a.er(c, http.StatusInternalServerError)
		}
	}

	if err := a.db.WithContext(rctx).Model(&item).Update("quantity", req.Quantity).Error; err != nil {
		a.l.Error("failed to update cart item", zap.Uint("id", id), zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}

	return c.NoContent(http.StatusOK)
}

func (a *App) CartItemDelete(c echo.Context) error {
	// 抓取 user 信息（认证）
	user, err, statusCode := a.authUser(c, false)
	if err != nil {
		a.l.Error("failed to auth", zap.Error(err))
		return a.er(c, statusCode)
	}

	id, err := pathParamID(c)
	if err != nil {
		return a.er(c, http.StatusBadRequest)
	}

	rctx := c.Request().Context()

	// 只能操作自己的购物车行
	if err := a.db.WithContext(rctx).
		Where("id = ? AND user_id = ?", id, user.ID).
		Delete(&models.CartItem{}).Error; err != nil {
		a.l.Error("failed to delete cart item", zap.Uint("id", id), zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}

	return c.NoContent(http.StatusOK)
}
