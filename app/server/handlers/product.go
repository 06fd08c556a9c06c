package handlers

import (
	"boutique-backend/app/server/constants"
	"boutique-backend/app/server/models"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"net/http"
)

type ProductInfo struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Image       string `json:"image"`
	Price       int64  `json:"price"`
	Stock       int64  `json:"stock"`
	IsPublished bool   `json:"is_published"`
}

type ProductInput struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Category    *string `json:"category"`
	Image       *string `json:"image"`
	Price       *int64  `json:"price"`
	Stock       *int64  `json:"stock"`
	IsPublished *bool   `json:"is_published"`
}

type ProductListResponse struct {
	Limit   int           `json:"limit"`
	PageMax int64         `json:"page_max"`
	List    []ProductInfo `json:"list"`
}

func productInfoFromModel(product *models.Product) *ProductInfo {
	return &ProductInfo{
		ID:          product.ID,
		Name:        product.Name,
		Description: product.Description,
		Category:    product.Category,
		Image:       product.Image,
		Price:       product.Price,
		Stock:       product.Stock,
		IsPublished: product.IsPublished,
	}
}

func (a *App) productMapFields(req *ProductInput, product *models.Product) {
	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Category != nil {
		product.Category = *req.Category
	}
	if req.Image != nil {
		product.Image = *req.Image
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.Stock != nil {
		product.Stock = *req.Stock
	}
	if req.IsPublished != nil {
		product.IsPublished = *req.IsPublished
	}
}

// productClearCache 商品有任何写入都清掉对应缓存，下一次读取重新回填
func (a *App) productClearCache(ctx context.Context, id uint) {
	a.rdb.Del(ctx, fmt.Sprintf(constants.CacheKeyProductInfo, id))
	a.rdb.Del(ctx, constants.CacheKeyProductList)
}

func (a *App) ProductList(c echo.Context) error {
	rctx := c.Request().Context()

	category := c.QueryParam("category")
	sort := c.QueryParam("sort")

	// 无任何筛选参数的默认列表走缓存
	pageParam, limitParam := queryParamUint(c, "page"), queryParamUint(c, "limit")
	cacheable := category == "" && sort == "" && pageParam == nil && limitParam == nil
	if cacheable {
		if cacheBytes, err := a.rdb.Get(rctx, constants.CacheKeyProductList).Bytes(); err != nil {
			if !errors.Is(err, redis.Nil) {
				a.l.Error("failed to query cache for product list", zap.Error(err))
			}
		} else {
			var res ProductListResponse
			if err = json.Unmarshal(cacheBytes, &res); err != nil {
				a.l.Error("failed to unmarshal product list", zap.Error(err))
				// 可能是无效的缓存，清理掉
				a.rdb.Del(rctx, constants.CacheKeyProductList)
			} else {
				return c.JSON(http.StatusOK, &res)
			}
		}
	}

	var (
		products      []models.Product
		productsCount int64
	)

	// 只展示已上架的商品
	showAll, page, limit := a.parsePagination(pageParam, limitParam)
	queryBase := a.db.WithContext(rctx).Model(&models.Product{}).Where("is_published = ?", true)
	if category != "" {
		queryBase = queryBase.Where("category = ?", category)
	}
	switch sort {
	case "price_asc":
		queryBase = queryBase.Order("price ASC")
	case "price_desc":
		queryBase = queryBase.Order("price DESC")
	case "newest":
		queryBase = queryBase.Order("created_at DESC")
	default:
		queryBase = queryBase.Order("id ASC")
	}

	countBase := queryBase.Session(&gorm.Session{})
	if !showAll {
		queryBase = queryBase.Limit(limit).Offset(page * limit)
	}

	if err := queryBase.Find(&products).Error; err != nil {
		a.l.Error("failed to get product list", zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}
	if err := countBase.Count(&productsCount).Error; err != nil {
		a.l.Error("failed to count product", zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}

	resProducts := []ProductInfo{}
	for _, product := range products {
		resProducts = append(resProducts, *productInfoFromModel(&product))
	}

	res := ProductListResponse{
		Limit:   limit,
		PageMax: a.calcMaxPage(productsCount, showAll, limit),
		List:    resProducts,
	}

	// 回填缓存，方便下一次查询
	if cacheable {
		if cacheBytes, err := json.Marshal(&res); err != nil {
			a.l.Error("failed to marshal product list", zap.Error(err))
		} else {
			a.rdb.Set(rctx, constants.CacheKeyProductList, cacheBytes, constants.CacheExpireProductList)
		}
	}

	return c.JSON(http.StatusOK, &res)
}

func (a *App) ProductInfoGet(c echo.Context) error {
	id, err := pathParamID(c)
	if err != nil {
		return a.er(c, http.StatusBadRequest)
	}

	rctx := c.Request().Context()

	var product models.Product

	// 查询缓存
	cacheKey := fmt.Sprintf(constants.CacheKeyProductInfo, id)
	if cacheBytes, err := a.rdb.Get(rctx, cacheKey).Bytes(); err != nil {
		if !errors.Is(err, redis.Nil) {
			a.l.Error("failed to query cache for product info", zap.Uint("id", id), zap.Error(err))
		}
	} else if err = json.Unmarshal(cacheBytes, &product); err != nil {
		a.l.Error("failed to unmarshal product info", zap.Uint("id", id), zap.Error(err))
		// 可能是无效的缓存，清理掉
		a.rdb.Del(rctx, cacheKey)
	} else {
		if !product.IsPublished {
			return a.er(c, http.StatusNotFound)
		}
		return c.JSON(http.StatusOK, productInfoFromModel(&product))
	}

	// 查询数据库
	if err := a.db.WithContext(rctx).First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return a.er(c, http.StatusNotFound)
		} else {
			a.l.Error("failed to get product", zap.Uint("id", id), zap.Error(err))
			return a.er(c, http.StatusInternalServerError)
		}
	}

	// 格式化并加入缓存，方便下一次查询
	if cacheBytes, err := json.Marshal(&product); err != nil {
		a.l.Error("failed to marshal product info", zap.Uint("id", id), zap.Error(err))
	} else {
		a.rdb.Set(rctx, cacheKey, cacheBytes, constants.CacheExpireProductInfo)
	}

	// 未上架商品对外不可见
	if !product.IsPublished {
		return a.er(c, http.StatusNotFound)
	}

	return c.JSON(http.StatusOK, productInfoFromModel(&product))
}

func (a *App) ProductCreate(c echo.Context) error {
	// 抓取 user 信息（认证）
	_, err, statusCode := a.authUser(c, true)
	if err != nil {
		a.l.Error("failed to auth", zap.Error(err))
		return a.er(c, statusCode)
	}

	rctx := c.Request().Context()

	// 绑定请求体
	var req ProductInput
	if err := c.Bind(&req); err != nil {
		a.l.Error("failed to bind request", zap.Error(err))
		return a.er(c, http.StatusBadRequest)
	}
	if req.Name == nil || *req.Name == "" {
		return a.erMsg(c, http.StatusBadRequest, "name is required")
	}
	if req.Price == nil || *req.Price < 0 {
		return a.erMsg(c, http.StatusBadRequest, "a non-negative price is required")
	}

	// 创建
	var product models.Product
	a.productMapFields(&req, &product)

	if err := a.db.WithContext(rctx).Create(&product).Error; err != nil {
		a.l.Error("failed to create product", zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}

	// 新商品可能进入默认列表
	a.rdb.Del(rctx, constants.CacheKeyProductList)

	return c.JSON(http.StatusCreated, productInfoFromModel(&product))
}

func (a *App) ProductAdminList(c echo.Context) error {
	// 抓取 user 信息（认证）
	_, err, statusCode := a.authUser(c, true)
	if err != nil {
		a.l.Error("failed to auth", zap.Error(err))
		return a.er(c, statusCode)
	}

	rctx := c.Request().Context()

	var (
		products      []models.Product
		productsCount int64
	)

	// 管理端不过滤上架状态
	showAll, page, limit := a.parsePagination(queryParamUint(c, "page"), queryParamUint(c, "limit"))
	queryBase := a.db.WithContext(rctx).Model(&models.Product{}).Order("id ASC")
	if !showAll {
		queryBase = queryBase.Limit(limit).Offset(page * limit)
	}

	if err := queryBase.Find(&products).Error; err != nil {
		a.l.Error("failed to get product list", zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}
	if err := a.db.WithContext(rctx).Model(&models.Product{}).Count(&productsCount).Error; err != nil {
		a.l.Error("failed to count product", zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}

	resProducts := []ProductInfo{}
	for _, product := range products {
		resProducts = append(resProducts, *productInfoFromModel(&product))
	}

	return c.JSON(http.StatusOK, &ProductListResponse{
		Limit:   limit,
		PageMax: a.calcMaxPage(productsCount, showAll, limit),
		List:    resProducts,
	})
}

func (a *App) ProductUpdate(c echo.Context) error {
	// 抓取 user 信息（认证）
	_, err, statusCode := a.authUser(c, true)
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
	var req ProductInput
	if err := c.Bind(&req); err != nil {
		a.l.Error("failed to bind request", zap.Error(err))
		return a.er(c, http.StatusBadRequest)
	}

	// 从数据库中获得指定的商品
	var product models.Product
	if err := a.db.WithContext(rctx).First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return a.er(c, http.StatusNotFound)
		} else {
			a.l.Error("failed to get product", zap.Uint("id", id), zap.Error(err))
			return a.er(c, http.StatusInternalServerError)
		}
	}

	a.productMapFields(&req, &product)

	// 更新商品信息。显式列出字段，否则下架（false）、清库存（0）这类零值不会写进去
	if err := a.db.WithContext(rctx).Model(&product).
		Select("name", "description", "category", "image", "price", "stock", "is_published").
		Updates(&product).Error; err != nil {
		a.l.Error("failed to update product", zap.Uint("id", id), zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}

	// 清理缓存
	a.productClearCache(rctx, product.ID)

	return c.JSON(http.StatusOK, productInfoFromModel(&product))
}

func (a *App) ProductDelete(c echo.Context) error {
	// 抓取 user 信息（认证）
	_, err, statusCode := a.authUser(c, true)
	if err != nil {
		a.l.Error("failed to auth", zap.Error(err))
		return a.er(c, statusCode)
	}

	id, err := pathParamID(c)
	if err != nil {
		return a.er(c, http.StatusBadRequest)
	}

	rctx := c.Request().Context()

	// 删除商品
	if err := a.db.WithContext(rctx).Delete(&models.Product{}, id).Error; err != nil {
		a.l.Error("failed to delete product", zap.Uint("id", id), zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}

	// 清理缓存
	a.productClearCache(rctx, id)

	return c.NoContent(http.StatusOK)
}
