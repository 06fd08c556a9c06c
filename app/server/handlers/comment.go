package handlers

import (
	"boutique-backend/app/server/models"
	"errors"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"net/http"
)

type CommentInfo struct {
	ID        uint   `json:"id"`
	ProductID uint   `json:"product_id"`
	UserID    uint   `json:"user_id"`
	Username  string `json:"username"`
	Content   string `json:"content"`
	Rating    int    `json:"rating"`
	CreatedAt int64  `json:"created_at"` // Unix second
}

type CommentCreateRequest struct {
	Content string `json:"content"`
	Rating  int    `json:"rating"`
}

type CommentListResponse struct {
	Limit   int           `json:"limit"`
	PageMax int64         `json:"page_max"`
	List    []CommentInfo `json:"list"`
}

func commentInfoFromModel(comment *models.Comment) *CommentInfo {
	return &CommentInfo{
		ID:        comment.ID,
		ProductID: comment.ProductID,
		UserID:    comment.UserID,
		Username:  comment.User.Username,
		Content:   comment.Content,
		Rating:    comment.Rating,
		CreatedAt: comment.CreatedAt.Unix(),
	}
}

// CommentListByProduct 列出某个商品下的评论，公开接口
func (a *App) CommentListByProduct(c echo.Context) error {
	id, err := pathParamID(c)
	if err != nil {
		return a.er(c, http.StatusBadRequest)
	}

	rctx := c.Request().Context()

	// 商品必须存在且已上架
	var product models.Product
	if err := a.db.WithContext(rctx).First(&product, "id = ? AND is_published = ?", id, true).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return a.er(c, http.StatusNotFound)
		} else {
			a.l.Error("failed to get product", zap.Uint("id", id), zap.Error(err))
			return a.er(c, http.StatusInternalServerError)
		}
	}

	var (
		comments      []models.Comment
		commentsCount int64
	)

	showAll, page, limit := a.parsePagination(queryParamUint(c, "page"), queryParamUint(c, "limit"))
	queryBase := a.db.WithContext(rctx).Model(&models.Comment{}).
		Preload("User").
		Where("product_id = ?", id).
		Order("id DESC")
	if !showAll {
		queryBase = queryBase.Limit(limit).Offset(page * limit)
	}

	if err := queryBase.Find(&comments).Error; err != nil {
		a.l.Error("failed to get comment list", zap.Uint("productId", id), zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}
	if err := a.db.WithContext(rctx).Model(&models.Comment{}).Where("product_id = ?", id).Count(&commentsCount).Error; err != nil {
		a.l.Error("failed to count comment", zap.Uint("productId", id), zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}

	resComments := []CommentInfo{}
	for _, comment := range comments {
		resComments = append(resComments, *commentInfoFromModel(&comment))
	}

	return c.JSON(http.StatusOK, &CommentListResponse{
		Limit:   limit,
		PageMax: a.calcMaxPage(commentsCount, showAll, limit),
		List:    resComments,
	})
}

func (a *App) CommentCreate(c echo.Context) error {
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
	var req CommentCreateRequest
	if err := c.Bind(&req); err != nil {
		a.l.Error("failed to bind request", zap.Error(err))
		return a.er(c, http.StatusBadRequest)
	}
	if req.Content == "" {
		return a.erMsg(c, http.StatusBadRequest, "content is required")
	}
	if req.Rating < 1 || req.Rating > 5 {
		return a.erMsg(c, http.StatusBadRequest, "rating must be between 1 and 5")
	}

	// 商品必须存在且已上架
	var product models.Product
	if err := a.db.WithContext(rctx).First(&product, "id = ? AND is_published = ?", id, true).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return a.er(c, http.StatusNotFound)
		} else {
			a.l.Error("failed to get product", zap.Uint("id", id), zap.Error(err))
			return a.er(c, http.StatusInternalServerError)
		}
	}

	// 创建评论
	comment := models.Comment{
		ProductID: product.ID,
		UserID:    user.ID,
		Content:   req.Content,
		Rating:    req.Rating,
	}
	if err := a.db.WithContext(rctx).Create(&comment).Error; err != nil {
		a.l.Error("failed to create comment", zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}

	comment.User = *user
	return c.JSON(http.StatusCreated, commentInfoFromModel(&comment))
}

// CommentDelete 只能删自己的评论，管理员可以删任何评论
func (a *App) CommentDelete(c echo.Context) error {
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

	var comment models.Comment
	if err := a.db.WithContext(rctx).First(&comment, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return a.er(c, http.StatusNotFound)
		} else {
			a.l.Error("failed to get comment", zap.Uint("id", id), zap.Error(err))
			return a.er(c, http.StatusInternalServerError)
		}
	}

	// 验证归属
	if comment.UserID != user.ID && !user.IsAdmin {
		return a.er(c, http.StatusForbidden)
	}

	// 删除评论
	if err := a.db.WithContext(rctx).Delete(&comment).Error; err != nil {
		a.l.Error("failed to delete comment", zap.Uint("id", id), zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}

	return c.NoContent(http.StatusOK)
}

// CommentAdminList 管理端查看全部评论
func (a *App) CommentAdminList(c echo.Context) error {
	// 抓取 user 信息（认证）
	_, err, statusCode := a.authUser(c, true)
	if err != nil {
		a.l.Error("failed to auth", zap.Error(err))
		return a.er(c, statusCode)
	}

	rctx := c.Request().Context()

	var (
		comments      []models.Comment
		commentsCount int64
	)

	showAll, page, limit := a.parsePagination(queryParamUint(c, "page"), queryParamUint(c, "limit"))
	queryBase := a.db.WithContext(rctx).Model(&models.Comment{}).
		Preload("User").
		Order("id DESC")
	if !showAll {
		queryBase = queryBase.Limit(limit).Offset(page * limit)
	}

	if err := queryBase.Find(&comments).Error; err != nil {
		a.l.Error("failed to get comment list", zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}
	if err := a.db.WithContext(rctx).Model(&models.Comment{}).Count(&commentsCount).Error; err != nil {
		a.l.Error("failed to count comment", zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}

	resComments := []CommentInfo{}
	for _, comment := range comments {
		resComments = append(resComments, *commentInfoFromModel(&comment))
	}

	return c.JSON(http.StatusOK, &CommentListResponse{
		Limit:   limit,
		PageMax: a.calcMaxPage(commentsCount, showAll, limit),
		List:    resComments,
	})
}
