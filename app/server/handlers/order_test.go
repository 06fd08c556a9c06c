package handlers

import (
	"boutique-backend/app/server/models"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func addToCart(t *testing.T, a *App, token string, productID uint, quantity int64) *httptest.ResponseRecorder {
	t.Helper()

	c, rec := newTestContext(t, http.MethodPost, "/api/cart",
		fmt.Sprintf(`{"product_id":%d,"quantity":%d}`, productID, quantity), token)
	require.NoError(t, a.CartAdd(c))
	return rec
}

func TestCartAddAndGet(t *testing.T) {
	a := newTestApp(t)
	alice := createTestUser(t, a, "alice", "secret1", false)
	scarf := createTestProduct(t, a, "scarf", 12900, 20, true)
	mug := createTestProduct(t, a, "mug", 6800, 50, true)
	token := signTestToken(t, a, alice)

	require.Equal(t, http.StatusCreated, addToCart(t, a, token, scarf.ID, 1).Code)
	require.Equal(t, http.StatusCreated, addToCart(t, a, token, mug.ID, 2).Code)
	// 重复添加同一商品累加数量
	require.Equal(t, http.StatusCreated, addToCart(t, a, token, scarf.ID, 1).Code)

	c, rec := newTestContext(t, http.MethodGet, "/api/cart", "", token)
	require.NoError(t, a.CartGet(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var res CartResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.Len(t, res.Items, 2)
	assert.Equal(t, int64(2), res.Items[0].Quantity)
	assert.Equal(t, int64(2*12900+2*6800), res.Total)
}

func TestCartAddUnpublished(t *testing.T) {
	a := newTestApp(t)
	alice := createTestUser(t, a, "alice", "secret1", false)
	draft := createTestProduct(t, a, "draft", 100, 1, false)

	rec := addToCart(t, a, signTestToken(t, a, alice), draft.ID, 1)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCheckout(t *testing.T) {
	a := newTestApp(t)
	alice := createTestUser(t, a, "alice", "secret1", false)
	scarf := createTestProduct(t, a, "scarf", 12900, 20, true)
	mug := createTestProduct(t, a, "mug", 6800, 50, true)
	token := signTestToken(t, a, alice)

	require.Equal(t, http.StatusCreated, addToCart(t, a, token, scarf.ID, 2).Code)
	require.Equal(t, http.StatusCreated, addToCart(t, a, token, mug.ID, 1).Code)

	c, rec := newTestContext(t, http.MethodPost, "/api/checkout", "", token)
	require.NoError(t, a.Checkout(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var res OrderInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.NotEmpty(t, res.Reference)
	assert.Equal(t, models.OrderStatusCreated, res.Status)
	assert.Equal(t, int64(2*12900+6800), res.Total)
	require.Len(t, res.Items, 2)

	// 库存已扣减
	var product models.Product
	require.NoError(t, a.db.First(&product, "id = ?", scarf.ID).Error)
	assert.Equal(t, int64(18), product.Stock)

	// 购物车已清空
	var counter int64
	require.NoError(t, a.db.Model(&models.CartItem{}).Where("user_id = ?", alice.ID).Count(&counter).Error)
	assert.Equal(t, int64(0), counter)
}

func TestCheckoutEmptyCart(t *testing.T) {
	a := newTestApp(t)
	alice := createTestUser(t, a, "alice", "secret1", false)

	c, rec := newTestContext(t, http.MethodPost, "/api/checkout", "", signTestToken(t, a, alice))
	require.NoError(t, a.Checkout(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCheckoutInsufficientStock(t *testing.T) {
	a := newTestApp(t)
	alice := createTestUser(t, a, "alice", "secret1", false)
	scarf := createTestProduct(t, a, "scarf", 12900, 1, true)
	token := signTestToken(t, a, alice)

	require.Equal(t, http.StatusCreated, addToCart(t, a, token, scarf.ID, 5).Code)

	c, rec := newTestContext(t, http.MethodPost, "/api/checkout", "", token)
	require.NoError(t, a.Checkout(c))
	assert.Equal(t, http.StatusConflict, rec.Code)

	// 失败的结算不动库存
	var product models.Product
	require.NoError(t, a.db.First(&product, "id = ?", scarf.ID).Error)
	assert.Equal(t, int64(1), product.Stock)
}

func TestOrderListAndGet(t *testing.T) {
	a := newTestApp(t)
	alice := createTestUser(t, a, "alice", "secret1", false)
	bob := createTestUser(t, a, "bob", "secret2", false)
	scarf := createTestProduct(t, a, "scarf", 12900, 20, true)
	aliceToken := signTestToken(t, a, alice)

	require.Equal(t, http.StatusCreated, addToCart(t, a, aliceToken, scarf.ID, 1).Code)
	c, rec := newTestContext(t, http.MethodPost, "/api/checkout", "", aliceToken)
	require.NoError(t, a.Checkout(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var created OrderInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	// 自己的订单列表
	c, rec = newTestContext(t, http.MethodGet, "/api/orders", "", aliceToken)
	require.NoError(t, a.OrderList(c))
	require.Equal(t, http.StatusOK, rec.Code)
	var list OrderListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list.List, 1)
	assert.Equal(t, created.Reference, list.List[0].Reference)

	// 别人按订单号也查不到
	c, rec = newTestContext(t, http.MethodGet, "/api/orders/"+created.Reference, "", signTestToken(t, a, bob))
	c.SetParamNames("ref")
	c.SetParamValues(created.Reference)
	require.NoError(t, a.OrderGet(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestOrderStatusUpdate(t *testing.T) {
	a := newTestApp(t)
	alice := createTestUser(t, a, "alice", "secret1", false)
	boss := createTestUser(t, a, "boss", "secret2", true)
	scarf := createTestProduct(t, a, "scarf", 12900, 20, true)
	aliceToken := signTestToken(t, a, alice)

	require.Equal(t, http.StatusCreated, addToCart(t, a, aliceToken, scarf.ID, 1).Code)
	c, rec := newTestContext(t, http.MethodPost, "/api/checkout", "", aliceToken)
	require.NoError(t, a.Checkout(c))
	var created OrderInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	// 管理员改状态
	c, rec = newTestContext(t, http.MethodPut, "/api/admin/orders/"+created.Reference+"/status",
		`{"status":"shipped"}`, signTestToken(t, a, boss))
	c.SetParamNames("ref")
	c.SetParamValues(created.Reference)
	require.NoError(t, a.OrderStatusUpdate(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var res OrderInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, models.OrderStatusShipped, res.Status)

	// 未知状态被拒绝
	c, rec = newTestContext(t, http.MethodPut, "/api/admin/orders/"+created.Reference+"/status",
		`{"status":"teleported"}`, signTestToken(t, a, boss))
	c.SetParamNames("ref")
	c.SetParamValues(created.Reference)
	require.NoError(t, a.OrderStatusUpdate(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
