package constants

import "time"

const (
	CacheKeyProductInfo = "shop:product:info:%d"
	CacheKeyProductList = "shop:product:list"
)

const (
	CacheExpireProductInfo = 1 * time.Hour
	CacheExpireProductList = 10 * time.Minute
)
