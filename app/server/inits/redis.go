package inits

import (
	"context"
	"fmt"
	"github.com/redis/go-redis/v9"
)

func Redis(conn string) (*redis.Client, error) {
	// 解析连接字符串
	opts, err := redis.ParseURL(conn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis connection string: %w", err)
	}

	// 打开连接
	rdb := redis.NewClient(opts)

	// 确认连接可用
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return rdb, nil
}
