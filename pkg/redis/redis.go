package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"schedule-planner/config"
)

// Client Redis 客户端封装
// 用于最近一次保存的偏好缓存与接口限流
type Client struct {
	rdb    *goredis.Client
	logger *zap.Logger
}

// NewClient 创建 Redis 连接并执行 Ping 健康检查
func NewClient(cfg *config.RedisConfig, logger *zap.Logger) (*Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("Redis 连接失败: %w", err)
	}

	logger.Info("Redis 连接成功", zap.String("addr", cfg.Addr))

	return &Client{rdb: rdb, logger: logger}, nil
}

// ── 偏好缓存 ──

const preferencePrefix = "planner:preferences:"

// PreferenceKey 会话偏好的固定键名
func PreferenceKey(sessionID string) string {
	return preferencePrefix + sessionID
}

// SetPreferences 写入会话最近一次保存的偏好（JSON）
func (c *Client) SetPreferences(ctx context.Context, sessionID string, payload []byte, ttl time.Duration) error {
	return c.rdb.Set(ctx, PreferenceKey(sessionID), payload, ttl).Err()
}

// GetPreferences 读取缓存的偏好；未命中时 found=false
func (c *Client) GetPreferences(ctx context.Context, sessionID string) ([]byte, bool, error) {
	b, err := c.rdb.Get(ctx, PreferenceKey(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return b, true, nil
}

// DeletePreferences 删除缓存的偏好
func (c *Client) DeletePreferences(ctx context.Context, sessionID string) error {
	return c.rdb.Del(ctx, PreferenceKey(sessionID)).Err()
}

// ── 限流 ──

// CheckRateLimit 滑动窗口限流：窗口内请求数未超过 limit 时返回 true
func (c *Client) CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	now := time.Now()
	member := strconv.FormatInt(now.UnixNano(), 10)
	windowStart := strconv.FormatInt(now.Add(-window).UnixNano(), 10)

	pipe := c.rdb.TxPipeline()
	pipe.ZRemRangeByScore(ctx, key, "0", windowStart)
	pipe.ZAdd(ctx, key, goredis.Z{Score: float64(now.UnixNano()), Member: member})
	count := pipe.ZCard(ctx, key)
	pipe.Expire(ctx, key, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, err
	}

	return count.Val() <= int64(limit), nil
}

// Close 关闭 Redis 连接
func (c *Client) Close() error {
	return c.rdb.Close()
}
