package cache

import (
	"context"
	"errors"
	log "log/slog"
	"time"

	"github.com/goccy/go-json"
)

// Coordinator 统一的读穿/驱逐入口。写缓存与驱逐都是尽力而为：
// 失败只记日志不影响请求，过期兜底靠 TTL。
type Coordinator struct {
	store         Store
	loaderTimeout time.Duration
}

func NewCoordinator(store Store, loaderTimeout time.Duration) *Coordinator {
	return &Coordinator{
		store:         store,
		loaderTimeout: loaderTimeout,
	}
}

// Evict 精确驱逐单个键
func (s *Coordinator) Evict(ctx context.Context, name, key string) {
	if err := s.store.Del(ctx, fullKey(name, key)); err != nil {
		log.WarnContext(ctx, "cache evict failed", "name", name, "key", key, "err", err)
	}
}

// EvictPrefix 驱逐命名空间内某个键前缀下的所有条目（如某帖子的全部评论分页）
func (s *Coordinator) EvictPrefix(ctx context.Context, name, keyPrefix string) {
	if err := s.store.DelPrefix(ctx, fullKey(name, keyPrefix)); err != nil {
		log.WarnContext(ctx, "cache evict prefix failed", "name", name, "prefix", keyPrefix, "err", err)
	}
}

// EvictAll 驱逐整个命名空间（该列表的所有分页），宁可多清不可漏清
func (s *Coordinator) EvictAll(ctx context.Context, names ...string) {
	for _, name := range names {
		if err := s.store.DelPrefix(ctx, name+":"); err != nil {
			log.WarnContext(ctx, "cache evict namespace failed", "name", name, "err", err)
		}
	}
}

// GetOrLoad 读穿缓存：命中直接反序列化返回；未命中回源并尽力回填。
// 回源查询受 loaderTimeout 约束，缓存后端故障退化为直接回源。
func GetOrLoad[T any](ctx context.Context, c *Coordinator, name, key string, loader func(ctx context.Context) (T, error)) (T, error) {
	full := fullKey(name, key)

	b, err := c.store.Get(ctx, full)
	if err == nil {
		var v T
		if uErr := json.Unmarshal(b, &v); uErr == nil {
			return v, nil
		}
		// 反序列化失败视作未命中，覆盖写入新值
	} else if !errors.Is(err, ErrMiss) {
		log.WarnContext(ctx, "cache get failed, fallback to loader", "name", name, "err", err)
	}

	loadCtx := ctx
	if c.loaderTimeout > 0 {
		var cancel context.CancelFunc
		loadCtx, cancel = context.WithTimeout(ctx, c.loaderTimeout)
		defer cancel()
	}

	v, err := loader(loadCtx)
	if err != nil {
		var zero T
		return zero, err
	}

	if data, mErr := json.Marshal(v); mErr == nil {
		if sErr := c.store.Set(ctx, full, data, TTLFor(name)); sErr != nil {
			log.WarnContext(ctx, "cache set failed", "name", name, "err", sErr)
		}
	}

	return v, nil
}

func fullKey(name, key string) string {
	return name + ":" + key
}
