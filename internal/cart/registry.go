package cart

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

const keyPrefix = "cart:"

// セッションごとのStoreを持つ。アプリのルート（main）で1つ作って注入する。
type Registry struct {
	mu     sync.Mutex
	stores map[string]*Store

	kv  KeyValueStore
	log log.FieldLogger
	now func() time.Time
}

// DI
func NewRegistry(kv KeyValueStore, logger log.FieldLogger) *Registry {
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &Registry{
		stores: make(map[string]*Store),
		kv:     kv,
		log:    logger,
		now:    time.Now,
	}
}

// セッションIDに対応するKVのキー
func StorageKey(sessionID string) string {
	return keyPrefix + sessionID
}

// セッションのStoreを返す。初回は作成して保存済みの状態を読み込む。
func (r *Registry) Get(ctx context.Context, sessionID string) *Store {
	r.mu.Lock()
	st, ok := r.stores[sessionID]
	if !ok {
		st = NewStore(NewPersister(r.kv, StorageKey(sessionID)), r.log)
		st.now = r.now
		r.stores[sessionID] = st
	}
	// r.muを持ったまま使用時刻を更新し、渡した直後のSweepで捨てられないようにする
	st.markUsed()
	r.mu.Unlock()

	// 初期化はStore側のロックで1回だけ
	st.Initialize(ctx)
	return st
}

// idle以上使われておらず購読者もいないStoreを手放す。
// 状態は保存済みなので次のGetで読み直される。
func (r *Registry) Sweep(idle time.Duration) int {
	cutoff := r.now().Add(-idle)

	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, st := range r.stores {
		if st.subscriberCount() > 0 {
			continue
		}
		if st.idleSince().After(cutoff) {
			continue
		}
		delete(r.stores, id)
		removed++
	}

	if removed > 0 {
		r.log.WithFields(log.Fields{"removed": removed, "remaining": len(r.stores)}).Debug("cart stores swept")
	}
	return removed
}

// 定期的にSweepする。ctxが終わるまで戻らない。
func (r *Registry) RunSweeper(ctx context.Context, interval, idle time.Duration) error {
	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			r.Sweep(idle)
		}
	}
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.stores)
}
