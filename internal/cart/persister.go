package cart

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	pkgerrors "github.com/pkg/errors"
)

// キーが存在しない
var ErrKeyNotFound = errors.New("key not found")

// カート状態を置いておくKVストアの約束（memory / redis / postgres）
type KeyValueStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// 保存するJSONの形
type persistedState struct {
	Version int        `json:"version"`
	Items   []LineItem `json:"items"`
}

// 1つのキーにカート状態を読み書きするアダプタ
type Persister struct {
	kv  KeyValueStore
	key string
}

func NewPersister(kv KeyValueStore, key string) *Persister {
	return &Persister{kv: kv, key: key}
}

func (p *Persister) Key() string {
	return p.key
}

// Saveは状態をJSONにして書き込む。失敗してもメモリ上の状態には触らない。
func (p *Persister) Save(ctx context.Context, s State) error {
	items := s.Items
	if items == nil {
		items = []LineItem{}
	}

	b, err := json.Marshal(persistedState{Version: StateVersion, Items: items})
	if err != nil {
		return pkgerrors.Wrap(err, "encode cart state")
	}

	if err := p.kv.Set(ctx, p.key, b); err != nil {
		return pkgerrors.Wrapf(err, "save cart state %q", p.key)
	}
	return nil
}

// Loadは保存済みの状態を読む。無い・壊れている場合は(State{}, false)。
func (p *Persister) Load(ctx context.Context) (State, bool) {
	b, err := p.kv.Get(ctx, p.key)
	if err != nil || len(b) == 0 {
		return State{}, false
	}
	return Decode(b)
}

// Decodeは永続化フォーマットを検証しながら読む
func Decode(b []byte) (State, bool) {
	var ps persistedState
	if err := json.Unmarshal(b, &ps); err != nil {
		return State{}, false
	}

	// version無し（0）は旧フォーマットと同じ形として扱う
	if ps.Version < 0 || ps.Version > StateVersion {
		return State{}, false
	}
	if ps.Items == nil {
		return State{}, false
	}

	seen := make(map[string]struct{}, len(ps.Items))
	for _, it := range ps.Items {
		if strings.TrimSpace(it.ID) == "" {
			return State{}, false
		}
		if it.Quantity < 1 || it.Quantity > MaxQuantity {
			return State{}, false
		}
		if it.Price.IsNegative() {
			return State{}, false
		}
		if _, dup := seen[it.ID]; dup {
			return State{}, false
		}
		seen[it.ID] = struct{}{}
	}

	return State{Items: ps.Items}, true
}
