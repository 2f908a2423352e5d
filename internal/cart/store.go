package cart

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// 変更後の状態（コピー）を受け取るリスナー。
// 同期で呼ばれるので、中でStoreを操作してはいけない。
type Listener func(State)

// Storeはカートの唯一の正。読み書きはすべてここを通す。
// 変更のたびに「状態を丸ごと差し替え→保存→通知」を1回で行う。
type Store struct {
	mu          sync.Mutex
	state       State
	initialized bool

	persister *Persister
	log       log.FieldLogger

	listeners map[int]Listener
	nextID    int

	lastUsed time.Time
	now      func() time.Time
}

// DI
func NewStore(persister *Persister, logger log.FieldLogger) *Store {
	if logger == nil {
		logger = log.StandardLogger()
	}
	s := &Store{
		persister: persister,
		log:       logger.WithField("cart_key", persister.Key()),
		listeners: make(map[int]Listener),
		now:       time.Now,
	}
	s.lastUsed = s.now()
	return s
}

// 保存済みの状態を読み込む。無い・壊れている場合は空のカート。
// 2回目以降は何もしない。
func (s *Store) Initialize(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.initialized {
		return
	}
	s.initialized = true
	s.touch()

	loaded, ok := s.persister.Load(ctx)
	if !ok {
		s.state = State{Items: []LineItem{}}
		return
	}
	s.state = loaded.clone()
}

// 同じ商品は数量+1（最初のスナップショットを維持）、無ければ末尾に数量1で追加。
// IDが空、または数量がMaxQuantityに達しているなら何もしない。
func (s *Store) AddToCart(ctx context.Context, ref ProductRef) {
	if strings.TrimSpace(ref.ID) == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	next := s.state.clone()
	if i := next.indexOf(ref.ID); i >= 0 {
		// 上限に達していたら変更なし
		if next.Items[i].Quantity >= MaxQuantity {
			return
		}
		next.Items[i].Quantity++
	} else {
		next.Items = append(next.Items, LineItem{
			ID:       ref.ID,
			Name:     ref.Name,
			Slug:     ref.Slug,
			Price:    ref.Price,
			Image:    ref.Image,
			Quantity: 1,
		})
	}

	s.commit(ctx, next)
}

// quantity<=0なら削除、存在するなら数量を置き換え、無いIDなら何もしない。
// MaxQuantityを超える値はMaxQuantityに丸める。
func (s *Store) UpdateQuantity(ctx context.Context, id string, quantity int) {
	if quantity <= 0 {
		s.RemoveFromCart(ctx, id)
		return
	}
	if quantity > MaxQuantity {
		quantity = MaxQuantity
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	i := s.state.indexOf(id)
	if i < 0 {
		return
	}

	next := s.state.clone()
	next.Items[i].Quantity = quantity
	s.commit(ctx, next)
}

// 明細を削除。無いIDなら何もしない。
func (s *Store) RemoveFromCart(ctx context.Context, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	i := s.state.indexOf(id)
	if i < 0 {
		return
	}

	items := make([]LineItem, 0, len(s.state.Items)-1)
	items = append(items, s.state.Items[:i]...)
	items = append(items, s.state.Items[i+1:]...)
	s.commit(ctx, State{Items: items})
}

// カートを空にする
func (s *Store) ClearCart(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	s.commit(ctx, State{Items: []LineItem{}})
}

func (s *Store) TotalItems() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.TotalItems()
}

func (s *Store) TotalPrice() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.TotalPrice()
}

// 明細のコピーを返す
func (s *Store) Items() []LineItem {
	return s.Snapshot().Items
}

// 現在の状態のコピーを返す
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// 変更通知を購読する。戻り値で解除。
func (s *Store) Subscribe(l Listener) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.listeners[id] = l

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.listeners, id)
		})
	}
}

func (s *Store) subscriberCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.listeners)
}

// Registryから渡されるたびに呼ぶ。Sweep対象から外すため。
func (s *Store) markUsed() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
}

func (s *Store) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastUsed
}

// mu を持った状態で呼ぶ
func (s *Store) touch() {
	s.lastUsed = s.now()
}

// mu を持った状態で呼ぶ。
// 保存に失敗してもメモリ上の状態を正とする。
func (s *Store) commit(ctx context.Context, next State) {
	s.state = next

	if err := s.persister.Save(ctx, next); err != nil {
		s.log.WithError(err).Warn("cart state not persisted")
	}

	for _, l := range s.listeners {
		l(next.clone())
	}
}
