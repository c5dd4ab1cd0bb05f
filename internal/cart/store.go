package cart

import (
	"context"
	"encoding/json"
	"sync"

	"storefront/internal/domain/model"
	"storefront/internal/storage"
)

// Store はカートの唯一の保持者。明細は商品ごとに高々1行、
// 数量は常に1以上。ミューテーションのたびにスナップショットを
// KVへ書き出す（リモート反映のReplaceAllだけは書かない）。
type Store struct {
	mu    sync.Mutex
	kv    storage.KV
	key   string
	lines []model.CartLine

	subs    map[int]func([]model.CartLine)
	nextSub int
}

// NewStore はKVのスナップショットから復元して返す。
// 壊れたスナップショットは空扱い（エラーにしない）。
func NewStore(ctx context.Context, kv storage.KV, key string) *Store {
	s := &Store{
		kv:   kv,
		key:  key,
		subs: map[int]func([]model.CartLine){},
	}
	s.lines = s.loadSnapshot(ctx)
	return s
}

// Read は現在の明細のコピーを返す。常に成功する。
func (s *Store) Read() []model.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyLines(s.lines)
}

// Total は追加時点の単価で合計を計算する。
func (s *Store) Total() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	var sum int64
	for _, l := range s.lines {
		sum += l.Subtotal()
	}
	return sum
}

// Subscribe は購読を登録し、まず現在値を1回通知する。
// 以降はミューテーションごとに全明細を通知する。
// 返した関数を呼ぶと通知が止まる。
func (s *Store) Subscribe(fn func([]model.CartLine)) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	current := copyLines(s.lines)
	s.mu.Unlock()

	// replay-latest
	fn(current)

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

// Add は同一商品なら数量を加算し、単価を現在価格に更新する。
// 無ければ末尾に追加。quantity が1未満なら1に切り上げる。
func (s *Store) Add(ctx context.Context, p model.ProductSummary, quantity int64) {
	if quantity < 1 {
		quantity = 1
	}

	s.mu.Lock()
	merged := false
	for i, l := range s.lines {
		if l.Product.ID == p.ID {
			s.lines[i].Quantity += quantity
			s.lines[i].Product = p
			s.lines[i].UnitPrice = p.Price
			merged = true
			break
		}
	}
	if !merged {
		s.lines = append(s.lines, model.CartLine{
			Product:   p,
			Quantity:  quantity,
			UnitPrice: p.Price,
		})
	}
	s.finishMutation(ctx)
}

// SetQuantity は数量を変更する。1未満は1に丸める。
// 商品が無ければ何もしない。
func (s *Store) SetQuantity(ctx context.Context, productID int64, quantity int64) {
	if quantity < 1 {
		quantity = 1
	}

	s.mu.Lock()
	found := false
	for i, l := range s.lines {
		if l.Product.ID == productID {
			s.lines[i].Quantity = quantity
			found = true
			break
		}
	}
	if !found {
		s.mu.Unlock()
		return
	}
	s.finishMutation(ctx)
}

// Remove はリモート明細IDか商品IDのどちらかで最初に一致した
// 明細を削除する。無ければ何もしない。
func (s *Store) Remove(ctx context.Context, identifier int64) {
	s.mu.Lock()
	idx := -1
	for i, l := range s.lines {
		if (l.LineID != 0 && l.LineID == identifier) || l.Product.ID == identifier {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return
	}
	s.lines = append(s.lines[:idx], s.lines[idx+1:]...)
	s.finishMutation(ctx)
}

// ReplaceAll はリモートの読み書き成功後にカート全体を差し替える。
// ローカルスナップショットへのエコーはしない。
func (s *Store) ReplaceAll(lines []model.CartLine) {
	s.mu.Lock()
	s.lines = copyLines(lines)
	current := copyLines(s.lines)
	subs := s.snapshotSubs()
	s.mu.Unlock()

	notify(subs, current)
}

// Clear はカートを空にする。
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	s.lines = nil
	s.finishMutation(ctx)
}

// finishMutation はロックを持った状態で呼ぶ。永続化と通知をして
// ロックを解放する。永続化の失敗は呼び出し側に出さない。
func (s *Store) finishMutation(ctx context.Context) {
	current := copyLines(s.lines)
	subs := s.snapshotSubs()
	raw, err := json.Marshal(current)
	s.mu.Unlock()

	if err == nil {
		_ = s.kv.Set(ctx, s.key, string(raw))
	}
	notify(subs, current)
}

func (s *Store) snapshotSubs() []func([]model.CartLine) {
	out := make([]func([]model.CartLine), 0, len(s.subs))
	for _, fn := range s.subs {
		out = append(out, fn)
	}
	return out
}

func (s *Store) loadSnapshot(ctx context.Context) []model.CartLine {
	raw, ok, err := s.kv.Get(ctx, s.key)
	if err != nil || !ok {
		return nil
	}

	var lines []model.CartLine
	if err := json.Unmarshal([]byte(raw), &lines); err != nil {
		// 壊れたスナップショットは空扱い
		return nil
	}

	// 保存データでも不変条件は守る
	out := lines[:0]
	for _, l := range lines {
		if l.Quantity < 1 {
			l.Quantity = 1
		}
		out = append(out, l)
	}
	return out
}

func notify(subs []func([]model.CartLine), lines []model.CartLine) {
	for _, fn := range subs {
		fn(copyLines(lines))
	}
}

func copyLines(lines []model.CartLine) []model.CartLine {
	out := make([]model.CartLine, len(lines))
	copy(out, lines)
	return out
}
