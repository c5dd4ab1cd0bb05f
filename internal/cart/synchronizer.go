package cart

import (
	"context"

	"storefront/internal/domain/model"
)

// RemoteLine はリモートカートの明細表現。
type RemoteLine struct {
	ID        int64
	ProductID int64
	Name      string
	Price     int64
	Quantity  int64
}

// RemoteCart はサーバー側カートリソースへの操作。
// 書き込み系は成功時にカート全体を返す。
type RemoteCart interface {
	Fetch(ctx context.Context) ([]RemoteLine, error)
	Add(ctx context.Context, productID int64, quantity int64) ([]RemoteLine, error)
	UpdateLine(ctx context.Context, lineID int64, quantity int64) ([]RemoteLine, error)
	RemoveLine(ctx context.Context, lineID int64) ([]RemoteLine, error)
	Clear(ctx context.Context) error
}

// Authenticator は認証状態の照会。中身は不透明に扱う。
type Authenticator interface {
	IsAuthenticated() bool
}

// Synchronizer は操作ごとにローカル/リモートを振り分ける。
// 未認証ならネットワークを使わずStoreを直接更新する。
// 認証済みならリモートを先に試し、成功したらReplaceAllで反映、
// 失敗したらローカル操作に黙ってフォールバックする。
// リモートカートは複数デバイス継続のための便宜であって正しさの
// 境界ではない（確定は注文作成時にサーバーが行う）。
// 並行するリモート書き込みは直列化しない。遅れて届いた古い応答が
// 新しい楽観状態を上書きし得るのは許容済みの制限。
type Synchronizer struct {
	store  *Store
	remote RemoteCart
	auth   Authenticator
}

func NewSynchronizer(store *Store, remote RemoteCart, auth Authenticator) *Synchronizer {
	return &Synchronizer{store: store, remote: remote, auth: auth}
}

// Fetch は投機的に呼んでよい。失敗してもカートは消さない。
func (y *Synchronizer) Fetch(ctx context.Context) {
	if !y.auth.IsAuthenticated() {
		return
	}

	remote, err := y.remote.Fetch(ctx)
	if err != nil {
		// 既存のStoreの状態を保つ
		return
	}
	y.store.ReplaceAll(translate(remote))
}

func (y *Synchronizer) Add(ctx context.Context, p model.ProductSummary, quantity int64) {
	if !y.auth.IsAuthenticated() {
		y.store.Add(ctx, p, quantity)
		return
	}

	remote, err := y.remote.Add(ctx, p.ID, quantity)
	if err != nil {
		y.store.Add(ctx, p, quantity)
		return
	}
	y.store.ReplaceAll(translate(remote))
}

func (y *Synchronizer) SetQuantity(ctx context.Context, productID int64, quantity int64) {
	line, ok := y.findByProduct(productID)
	if !y.auth.IsAuthenticated() || !ok || line.LineID == 0 {
		// リモートが明細をまだ知らないならローカルで足りる
		y.store.SetQuantity(ctx, productID, quantity)
		return
	}

	if quantity < 1 {
		quantity = 1
	}
	remote, err := y.remote.UpdateLine(ctx, line.LineID, quantity)
	if err != nil {
		y.store.SetQuantity(ctx, productID, quantity)
		return
	}
	y.store.ReplaceAll(translate(remote))
}

// Remove はリモート明細IDか商品IDを受ける。
func (y *Synchronizer) Remove(ctx context.Context, identifier int64) {
	line, ok := y.findByIdentifier(identifier)
	if !y.auth.IsAuthenticated() || !ok || line.LineID == 0 {
		y.store.Remove(ctx, identifier)
		return
	}

	remote, err := y.remote.RemoveLine(ctx, line.LineID)
	if err != nil {
		y.store.Remove(ctx, identifier)
		return
	}
	y.store.ReplaceAll(translate(remote))
}

// Clear はローカルを必ず空にする。リモートはベストエフォート。
func (y *Synchronizer) Clear(ctx context.Context) {
	if y.auth.IsAuthenticated() {
		_ = y.remote.Clear(ctx)
	}
	y.store.Clear(ctx)
}

func (y *Synchronizer) findByProduct(productID int64) (model.CartLine, bool) {
	for _, l := range y.store.Read() {
		if l.Product.ID == productID {
			return l, true
		}
	}
	return model.CartLine{}, false
}

func (y *Synchronizer) findByIdentifier(identifier int64) (model.CartLine, bool) {
	for _, l := range y.store.Read() {
		if (l.LineID != 0 && l.LineID == identifier) || l.Product.ID == identifier {
			return l, true
		}
	}
	return model.CartLine{}, false
}

// translate はリモート表現をCartLineに写す。以降の増減・削除は
// 商品IDで引けるようProductIDを保持する。
func translate(remote []RemoteLine) []model.CartLine {
	lines := make([]model.CartLine, 0, len(remote))
	for _, r := range remote {
		q := r.Quantity
		if q < 1 {
			q = 1
		}
		lines = append(lines, model.CartLine{
			LineID: r.ID,
			Product: model.ProductSummary{
				ID:    r.ProductID,
				Name:  r.Name,
				Price: r.Price,
			},
			Quantity:  q,
			UnitPrice: r.Price,
		})
	}
	return lines
}
