package storage

import "context"

// KV は文字列キー1スロットの永続化能力。
// カートのスナップショットと保留チェックアウトの退避に使う。
// 値はJSON（暗号化する場合はbase64）で保存される。
type KV interface {
	// Get は値と存在有無を返す。
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key string, value string) error
	Remove(ctx context.Context, key string) error
}
