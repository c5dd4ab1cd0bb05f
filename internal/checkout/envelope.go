package checkout

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"

	"golang.org/x/crypto/nacl/secretbox"

	"storefront/internal/domain/model"
	"storefront/internal/storage"
)

// EnvelopeStore は保留チェックアウトの1スロット保管庫。
// カード下桁・PIXキーを含むので secretbox で封じてからKVへ置く。
// 後から来た退避が前のものを上書きする（スロットは常に1つ）。
type EnvelopeStore struct {
	kv     storage.KV
	key    string
	secret [32]byte
}

func NewEnvelopeStore(kv storage.KV, key string, secret [32]byte) *EnvelopeStore {
	return &EnvelopeStore{kv: kv, key: key, secret: secret}
}

// Save は失敗してもエラーを呼び出し側に出さない。
// 退避できなくても購入フローは止めない。
func (e *EnvelopeStore) Save(ctx context.Context, env model.PendingCheckoutEnvelope) {
	raw, err := json.Marshal(env)
	if err != nil {
		return
	}

	var nonce [24]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return
	}

	sealed := secretbox.Seal(nonce[:], raw, &nonce, &e.secret)
	_ = e.kv.Set(ctx, e.key, base64.StdEncoding.EncodeToString(sealed))
}

// Load は封が開けないもの・壊れたものを「無い」扱いにする。
func (e *EnvelopeStore) Load(ctx context.Context) (model.PendingCheckoutEnvelope, bool) {
	encoded, ok, err := e.kv.Get(ctx, e.key)
	if err != nil || !ok {
		return model.PendingCheckoutEnvelope{}, false
	}

	sealed, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil || len(sealed) < 24 {
		return model.PendingCheckoutEnvelope{}, false
	}

	var nonce [24]byte
	copy(nonce[:], sealed[:24])
	raw, opened := secretbox.Open(nil, sealed[24:], &nonce, &e.secret)
	if !opened {
		return model.PendingCheckoutEnvelope{}, false
	}

	var env model.PendingCheckoutEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return model.PendingCheckoutEnvelope{}, false
	}
	return env, true
}

func (e *EnvelopeStore) Clear(ctx context.Context) {
	_ = e.kv.Remove(ctx, e.key)
}
