package checkout_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"storefront/internal/checkout"
	"storefront/internal/domain/model"
	"storefront/internal/storage"
)

func newEnvelopeStore() (*checkout.EnvelopeStore, *storage.MemoryKV) {
	kv := storage.NewMemoryKV()
	return checkout.NewEnvelopeStore(kv, envelopeKey, testSecret), kv
}

func TestEnvelopeRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, kv := newEnvelopeStore()

	env := model.PendingCheckoutEnvelope{
		PaymentMethod: model.PaymentPix,
		AddressID:     10,
		PhoneID:       20,
		PixKey:        "chave@loja.br",
	}
	store.Save(ctx, env)

	got, ok := store.Load(ctx)
	assert.True(t, ok)
	assert.Equal(t, env, got)

	// KVには平文を置かない
	raw, _, _ := kv.Get(ctx, envelopeKey)
	assert.NotContains(t, raw, "chave@loja.br")
}

func TestEnvelopeAbsent(t *testing.T) {
	store, _ := newEnvelopeStore()

	_, ok := store.Load(context.Background())
	assert.False(t, ok)
}

func TestEnvelopeGarbageIsAbsent(t *testing.T) {
	ctx := context.Background()

	cases := map[string]string{
		"not base64":     "%%%",
		"too short":      "YWJj",
		"wrong contents": "QUJDREVGR0hJSktMTU5PUFFSU1RVVldYWVphYmNkZWZnaGlqa2xtbm9wcXJzdHV2d3h5ejAxMjM0NTY3ODk=",
	}

	for name, value := range cases {
		t.Run(name, func(t *testing.T) {
			store, kv := newEnvelopeStore()
			assert.NoError(t, kv.Set(ctx, envelopeKey, value))

			_, ok := store.Load(ctx)
			assert.False(t, ok)
		})
	}
}

func TestEnvelopeWrongSecretIsAbsent(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemoryKV()

	writer := checkout.NewEnvelopeStore(kv, envelopeKey, testSecret)
	writer.Save(ctx, model.PendingCheckoutEnvelope{PaymentMethod: model.PaymentCard})

	other := [32]byte{9, 9, 9}
	reader := checkout.NewEnvelopeStore(kv, envelopeKey, other)

	_, ok := reader.Load(ctx)
	assert.False(t, ok)
}

func TestEnvelopeOverwriteAndClear(t *testing.T) {
	ctx := context.Background()
	store, _ := newEnvelopeStore()

	store.Save(ctx, model.PendingCheckoutEnvelope{AddressID: 1, PaymentMethod: model.PaymentCard})
	store.Save(ctx, model.PendingCheckoutEnvelope{AddressID: 2, PaymentMethod: model.PaymentBoleto, BoletoLine: "123"})

	got, ok := store.Load(ctx)
	assert.True(t, ok)
	assert.Equal(t, int64(2), got.AddressID)
	assert.Equal(t, model.PaymentBoleto, got.PaymentMethod)

	store.Clear(ctx)
	_, ok = store.Load(ctx)
	assert.False(t, ok)
}
