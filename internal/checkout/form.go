package checkout

import "storefront/internal/domain/model"

// Form はチェックアウト画面の入力状態。
type Form struct {
	PaymentMethod  model.PaymentMethod `json:"payment_method"`
	AddressID      int64               `json:"address_id"`
	PhoneID        int64               `json:"phone_id"`
	CardLastDigits string              `json:"card_last_digits,omitempty"`
	CardHolderName string              `json:"card_holder_name,omitempty"`
	CardBrand      string              `json:"card_brand,omitempty"`
	PixKey         string              `json:"pix_key,omitempty"`
	BoletoLine     string              `json:"boleto_line,omitempty"`
}

// DefaultForm の既定はカード払い。
func DefaultForm() Form {
	return Form{PaymentMethod: model.PaymentCard}
}

// clearMethodFields は方法切替時に方法固有の入力を消す。
func (f *Form) clearMethodFields() {
	f.CardLastDigits = ""
	f.CardHolderName = ""
	f.CardBrand = ""
	f.PixKey = ""
	f.BoletoLine = ""
}

func (f Form) envelope() model.PendingCheckoutEnvelope {
	return model.PendingCheckoutEnvelope{
		PaymentMethod:  f.PaymentMethod,
		AddressID:      f.AddressID,
		PhoneID:        f.PhoneID,
		CardLastDigits: f.CardLastDigits,
		CardHolderName: f.CardHolderName,
		CardBrand:      f.CardBrand,
		PixKey:         f.PixKey,
		BoletoLine:     f.BoletoLine,
	}
}

func formFromEnvelope(env model.PendingCheckoutEnvelope) Form {
	f := Form{
		PaymentMethod:  env.PaymentMethod,
		AddressID:      env.AddressID,
		PhoneID:        env.PhoneID,
		CardLastDigits: env.CardLastDigits,
		CardHolderName: env.CardHolderName,
		CardBrand:      env.CardBrand,
		PixKey:         env.PixKey,
		BoletoLine:     env.BoletoLine,
	}
	if f.PaymentMethod == "" {
		f.PaymentMethod = model.PaymentCard
	}
	return f
}
