package model

// PendingCheckoutEnvelope はログインリダイレクトをまたいで保持する
// チェックアウトフォームのスナップショット。スロットは1つだけで、
// 後から来た退避が前のものを上書きする。
type PendingCheckoutEnvelope struct {
	PaymentMethod  PaymentMethod `json:"payment_method"`
	AddressID      int64         `json:"address_id"`
	PhoneID        int64         `json:"phone_id"`
	CardLastDigits string        `json:"card_last_digits,omitempty"`
	CardHolderName string        `json:"card_holder_name,omitempty"`
	CardBrand      string        `json:"card_brand,omitempty"`
	PixKey         string        `json:"pix_key,omitempty"`
	BoletoLine     string        `json:"boleto_line,omitempty"`
}
