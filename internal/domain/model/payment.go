package model

type PaymentMethod string

const (
	PaymentCard   PaymentMethod = "CARD"
	PaymentPix    PaymentMethod = "PIX"
	PaymentBoleto PaymentMethod = "BOLETO"
)

// Valid は選択可能な支払い方法かどうか。
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCard, PaymentPix, PaymentBoleto:
		return true
	}
	return false
}
