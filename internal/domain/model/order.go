package model

import "time"

type OrderStatus string

const (
	OrderStatusPending  OrderStatus = "PENDING"
	OrderStatusPaid     OrderStatus = "PAID"
	OrderStatusShipped  OrderStatus = "SHIPPED"
	OrderStatusCanceled OrderStatus = "CANCELED"
)

// Order は注文APIが返す作成済み注文。
type Order struct {
	ID         int64       `json:"id"`
	Status     OrderStatus `json:"status"`
	TotalPrice int64       `json:"total_price"`
	CreatedAt  time.Time   `json:"created_at"`
}

type OrderItemRequest struct {
	ProductID int64 `json:"product_id"`
	Quantity  int64 `json:"quantity"`
	UnitPrice int64 `json:"unit_price"`
}

// OrderCreationRequest は注文作成のリクエスト。保存はせず、
// 送信のたびにカートとフォームから組み立てる。
// IdempotencyKey は送信ごとに新しく採番する（二重注文防止）。
type OrderCreationRequest struct {
	AddressID      int64              `json:"address_id"`
	PhoneID        int64              `json:"phone_id"`
	PaymentMethod  PaymentMethod      `json:"payment_method"`
	Items          []OrderItemRequest `json:"items"`
	CardLastDigits string             `json:"card_last_digits,omitempty"`
	CardHolderName string             `json:"card_holder_name,omitempty"`
	CardBrand      string             `json:"card_brand,omitempty"`
	PixKey         string             `json:"pix_key,omitempty"`
	BoletoLine     string             `json:"boleto_line,omitempty"`
	IdempotencyKey string             `json:"idempotency_key"`
}
