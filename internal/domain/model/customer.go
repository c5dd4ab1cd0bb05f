package model

// 顧客データは上流APIの持ち物。ここでは選択肢として使う分だけ持つ。

type Address struct {
	ID      int64  `json:"id"`
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zip_code"`
}

type Phone struct {
	ID     int64  `json:"id"`
	Number string `json:"number"`
}

type Customer struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Addresses []Address `json:"addresses,omitempty"`
	Phones    []Phone   `json:"phones,omitempty"`
}
