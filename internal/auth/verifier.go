package auth

import (
	"errors"

	"github.com/golang-jwt/jwt/v4"
)

// Verifier はアクセストークンを検証して認証状態を判定する。
// ゲートウェイは未認証の訪問者も受けるので、拒否ではなく
// 「認証済みかどうか」の分類に使う。
type Verifier struct {
	secret []byte
}

func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

// Authenticated は署名・期限が有効なHS256トークンならtrue。
func (v *Verifier) Authenticated(rawToken string) bool {
	if rawToken == "" {
		return false
	}

	token, err := jwt.Parse(rawToken, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return v.secret, nil
	})
	return err == nil && token != nil && token.Valid
}
