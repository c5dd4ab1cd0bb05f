package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"storefront/internal/session"
)

const (
	// セッションクッキー（匿名訪問者もここで追跡する）
	SessionCookieName = "storefront_session"

	CtxSessionKey = "storefront_session_obj"
)

// Attach はリクエストにセッションを割り当てる。拒否はしない。
// Bearerトークンがあればセッションに渡す（検証は参照時）。
func Attach(reg *session.Registry) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := sessionID(c)
			sess := reg.Get(c.Request().Context(), id)
			sess.SetToken(bearerToken(c))

			c.Set(CtxSessionKey, sess)
			return next(c)
		}
	}
}

// SessionFrom はAttach済みのリクエストからセッションを取り出す。
func SessionFrom(c echo.Context) (*session.Session, bool) {
	s, ok := c.Get(CtxSessionKey).(*session.Session)
	return s, ok
}

func sessionID(c echo.Context) string {
	if cookie, err := c.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	id := uuid.NewString()
	c.SetCookie(&http.Cookie{
		Name:     SessionCookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

// bearerTokenはBearer形式だけ受ける。形式違いは未認証扱い。
func bearerToken(c echo.Context) string {
	authz := c.Request().Header.Get("Authorization")
	if authz == "" {
		return ""
	}

	parts := strings.SplitN(authz, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
