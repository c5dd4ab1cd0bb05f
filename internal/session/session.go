package session

import (
	"sync"

	"storefront/internal/api"
	"storefront/internal/auth"
	"storefront/internal/cart"
	"storefront/internal/checkout"
)

// Session は1ブラウザセッション分のクライアントコア一式。
// Store/Synchronizer/Orchestrator はセッションごとに独立で、
// スナップショットと退避スロットはセッションIDでキーが分かれる。
type Session struct {
	ID string

	Store    *cart.Store
	Carts    *cart.Synchronizer
	Checkout *checkout.Orchestrator
	Catalog  *api.CatalogClient
	Customer *api.CustomerClient
	Nav      *NavRecorder

	verifier *auth.Verifier

	mu    sync.RWMutex
	token string
}

// SetToken はリクエストごとに現在のBearerトークンを差し替える。
// 未認証なら空文字。
func (s *Session) SetToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
}

// Token は api.TokenSource の実装。
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// IsAuthenticated は cart.Authenticator の実装。
func (s *Session) IsAuthenticated() bool {
	return s.verifier.Authenticated(s.Token())
}

// NavRecorder は checkout.Navigator の実装。リダイレクト先を
// 記録してHTTPレスポンスに変換できるようにする。
type NavRecorder struct {
	mu          sync.Mutex
	loginTarget string
	navigatedTo string
}

func (n *NavRecorder) RedirectToLogin(returnTarget string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.loginTarget = returnTarget
}

func (n *NavRecorder) NavigateTo(path string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.navigatedTo = path
}

// TakeLoginTarget は記録を読み出してクリアする。
func (n *NavRecorder) TakeLoginTarget() (string, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	t := n.loginTarget
	n.loginTarget = ""
	return t, t != ""
}

func (n *NavRecorder) TakeNavigation() (string, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	p := n.navigatedTo
	n.navigatedTo = ""
	return p, p != ""
}
