package checkout

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"storefront/internal/api"
	"storefront/internal/cart"
	"storefront/internal/domain/model"
)

// OrderService は注文作成コラボレーター。
type OrderService interface {
	Create(ctx context.Context, in model.OrderCreationRequest) (model.Order, error)
}

// Navigator は画面遷移コラボレーター。中身は不透明に扱う。
type Navigator interface {
	RedirectToLogin(returnTarget string)
	NavigateTo(path string)
}

// Result は1回のチェックアウト試行の結果。
// Deferred はログイン後に再開される退避。ErrorMessage は
// ユーザー修正で回復できる失敗（カートもフォームも消さない）。
type Result struct {
	Submitted    bool        `json:"submitted"`
	Deferred     bool        `json:"deferred"`
	Order        model.Order `json:"order"`
	Message      string      `json:"message,omitempty"`
	ErrorField   string      `json:"error_field,omitempty"`
	ErrorMessage string      `json:"error_message,omitempty"`
}

const confirmationMessage = "order created, awaiting confirmation"

// Orchestrator はチェックアウトの前提検証・注文リクエストの組み立て・
// 送信・成否の振り分けを行う。フォーム状態もここが持つ。
type Orchestrator struct {
	store     *cart.Store
	carts     *cart.Synchronizer
	orders    OrderService
	auth      cart.Authenticator
	nav       Navigator
	envelopes *EnvelopeStore

	// 成功表示を見せてから遷移するための固定ディレイ。
	// 0なら同期的に遷移する（テスト用）。
	confirmDelay time.Duration
	returnTarget string
	confirmPath  string

	mu   sync.Mutex
	form Form
}

func NewOrchestrator(
	store *cart.Store,
	carts *cart.Synchronizer,
	orders OrderService,
	auth cart.Authenticator,
	nav Navigator,
	envelopes *EnvelopeStore,
	confirmDelay time.Duration,
) *Orchestrator {
	return &Orchestrator{
		store:        store,
		carts:        carts,
		orders:       orders,
		auth:         auth,
		nav:          nav,
		envelopes:    envelopes,
		confirmDelay: confirmDelay,
		returnTarget: "/cart",
		confirmPath:  "/orders",
		form:         DefaultForm(),
	}
}

// FormState は現在のフォームのコピー。
func (o *Orchestrator) FormState() Form {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.form
}

func (o *Orchestrator) SetForm(f Form) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.form = f
}

// SelectPaymentMethod は方法を切り替えて方法固有の入力を消す。
func (o *Orchestrator) SelectPaymentMethod(m model.PaymentMethod) Form {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.form.PaymentMethod = m
	o.form.clearMethodFields()
	return o.form
}

// EnsureSelections は未選択の住所・電話に既定値を入れる。
// 選択済みのものは上書きしない。
func (o *Orchestrator) EnsureSelections(addressID int64, phoneID int64) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.form.AddressID == 0 && addressID > 0 {
		o.form.AddressID = addressID
	}
	if o.form.PhoneID == 0 && phoneID > 0 {
		o.form.PhoneID = phoneID
	}
}

// Submit は現在のフォームで1回のチェックアウト試行を行う。
func (o *Orchestrator) Submit(ctx context.Context) Result {
	o.mu.Lock()
	form := o.form
	o.mu.Unlock()

	// 未認証なら退避してログインへ。ここで試行は終わり。
	if !o.auth.IsAuthenticated() {
		return o.deferToLogin(ctx, form)
	}

	// 空カートは黙って何もしない
	lines := o.store.Read()
	if len(lines) == 0 {
		return Result{}
	}

	if !form.PaymentMethod.Valid() {
		return fieldError("payment_method", "choose a payment method")
	}
	if form.AddressID <= 0 {
		return fieldError("address_id", "select a delivery address")
	}
	if form.PhoneID <= 0 {
		return fieldError("phone_id", "select a contact phone")
	}

	req := model.OrderCreationRequest{
		AddressID:     form.AddressID,
		PhoneID:       form.PhoneID,
		PaymentMethod: form.PaymentMethod,
	}

	// 支払い方法ごとに必須の1項目
	switch form.PaymentMethod {
	case model.PaymentPix:
		key := strings.TrimSpace(form.PixKey)
		if key == "" {
			return fieldError("pix_key", "inform the PIX key")
		}
		req.PixKey = key
	case model.PaymentBoleto:
		line := strings.TrimSpace(form.BoletoLine)
		if line == "" {
			return fieldError("boleto_line", "inform the boleto line code")
		}
		req.BoletoLine = line
	default:
		digits := strings.TrimSpace(form.CardLastDigits)
		if digits == "" {
			return fieldError("card_last_digits", "inform at least the last digits of the card")
		}
		req.CardLastDigits = digits
		req.CardHolderName = strings.TrimSpace(form.CardHolderName)
		req.CardBrand = strings.TrimSpace(form.CardBrand)
	}

	// 商品IDの引けない明細は落とす。全部落ちたら送らない。
	for _, l := range lines {
		if l.Product.ID <= 0 {
			continue
		}
		req.Items = append(req.Items, model.OrderItemRequest{
			ProductID: l.Product.ID,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
		})
	}
	if len(req.Items) == 0 {
		return Result{ErrorMessage: "no purchasable items in the cart"}
	}

	req.IdempotencyKey = uuid.NewString()

	order, err := o.orders.Create(ctx, req)
	if err != nil {
		// ガード通過後にセッションが切れていた場合も退避で拾う
		if errors.Is(err, api.ErrUnauthorized) {
			return o.deferToLogin(ctx, form)
		}

		msg := "could not create the order"
		var apiErr *api.Error
		if errors.As(err, &apiErr) && apiErr.Message != "" {
			msg = apiErr.Message
		}
		return Result{ErrorMessage: msg}
	}

	// 成功：カート（ローカル＋リモート）と退避を消してフォームを戻す
	o.carts.Clear(ctx)
	o.envelopes.Clear(ctx)
	o.mu.Lock()
	o.form = DefaultForm()
	o.mu.Unlock()

	if o.confirmDelay > 0 {
		time.AfterFunc(o.confirmDelay, func() {
			o.nav.NavigateTo(o.confirmPath)
		})
	} else {
		o.nav.NavigateTo(o.confirmPath)
	}

	return Result{
		Submitted: true,
		Order:     order,
		Message:   confirmationMessage,
	}
}

// Resume はチェックアウト画面のロードごとに呼ぶ。
// 退避があり認証済みなら、退避を消してフォームを復元し、
// チェックアウトをまるごと再実行する。カートが空（リダイレクト後の
// リロード等）ならFetchしてから再実行して、水和レースで購入が
// 黙って落ちないようにする。未認証なら退避は触らない。
func (o *Orchestrator) Resume(ctx context.Context) (Result, bool) {
	env, ok := o.envelopes.Load(ctx)
	if !ok {
		return Result{}, false
	}
	if !o.auth.IsAuthenticated() {
		// 次のロードで再試行
		return Result{}, false
	}

	o.envelopes.Clear(ctx)
	o.SetForm(formFromEnvelope(env))

	if len(o.store.Read()) == 0 {
		o.carts.Fetch(ctx)
	}
	return o.Submit(ctx), true
}

func (o *Orchestrator) deferToLogin(ctx context.Context, form Form) Result {
	o.envelopes.Save(ctx, form.envelope())
	o.nav.RedirectToLogin(o.returnTarget)
	return Result{Deferred: true}
}

func fieldError(field string, msg string) Result {
	return Result{ErrorField: field, ErrorMessage: msg}
}
