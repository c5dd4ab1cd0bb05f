package handler

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"

	"storefront/internal/checkout"
	"storefront/internal/domain/model"
	"storefront/internal/middleware"
	"storefront/internal/session"
)

// /checkoutのHTTP
type CheckoutHandler struct{}

func NewCheckoutHandler() *CheckoutHandler {
	return &CheckoutHandler{}
}

type CheckoutRequest struct {
	PaymentMethod  model.PaymentMethod `json:"payment_method"`
	AddressID      int64               `json:"address_id"`
	PhoneID        int64               `json:"phone_id"`
	CardLastDigits string              `json:"card_last_digits"`
	CardHolderName string              `json:"card_holder_name"`
	CardBrand      string              `json:"card_brand"`
	PixKey         string              `json:"pix_key"`
	BoletoLine     string              `json:"boleto_line"`
}

type SelectPaymentMethodRequest struct {
	PaymentMethod model.PaymentMethod `json:"payment_method"`
}

// CheckoutPageResponse はチェックアウト画面1回分のロード結果。
type CheckoutPageResponse struct {
	Cart      CartResponse     `json:"cart"`
	Form      checkout.Form    `json:"form"`
	Addresses []model.Address  `json:"addresses,omitempty"`
	Phones    []model.Phone    `json:"phones,omitempty"`
	Resumed   bool             `json:"resumed"`
	Resume    *checkout.Result `json:"resume,omitempty"`
	Redirect  string           `json:"redirect,omitempty"`
}

type CheckoutSubmitResponse struct {
	checkout.Result
	RedirectTo string `json:"redirect_to,omitempty"`
}

type DeferredResponse struct {
	Error    string `json:"error"`
	Redirect string `json:"redirect"`
}

func (h *CheckoutHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/checkout", h.loadSurface)
	e.POST("/checkout", h.submit)
	e.POST("/checkout/payment-method", h.selectPaymentMethod)
}

// loadSurface は画面ロードごとの処理。退避が残っていて認証済みなら
// ここでチェックアウトが自動的に再実行される。
func (h *CheckoutHandler) loadSurface(c echo.Context) error {
	sess, ok := middleware.SessionFrom(c)
	if !ok {
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
	ctx := c.Request().Context()

	res, resumed := sess.Checkout.Resume(ctx)

	out := CheckoutPageResponse{
		Resumed: resumed,
	}
	if resumed {
		out.Resume = &res
	}
	if res.Deferred {
		if target, ok := sess.Nav.TakeLoginTarget(); ok {
			out.Redirect = loginURL(target)
		}
	}

	if sess.IsAuthenticated() {
		out.Addresses, out.Phones = h.loadCustomerData(c, sess)
	}

	out.Cart = buildCartResponse(sess)
	out.Form = sess.Checkout.FormState()

	return c.JSON(http.StatusOK, out)
}

func (h *CheckoutHandler) submit(c echo.Context) error {
	sess, ok := middleware.SessionFrom(c)
	if !ok {
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}

	var req CheckoutRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	sess.Checkout.SetForm(checkout.Form{
		PaymentMethod:  req.PaymentMethod,
		AddressID:      req.AddressID,
		PhoneID:        req.PhoneID,
		CardLastDigits: req.CardLastDigits,
		CardHolderName: req.CardHolderName,
		CardBrand:      req.CardBrand,
		PixKey:         req.PixKey,
		BoletoLine:     req.BoletoLine,
	})

	res := sess.Checkout.Submit(c.Request().Context())

	switch {
	case res.Deferred:
		redirect := loginURL("/cart")
		if target, ok := sess.Nav.TakeLoginTarget(); ok {
			redirect = loginURL(target)
		}
		return c.JSON(http.StatusUnauthorized, DeferredResponse{
			Error:    "login required",
			Redirect: redirect,
		})

	case res.ErrorMessage != "":
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error: res.ErrorMessage,
			Field: res.ErrorField,
		})

	case res.Submitted:
		out := CheckoutSubmitResponse{Result: res}
		if path, ok := sess.Nav.TakeNavigation(); ok {
			out.RedirectTo = path
		}
		return c.JSON(http.StatusCreated, out)

	default:
		// 空カート：送信なし、エラーなし
		return c.JSON(http.StatusOK, CheckoutSubmitResponse{Result: res})
	}
}

func (h *CheckoutHandler) selectPaymentMethod(c echo.Context) error {
	sess, ok := middleware.SessionFrom(c)
	if !ok {
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}

	var req SelectPaymentMethodRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if !req.PaymentMethod.Valid() {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid payment_method"})
	}

	form := sess.Checkout.SelectPaymentMethod(req.PaymentMethod)
	return c.JSON(http.StatusOK, form)
}

// loadCustomerData は住所・電話の選択肢を引き、未選択なら先頭を
// 既定値としてフォームに入れる。失敗は無言で握る（選択肢が
// 出ないだけで画面は使える）。
func (h *CheckoutHandler) loadCustomerData(c echo.Context, sess *session.Session) ([]model.Address, []model.Phone) {
	ctx := c.Request().Context()

	me, err := sess.Customer.Me(ctx)
	if err != nil {
		return nil, nil
	}

	// /me に同梱されていなければネストした参照へフォールバック
	addresses := me.Addresses
	phones := me.Phones
	if len(addresses) == 0 && me.ID > 0 {
		addresses, _ = sess.Customer.ListAddresses(ctx, me.ID)
	}
	if len(phones) == 0 && me.ID > 0 {
		phones, _ = sess.Customer.ListPhones(ctx, me.ID)
	}

	var addressID, phoneID int64
	if len(addresses) > 0 {
		addressID = addresses[0].ID
	}
	if len(phones) > 0 {
		phoneID = phones[0].ID
	}
	sess.Checkout.EnsureSelections(addressID, phoneID)

	return addresses, phones
}

func loginURL(returnTarget string) string {
	return fmt.Sprintf("/login?returnUrl=%s", url.QueryEscape(returnTarget))
}
