package web

import (
	"encoding/base64"
	"time"

	json "github.com/bytedance/sonic"
	"github.com/curaious/companion/pkg/companionform"
	"github.com/valyala/fasthttp"
)

// FlashCookie carries a notice across the redirect that follows a successful submit.
const FlashCookie = "companion_flash"

type flashPayload struct {
	Message    string `json:"message"`
	Variant    string `json:"variant"`
	DurationMs int64  `json:"durationMs"`
}

func encodeFlash(n companionform.Notice) (string, error) {
	data, err := json.Marshal(flashPayload{
		Message:    n.Message,
		Variant:    string(n.Variant),
		DurationMs: n.Duration.Milliseconds(),
	})
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(data), nil
}

func decodeFlash(value string) (companionform.Notice, bool) {
	data, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil {
		return companionform.Notice{}, false
	}

	var p flashPayload
	if err := json.Unmarshal(data, &p); err != nil || p.Message == "" {
		return companionform.Notice{}, false
	}

	return companionform.Notice{
		Message:  p.Message,
		Variant:  companionform.Variant(p.Variant),
		Duration: time.Duration(p.DurationMs) * time.Millisecond,
	}, true
}

// SetFlash stores n in a short-lived cookie on the response.
func SetFlash(ctx *fasthttp.RequestCtx, n companionform.Notice) error {
	value, err := encodeFlash(n)
	if err != nil {
		return err
	}

	c := fasthttp.AcquireCookie()
	defer fasthttp.ReleaseCookie(c)
	c.SetKey(FlashCookie)
	c.SetValue(value)
	c.SetPath("/")
	c.SetHTTPOnly(true)
	c.SetSameSite(fasthttp.CookieSameSiteLaxMode)
	c.SetMaxAge(60)
	ctx.Response.Header.SetCookie(c)
	return nil
}

// DropFlash removes a flash cookie set earlier on the same response.
func DropFlash(ctx *fasthttp.RequestCtx) {
	ctx.Response.Header.DelCookie(FlashCookie)
}

// TakeFlash reads the notice left by the previous response and expires the cookie.
func TakeFlash(ctx *fasthttp.RequestCtx) *Notice {
	raw := ctx.Request.Header.Cookie(FlashCookie)
	if len(raw) == 0 {
		return nil
	}

	ctx.Response.Header.DelClientCookie(FlashCookie)

	n, ok := decodeFlash(string(raw))
	if !ok {
		return nil
	}
	return NewNotice(n)
}
