package gateway

import (
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"math"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"marketpay/internal/config"
	"marketpay/internal/logger"
	"marketpay/internal/order"
	"marketpay/internal/paymethod"

	"go.uber.org/zap"
)

// OgoneCode is the payment-method code orders reference this gateway by.
const OgoneCode = "OGONE"

var (
	ErrMissingField     = errors.New("gateway feedback missing required field")
	ErrBadSignature     = errors.New("gateway feedback signature mismatch")
	ErrMissingSignature = errors.New("gateway feedback carries no signature")
)

type ogoneGateway struct {
	pspid    string
	shaIn    string
	shaOut   string
	newHash  func() hash.Hash
	hashName string
}

// NewOgoneGateway builds the Ogone-protocol adapter from platform credentials.
func NewOgoneGateway(cfg *config.Config) Gateway {
	if cfg.OgoneShaOut == "" {
		logger.L().Warn("Ogone SHA-OUT passphrase is empty, feedback cannot be authenticated")
	}

	newHash, name := hashFor(cfg.OgoneHashAlgo)

	return &ogoneGateway{
		pspid:    cfg.OgonePSPID,
		shaIn:    cfg.OgoneShaIn,
		shaOut:   cfg.OgoneShaOut,
		newHash:  newHash,
		hashName: name,
	}
}

func hashFor(algo string) (func() hash.Hash, string) {
	switch strings.ToLower(algo) {
	case "sha256":
		return sha256.New, "sha256"
	case "sha512":
		return sha512.New, "sha512"
	default:
		// The protocol's historical default.
		return sha1.New, "sha1"
	}
}

func (g *ogoneGateway) Code() string {
	return OgoneCode
}

// ----------------- Feedback parsing -----------------

func (g *ogoneGateway) ParseFeedback(values url.Values) (*Feedback, error) {
	raw := make(map[string]string, len(values))
	for k := range values {
		raw[strings.ToUpper(k)] = values.Get(k)
	}

	fb := &Feedback{
		OrderRef:  raw["ORDERID"],
		RemoteID:  raw["PAYID"],
		Currency:  raw["CURRENCY"],
		Signature: raw["SHASIGN"],
		Raw:       raw,
	}

	if fb.OrderRef == "" {
		return nil, fmt.Errorf("%w: ORDERID", ErrMissingField)
	}
	if fb.RemoteID == "" {
		return nil, fmt.Errorf("%w: PAYID", ErrMissingField)
	}

	status, err := strconv.Atoi(raw["STATUS"])
	if err != nil {
		return nil, fmt.Errorf("%w: STATUS", ErrMissingField)
	}
	fb.StatusCode = status

	if raw["AMOUNT"] != "" {
		amount, err := strconv.ParseInt(raw["AMOUNT"], 10, 64)
		if err != nil || amount < 0 {
			return nil, fmt.Errorf("%w: AMOUNT", ErrMissingField)
		}
		fb.Amount = amount
	}

	return fb, nil
}

// ----------------- Signature -----------------

// VerifySignature checks the SHA-OUT digest over every delivered field.
// The protocol signs per order/method delivery, so both are required even
// though the platform currently holds one passphrase.
func (g *ogoneGateway) VerifySignature(o *order.Order, m *paymethod.Method, fb *Feedback) error {
	if o == nil || m == nil {
		return errors.New("order and payment method are required for verification")
	}
	if fb.Signature == "" {
		return ErrMissingSignature
	}

	expected := g.sign(fb.Raw, g.shaOut)
	if !strings.EqualFold(expected, fb.Signature) {
		logger.L().Warn("Ogone signature mismatch",
			zap.Uint("order_id", o.ID),
			zap.String("pay_id", fb.RemoteID),
			zap.String("hash", g.hashName),
		)
		return ErrBadSignature
	}
	return nil
}

// sign computes the passphrase-salted digest over the uppercase-key-sorted
// non-empty fields, SHASIGN excluded.
func (g *ogoneGateway) sign(fields map[string]string, passphrase string) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		k = strings.ToUpper(k)
		if k == "SHASIGN" || fields[k] == "" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for _, k := range keys {
		sb.WriteString(k)
		sb.WriteString("=")
		sb.WriteString(fields[k])
		sb.WriteString(passphrase)
	}

	h := g.newHash()
	h.Write([]byte(sb.String()))
	return strings.ToUpper(hex.EncodeToString(h.Sum(nil)))
}

// ----------------- Outbound request -----------------

func (g *ogoneGateway) BuildPaymentRequest(reference string, amount float64, currency string) url.Values {
	fields := map[string]string{
		"PSPID":    g.pspid,
		"ORDERID":  reference,
		"AMOUNT":   strconv.FormatInt(toMinorUnits(amount), 10),
		"CURRENCY": currency,
	}
	fields["SHASIGN"] = g.sign(fields, g.shaIn)

	out := url.Values{}
	for k, v := range fields {
		out.Set(k, v)
	}
	return out
}

func toMinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// ----------------- Status mapping -----------------

func (g *ogoneGateway) StatusOf(code int) (Status, string) {
	switch code {
	case 5:
		return StatusAuthorized, "authorization accepted"
	case 9:
		return StatusPaid, "payment requested"
	case 41, 51, 91:
		return StatusPending, "payment processing"
	case 92:
		return StatusPending, "payment uncertain"
	case 0:
		return StatusFailed, "invalid or incomplete"
	case 1:
		return StatusFailed, "canceled by customer"
	case 2:
		return StatusFailed, "authorization refused"
	case 93:
		return StatusFailed, "payment refused"
	default:
		return StatusUnknown, fmt.Sprintf("unhandled gateway status %d", code)
	}
}
