package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"log"

	"spiceshop/internal/domain"
)

// Verifier checks payment callback signatures against the gateway secret.
// This is the single trust boundary of the checkout flow: nothing is written
// anywhere until Verify accepts the proof. The secret never leaves process.
type Verifier struct {
	secret []byte
	logger *log.Logger
}

func NewVerifier(secret string, logger *log.Logger) *Verifier {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Verifier{secret: []byte(secret), logger: logger}
}

// Verify recomputes HMAC-SHA256(secret, orderID + "|" + paymentID) as a
// lowercase hex digest and compares it with the claimed signature in constant
// time. Any missing field fails outright.
func (v *Verifier) Verify(proof domain.PaymentProof) error {
	if proof.GatewayOrderID == "" || proof.GatewayPaymentID == "" || proof.Signature == "" {
		return domain.ErrVerificationFailed
	}

	expected := v.sign(proof.GatewayOrderID, proof.GatewayPaymentID)
	if !hmac.Equal([]byte(expected), []byte(proof.Signature)) {
		// Both digests are logged for audit; the secret stays out of the log.
		v.logger.Printf("payment: signature mismatch order=%s computed=%s claimed=%s",
			proof.GatewayOrderID, expected, proof.Signature)
		return domain.ErrVerificationFailed
	}
	return nil
}

func (v *Verifier) sign(orderID, paymentID string) string {
	mac := hmac.New(sha256.New, v.secret)
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}
