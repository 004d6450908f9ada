package appointment

import (
	"crypto/rand"
	"math/big"
	"time"
)

const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// NewPublicCode builds APT-YYYYMMDD-XXXX from the creation date.
func NewPublicCode(now time.Time) (string, error) {
	suffix := make([]byte, 4)
	max := big.NewInt(int64(len(codeAlphabet)))

	for i := range suffix {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		suffix[i] = codeAlphabet[n.Int64()]
	}

	return "APT-" + now.Format("20060102") + "-" + string(suffix), nil
}
