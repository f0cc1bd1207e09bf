package relay

import (
	"crypto/rand"
	"fmt"
	"math/big"
	mrand "math/rand"
)

const (
	identityBase  = 1000
	tokenAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
	tokenLength   = 50
)

// NextIdentity returns the first identity of the form User#1000, User#1001,
// ... that is not in the active set. Identities freed by disconnects are
// reused by later connects.
func NextIdentity(active map[string]struct{}) string {
	for n := identityBase; ; n++ {
		id := fmt.Sprintf("User#%d", n)
		if _, taken := active[id]; !taken {
			return id
		}
	}
}

// NewAuthToken mints a per-connection bearer token: 50 symbols drawn
// independently and uniformly from [0-9a-z] using the platform CSPRNG.
func NewAuthToken() string {
	alphabetLen := big.NewInt(int64(len(tokenAlphabet)))
	buf := make([]byte, tokenLength)
	for i := range buf {
		idx, err := rand.Int(rand.Reader, alphabetLen)
		if err != nil {
			// crypto/rand never fails on supported platforms
			panic(fmt.Sprintf("relay: auth token generation: %v", err))
		}
		buf[i] = tokenAlphabet[idx.Int64()]
	}
	return string(buf)
}

// NewColour samples a display colour with a uniformly random hue. Computed
// once at connect time and attached to the session.
func NewColour() string {
	return fmt.Sprintf("hsl(%.0f, 60%%, 60%%)", mrand.Float64()*360)
}
