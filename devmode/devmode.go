// Package devmode provides the demo wallet pool used when no real wallet is
// connected outside production.
package devmode

// Wallets are the placeholder addresses handed out in demo mode.
// These addresses are intentionally obvious and must never hold funds.
var Wallets = []string{
	"0x1111111111111111111111111111111111111111",
	"0x2222222222222222222222222222222222222222",
	"0x3333333333333333333333333333333333333333",
}

// Default is the address used when the precedence chain yields nothing.
func Default() string { return Wallets[0] }

// IsPlaceholder reports whether addr belongs to the demo pool.
func IsPlaceholder(addr string) bool {
	for _, w := range Wallets {
		if w == addr {
			return true
		}
	}
	return false
}
