package devmode

import "testing"

func TestPool(t *testing.T) {
	if len(Wallets) != 3 {
		t.Fatalf("pool size = %d", len(Wallets))
	}
	for _, w := range Wallets {
		if len(w) != 42 || !IsPlaceholder(w) {
			t.Fatalf("bad placeholder %q", w)
		}
	}
	if Default() != Wallets[0] {
		t.Fatalf("default = %q", Default())
	}
	if IsPlaceholder("0xAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA") {
		t.Fatal("real wallet reported as placeholder")
	}
}
