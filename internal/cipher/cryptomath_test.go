package cipher

import "testing"

func TestGCD(t *testing.T) {
	cases := []struct {
		a, b, want int
	}{
		{24, 32, 8},
		{37, 24, 1},
		{0, 5, 5},
		{66, 43, 1},
	}
	for _, c := range cases {
		if got := GCD(c.a, c.b); got != c.want {
			t.Fatalf("GCD(%d, %d) = %d, want %d", c.a, c.b, got, c.want)
		}
	}
}

func TestModInverse(t *testing.T) {
	inverse, err := ModInverse(7, 26)
	if err != nil {
		t.Fatalf("mod inverse: %v", err)
	}
	if inverse != 15 {
		t.Fatalf("ModInverse(7, 26) = %d, want 15", inverse)
	}
	if Mod(7*inverse, 26) != 1 {
		t.Fatalf("inverse does not verify 7*%d %% 26 == 1", inverse)
	}
}

func TestModInverseFailsWithoutCoprimality(t *testing.T) {
	if _, err := ModInverse(4, 26); err == nil {
		t.Fatalf("expected error for non coprime arguments")
	}
}

func TestMod(t *testing.T) {
	if got := Mod(-3, 26); got != 23 {
		t.Fatalf("Mod(-3, 26) = %d, want 23", got)
	}
	if got := Mod(29, 26); got != 3 {
		t.Fatalf("Mod(29, 26) = %d, want 3", got)
	}
}
