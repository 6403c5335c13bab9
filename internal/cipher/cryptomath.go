package cipher

import "fmt"

// GCD returns the greatest common divisor of a and b using Euclid's
// algorithm.
func GCD(a, b int) int {
	for a != 0 {
		a, b = b%a, a
	}
	return b
}

// ModInverse returns the number x such that a*x % m == 1. It fails when a
// and m are not relatively prime.
func ModInverse(a, m int) (int, error) {
	if GCD(a, m) != 1 {
		return 0, fmt.Errorf("no modular inverse: %d and %d are not relatively prime", a, m)
	}
	u1, u2, u3 := 1, 0, a
	v1, v2, v3 := 0, 1, m
	for v3 != 0 {
		q := u3 / v3
		u1, u2, u3, v1, v2, v3 = v1, v2, v3, u1-q*v1, u2-q*v2, u3-q*v3
	}
	return Mod(u1, m), nil
}

// Mod returns the floor modulus of a and b. Unlike the % operator it never
// returns a negative result for positive b.
func Mod(a, b int) int {
	return ((a % b) + b) % b
}
