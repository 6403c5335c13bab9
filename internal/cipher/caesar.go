package cipher

// Caesar ciphers and deciphers by advancing every character a fixed number
// of positions in the charset.
type Caesar struct{}

// Cipher advances every charset character of text key positions. Both ends
// should use the same charset or the original text won't be recovered.
func (Caesar) Cipher(text string, key int, charset string) (string, error) {
	return offsetText(text, key, true, charset), nil
}

// Decipher moves every charset character of text key positions back.
func (Caesar) Decipher(text string, key int, charset string) (string, error) {
	return offsetText(text, key, false, charset), nil
}
