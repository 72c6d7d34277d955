// internal/cardcrypto/mask.go
package cardcrypto

// maskPlaceholder is returned for inputs that carry fewer than four digits.
const maskPlaceholder = "**** **** **** ****"

// Mask derives the display representation of a card number, keeping only
// the last four digits. Non-digit characters (spaces, dashes) are stripped
// first. Malformed input degrades to the fully masked placeholder; Mask
// never fails.
func Mask(number string) string {
	digits := make([]byte, 0, len(number))
	for i := 0; i < len(number); i++ {
		if number[i] >= '0' && number[i] <= '9' {
			digits = append(digits, number[i])
		}
	}
	if len(digits) < 4 {
		return maskPlaceholder
	}
	return "**** **** **** " + string(digits[len(digits)-4:])
}
