package utils

import "fmt"

// FormatPendingCheckoutKey builds the key for a stashed redirect-flow
// checkout. Key format: "checkout:pending:{token}"
func FormatPendingCheckoutKey(token string) string {
	return fmt.Sprintf("checkout:pending:%s", token)
}
