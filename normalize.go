// CLAUDE:SUMMARY Application-number normalization: strip display hyphens so grouped and ungrouped forms address the same filing.
package kipris

import (
	"fmt"
	"strings"
)

// NormalizeApplicationNumber strips display separators from an application
// number so "10-2020-0123456" and "1020200123456" produce the same upstream
// request. Returns ErrInvalidInput for empty or non-numeric input.
func NormalizeApplicationNumber(raw string) (string, error) {
	n := strings.ReplaceAll(strings.TrimSpace(raw), "-", "")
	if n == "" {
		return "", fmt.Errorf("%w: application number is required", ErrInvalidInput)
	}
	for _, r := range n {
		if r < '0' || r > '9' {
			return "", fmt.Errorf("%w: application number %q is not numeric", ErrInvalidInput, raw)
		}
	}
	return n, nil
}
