package probe

import (
	"fmt"
	"strings"
)

// ContainsKeyword reports whether keyword occurs in text, ignoring case.
func ContainsKeyword(text, keyword string) (bool, string) {
	if strings.Contains(strings.ToLower(text), strings.ToLower(keyword)) {
		return true, fmt.Sprintf("keyword '%s' located", keyword)
	}

	return false, fmt.Sprintf("keyword '%s' not found", keyword)
}
