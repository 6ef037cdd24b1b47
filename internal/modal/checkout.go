package modal

import (
	"errors"
	"strings"
)

const (
	QuickPayBaseURLKey     = "quickPayBaseUrl"
	DefaultQuickPayBaseURL = "https://isperp.sinthiaisp.net/portal/quick-pay/"
)

var ErrBlankUserID = errors.New("modal: blank user id")

// CheckoutURL builds the quick-pay portal address for the customer.
func CheckoutURL(userID string, contacts map[string]string) (string, error) {
	trimmed := strings.TrimSpace(userID)
	if trimmed == "" {
		return "", ErrBlankUserID
	}
	baseURL := contacts[QuickPayBaseURLKey]
	if baseURL == "" {
		baseURL = DefaultQuickPayBaseURL
	}
	return baseURL + trimmed, nil
}
