package modal

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCheckoutURL(testingT *testing.T) {
	testCases := []struct {
		name        string
		userID      string
		contacts    map[string]string
		expectedURL string
		expectedErr error
	}{
		{name: "configured base", userID: "C-1001", contacts: map[string]string{QuickPayBaseURLKey: "https://pay.example/q/"}, expectedURL: "https://pay.example/q/C-1001"},
		{name: "fallback base", userID: " C-1002 ", contacts: nil, expectedURL: DefaultQuickPayBaseURL + "C-1002"},
		{name: "blank id", userID: "   ", expectedErr: ErrBlankUserID},
	}
	for _, testCase := range testCases {
		testingT.Run(testCase.name, func(testingT *testing.T) {
			checkoutURL, checkoutErr := CheckoutURL(testCase.userID, testCase.contacts)
			if testCase.expectedErr != nil {
				require.ErrorIs(testingT, checkoutErr, testCase.expectedErr)
				return
			}
			require.NoError(testingT, checkoutErr)
			require.Equal(testingT, testCase.expectedURL, checkoutURL)
		})
	}
}
