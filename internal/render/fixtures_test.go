package render

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/MarkoPoloResearchLab/sinthia_site/internal/content"
	"github.com/MarkoPoloResearchLab/sinthia_site/internal/testutil"
)

func fixtureStore(testingT *testing.T) *content.Store {
	testingT.Helper()
	store := content.NewStore()
	contentDocuments := map[string]string{
		content.KeyTranslations: testutil.FixtureTranslations,
		content.KeyServices:     testutil.FixtureServices,
		content.KeyPackages:     testutil.FixturePackages,
		content.KeyCoverage:     testutil.FixtureCoverage,
		content.KeyTestimonials: testutil.FixtureTestimonials,
		content.KeyContacts:     testutil.FixtureContacts,
	}
	for key, document := range contentDocuments {
		require.NoError(testingT, store.SetContent(key, json.RawMessage(document)))
	}
	policyDocuments := map[string]string{
		content.PolicyTerms:   testutil.FixtureTermsPolicy,
		content.PolicyUsage:   testutil.FixtureUsagePolicy,
		content.PolicyPrivacy: testutil.FixturePrivacyPolicy,
		content.PolicyRefund:  testutil.FixtureRefundPolicy,
	}
	for key, document := range policyDocuments {
		require.NoError(testingT, store.SetPolicy(key, json.RawMessage(document)))
	}
	return store
}
