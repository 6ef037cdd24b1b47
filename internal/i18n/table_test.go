package i18n

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func testTable() Table {
	return Table{
		"en": {"greeting": "Hello", "farewell": "Goodbye", "only_en": "English only"},
		"bn": {"greeting": "হ্যালো", "farewell": ""},
	}
}

func TestResolveFallsBackToBaseLanguage(testingT *testing.T) {
	table := testTable()

	testCases := []struct {
		name         string
		languageCode string
		key          string
		expectedText string
		expectedOK   bool
	}{
		{name: "active language", languageCode: "bn", key: "greeting", expectedText: "হ্যালো", expectedOK: true},
		{name: "missing key in active language", languageCode: "bn", key: "only_en", expectedText: "English only", expectedOK: true},
		{name: "empty text in active language", languageCode: "bn", key: "farewell", expectedText: "Goodbye", expectedOK: true},
		{name: "unknown language", languageCode: "fr", key: "greeting", expectedText: "Hello", expectedOK: true},
		{name: "missing everywhere", languageCode: "bn", key: "absent", expectedText: "", expectedOK: false},
	}

	for _, testCase := range testCases {
		testCase := testCase
		testingT.Run(testCase.name, func(testingT *testing.T) {
			text, resolved := table.Resolve(testCase.languageCode, testCase.key)
			require.Equal(testingT, testCase.expectedOK, resolved)
			require.Equal(testingT, testCase.expectedText, text)
		})
	}
}

func TestEveryBaseKeyResolvesInEveryLanguage(testingT *testing.T) {
	table := testTable()
	for languageCode := range table {
		for key, baseText := range table[BaseLanguage] {
			if localized := table[languageCode][key]; localized != "" {
				continue
			}
			text, resolved := table.Resolve(languageCode, key)
			require.True(testingT, resolved)
			require.Equal(testingT, baseText, text)
		}
	}
}

func TestTextUsesLiteralFallback(testingT *testing.T) {
	table := testTable()
	require.Equal(testingT, "Sending...", table.Text("bn", "form_status_sending", "Sending..."))
	require.Equal(testingT, "Hello", table.Text("en", "greeting", "unused"))
}

func TestUsableRequiresBaseLanguage(testingT *testing.T) {
	require.True(testingT, testTable().Usable())
	require.False(testingT, Table{"bn": {"greeting": "x"}}.Usable())
	require.False(testingT, Table(nil).Usable())
}

func TestNormalizeLanguage(testingT *testing.T) {
	testCases := []struct {
		rawCode      string
		expectedCode string
		expectedOK   bool
	}{
		{rawCode: "en", expectedCode: "en", expectedOK: true},
		{rawCode: " bn ", expectedCode: "bn", expectedOK: true},
		{rawCode: "en-US", expectedCode: "en", expectedOK: true},
		{rawCode: "", expectedOK: false},
		{rawCode: "not a language", expectedOK: false},
	}
	for _, testCase := range testCases {
		code, normalized := NormalizeLanguage(testCase.rawCode)
		require.Equal(testingT, testCase.expectedOK, normalized, testCase.rawCode)
		require.Equal(testingT, testCase.expectedCode, code, testCase.rawCode)
	}
}

func TestTableDecodingDropsNonStringEntries(testingT *testing.T) {
	var table Table
	decodeErr := json.Unmarshal([]byte(`{
  "en": {"page_title": "T", "stat_count": 3, "nested": {"a": "b"}, "flag": true, "empty": null},
  "bn": {"page_title": "টি"},
  "version": 2
}`), &table)
	require.NoError(testingT, decodeErr)

	require.True(testingT, table.Usable())
	require.Equal(testingT, map[string]string{"page_title": "T"}, table["en"])
	require.False(testingT, table.HasLanguage("version"))
	require.Equal(testingT, "fallback", table.Text("en", "stat_count", "fallback"))
	require.Equal(testingT, "টি", table.Text("bn", "page_title", ""))
}

func TestTableDecodingRejectsNonObjectDocument(testingT *testing.T) {
	var table Table
	require.Error(testingT, json.Unmarshal([]byte(`["en"]`), &table))
}
