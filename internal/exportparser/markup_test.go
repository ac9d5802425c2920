package exportparser_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/f-sync/followback/internal/exportparser"
)

const markupDocumentTemplate = `<!DOCTYPE html><html><head><title>Followers</title></head><body><main>%s</main></body></html>`

func TestNormalizeMarkup(t *testing.T) {
	testCases := []struct {
		name                string
		body                string
		expectedIdentifiers exportparser.CanonicalList
		expectedSkipped     int
	}{
		{
			name:                "link text is the identifier",
			body:                `<a href="https://instagram.com/dave">dave</a>`,
			expectedIdentifiers: exportparser.CanonicalList{"dave"},
		},
		{
			name:                "profile label falls back to url",
			body:                `<a href="https://instagram.com/eve">Profile</a>`,
			expectedIdentifiers: exportparser.CanonicalList{"eve"},
		},
		{
			name:                "instagram label falls back to url",
			body:                `<a href="https://www.instagram.com/finn/">Instagram</a>`,
			expectedIdentifiers: exportparser.CanonicalList{"finn"},
		},
		{
			name:                "text with spaces falls back to url",
			body:                `<a href="https://instagram.com/gus">Gus the Great</a>`,
			expectedIdentifiers: exportparser.CanonicalList{"gus"},
		},
		{
			name:                "text longer than thirty characters falls back to url",
			body:                `<a href="https://instagram.com/judy">abcdefghijklmnopqrstuvwxyz12345</a>`,
			expectedIdentifiers: exportparser.CanonicalList{"judy"},
		},
		{
			name:                "text of exactly thirty characters is accepted",
			body:                `<a href="https://instagram.com/other">abcdefghijklmnopqrstuvwxyz1234</a>`,
			expectedIdentifiers: exportparser.CanonicalList{"abcdefghijklmnopqrstuvwxyz1234"},
		},
		{
			name:                "length limit counts characters rather than bytes",
			body:                `<a href="https://instagram.com/other">` + strings.Repeat("\u00e9", 30) + `</a>`,
			expectedIdentifiers: exportparser.CanonicalList{strings.Repeat("\u00e9", 30)},
		},
		{
			name:                "thirty emoji are accepted",
			body:                `<a href="https://instagram.com/other">` + strings.Repeat("\U0001F600", 30) + `</a>`,
			expectedIdentifiers: exportparser.CanonicalList{strings.Repeat("\U0001F600", 30)},
		},
		{
			name:                "thirty one emoji fall back to url",
			body:                `<a href="https://instagram.com/lou">` + strings.Repeat("\U0001F600", 31) + `</a>`,
			expectedIdentifiers: exportparser.CanonicalList{"lou"},
		},
		{
			name:                "nested text is collected and trimmed",
			body:                `<a href="https://instagram.com/kate"><div><span> kate </span></div></a>`,
			expectedIdentifiers: exportparser.CanonicalList{"kate"},
		},
		{
			name:                "protocol relative target resolves against instagram",
			body:                `<a href="//instagram.com/nora"></a>`,
			expectedIdentifiers: exportparser.CanonicalList{"nora"},
		},
		{
			name: "reserved path segments are rejected",
			body: `<a href="https://instagram.com/explore/tags/go">Explore tags</a>` +
				`<a href="https://instagram.com/p/Cx1">see post</a>` +
				`<a href="https://instagram.com/reels/abc">watch reels</a>` +
				`<a href="https://instagram.com/stories/someone">view story</a>` +
				`<a href="https://instagram.com/accounts_login">log in</a>`,
			expectedIdentifiers: exportparser.CanonicalList{},
			expectedSkipped:     5,
		},
		{
			name:                "other hosts are ignored",
			body:                `<a href="https://example.com/ivan">ivan</a><a>no target</a><a href="https://instagram.com/olga">olga</a>`,
			expectedIdentifiers: exportparser.CanonicalList{"olga"},
		},
		{
			name:                "host root link yields nothing",
			body:                `<a href="https://instagram.com/">Instagram</a>`,
			expectedIdentifiers: exportparser.CanonicalList{},
			expectedSkipped:     1,
		},
		{
			name: "duplicates keep first position",
			body: `<div><a href="https://instagram.com/leo">leo</a></div>` +
				`<div><a href="https://instagram.com/max">max</a></div>` +
				`<div><a href="https://instagram.com/leo">Profile</a></div>`,
			expectedIdentifiers: exportparser.CanonicalList{"leo", "max"},
		},
		{
			name:                "document without links",
			body:                `<p>nothing to see</p>`,
			expectedIdentifiers: exportparser.CanonicalList{},
		},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			recorder := &diagnosticRecorder{}
			normalizer := exportparser.NewNormalizer(exportparser.Config{Diagnostics: recorder})

			payload := []byte(fmt.Sprintf(markupDocumentTemplate, testCase.body))
			identifiers, err := normalizer.Normalize(payload, exportparser.FormatMarkup)
			require.NoError(t, err)
			require.Equal(t, testCase.expectedIdentifiers, identifiers)
			require.Equal(t, testCase.expectedSkipped, recorder.count(exportparser.DiagnosticEntrySkipped))
		})
	}
}

func TestNormalizeMarkupToleratesBrokenDocuments(t *testing.T) {
	identifiers, err := exportparser.Normalize([]byte(`<div><a href="https://instagram.com/pia">pia`), exportparser.FormatMarkup)
	require.NoError(t, err)
	require.Equal(t, exportparser.CanonicalList{"pia"}, identifiers)
}

func TestNormalizeMarkupIgnoresByteOrderMark(t *testing.T) {
	identifiers, err := exportparser.Normalize([]byte("\ufeff"+`<a href="https://instagram.com/rosa">rosa</a>`), exportparser.FormatMarkup)
	require.NoError(t, err)
	require.Equal(t, exportparser.CanonicalList{"rosa"}, identifiers)
}
