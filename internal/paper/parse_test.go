package paper

import (
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExcerpt_TrimsAtRuneBoundary(t *testing.T) {
	// The two-byte rune straddles the limit; the cut must not split it.
	long := strings.Repeat("a", excerptLimit-1) + "é"
	got := excerpt(long, excerptLimit)
	assert.Equal(t, strings.Repeat("a", excerptLimit-1), got)
	assert.True(t, utf8.ValidString(got))

	assert.Equal(t, "héllo", excerpt("héllo", excerptLimit))
}

func TestParseTiered_DirectParse(t *testing.T) {
	half, tier, err := parseTiered(`{"title": "Clean", "abstract": "Fine."}`, "Part 1")
	require.NoError(t, err)
	assert.Equal(t, tierDirect, tier)
	assert.Equal(t, "Clean", half.Title)
}

func TestParseTiered_SanitizeTier(t *testing.T) {
	// Literal newline inside a string value breaks the direct parse but is
	// fixed by sanitization alone.
	raw := "{\"title\": \"Edge\", \"abstract\": \"one\ntwo\"}"
	half, tier, err := parseTiered(raw, "Part 1")
	require.NoError(t, err)
	assert.Equal(t, tierSanitized, tier)
	assert.Equal(t, "one\ntwo", half.Abstract)
}

func TestParseTiered_RepairTierEscalation(t *testing.T) {
	// Truncated mid-string: tiers 1 and 2 fail with a syntax error, tier 3
	// closes the string and brace. The returned tier proves tiers 4 and 5
	// were never attempted.
	raw := `{"title": "Edge", "abstract": "cut off mid sent`
	half, tier, err := parseTiered(raw, "Part 1")
	require.NoError(t, err)
	assert.Equal(t, tierRepaired, tier)
	assert.Equal(t, "Edge", half.Title)
	assert.Equal(t, "cut off mid sent", half.Abstract)
}

func TestParseTiered_BraceBlockTier(t *testing.T) {
	raw := `Sure, here is the requested JSON: {"title": "Wrapped"} Hope this helps!`
	half, tier, err := parseTiered(raw, "Part 2")
	require.NoError(t, err)
	assert.Equal(t, tierBraceBlock, tier)
	assert.Equal(t, "Wrapped", half.Title)
}

func TestParseResilient_EmptyInputFails(t *testing.T) {
	_, err := ParseResilient("", "Part 1")
	require.Error(t, err)

	var perr *ParseError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "Part 1", perr.Label)
}

func TestParseResilient_UnrecoverableKeepsLabelAndExcerpt(t *testing.T) {
	raw := `Sorry, I cannot produce that {{{" nonsense ]]]`
	_, err := ParseResilient(raw, "Part 2")
	require.Error(t, err)

	var perr *ParseError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "Part 2", perr.Label)
	assert.NotEmpty(t, perr.Excerpt)
	assert.LessOrEqual(t, len(perr.Excerpt), excerptLimit)
}

func TestParseResilient_NoFabricationOnFailure(t *testing.T) {
	half, err := ParseResilient("complete prose with no json at all", "Part 1")
	require.Error(t, err)
	assert.Equal(t, DocumentHalf{}, half)
}

func TestStripFences(t *testing.T) {
	cases := map[string]string{
		"```json\n{\"a\": 1}\n```": `{"a": 1}`,
		"```\n{\"a\": 1}\n```":     `{"a": 1}`,
		`{"a": 1}`:                 `{"a": 1}`,
		"  {\"a\": 1}  ":           `{"a": 1}`,
	}
	for in, want := range cases {
		assert.Equal(t, want, StripFences(in), "input: %q", in)
	}
}
