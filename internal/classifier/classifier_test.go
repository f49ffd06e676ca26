package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify_TierPrecedence_TitleTagBeatsLabel(t *testing.T) {
	issue := Issue{
		Title:  "[Backend] Add auth",
		Labels: []string{"frontend"},
	}
	got := Classify(issue)
	require.Equal(t, Backend, got.Domain)
	assert.Equal(t, 1.0, got.Confidence)
	assert.Contains(t, got.Reasons[0], "Title tag: [Backend]")
}

func TestClassify_TitleTag_LeftmostWins(t *testing.T) {
	issue := Issue{Title: "[Frontend] then [Backend] too"}
	got := Classify(issue)
	assert.Equal(t, Frontend, got.Domain)
}

func TestClassify_Labels_MostSupportingWins(t *testing.T) {
	issue := Issue{
		Title:  "Some change",
		Labels: []string{"backend", "backend-area", "infra"},
	}
	// only "backend" and "infra" are recognized synonyms; backend should win
	// since it's the only match here (infra counts once too) -- construct a
	// clear 2-vs-1 case instead.
	issue.Labels = []string{"ui", "frontend", "backend"}
	got := Classify(issue)
	require.Equal(t, Frontend, got.Domain)
	assert.Equal(t, 0.90, got.Confidence)
}

func TestClassify_Labels_TieBreaksCanonicalOrder(t *testing.T) {
	issue := Issue{Title: "x", Labels: []string{"backend", "frontend"}}
	got := Classify(issue)
	assert.Equal(t, Backend, got.Domain)
}

func TestClassify_PathPatterns(t *testing.T) {
	issue := Issue{
		Title: "Fix bug",
		Body:  "The fix touches src/api/auth.ts and server/router.go",
	}
	got := Classify(issue)
	require.Equal(t, Backend, got.Domain)
	assert.Equal(t, 0.70, got.Confidence)
}

func TestClassify_PathPatterns_SuffixMatch(t *testing.T) {
	issue := Issue{
		Title: "Fix bug",
		Body:  "Updated Modal.tsx and Button.jsx to fix the layout",
	}
	got := Classify(issue)
	require.Equal(t, Frontend, got.Domain)
	assert.Equal(t, 0.70, got.Confidence)
}

func TestClassify_PathPatterns_SuffixDoesNotMatchMidWord(t *testing.T) {
	issue := Issue{
		Title: "Fix bug",
		Body:  "renamed the generated Widget.tsxconfig output file",
	}
	got := Classify(issue)
	assert.NotEqual(t, Frontend, got.Domain)
}

func TestClassify_Keywords(t *testing.T) {
	issue := Issue{
		Title: "Improve trpc endpoint handler",
		Body:  "This adds a new mutation to the api layer",
	}
	got := Classify(issue)
	require.Equal(t, Backend, got.Domain)
	assert.Equal(t, 0.50, got.Confidence)
}

func TestClassify_Fallback_Unknown(t *testing.T) {
	issue := Issue{Title: "Random thing", Body: "nothing recognizable here"}
	got := Classify(issue)
	assert.Equal(t, Unknown, got.Domain)
	assert.Equal(t, 0.0, got.Confidence)
}

func TestClassify_Deterministic(t *testing.T) {
	issue := Issue{Title: "[Security] cve fix", Body: "xss vulnerability"}
	a := Classify(issue)
	b := Classify(issue)
	assert.Equal(t, a, b)
}

func TestClassify_ConfidenceIsOneOfFixedValues(t *testing.T) {
	allowed := map[float64]bool{1.0: true, 0.9: true, 0.7: true, 0.5: true, 0.0: true}
	cases := []Issue{
		{Title: "[Backend] x"},
		{Title: "x", Labels: []string{"database"}},
		{Title: "x", Body: "migrations/0001.sql"},
		{Title: "x", Body: "trpc handler"},
		{Title: "nothing at all"},
	}
	for _, c := range cases {
		got := Classify(c)
		assert.True(t, allowed[got.Confidence], "unexpected confidence %v", got.Confidence)
		assert.True(t, IsValidDomain(got.Domain))
	}
}

func TestAreDomainsCompatible_Symmetric(t *testing.T) {
	domains := []Domain{Backend, Frontend, Database, Infrastructure, Security, Testing, Documentation, Unknown}
	for _, a := range domains {
		for _, b := range domains {
			assert.Equal(t, AreDomainsCompatible(a, b), AreDomainsCompatible(b, a))
		}
	}
}

func TestAreDomainsCompatible_SameDomainIncompatible(t *testing.T) {
	domains := []Domain{Backend, Frontend, Database, Infrastructure, Security, Testing, Documentation, Unknown}
	for _, d := range domains {
		assert.False(t, AreDomainsCompatible(d, d))
	}
}

func TestAreDomainsCompatible_UnknownAlwaysIncompatible(t *testing.T) {
	others := []Domain{Backend, Frontend, Database, Infrastructure, Security, Testing, Documentation, Unknown}
	for _, d := range others {
		assert.False(t, AreDomainsCompatible(Unknown, d))
	}
}

func TestAreDomainsCompatible_DatabaseAlwaysIncompatible(t *testing.T) {
	others := []Domain{Backend, Frontend, Infrastructure, Security, Testing, Documentation}
	for _, d := range others {
		assert.False(t, AreDomainsCompatible(Database, d))
	}
}

func TestAreDomainsCompatible_NonDatabaseDistinctDomainsCompatible(t *testing.T) {
	nonDB := []Domain{Backend, Frontend, Infrastructure, Security, Testing, Documentation}
	for _, a := range nonDB {
		for _, b := range nonDB {
			if a == b {
				continue
			}
			assert.True(t, AreDomainsCompatible(a, b), "%s vs %s", a, b)
		}
	}
}
