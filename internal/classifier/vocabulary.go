package classifier

import "strings"

// titleTags maps a bracketed title tag (lowercased, without brackets) to its
// canonical domain. Synonyms (Infra/Infrastructure, Docs/Documentation) map
// to the same domain.
var titleTags = map[string]Domain{
	"backend":        Backend,
	"frontend":       Frontend,
	"database":       Database,
	"infra":          Infrastructure,
	"infrastructure": Infrastructure,
	"security":       Security,
	"testing":        Testing,
	"docs":           Documentation,
	"documentation":  Documentation,
}

// labelSynonyms maps a lowercased label to its canonical domain, including
// the documented synonyms (ui, infra, db).
var labelSynonyms = map[string]Domain{
	"backend":        Backend,
	"frontend":       Frontend,
	"ui":             Frontend,
	"database":       Database,
	"db":             Database,
	"infrastructure": Infrastructure,
	"infra":          Infrastructure,
	"security":       Security,
	"testing":        Testing,
	"documentation":  Documentation,
	"docs":           Documentation,
}

// pathPattern associates a case-sensitive token (a literal prefix/segment,
// or a "*.ext" suffix glob) with the domain it implies.
type pathPattern struct {
	token  string
	suffix bool // true: token is a "*.ext" suffix match; false: substring match
	domain Domain
}

var pathPatterns = []pathPattern{
	{token: "src/api/", domain: Backend},
	{token: "server/", domain: Backend},
	{token: "backend/", domain: Backend},

	{token: "src/components/", domain: Frontend},
	{token: "ui/", domain: Frontend},
	{token: "frontend/", domain: Frontend},
	{token: ".tsx", suffix: true, domain: Frontend},
	{token: ".jsx", suffix: true, domain: Frontend},

	{token: "src/db/", domain: Database},
	{token: "migrations/", domain: Database},
	{token: "schema.", domain: Database},

	{token: "infra/", domain: Infrastructure},
	{token: "deploy/", domain: Infrastructure},
	{token: "Dockerfile", domain: Infrastructure},
	{token: ".github/workflows/", domain: Infrastructure},

	{token: "test/", domain: Testing},
	{token: "__tests__/", domain: Testing},
	{token: ".test.", domain: Testing},
	{token: ".spec.", domain: Testing},

	{token: "docs/", domain: Documentation},
	{token: "README", domain: Documentation},
}

// keywordVocabulary is the curated per-domain keyword table for Tier 4.
// Matching is case-insensitive and whole-word across the concatenated
// title+body text.
var keywordVocabulary = map[Domain][]string{
	Backend: {
		"trpc", "endpoint", "mutation", "handler", "api", "controller",
		"middleware", "route", "grpc", "rest",
	},
	Frontend: {
		"react", "component", "modal", "shadcn", "button", "css", "layout",
		"hook", "jsx", "tsx",
	},
	Database: {
		"migration", "drizzle", "table", "schema", "query", "index",
		"postgres", "mysql", "sqlite",
	},
	Infrastructure: {
		"docker", "kubernetes", "k8s", "terraform", "deploy", "pipeline",
		"ci", "cd", "helm",
	},
	Security: {
		"cve", "xss", "sql injection", "vulnerability", "auth", "csrf",
		"secret", "exploit", "sanitize",
	},
	Testing: {
		"unit test", "integration test", "test coverage", "flaky", "mock",
		"assertion", "e2e",
	},
	Documentation: {
		"readme", "changelog", "documentation", "docstring", "guide",
		"tutorial",
	},
}

// normalize lowercases s for case-insensitive comparisons.
func normalize(s string) string {
	return strings.ToLower(s)
}
