package classifier

import (
	"fmt"
	"regexp"
	"strings"
)

// Issue is the subset of an issue-tracker record the classifier consumes.
type Issue struct {
	Number int
	Title  string
	Body   string
	Labels []string
}

// Classification is the result of classifying a single Issue. It is
// produced once per task and never mutated afterward.
type Classification struct {
	Domain     Domain
	Confidence float64
	Reasons    []string
}

var titleTagPattern = regexp.MustCompile(`\[([a-zA-Z]+)\]`)

// Classify maps an issue record to a Classification. Four tiers are tried in
// strict order; the first that produces a match wins and terminates the
// cascade. Classify is a pure function: it has no side effects and is
// deterministic for a given Issue.
func Classify(issue Issue) Classification {
	if c, ok := classifyByTitleTag(issue); ok {
		return c
	}
	if c, ok := classifyByLabels(issue); ok {
		return c
	}
	if c, ok := classifyByPathPatterns(issue); ok {
		return c
	}
	if c, ok := classifyByKeywords(issue); ok {
		return c
	}
	return Classification{Domain: Unknown, Confidence: 0.0, Reasons: nil}
}

// classifyByTitleTag implements Tier 1. The leftmost bracketed tag wins.
func classifyByTitleTag(issue Issue) (Classification, bool) {
	matches := titleTagPattern.FindAllStringSubmatch(issue.Title, -1)
	for _, m := range matches {
		domain, ok := titleTags[normalize(m[1])]
		if !ok {
			continue
		}
		return Classification{
			Domain:     domain,
			Confidence: 1.00,
			Reasons:    []string{fmt.Sprintf("Title tag: [%s]", m[1])},
		}, true
	}
	return Classification{}, false
}

// classifyByLabels implements Tier 2. The domain with the most supporting
// labels wins; ties break in canonical order.
func classifyByLabels(issue Issue) (Classification, bool) {
	counts := make(map[Domain]int)
	reasonsByDomain := make(map[Domain][]string)

	for _, label := range issue.Labels {
		domain, ok := labelSynonyms[normalize(label)]
		if !ok {
			continue
		}
		counts[domain]++
		reasonsByDomain[domain] = append(reasonsByDomain[domain], fmt.Sprintf("Label: %s", label))
	}

	domain, ok := pickWinner(counts)
	if !ok {
		return Classification{}, false
	}
	return Classification{
		Domain:     domain,
		Confidence: 0.90,
		Reasons:    reasonsByDomain[domain],
	}, true
}

// classifyByPathPatterns implements Tier 3. Scans title+body for path-like
// tokens; the most-frequent domain wins, canonical order breaks ties.
func classifyByPathPatterns(issue Issue) (Classification, bool) {
	text := issue.Title + " " + issue.Body
	counts := make(map[Domain]int)
	reasonsByDomain := make(map[Domain][]string)

	for _, p := range pathPatterns {
		var n int
		if p.suffix {
			n = countSuffixMatches(text, p.token)
		} else {
			n = strings.Count(text, p.token)
		}
		if n == 0 {
			continue
		}
		counts[p.domain] += n
		reasonsByDomain[p.domain] = append(reasonsByDomain[p.domain], fmt.Sprintf("Path: %s", p.token))
	}

	domain, ok := pickWinner(counts)
	if !ok {
		return Classification{}, false
	}
	return Classification{
		Domain:     domain,
		Confidence: 0.70,
		Reasons:    reasonsByDomain[domain],
	}, true
}

// classifyByKeywords implements Tier 4. Case-insensitive whole-word matches
// across title+body; the domain with the most hits wins, canonical order
// breaks ties.
func classifyByKeywords(issue Issue) (Classification, bool) {
	text := normalize(issue.Title + " " + issue.Body)
	counts := make(map[Domain]int)
	reasons := make(map[Domain][]string)

	for domain, words := range keywordVocabulary {
		for _, word := range words {
			n := wholeWordCount(text, normalize(word))
			if n == 0 {
				continue
			}
			counts[domain] += n
			reasons[domain] = append(reasons[domain], fmt.Sprintf("Keyword: %s ×%d", word, n))
		}
	}

	domain, ok := pickWinner(counts)
	if !ok {
		return Classification{}, false
	}
	return Classification{
		Domain:     domain,
		Confidence: 0.50,
		Reasons:    reasons[domain],
	}, true
}

// pickWinner returns the domain with the highest count, breaking ties by
// canonical order. ok is false if counts is empty.
func pickWinner(counts map[Domain]int) (Domain, bool) {
	if len(counts) == 0 {
		return "", false
	}
	var best Domain
	bestCount := -1
	for d, n := range counts {
		if n > bestCount || (n == bestCount && rankOf(d) < rankOf(best)) {
			best = d
			bestCount = n
		}
	}
	return best, true
}

// countSuffixMatches counts whitespace-delimited tokens in text that end
// with suffix, trimming trailing punctuation a path might pick up mid-
// sentence (a closing paren, a comma). Unlike a plain substring count, this
// only credits suffix appearing at the true end of a path-like word, so
// e.g. "component.tsxconfig" doesn't count as a ".tsx" match.
func countSuffixMatches(text, suffix string) int {
	count := 0
	for _, field := range strings.Fields(text) {
		field = strings.TrimRight(field, ".,;:!?)]}'\"")
		if strings.HasSuffix(field, suffix) {
			count++
		}
	}
	return count
}

// wholeWordCount counts non-overlapping whole-word occurrences of word in
// text. Multi-word phrases (e.g. "sql injection") are matched as substrings
// bounded by non-alphanumeric runes on each side.
func wholeWordCount(text, word string) int {
	count := 0
	idx := 0
	for {
		pos := strings.Index(text[idx:], word)
		if pos < 0 {
			break
		}
		start := idx + pos
		end := start + len(word)
		if isWordBoundary(text, start) && isWordBoundary(text, end) {
			count++
		}
		idx = start + 1
	}
	return count
}

func isWordBoundary(text string, pos int) bool {
	if pos <= 0 || pos >= len(text) {
		return true
	}
	before := text[pos-1]
	after := text[pos]
	return !isWordByte(before) || !isWordByte(after)
}

func isWordByte(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}
