package llm

import (
	"errors"
	"regexp"
	"strings"
)

var ErrNoJSON = errors.New("no JSON object in response")

var (
	// ```json { ... } ```
	jsonBlockPattern = regexp.MustCompile("(?s)```(?:json)?\\s*\\n?(\\{.*\\})\\s*```")
	// greedy fallback for prose around a bare object
	jsonObjectPattern    = regexp.MustCompile(`(?s)\{.*\}`)
	trailingCommaPattern = regexp.MustCompile(`,\s*([}\]])`)
)

// ExtractJSON pulls the first JSON object out of a model response, whether
// it is fenced in a markdown code block or surrounded by prose. Trailing
// commas are removed.
func ExtractJSON(content string) (string, error) {
	raw := ""
	if m := jsonBlockPattern.FindStringSubmatch(content); len(m) > 1 {
		raw = m[1]
	} else {
		raw = jsonObjectPattern.FindString(content)
	}

	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrNoJSON
	}
	return trailingCommaPattern.ReplaceAllString(raw, "$1"), nil
}
