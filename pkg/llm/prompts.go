package llm

import (
	"fmt"

	"github.com/tmc/langchaingo/prompts"
)

var extractPrompt = prompts.NewPromptTemplate(`You are an analyst who identifies and evaluates AI use cases.

Read the article below and extract the AI use case it describes in the {{.industry}} industry.
Respond only in {{.language}}.
Answer with a single JSON object and nothing else, using these keys:

{
  "industry": "the business sector",
  "business_function": "the business function (marketing, HR, finance, ...)",
  "organization": "the company involved",
  "source_origin": "the publisher of the article",
  "last_updated": "YYYY-MM-DD if the article is dated",
  "impacted_processes": ["business processes affected"],
  "economic_value": "financial gains, with figures when available",
  "gains": ["concrete benefits"],
  "ai_usage": "how AI is used",
  "ai_technologies": ["specific technologies"],
  "partners": ["partners involved"]
}

When information is missing, ALWAYS use an empty array [] for list keys and an empty string for text keys.

Article source: {{.url}}
Article content:
{{.content}}
`, []string{"industry", "language", "url", "content"})

var comparePrompt = prompts.NewPromptTemplate(`You are an expert in the impact of AI on industries.

Compare the following AI use cases in the {{.industry}} industry.
Respond only in {{.language}}.

Use cases:
{{.use_cases}}

Cover:
1. The most common AI technologies in this industry
2. The business functions that benefit most
3. Typical gains, qualitative and quantitative
4. Common implementation challenges
5. Emerging trends
6. Recommendations for companies adopting AI in this industry
`, []string{"industry", "language", "use_cases"})

var relevancePrompt = prompts.NewPromptTemplate(`Decide whether the content below describes a concrete AI use case in the {{.industry}} industry: how AI is used, by which company, and ideally with what results.

Content:
{{.content}}

Answer only "YES" or "NO".
`, []string{"industry", "content"})

var coherencePrompt = prompts.NewPromptTemplate(`Review this AI use case from the {{.industry}} industry:

{{.use_case}}

Check that the information is consistent: the technologies should match the described usage and the gains should be realistic.
Explain any inconsistency you find, otherwise answer "Consistent information".
Respond only in {{.language}}.
`, []string{"industry", "language", "use_case"})

var enrichPrompt = prompts.NewPromptTemplate(`Here is partial information about an AI use case in the {{.industry}} industry:

{{.use_case}}

Based on common practice in the {{.industry}} industry, fill in the missing information plausibly.
Prefix every piece of information you add with [ESTIMATION].
Respond only in {{.language}}.
`, []string{"industry", "language", "use_case"})

func format(tmpl prompts.PromptTemplate, values map[string]any) (string, error) {
	prompt, err := tmpl.Format(values)
	if err != nil {
		return "", fmt.Errorf("format prompt: %w", err)
	}
	return prompt, nil
}
