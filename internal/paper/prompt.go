package paper

import (
	"fmt"
	"strings"
)

// Request holds everything needed to compose one paper generation run.
// Immutable once built; validation of title and page bounds happens in the
// front-end, not here.
type Request struct {
	Title    string
	Pages    int
	Humanize bool
}

// PromptPair is one system/user message pair for a single completion call.
type PromptPair struct {
	System string
	User   string
}

// budgets carries the derived word and paragraph targets for one run.
//
// An IEEE two-column A4 page at 10pt Times holds roughly 900 words of body
// text, and models under-produce relative to targets, so the totals aim high.
type budgets struct {
	TotalWords int
	References int

	AbstractWords int
	IntroWords    int
	RelatedWords  int
	MethodWords   int
	ImplWords     int
	ResultsWords  int
	ConclWords    int

	IntroParas   int
	RelatedParas int
	MethodParas  int
	ImplParas    int
	ResultsParas int
	ConclParas   int
}

func budgetsFor(pages int) budgets {
	total := pages * 900
	b := budgets{
		TotalWords:    total,
		References:    max(8, pages+4),
		AbstractWords: 130,
		IntroWords:    int(float64(total) * 0.17),
		RelatedWords:  int(float64(total) * 0.19),
		MethodWords:   int(float64(total) * 0.22),
		ImplWords:     int(float64(total) * 0.17),
		ResultsWords:  int(float64(total) * 0.15),
		ConclWords:    int(float64(total) * 0.10),
	}
	// ~80 words per paragraph of 4-5 sentences.
	b.IntroParas = max(3, b.IntroWords/80)
	b.RelatedParas = max(3, b.RelatedWords/80)
	b.MethodParas = max(3, b.MethodWords/80)
	b.ImplParas = max(3, b.ImplWords/80)
	b.ResultsParas = max(3, b.ResultsWords/80)
	b.ConclParas = max(2, b.ConclWords/80)
	return b
}

// humanizeRules is appended to the system message when Request.Humanize is
// set, to push the output away from detectable machine-uniform prose.
const humanizeRules = " HUMANIZATION RULES (apply to ALL text):" +
	" 1) Vary sentence length drastically — mix very short sentences (5-8 words) with longer ones (25-35 words)." +
	" 2) Occasionally start sentences with conjunctions: But, And, Yet, So, However." +
	" 3) Include rhetorical questions naturally, e.g. Why does this matter? or What does this mean in practice?" +
	" 4) Add hedging language: arguably, one might suggest, it appears that, in many cases." +
	" 5) Use active voice more than passive. Write confidently, not neutrally." +
	" 6) Vary paragraph length: some 2-sentence, some 5-sentence paragraphs." +
	" 7) Avoid starting consecutive sentences with the same word." +
	" 8) Use synonyms instead of repeating keywords."

// Prompts composes the two system/user pairs for the run. The paper is split
// across two calls so neither response hits the output token ceiling: part 1
// covers title through methodology, part 2 implementation through references.
// Pure string construction, no failure path.
func (r Request) Prompts() [2]PromptPair {
	b := budgetsFor(r.Pages)

	system := "You are an expert IEEE research paper writer producing publication-ready content. " +
		"You MUST write VERBOSE, DETAILED academic text that reaches the exact word count specified. " +
		"Do not cut corners or summarize. Each section must be substantive and thorough. " +
		"Always respond with valid JSON only. No markdown fences, no extra text. " +
		"CRITICAL: Do NOT use backslash characters inside any JSON string values. " +
		"Do NOT use LaTeX notation. Write math as plain text. " +
		"Do NOT use apostrophes or smart quotes inside JSON strings."
	if r.Humanize {
		system += humanizeRules
	}

	return [2]PromptPair{
		{System: system, User: r.firstHalfPrompt(b)},
		{System: system, User: r.secondHalfPrompt(b)},
	}
}

func (r Request) firstHalfPrompt(b budgets) string {
	return fmt.Sprintf(`You are writing Part 1 of a %d-page IEEE conference paper. Output ONLY valid JSON.

Title: %q

CRITICAL REQUIREMENTS:
- Each section MUST reach its exact word count. Write verbosely with full sentences.
- Do NOT summarize or truncate. Expand every point with detail, examples, and analysis.
- No backslashes, no LaTeX, no markdown fences.

Return ONLY this JSON (no extra text):
{
  "title": %q,
  "abstract": "<exactly %d words: problem statement, proposed approach, key results, significance>",
  "keywords": ["<kw1>", "<kw2>", "<kw3>", "<kw4>", "<kw5>"],
  "introduction": {
    "title": "I. INTRODUCTION",
    "content": "<write exactly %d substantial paragraphs (~%d words total). Cover: research background and context, problem statement and motivation, existing gaps, proposed solution overview, paper structure outline. Each paragraph must be 4-5 full sentences.>"
  },
  "related_work": {
    "title": "II. RELATED WORK",
    "content": "<write exactly %d substantial paragraphs (~%d words total). Survey existing literature with [1],[2] style citations. Cover at least 3 sub-topics. Compare and contrast approaches. Each paragraph must be 4-5 full sentences.>"
  },
  "methodology": {
    "title": "III. METHODOLOGY",
    "content": "<write exactly %d substantial paragraphs (~%d words total). Describe the proposed system architecture, algorithms, and components in detail. Include one EQUATION: formula_expression (1). Each paragraph must be 4-5 full sentences.>"
  }
}`,
		r.Pages, r.Title, r.Title,
		b.AbstractWords,
		b.IntroParas, b.IntroWords,
		b.RelatedParas, b.RelatedWords,
		b.MethodParas, b.MethodWords,
	)
}

func (r Request) secondHalfPrompt(b budgets) string {
	refLines := make([]string, 0, b.References)
	for i := 1; i <= b.References; i++ {
		refLines = append(refLines,
			fmt.Sprintf(`"[%d] <author(s)>, <title in double quotes>, <journal/conf>, <year>"`, i))
	}

	return fmt.Sprintf(`You are writing Part 2 of a %d-page IEEE conference paper. Output ONLY valid JSON.

Title: %q

CRITICAL REQUIREMENTS:
- Each section MUST reach its exact word count. Write verbosely with full sentences.
- Do NOT summarize or truncate. Include concrete numbers, system details, and analysis.
- No backslashes, no LaTeX, no markdown fences.

Return ONLY this JSON (no extra text):
{
  "implementation": {
    "title": "IV. IMPLEMENTATION",
    "content": "<write exactly %d substantial paragraphs (~%d words total). Describe hardware/software setup, datasets used (with statistics), training/evaluation procedures, tools and frameworks. Each paragraph must be 4-5 full sentences.>"
  },
  "results": {
    "title": "V. RESULTS AND DISCUSSION",
    "content": "<write exactly %d substantial paragraphs (~%d words total). Present quantitative results from Table I, compare against baselines, analyze performance gains with specific percentages, discuss failure cases and limitations. Each paragraph must be 4-5 full sentences. Do NOT reference figures.>"
  },
  "conclusion": {
    "title": "VI. CONCLUSION AND FUTURE WORK",
    "content": "<write exactly %d substantial paragraphs (~%d words total). Summarize contributions, state limitations clearly, propose concrete future directions. Each paragraph must be 4-5 full sentences.>"
  },
  "table": {
    "caption": "TABLE I: Performance Comparison of Methods",
    "headers": ["Method", "Accuracy (%%)", "Precision (%%)", "Recall (%%)", "F1-Score (%%)"],
    "rows": [
      ["Baseline A", "84.2", "83.5", "83.1", "83.3"],
      ["Baseline B", "88.7", "87.9", "87.4", "87.6"],
      ["Proposed Method", "95.3", "94.8", "94.5", "94.6"]
    ]
  },
  "references": [
    %s
  ]
}`,
		r.Pages, r.Title,
		b.ImplParas, b.ImplWords,
		b.ResultsParas, b.ResultsWords,
		b.ConclParas, b.ConclWords,
		strings.Join(refLines, ",\n    "),
	)
}
