package paper

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBudgetsFor_SixPages(t *testing.T) {
	b := budgetsFor(6)

	assert.Equal(t, 5400, b.TotalWords)
	assert.Equal(t, 10, b.References)
	assert.Equal(t, 130, b.AbstractWords)
	assert.Equal(t, 918, b.IntroWords)
	assert.Equal(t, 1026, b.RelatedWords)
	assert.Equal(t, 1188, b.MethodWords)
	assert.Equal(t, 918, b.ImplWords)
	assert.Equal(t, 810, b.ResultsWords)
	assert.Equal(t, 540, b.ConclWords)

	// 918/80 = 11 with integer truncation, and max(3, 11) = 11.
	assert.Equal(t, 11, b.IntroParas)
	assert.Equal(t, 12, b.RelatedParas)
	assert.Equal(t, 14, b.MethodParas)
	assert.Equal(t, 11, b.ImplParas)
	assert.Equal(t, 10, b.ResultsParas)
	assert.Equal(t, 6, b.ConclParas)
}

func TestBudgetsFor_Floors(t *testing.T) {
	// Small page counts bottom out at the paragraph floors.
	b := budgetsFor(1)
	assert.Equal(t, 3, b.ResultsParas) // 135/80 = 1 -> floor 3
	assert.Equal(t, 2, b.ConclParas)   // 90/80 = 1 -> floor 2
	assert.Equal(t, 8, b.References)   // max(8, 1+4)
}

func TestPrompts_PartitionSections(t *testing.T) {
	req := Request{Title: "Edge Computing for Real-Time Video Analytics", Pages: 6}
	prompts := req.Prompts()

	p1, p2 := prompts[0].User, prompts[1].User
	assert.Contains(t, p1, `"title": "Edge Computing for Real-Time Video Analytics"`)
	for _, key := range []string{`"abstract"`, `"keywords"`, `"introduction"`, `"related_work"`, `"methodology"`} {
		assert.Contains(t, p1, key)
		assert.NotContains(t, p2, key)
	}
	for _, key := range []string{`"implementation"`, `"results"`, `"conclusion"`, `"table"`, `"references"`} {
		assert.Contains(t, p2, key)
		assert.NotContains(t, p1, key)
	}
}

func TestPrompts_EmbedBudgets(t *testing.T) {
	req := Request{Title: "Edge Computing for Real-Time Video Analytics", Pages: 6}
	prompts := req.Prompts()

	assert.Contains(t, prompts[0].User, "exactly 11 substantial paragraphs (~918 words total)")
	assert.Contains(t, prompts[0].User, "exactly 130 words")
	assert.Contains(t, prompts[1].User, `"[10] <author(s)>`)
	assert.NotContains(t, prompts[1].User, `"[11]`)
	assert.Contains(t, prompts[0].User, "6-page IEEE conference paper")
}

func TestPrompts_SharedSystemMessage(t *testing.T) {
	req := Request{Title: "Some Paper Title", Pages: 8}
	prompts := req.Prompts()
	assert.Equal(t, prompts[0].System, prompts[1].System)
	assert.Contains(t, prompts[0].System, "valid JSON only")
}

func TestPrompts_HumanizeDirectives(t *testing.T) {
	plain := Request{Title: "Some Paper Title", Pages: 6}
	humanized := Request{Title: "Some Paper Title", Pages: 6, Humanize: true}

	assert.NotContains(t, plain.Prompts()[0].System, "HUMANIZATION RULES")
	sys := humanized.Prompts()[0].System
	assert.Contains(t, sys, "HUMANIZATION RULES")
	// All eight directives present.
	for _, n := range []string{"1)", "2)", "3)", "4)", "5)", "6)", "7)", "8)"} {
		assert.Contains(t, sys, n)
	}
	assert.True(t, strings.HasPrefix(sys, plain.Prompts()[0].System))
}
