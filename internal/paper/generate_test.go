package paper

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCompleter routes by which half is being requested. Safe for the two
// concurrent pipeline calls since it holds no mutable state.
type fakeCompleter struct {
	part1 string
	part2 string
	err   error
}

func (f fakeCompleter) Complete(_ context.Context, _, user string, _ int) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	if strings.Contains(user, "Part 1") {
		return f.part1, nil
	}
	return f.part2, nil
}

const fixturePart1 = "```json\n" + `{
  "title": "Edge Computing for Real-Time Video Analytics",
  "abstract": "We study edge offloading.",
  "keywords": ["edge", "video", "latency", "inference", "5G"],
  "introduction": {"title": "I. INTRODUCTION", "content": "Edge computing moves inference close to cameras."},
  "related_work": {"title": "II. RELATED WORK", "content": "Prior systems [1],[2] explored offloading."},
  "methodology": {"title": "III. METHODOLOGY", "content": "We propose a tiered scheduler. EQUATION: L = c/f (1)"}
}` + "\n```"

const fixturePart2 = `{
  "implementation": {"title": "IV. IMPLEMENTATION", "content": "Built on commodity edge nodes."},
  "results": {"title": "V. RESULTS AND DISCUSSION", "content": "Latency dropped 41%."},
  "conclusion": {"title": "VI. CONCLUSION AND FUTURE WORK", "content": "Edge placement wins."},
  "table": {
    "caption": "TABLE I: Performance Comparison of Methods",
    "headers": ["Method", "Accuracy (%)"],
    "rows": [["Baseline A", "84.2"], ["Proposed Method", "95.3"]]
  },
  "references": ["[1] A. Author, \"A paper\", IEEE, 2020", "[2] B. Author, \"B paper\", ACM, 2021"]
}`

func TestGenerate_EndToEnd(t *testing.T) {
	gen, err := NewGenerator(fakeCompleter{part1: fixturePart1, part2: fixturePart2}, nil)
	require.NoError(t, err)

	req := Request{Title: "Edge Computing for Real-Time Video Analytics", Pages: 6}
	doc, err := gen.Generate(context.Background(), req, "Suriya D", "Engineering College")
	require.NoError(t, err)

	assert.Equal(t, "Edge Computing for Real-Time Video Analytics", doc.Title)
	assert.Equal(t, "We study edge offloading.", doc.Abstract)
	assert.Len(t, doc.Keywords, 5)
	assert.Len(t, doc.Sections(), 6)
	require.NotNil(t, doc.Table)
	assert.Len(t, doc.Table.Rows, 2)
	assert.Len(t, doc.References, 2)

	// No authors in either fixture, so the fallback entry is synthesized.
	require.Len(t, doc.Authors, 1)
	assert.Equal(t, "suriya.d@university.edu", doc.Authors[0].Email)
}

// A literal newline inside a string value should be recovered by the
// sanitizer tier without the caller noticing.
func TestGenerate_RecoversMessyHalf(t *testing.T) {
	messy := "{\"implementation\": {\"title\": \"IV. IMPLEMENTATION\", \"content\": \"line one\nline two\"}}"
	gen, err := NewGenerator(fakeCompleter{part1: fixturePart1, part2: messy}, nil)
	require.NoError(t, err)

	doc, err := gen.Generate(context.Background(), Request{Title: "Some Paper Title", Pages: 4}, "A", "U")
	require.NoError(t, err)
	require.NotNil(t, doc.Implementation)
	assert.Equal(t, "line one\nline two", doc.Implementation.Content)
}

func TestGenerate_TransportFailureAborts(t *testing.T) {
	wantErr := errors.New("boom")
	gen, err := NewGenerator(fakeCompleter{err: wantErr}, nil)
	require.NoError(t, err)

	doc, err := gen.Generate(context.Background(), Request{Title: "Some Paper Title", Pages: 4}, "A", "U")
	require.Error(t, err)
	assert.Nil(t, doc)
	assert.ErrorIs(t, err, wantErr)
}

func TestGenerate_ParseFailureAbortsWithLabel(t *testing.T) {
	gen, err := NewGenerator(fakeCompleter{part1: fixturePart1, part2: "no json here"}, nil)
	require.NoError(t, err)

	doc, err := gen.Generate(context.Background(), Request{Title: "Some Paper Title", Pages: 4}, "A", "U")
	require.Error(t, err)
	assert.Nil(t, doc)

	var perr *ParseError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "Part 2", perr.Label)
}

func TestNewGenerator_RequiresClient(t *testing.T) {
	_, err := NewGenerator(nil, nil)
	assert.Error(t, err)
}
