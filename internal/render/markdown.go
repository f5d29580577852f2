package render

import (
	"fmt"
	"regexp"
	"strings"

	"paperforge/internal/paper"
)

// Markdown lays the finished Document out as IEEE-ordered Markdown: title,
// byline block, abstract and index terms, the six body sections (result table
// after the results section), then numbered references.
func Markdown(doc *paper.Document) string {
	var sb strings.Builder

	sb.WriteString("# " + titleCase(doc.Title) + "\n\n")

	for _, a := range doc.Authors {
		sb.WriteString("**" + a.Name + "**  \n")
		for _, line := range []string{a.Department, a.University, a.City} {
			if strings.TrimSpace(line) != "" {
				sb.WriteString("*" + line + "*  \n")
			}
		}
		if a.Email != "" {
			sb.WriteString("*" + a.Email + "*\n")
		}
		sb.WriteString("\n")
	}

	sb.WriteString("---\n\n")

	if doc.Abstract != "" {
		sb.WriteString("***Abstract***—*" + cleanBody(doc.Abstract) + "*\n\n")
	}
	if len(doc.Keywords) > 0 {
		sb.WriteString("***Index Terms***—*" + strings.Join(doc.Keywords, ", ") + "*\n\n")
	}

	tableWritten := false
	for _, sec := range doc.Sections() {
		sb.WriteString("## " + strings.ToUpper(sec.Title) + "\n\n")
		writeBody(&sb, sec.Content)

		if sec == doc.Results && doc.Table != nil && !tableWritten {
			writeTable(&sb, doc.Table)
			tableWritten = true
		}
	}

	if len(doc.References) > 0 {
		sb.WriteString("## REFERENCES\n\n")
		for _, ref := range doc.References {
			sb.WriteString("- " + strings.TrimSpace(ref) + "\n")
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

var equationPattern = regexp.MustCompile(`(?i)EQUATION:\s*(.+?)\s*\((\d+)\)`)

// writeBody splits section content into paragraphs and pulls any
// "EQUATION: expr (n)" marker onto its own centered line.
func writeBody(sb *strings.Builder, content string) {
	content = cleanBody(content)

	var paragraphs []string
	if strings.Contains(content, "\n\n") {
		paragraphs = regexp.MustCompile(`\n{2,}`).Split(content, -1)
	} else {
		paragraphs = strings.Split(content, "\n")
	}

	for _, para := range paragraphs {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		if m := equationPattern.FindStringSubmatchIndex(para); m != nil {
			before := strings.TrimSpace(para[:m[0]])
			expr := para[m[2]:m[3]]
			num := para[m[4]:m[5]]
			after := strings.TrimSpace(para[m[1]:])
			if before != "" {
				sb.WriteString(strings.ReplaceAll(before, "\n", " ") + "\n\n")
			}
			sb.WriteString(fmt.Sprintf("> *%s*  (%s)\n\n", expr, num))
			if after != "" {
				sb.WriteString(strings.ReplaceAll(after, "\n", " ") + "\n\n")
			}
			continue
		}
		sb.WriteString(strings.ReplaceAll(para, "\n", " ") + "\n\n")
	}
}

func writeTable(sb *strings.Builder, t *paper.ResultTable) {
	label, subtitle := t.Caption, ""
	if idx := strings.Index(t.Caption, ":"); idx >= 0 {
		label, subtitle = t.Caption[:idx], t.Caption[idx+1:]
	}
	caption := "**" + strings.ToUpper(strings.TrimSpace(label)) + "**"
	if strings.TrimSpace(subtitle) != "" {
		caption += "  \n" + strings.ToUpper(strings.TrimSpace(subtitle))
	}
	sb.WriteString(caption + "\n\n")

	if len(t.Headers) == 0 {
		return
	}
	sb.WriteString("| " + strings.Join(t.Headers, " | ") + " |\n")
	seps := make([]string, len(t.Headers))
	for i := range seps {
		seps[i] = "---"
	}
	sb.WriteString("| " + strings.Join(seps, " | ") + " |\n")
	for _, row := range t.Rows {
		sb.WriteString("| " + strings.Join(row, " | ") + " |\n")
	}
	sb.WriteString("\n")
}

var (
	figureRefPattern = regexp.MustCompile(`(?i)\b(as shown in |see |refer to |illustrated in |depicted in )?(Fig\.|Figure)\s*\d+[a-z]?(\s*\([^)]*\))?[,.]?`)
	doubleSpace      = regexp.MustCompile(`[ \t]{2,}`)
	percentWord      = regexp.MustCompile(`(?i)\bpercent\b`)
	percentSpace     = regexp.MustCompile(`(\d)\s*%`)
	tableRefPattern  = regexp.MustCompile(`\bTABLE\s+(I{1,3}|IV|V?I{0,3}|IX|XI{0,3})\b`)
	realTimePattern  = regexp.MustCompile(`(?i)\breal\s+time\b`)
)

// cleanBody fixes the recurring artifacts of generated prose: figure
// references to figures that do not exist, "percent" spelled out, spaced
// percent signs, ALL-CAPS table references in running text, "real time".
func cleanBody(text string) string {
	text = figureRefPattern.ReplaceAllString(text, "")
	text = doubleSpace.ReplaceAllString(text, " ")
	text = percentWord.ReplaceAllString(text, "%")
	text = percentSpace.ReplaceAllString(text, "$1%")
	text = tableRefPattern.ReplaceAllString(text, "Table $1")
	text = realTimePattern.ReplaceAllString(text, "real-time")
	return strings.TrimSpace(text)
}

// lowercase words of IEEE title case (prepositions, articles, conjunctions).
var titleLower = map[string]bool{
	"a": true, "an": true, "the": true, "and": true, "but": true, "or": true,
	"for": true, "nor": true, "on": true, "at": true, "to": true, "by": true,
	"in": true, "of": true, "up": true, "as": true, "if": true, "vs": true,
	"via": true, "per": true,
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		if w == strings.ToUpper(w) && len(w) > 1 {
			continue // keep acronyms intact
		}
		lower := strings.ToLower(w)
		if i != 0 && i != len(words)-1 && titleLower[lower] {
			words[i] = lower
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
