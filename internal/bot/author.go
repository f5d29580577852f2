package bot

import (
	"regexp"
	"strings"

	"paperforge/internal/paper"
)

var (
	emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	unsafeChars  = regexp.MustCompile("[\"'\\\\\t]")
)

// parseAuthorBlock turns the free-form multiline author message into a byline
// entry. One field per line in order: name, department, university, city; an
// email is recognized on any line and pulled out first. Missing fields get
// neutral defaults, and everything is stripped of characters that would leak
// into the generation prompts as broken JSON.
func parseAuthorBlock(raw string) paper.Author {
	var lines []string
	for _, l := range strings.Split(raw, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}

	email := ""
	fields := lines[:0]
	for _, line := range lines {
		if email == "" && emailPattern.MatchString(line) {
			email = line
			continue
		}
		fields = append(fields, line)
	}

	a := paper.Author{
		Name:       "Author",
		Department: "Department of Engineering",
		University: "University",
		City:       "India",
	}
	if len(fields) > 0 {
		a.Name = fields[0]
	}
	if len(fields) > 1 {
		a.Department = fields[1]
	}
	if len(fields) > 2 {
		a.University = fields[2]
	}
	if len(fields) > 3 {
		a.City = strings.Join(fields[3:], ", ")
	}

	a.Name = cleanField(a.Name, 80)
	a.Department = cleanField(a.Department, 80)
	a.University = cleanField(a.University, 80)
	a.City = cleanField(a.City, 40)
	if email != "" {
		a.Email = cleanField(email, 80)
	} else {
		a.Email = strings.ReplaceAll(strings.ToLower(a.Name), " ", ".") + "@university.edu"
	}
	return a
}

func cleanField(s string, limit int) string {
	s = strings.Join(strings.Fields(unsafeChars.ReplaceAllString(s, " ")), " ")
	if len(s) > limit {
		s = s[:limit]
	}
	return strings.TrimSpace(s)
}
