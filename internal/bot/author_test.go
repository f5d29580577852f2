package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"paperforge/internal/paper"
)

func TestParseAuthorBlock_FullBlock(t *testing.T) {
	got := parseAuthorBlock("Suriya D\nDept of CSE\nAnna University\nChennai, India\nsuriya@example.com")
	assert.Equal(t, paper.Author{
		Name:       "Suriya D",
		Department: "Dept of CSE",
		University: "Anna University",
		City:       "Chennai, India",
		Email:      "suriya@example.com",
	}, got)
}

func TestParseAuthorBlock_EmailAnywhere(t *testing.T) {
	// The email does not have to be the last line.
	got := parseAuthorBlock("suriya@example.com\nSuriya D\nDept of CSE")
	assert.Equal(t, "suriya@example.com", got.Email)
	assert.Equal(t, "Suriya D", got.Name)
	assert.Equal(t, "Dept of CSE", got.Department)
	assert.Equal(t, "University", got.University)
}

func TestParseAuthorBlock_Defaults(t *testing.T) {
	got := parseAuthorBlock("Priya Sharma")
	assert.Equal(t, "Priya Sharma", got.Name)
	assert.Equal(t, "Department of Engineering", got.Department)
	assert.Equal(t, "University", got.University)
	assert.Equal(t, "India", got.City)
	assert.Equal(t, "priya.sharma@university.edu", got.Email)
}

func TestParseAuthorBlock_ExtraLinesFoldIntoCity(t *testing.T) {
	got := parseAuthorBlock("A Name\nDept\nUni\nChennai\nTamil Nadu\nIndia")
	assert.Equal(t, "Chennai, Tamil Nadu, India", got.City)
}

func TestParseAuthorBlock_StripsUnsafeChars(t *testing.T) {
	got := parseAuthorBlock("Robert \"Bobby\" O'Neil\\")
	assert.NotContains(t, got.Name, `"`)
	assert.NotContains(t, got.Name, "'")
	assert.NotContains(t, got.Name, `\`)
	assert.Equal(t, "Robert Bobby O Neil", got.Name)
}

func TestParseAuthorBlock_SkipsBlankLines(t *testing.T) {
	got := parseAuthorBlock("\n  \nSuriya D\n\nDept of CSE\n")
	assert.Equal(t, "Suriya D", got.Name)
	assert.Equal(t, "Dept of CSE", got.Department)
}

func TestCleanField_Limit(t *testing.T) {
	long := ""
	for i := 0; i < 30; i++ {
		long += "abcd"
	}
	got := cleanField(long, 40)
	assert.Len(t, got, 40)
}
