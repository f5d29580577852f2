package paper

import "strings"

// Merge combines the two generation halves into one Document. The merge is
// right-biased: any field present in both halves takes half2's value. In
// normal operation the halves are disjoint by construction, so the bias only
// matters when the model repeats a field across calls.
//
// If neither half carried an authors list, a single placeholder author is
// synthesized from fallbackName/fallbackAffiliation. Callers holding verified
// user data are expected to overwrite Authors afterwards.
func Merge(half1, half2 DocumentHalf, fallbackName, fallbackAffiliation string) Document {
	doc := Document{
		Title:          pickString(half1.Title, half2.Title),
		Abstract:       pickString(half1.Abstract, half2.Abstract),
		Keywords:       pickStrings(half1.Keywords, half2.Keywords),
		Introduction:   pickSection(half1.Introduction, half2.Introduction),
		RelatedWork:    pickSection(half1.RelatedWork, half2.RelatedWork),
		Methodology:    pickSection(half1.Methodology, half2.Methodology),
		Implementation: pickSection(half1.Implementation, half2.Implementation),
		Results:        pickSection(half1.Results, half2.Results),
		Conclusion:     pickSection(half1.Conclusion, half2.Conclusion),
		Table:          pickTable(half1.Table, half2.Table),
		References:     pickStrings(half1.References, half2.References),
		Authors:        pickAuthors(half1.Authors, half2.Authors),
	}

	if len(doc.Authors) == 0 {
		doc.Authors = []Author{FallbackAuthor(fallbackName, fallbackAffiliation)}
	}
	return doc
}

// FallbackAuthor builds the placeholder byline entry used when the model
// returned no authors block. The email is derived deterministically from the
// name: lowercased, spaces replaced with dots.
func FallbackAuthor(name, affiliation string) Author {
	return Author{
		Name:       name,
		Department: "Engineering",
		University: affiliation,
		City:       "India",
		Email:      strings.ReplaceAll(strings.ToLower(name), " ", ".") + "@university.edu",
	}
}

func pickString(a, b string) string {
	if b != "" {
		return b
	}
	return a
}

func pickStrings(a, b []string) []string {
	if len(b) > 0 {
		return b
	}
	return a
}

func pickSection(a, b *Section) *Section {
	if b != nil {
		return b
	}
	return a
}

func pickTable(a, b *ResultTable) *ResultTable {
	if b != nil {
		return b
	}
	return a
}

func pickAuthors(a, b []Author) []Author {
	if len(b) > 0 {
		return b
	}
	return a
}
