package paper

// Section is one named body section of the paper, heading included.
type Section struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Author describes one entry of the byline block.
type Author struct {
	Name       string `json:"name"`
	Department string `json:"department"`
	University string `json:"university"`
	City       string `json:"city"`
	Email      string `json:"email"`
}

// ResultTable is the single results table (caption above, rules only).
type ResultTable struct {
	Caption string     `json:"caption"`
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}

// DocumentHalf is what one generation call yields. The two calls partition
// the fields: part 1 carries title through methodology, part 2 the rest.
// Every field is optional at this stage; Merge resolves the union.
type DocumentHalf struct {
	Title          string       `json:"title,omitempty"`
	Abstract       string       `json:"abstract,omitempty"`
	Keywords       []string     `json:"keywords,omitempty"`
	Introduction   *Section     `json:"introduction,omitempty"`
	RelatedWork    *Section     `json:"related_work,omitempty"`
	Methodology    *Section     `json:"methodology,omitempty"`
	Implementation *Section     `json:"implementation,omitempty"`
	Results        *Section     `json:"results,omitempty"`
	Conclusion     *Section     `json:"conclusion,omitempty"`
	Table          *ResultTable `json:"table,omitempty"`
	References     []string     `json:"references,omitempty"`
	Authors        []Author     `json:"authors,omitempty"`
}

// Document is the merged, render-ready paper. It is the only artifact handed
// downstream; callers may overwrite Authors with verified user data.
type Document struct {
	Title          string       `json:"title"`
	Abstract       string       `json:"abstract"`
	Keywords       []string     `json:"keywords"`
	Introduction   *Section     `json:"introduction"`
	RelatedWork    *Section     `json:"related_work"`
	Methodology    *Section     `json:"methodology"`
	Implementation *Section     `json:"implementation"`
	Results        *Section     `json:"results"`
	Conclusion     *Section     `json:"conclusion"`
	Table          *ResultTable `json:"table"`
	References     []string     `json:"references"`
	Authors        []Author     `json:"authors"`
}

// Sections returns the body sections in IEEE order, skipping absent ones.
func (d *Document) Sections() []*Section {
	all := []*Section{
		d.Introduction,
		d.RelatedWork,
		d.Methodology,
		d.Implementation,
		d.Results,
		d.Conclusion,
	}
	out := make([]*Section, 0, len(all))
	for _, s := range all {
		if s != nil {
			out = append(out, s)
		}
	}
	return out
}
