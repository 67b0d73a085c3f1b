package export

import "fmt"

// Dataset defines tabular export content.
type Dataset struct {
	Headers []string
	Rows    []map[string]string
}

// Table is a titled dataset within a document.
type Table struct {
	Title string
	Dataset
}

// Document is an ordered list of tables rendered under one title.
type Document struct {
	Title    string
	Subtitle string
	Tables   []Table
}

func (d Document) validate() error {
	if len(d.Tables) == 0 {
		return fmt.Errorf("document %q has no tables", d.Title)
	}
	for _, t := range d.Tables {
		if len(t.Headers) == 0 {
			return fmt.Errorf("table %q requires at least one header", t.Title)
		}
	}
	return nil
}
