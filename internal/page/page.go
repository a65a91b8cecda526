// Package page renders a classified company report as the published HTML
// status page and as a spreadsheet export.
package page

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"

	"github.com/zulandar/haulyard/internal/config"
	"github.com/zulandar/haulyard/internal/report"
)

//go:embed templates/company.html
var companyHTML string

var companyTmpl = template.Must(template.New("company").Parse(companyHTML))

// Empty-section messages, in page order.
const (
	NoUpcoming = "No upcoming dispatches."
	NoToday    = "No dispatches for today."
	NoPast     = "No past dispatches."
)

// FileName returns the published file name for company.
func FileName(company string) string {
	return config.Slug(company) + "_dispatch_list.html"
}

type section struct {
	Title string
	Class string
	Empty string
	Items []report.Item
}

type pageData struct {
	Company   string
	Generated string
	Sections  []section
}

// RenderHTML renders r as a standalone HTML document.
func RenderHTML(r *report.Report) (string, error) {
	data := pageData{
		Company:   r.Company,
		Generated: r.GeneratedAt.Format("01/02/2006 3:04 PM"),
		Sections: []section{
			{Title: "Upcoming", Class: "upcoming", Empty: NoUpcoming, Items: r.Upcoming},
			{Title: "Today", Class: "today", Empty: NoToday, Items: r.Today},
			{Title: "Past", Class: "past", Empty: NoPast, Items: r.Past},
		},
	}
	var buf bytes.Buffer
	if err := companyTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("page: render %s: %w", r.Company, err)
	}
	return buf.String(), nil
}
