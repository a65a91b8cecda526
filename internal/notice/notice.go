// Package notice renders per-truck dispatch notices from a text template.
//
// Rendering is ordered: the job-code override runs first, then the warning
// emphasis pass, then placeholder substitution, then the optional sections
// and finally label emphasis. Later steps search for text produced by
// earlier ones, so the order must not change.
package notice

import (
	_ "embed"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/zulandar/haulyard/internal/timefmt"
)

//go:embed templates/dispatch.txt
var defaultTemplate string

// Placeholders recognized in a dispatch template.
const (
	PhDate           = "{{DATE}}"
	PhShiftTime      = "{{SHIFT TIME}}"
	PhCompany        = "{{COMPANY}}"
	PhJobNumber      = "{{JOB NUMBER}}"
	PhStartTime      = "{{START TIME}}"
	PhStartLocation  = "{{START LOCATION}}"
	PhInstructions   = "{{INSTRUCTIONS}}"
	PhNotes          = "{{NOTES}}"
	PhTruckNumber    = "{{TRUCK NUMBER}}"
	PhTolls          = "{{TOLLS}}"
	PhAdd01          = "{{ADD 01}}"
	PhAdd02          = "{{ADD 02}}"
	PhStartTime02    = "{{START TIME 02:}}"
	PhStartLocation2 = "{{START LOCATION 02:}}"
	PhInstructions02 = "{{INSTRUCTIONS 02:}}"
)

// policyParagraph spans the standard check-in/out block up to and including
// the blank line that closes it.
var policyParagraph = regexp.MustCompile(`(?s)Check in/out.*?📱 FleetWatcher APP\n\n`)

// jobRules replaces the check-in/out block for special job codes. Emphasis
// comes from warningPhrases spans, so the text carries no markup.
var jobRules = map[string]string{
	"MCRC": "5 LOADS MINIMUM⚠️\n\n" +
		"🛑Monmouth County Reclamation Center gate closes at 03:30 PM!\n\n" +
		"⚠️Save all Pure Soil & Monmouth County Reclamation Center tickets and give to CCG. Tickets are required for payment!\n\n" +
		"NO TICKETS - NO PAYMENT\n\n",
	"CMPM": "2 ROUNDS MINIMUM⚠️\n\n" +
		"⚠️Save all Pure Soil, Colony Materials, & Plumstead Materials tickets and give to CCG. Tickets are required for payment!\n\n" +
		"NO TICKETS - NO PAYMENT\n\n",
}

// warningPhrases are underlined and bolded after a job rule is applied.
var warningPhrases = []string{"5 LOADS MINIMUM", "2 ROUNDS MINIMUM", "NO TICKETS - NO PAYMENT"}

// Second-assignment labels.
const (
	LabelStartTime02     = "Start Time 02:"
	LabelStartLocation02 = "Start Location 02:"
	LabelInstructions02  = "Instructions 02:"
)

// headerLabels are bolded in every paragraph where they appear.
var headerLabels = []string{
	"CONFIRM DISPATCH",
	"Start Time",
	"Start Location",
	"Instructions",
	LabelStartTime02,
	LabelStartLocation02,
	LabelInstructions02,
}

// Values are the raw field values for one truck's notice. Times are the
// free text typed into the form; the renderer formats them.
type Values struct {
	Date           string
	ShiftTime      string
	Company        string
	JobNumber      string
	StartTime      string
	StartLocation  string
	Instructions   string
	Notes          string
	TruckNumber    string
	Tolls          string
	Add01          string
	Add02          string
	StartTime02    string
	StartLocation2 string
	Instructions02 string
}

// IsSpecialJob reports whether job carries its own check-in/out rules.
func IsSpecialJob(job string) bool {
	_, ok := jobRules[strings.ToUpper(strings.TrimSpace(job))]
	return ok
}

// Renderer fills a template with dispatch values.
type Renderer struct {
	template string
}

// NewRenderer returns a Renderer for tmpl. An empty tmpl selects the
// built-in template.
func NewRenderer(tmpl string) *Renderer {
	if tmpl == "" {
		tmpl = defaultTemplate
	}
	return &Renderer{template: tmpl}
}

// LoadRenderer reads a template file. An empty path selects the built-in
// template.
func LoadRenderer(path string) (*Renderer, error) {
	if path == "" {
		return NewRenderer(""), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("notice: read template %s: %w", path, err)
	}
	if !strings.Contains(string(data), PhTruckNumber) {
		return nil, fmt.Errorf("notice: template %s has no %s placeholder", path, PhTruckNumber)
	}
	return NewRenderer(string(data)), nil
}

// Render produces the finished notice for v.
func (r *Renderer) Render(v Values) *Document {
	d := NewDocument(r.template)

	applyJobRule(d, v.JobNumber)
	for _, phrase := range warningPhrases {
		d.StyleFirst(phrase, Bold|Underline)
	}

	substitute(d, v)

	optionalLine(d, PhAdd01, v.Add01, false)
	optionalLine(d, PhAdd02, v.Add02, true)

	optionalBlock(d, PhStartTime02, LabelStartTime02, " ", timefmt.Display(strings.TrimSpace(v.StartTime02)), v.StartTime02)
	optionalBlock(d, PhStartLocation2, LabelStartLocation02, "\n", v.StartLocation2, v.StartLocation2)
	optionalBlock(d, PhInstructions02, LabelInstructions02, "\n", v.Instructions02, v.Instructions02)

	for _, label := range headerLabels {
		d.StyleInParagraphs(label, Bold)
	}
	return d
}

// applyJobRule swaps the first check-in/out block for the job's rules.
func applyJobRule(d *Document, job string) {
	rule, ok := jobRules[strings.ToUpper(strings.TrimSpace(job))]
	if !ok {
		return
	}
	loc := policyParagraph.FindStringIndex(d.Text)
	if loc == nil {
		return
	}
	d.ReplaceRange(loc[0], loc[1], rule)
}

// substitute fills the mandatory placeholders.
func substitute(d *Document, v Values) {
	d.ReplaceAll(PhDate, v.Date)
	d.ReplaceAll(PhShiftTime, timefmt.Display(v.ShiftTime)+" ")
	d.ReplaceAll(PhCompany, v.Company)
	d.ReplaceAll(PhJobNumber, v.JobNumber)
	d.ReplaceAll(PhStartTime, timefmt.Display(v.StartTime))
	d.ReplaceAll(PhStartLocation, v.StartLocation)
	d.ReplaceAll(PhInstructions, v.Instructions)
	d.ReplaceAll(PhNotes, v.Notes)
	d.ReplaceAll(PhTruckNumber, v.TruckNumber)
	d.ReplaceAll(PhTolls, v.Tolls)
}

// optionalLine substitutes placeholder with value, or drops its paragraph
// when value is blank. With spacer set, a blank paragraph is added first.
func optionalLine(d *Document, placeholder, value string, spacer bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		d.RemoveParagraph(placeholder)
		return
	}
	if spacer {
		d.InsertBlankBefore(placeholder)
	}
	d.ReplaceAll(placeholder, value)
}

// optionalBlock writes "<label><sep><value>" in place of placeholder and
// bolds the label, or drops the paragraph when raw is blank.
func optionalBlock(d *Document, placeholder, label, sep, value, raw string) {
	if strings.TrimSpace(raw) == "" {
		d.RemoveParagraph(placeholder)
		return
	}
	d.ReplaceAll(placeholder, label+sep+value)
	d.StyleInParagraphs(label, Bold)
}
