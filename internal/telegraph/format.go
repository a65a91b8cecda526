package telegraph

import (
	"fmt"

	"github.com/zulandar/haulyard/internal/archive"
	"github.com/zulandar/haulyard/internal/notice"
)

// Color constants for event severity.
const (
	ColorSuccess = "#36a64f"
	ColorInfo    = "#2196f3"
	ColorWarning = "#ffbf00"
	ColorError   = "#d93025"
)

// severityColor maps a severity string to a sidebar color.
func severityColor(severity string) string {
	switch severity {
	case "success":
		return ColorSuccess
	case "warning":
		return ColorWarning
	case "error":
		return ColorError
	default:
		return ColorInfo
	}
}

// statusSeverity maps an archive status marker to a severity.
func statusSeverity(s archive.Status) string {
	switch s {
	case archive.StatusCancelled:
		return "error"
	case archive.StatusAmended:
		return "warning"
	default:
		return "success"
	}
}

// Delivery is one archived notice to announce.
type Delivery struct {
	Company string
	Truck   string
	Link    string
	Name    archive.Name
	Notice  *notice.Document
}

// FormatDispatch builds the chat event for d.
func FormatDispatch(d Delivery) FormattedEvent {
	title := fmt.Sprintf("Dispatch %s – %s", d.Truck, d.Name.Job)
	if d.Name.Status != archive.StatusNone {
		title += " " + d.Name.Status.String()
	}
	severity := statusSeverity(d.Name.Status)
	if severity == "success" && notice.IsSpecialJob(d.Name.Job) {
		severity = "warning"
	}

	fields := []Field{
		{Name: "Truck", Value: d.Truck, Short: true},
		{Name: "Job", Value: d.Name.Job, Short: true},
	}
	if !d.Name.At.IsZero() {
		fields = append(fields,
			Field{Name: "Date", Value: d.Name.At.Format("01/02/2006"), Short: true},
			Field{Name: "Start", Value: d.Name.At.Format("3:04 PM"), Short: true},
		)
	}
	if d.Company != "" {
		fields = append(fields, Field{Name: "Company", Value: d.Company, Short: true})
	}

	return FormattedEvent{
		Title:    title,
		URL:      d.Link,
		Notice:   d.Notice,
		Severity: severity,
		Color:    severityColor(severity),
		Fields:   fields,
	}
}
