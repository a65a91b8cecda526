package notice

import (
	"html"
	"html/template"
	"strings"
)

// Markers describe how a target format expresses emphasis.
type Markers struct {
	BoldOpen, BoldClose           string
	UnderlineOpen, UnderlineClose string
	Escape                        func(string) string
}

var (
	// HTMLMarkers renders spans as <b>/<u> with escaped text.
	HTMLMarkers = Markers{
		BoldOpen: "<b>", BoldClose: "</b>",
		UnderlineOpen: "<u>", UnderlineClose: "</u>",
		Escape: html.EscapeString,
	}
	// SlackMarkers uses mrkdwn. Slack has no underline.
	SlackMarkers = Markers{
		BoldOpen: "*", BoldClose: "*",
		Escape: slackEscape,
	}
	// DiscordMarkers uses Discord markdown.
	DiscordMarkers = Markers{
		BoldOpen: "**", BoldClose: "**",
		UnderlineOpen: "__", UnderlineClose: "__",
		Escape: discordEscape,
	}
)

var slackReplacer = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

func slackEscape(s string) string { return slackReplacer.Replace(s) }

var discordReplacer = strings.NewReplacer(
	`\`, `\\`, "*", `\*`, "_", `\_`, "~", `\~`, "`", "\\`", "|", `\|`,
)

func discordEscape(s string) string { return discordReplacer.Replace(s) }

// Markup renders the document using m.
func (d *Document) Markup(m Markers) string {
	var b strings.Builder
	for _, seg := range d.Segments() {
		text := seg.Text
		if m.Escape != nil {
			text = m.Escape(text)
		}
		if seg.Style&Bold != 0 {
			b.WriteString(m.BoldOpen)
		}
		if seg.Style&Underline != 0 {
			b.WriteString(m.UnderlineOpen)
		}
		b.WriteString(text)
		if seg.Style&Underline != 0 {
			b.WriteString(m.UnderlineClose)
		}
		if seg.Style&Bold != 0 {
			b.WriteString(m.BoldClose)
		}
	}
	return b.String()
}

// HTML renders the document as an HTML fragment with line breaks.
func (d *Document) HTML() template.HTML {
	body := d.Markup(HTMLMarkers)
	return template.HTML(strings.ReplaceAll(body, "\n", "<br>\n"))
}
