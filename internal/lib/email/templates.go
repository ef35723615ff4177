package email

import "strings"

// Template is a string-based enum naming email templates.
type Template string

const (
	// TemplatePlanShare corresponds to templates/plan_share.html
	TemplatePlanShare Template = "plan_share"
)

func (t Template) file() string {
	return string(t) + ".html"
}

// displayName turns reference names like "monday" into "Monday".
func displayName(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
