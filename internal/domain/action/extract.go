// Package action pulls structured parameters out of free-form user
// messages before an LMS side effect is staged.
package action

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	coursePattern     = regexp.MustCompile(`\[(.*?)\]`)
	titlePattern      = regexp.MustCompile(`(?i)title:\s*([^\n]+)`)
	quotedTextPattern = regexp.MustCompile(`(?i)text:\s*"([^"]+)"`)
	pointsPattern     = regexp.MustCompile(`(?i)points?\s*(?:should\s*be\s*)?(\d+)`)
	dueDatePattern    = regexp.MustCompile(`(?i)due\s*date\s*should\s*be\s*(\d{1,2}/\d{1,2}/\d{4}\s+\d{1,2}:\d{2}\s*(?:AM|PM))`)
	linkPattern       = regexp.MustCompile(`(?i)link:\s*(\S+)`)
)

const (
	dueDateLayout = "1/2/2006 3:04 PM"
	defaultPoints = 100
)

// Params is everything the extractor can read off a single message.
// Zero values mean the message did not mention the field.
type Params struct {
	CourseName      string
	Title           string
	QuotedText      string
	Points          int
	DueAt           *string
	SubmissionTypes []string
	Link            string
}

// Parse extracts all recognized parameters from message.
func Parse(message string) Params {
	p := Params{
		CourseName:      CourseName(message),
		Title:           Title(message),
		QuotedText:      QuotedText(message),
		Points:          Points(message),
		DueAt:           DueDate(message),
		SubmissionTypes: SubmissionTypes(message),
		Link:            Link(message),
	}
	return p
}

// CourseName returns the first bracketed segment, e.g. "[CS101]" yields
// "CS101". Empty when no brackets are present.
func CourseName(message string) string {
	m := coursePattern.FindStringSubmatch(message)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

// Title returns the text after a "title:" marker up to end of line.
func Title(message string) string {
	m := titlePattern.FindStringSubmatch(message)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

// QuotedText returns the body given as Text: "...".
func QuotedText(message string) string {
	m := quotedTextPattern.FindStringSubmatch(message)
	if m == nil {
		return ""
	}
	return m[1]
}

// Points returns the point value mentioned in the message, defaulting
// to 100 when absent or unparseable.
func Points(message string) int {
	m := pointsPattern.FindStringSubmatch(message)
	if m == nil {
		return defaultPoints
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return defaultPoints
	}
	return n
}

// DueDate parses a "due date should be M/D/YYYY H:MM AM" phrase into an
// ISO-8601 UTC timestamp. The stated wall-clock time is taken as UTC.
// Nil when the phrase is absent or malformed.
func DueDate(message string) *string {
	m := dueDatePattern.FindStringSubmatch(message)
	if m == nil {
		return nil
	}
	raw := strings.Join(strings.Fields(m[1]), " ")
	t, err := time.ParseInLocation(dueDateLayout, raw, time.UTC)
	if err != nil {
		return nil
	}
	iso := t.Format("2006-01-02T15:04:05Z")
	return &iso
}

// SubmissionTypes maps submission phrasing onto LMS submission type
// identifiers. A mention of URL submission yields online_url, file
// upload yields online_upload, anything else defaults to
// online_text_entry.
func SubmissionTypes(message string) []string {
	lower := strings.ToLower(message)
	switch {
	case strings.Contains(lower, "submission type should be url"),
		strings.Contains(lower, "submit a url"),
		strings.Contains(lower, "url submission"):
		return []string{"online_url"}
	case strings.Contains(lower, "submission type should be file"),
		strings.Contains(lower, "file upload submission"),
		strings.Contains(lower, "submit a file"):
		return []string{"online_upload"}
	default:
		return []string{"online_text_entry"}
	}
}

// Link returns the URL after a "link:" marker, used for page-from-URL
// requests.
func Link(message string) string {
	m := linkPattern.FindStringSubmatch(message)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}
