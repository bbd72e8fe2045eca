// Package htmlformat renders announcement, assignment, and quiz bodies into
// the HTML structure Canvas is willing to display. Styling fidelity is not a
// goal; the structural contract (wrapper div, paragraphs, tables, question
// blocks) is.
package htmlformat

import (
	"fmt"
	"html"
	"regexp"
	"strings"
)

const bodyWrapperStyle = "font-family: Arial, sans-serif; font-size: 14px; line-height: 1.5; color: #333;"

var (
	questionLinePattern  = regexp.MustCompile(`(?i)^q(\d+):\s*(.*)`)
	numberedSplitPattern = regexp.MustCompile(`\d+\.`)
	correctAnswerPattern = regexp.MustCompile(`\(Correct Answer:\s*([A-D])\)`)
)

// AnnouncementBody wraps free text into the standard announcement container,
// converting blank-line-separated text into paragraphs and pipe-delimited
// blocks into tables.
func AnnouncementBody(content string) string {
	var out strings.Builder
	out.WriteString(fmt.Sprintf("<div style=\"%s\">", bodyWrapperStyle))

	var tableLines []string
	flushTable := func() {
		if len(tableLines) == 0 {
			return
		}
		out.WriteString(pipeTable(tableLines))
		tableLines = nil
	}

	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			flushTable()
			continue
		}
		if strings.Contains(line, "|") {
			tableLines = append(tableLines, line)
			continue
		}
		flushTable()
		out.WriteString(fmt.Sprintf("<p style=\"margin: 10px 0;\">%s</p>", html.EscapeString(line)))
	}
	flushTable()

	out.WriteString("</div>")
	return out.String()
}

// pipeTable renders a markdown-style pipe table into an HTML table. The first
// line is treated as the header row; separator rows ("|---|") are skipped.
func pipeTable(lines []string) string {
	var out strings.Builder
	out.WriteString("<div style=\"overflow-x: auto;\">")
	out.WriteString("<table style=\"border-collapse: collapse; width: 100%; margin: 15px 0;\"><thead><tr>")
	for _, header := range pipeCells(lines[0]) {
		out.WriteString(fmt.Sprintf("<th style=\"border: 1px solid #ddd; padding: 8px; background-color: #f5f6fa;\">%s</th>", html.EscapeString(header)))
	}
	out.WriteString("</tr></thead><tbody>")
	for _, line := range lines[1:] {
		if strings.HasPrefix(strings.TrimSpace(strings.TrimPrefix(line, "|")), "-") {
			continue
		}
		out.WriteString("<tr>")
		for _, cell := range pipeCells(line) {
			out.WriteString(fmt.Sprintf("<td style=\"border: 1px solid #ddd; padding: 8px;\">%s</td>", html.EscapeString(cell)))
		}
		out.WriteString("</tr>")
	}
	out.WriteString("</tbody></table></div>")
	return out.String()
}

func pipeCells(line string) []string {
	line = strings.Trim(strings.TrimSpace(line), "|")
	parts := strings.Split(line, "|")
	cells := make([]string, 0, len(parts))
	for _, part := range parts {
		cells = append(cells, strings.TrimSpace(part))
	}
	return cells
}

// AssignmentBody structures assignment text: lines of the form "q1: ..." open
// a question block, everything else becomes a paragraph.
func AssignmentBody(content string) string {
	var out strings.Builder
	out.WriteString("<div class='assignment-content'>")
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if m := questionLinePattern.FindStringSubmatch(line); m != nil {
			out.WriteString("<div class='question-block'>")
			out.WriteString(fmt.Sprintf("<h3>Question %s</h3>", m[1]))
			out.WriteString(fmt.Sprintf("<p class='question-text'>%s</p>", html.EscapeString(m[2])))
			out.WriteString("</div>")
			continue
		}
		out.WriteString(fmt.Sprintf("<p>%s</p>", html.EscapeString(line)))
	}
	out.WriteString("</div>")
	return out.String()
}

// QuizBody renders "1. question ... Options: A. ... (Correct Answer: X)"
// formatted text into question blocks with an options list.
func QuizBody(content string) string {
	var out strings.Builder
	out.WriteString("<div class='assignment-questions'>")

	questions := numberedSplitPattern.Split(content, -1)
	index := 0
	for _, question := range questions {
		question = strings.TrimSpace(question)
		if question == "" {
			continue
		}
		index++
		out.WriteString(fmt.Sprintf("<div class='question'><p><strong>Question %d.</strong> ", index))

		text, options, hasOptions := strings.Cut(question, "Options:")
		if !hasOptions {
			out.WriteString(html.EscapeString(question) + "</p></div>")
			continue
		}
		out.WriteString(html.EscapeString(strings.TrimSpace(text)) + "</p>")

		out.WriteString("<ul class='options'>")
		for _, option := range strings.Split(options, "\n") {
			option = strings.TrimSpace(option)
			if strings.HasPrefix(option, "A.") || strings.HasPrefix(option, "B.") ||
				strings.HasPrefix(option, "C.") || strings.HasPrefix(option, "D.") {
				out.WriteString(fmt.Sprintf("<li>%s</li>", html.EscapeString(option)))
			}
		}
		out.WriteString("</ul>")

		if m := correctAnswerPattern.FindStringSubmatch(question); m != nil {
			out.WriteString(fmt.Sprintf("<p class='correct-answer'><em>Correct Answer: %s</em></p>", m[1]))
		}
		out.WriteString("</div>")
	}

	out.WriteString("</div>")
	return out.String()
}

// AttachmentLink renders the standard "attached file" block appended to
// bodies that carry an uploaded file.
func AttachmentLink(fileURL, fileName string) string {
	return fmt.Sprintf(
		"<div style=\"margin-top: 20px; padding: 10px; border: 1px solid #e0e0e0; border-radius: 4px;\">"+
			"<p style=\"margin: 0;\">Attached file: <a href=%q target=\"_blank\" style=\"color: #3498db;\">%s</a></p></div>",
		fileURL, html.EscapeString(fileName))
}
