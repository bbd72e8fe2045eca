package supervisor

import (
	"context"
	"regexp"
	"strings"

	"coursegpt-server/internal/domain/conversation"
	"coursegpt-server/internal/utils/stringutils"
)

const (
	fallbackTitle = "Generated Content"
	maxTitleLen   = 80
)

var (
	assignmentPattern = regexp.MustCompile(`(?s)Assignment:(.*)`)
	urlPattern        = regexp.MustCompile(`https?://\S+`)
)

// containsQuizContent reports whether the message already carries
// formatted quiz questions, so no generation round trip is needed.
func containsQuizContent(message string) bool {
	return strings.Contains(message, "Questions") && strings.Contains(message, "(Correct Answer:")
}

func firstURL(message string) string {
	return strings.TrimRight(urlPattern.FindString(message), ".,)")
}

// generateTitle asks the model for a short title and normalizes it.
// Any failure falls back to a fixed title rather than failing the
// staging.
func (s *Supervisor) generateTitle(ctx context.Context, content string) string {
	prompt := "Generate a short title of at most 7 words for the following content. Respond with the title only.\n\n" + content
	raw, err := s.model.Generate(ctx, prompt)
	if err != nil {
		s.logger.Warn().Err(err).Msg("title generation failed, using fallback")
		return fallbackTitle
	}
	title := stringutils.SanitizeTitleContent(raw)
	title = stringutils.CapWords(title, 7)
	title = stringutils.TitleCase(title)
	title = stringutils.TruncateTitle(title, maxTitleLen)
	if title == "" {
		return fallbackTitle
	}
	return title
}

// generateContent produces body text for an announcement or page from
// the user's request plus recent conversation context. Best effort: a
// model failure falls back to the raw message.
func (s *Supervisor) generateContent(ctx context.Context, st *conversation.State, message, kind string) string {
	var b strings.Builder
	b.WriteString("Write the body text of a course " + kind + " based on this instructor request. ")
	b.WriteString("Respond with the body text only, no preamble.\n\n")
	if window := st.ContextWindow(s.contextTurns); window != "" {
		b.WriteString("Previous conversation:\n" + window + "\n")
	}
	b.WriteString("Request: " + message)
	out, err := s.model.Generate(ctx, b.String())
	if err != nil {
		s.logger.Warn().Err(err).Msg("content generation failed, using raw message")
		return message
	}
	return strings.TrimSpace(out)
}

// generateQuiz asks the model for multiple-choice questions in the
// fixed format the quiz formatter expects.
func (s *Supervisor) generateQuiz(ctx context.Context, source string) (string, error) {
	prompt := `Create 5 multiple-choice quiz questions from the material below.
Start your response with the word "Questions" on its own line.
Number each question. Give four options labeled A. B. C. D. on separate lines after an "Options:" line.
End each question with "(Correct Answer: X)" where X is the letter.

Material:
` + source
	out, err := s.model.Generate(ctx, prompt)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// generateAssignment asks the model for assignment instructions. The
// reply must contain an "Assignment:" marker; everything after it is
// the content.
func (s *Supervisor) generateAssignment(ctx context.Context, source string) (string, error) {
	prompt := `Write assignment instructions based on the material below.
Start the instructions with the word "Assignment:" and put the full instructions after it.

Material:
` + source
	out, err := s.model.Generate(ctx, prompt)
	if err != nil {
		return "", err
	}
	m := assignmentPattern.FindStringSubmatch(out)
	if m == nil {
		return strings.TrimSpace(out), nil
	}
	return strings.TrimSpace(m[1]), nil
}

func (s *Supervisor) summarize(ctx context.Context, text string) (string, error) {
	const maxInput = 8000
	if len(text) > maxInput {
		text = text[:maxInput]
	}
	out, err := s.model.Generate(ctx, "Summarize the following page content in a few short paragraphs:\n\n"+text)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}
