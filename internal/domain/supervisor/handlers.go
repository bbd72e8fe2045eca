package supervisor

import (
	"context"
	"fmt"
	"strings"

	"coursegpt-server/internal/domain/action"
	"coursegpt-server/internal/domain/capability"
	"coursegpt-server/internal/domain/conversation"
	"coursegpt-server/internal/infrastructure/metrics"
	"coursegpt-server/internal/utils/htmlformat"
)

const courseMissingReply = "Please name the course in square brackets, for example [CS101]."

// fileUpload files the extracted upload text into the document library
// under the course folder mentioned in the message.
func (s *Supervisor) fileUpload(ctx context.Context, st *conversation.State, req Request, extracted capability.ExtractedDocument) {
	if s.docs == nil {
		return
	}
	folder := action.CourseName(req.Message)
	doc, err := s.docs.Ingest(ctx, folder, extracted.FileName, extracted.FileType, extracted.Text)
	if err != nil {
		s.logger.Warn().Err(err).Str("file", extracted.FileName).Msg("document ingest failed")
		return
	}
	s.logger.Info().
		Str("conversation_id", st.ID).
		Str("document_id", doc.ID).
		Str("folder", doc.Folder).
		Msg("upload filed in document library")
}

func (s *Supervisor) stageAnnouncement(ctx context.Context, st *conversation.State, req Request) Response {
	params := action.Parse(req.Message)
	if params.CourseName == "" {
		return Response{Agent: AgentCanvasPost, Text: courseMissingReply}
	}

	content := params.QuotedText
	if content == "" && req.Upload != nil && req.Upload.Text != "" {
		content = req.Upload.Text
	}
	if content == "" {
		content = s.generateContent(ctx, st, req.Message, "announcement")
	}

	title := params.Title
	if title == "" {
		title = s.generateTitle(ctx, content)
	}

	note := s.stage(st, &conversation.PendingAction{
		Kind:       conversation.ActionAnnouncement,
		CourseName: params.CourseName,
		Title:      title,
		Body:       htmlformat.AnnouncementBody(content),
		Upload:     req.Upload,
	})
	return Response{
		Agent: AgentCanvasPost,
		Text: fmt.Sprintf("%sHere is the announcement for [%s]:\n\nTitle: %s\n\n%s\n\nShould I post it? (yes/no)",
			note, params.CourseName, title, content),
	}
}

func (s *Supervisor) stageQuiz(ctx context.Context, st *conversation.State, req Request) Response {
	params := action.Parse(req.Message)
	if params.CourseName == "" {
		return Response{Agent: AgentCanvasQuiz, Text: courseMissingReply}
	}

	var content string
	switch {
	case containsQuizContent(req.Message):
		content = req.Message
	case req.Upload != nil && req.Upload.Text != "":
		generated, err := s.generateQuiz(ctx, req.Upload.Text)
		if err != nil {
			return s.modelFailure(err)
		}
		content = generated
	default:
		generated, err := s.generateQuiz(ctx, req.Message+"\n"+st.ContextWindow(s.contextTurns))
		if err != nil {
			return s.modelFailure(err)
		}
		content = generated
	}

	title := params.Title
	if title == "" {
		title = "Quiz"
	}

	note := s.stage(st, &conversation.PendingAction{
		Kind:       conversation.ActionQuiz,
		CourseName: params.CourseName,
		Title:      title,
		Body:       htmlformat.QuizBody(content),
	})
	return Response{
		Agent: AgentCanvasQuiz,
		Text: fmt.Sprintf("%sHere is the quiz for [%s]:\n\nTitle: %s\n\n%s\n\nShould I post it? (yes/no)",
			note, params.CourseName, title, content),
	}
}

func (s *Supervisor) stageAssignment(ctx context.Context, st *conversation.State, req Request) Response {
	params := action.Parse(req.Message)
	if params.CourseName == "" {
		return Response{Agent: AgentCanvasAssignment, Text: courseMissingReply}
	}

	content := params.QuotedText
	if content == "" {
		// An explicit "Assignment: <content>" marker carries the body
		// verbatim, no generation round trip.
		if m := assignmentPattern.FindStringSubmatch(req.Message); m != nil {
			content = strings.TrimSpace(m[1])
		}
	}
	if content == "" {
		source := req.Message
		if req.Upload != nil && req.Upload.Text != "" {
			source = req.Upload.Text
		}
		generated, err := s.generateAssignment(ctx, source)
		if err != nil {
			return s.modelFailure(err)
		}
		content = generated
	}

	title := params.Title
	if title == "" {
		title = "Assignment"
	}

	note := s.stage(st, &conversation.PendingAction{
		Kind:            conversation.ActionAssignment,
		CourseName:      params.CourseName,
		Title:           title,
		Body:            htmlformat.AssignmentBody(content),
		Points:          params.Points,
		DueAt:           params.DueAt,
		SubmissionTypes: params.SubmissionTypes,
		Upload:          req.Upload,
	})

	details := fmt.Sprintf("Points: %d", params.Points)
	if params.DueAt != nil {
		details += "\nDue: " + *params.DueAt
	}
	details += "\nSubmission: " + strings.Join(params.SubmissionTypes, ", ")
	return Response{
		Agent: AgentCanvasAssignment,
		Text: fmt.Sprintf("%sHere is the assignment for [%s]:\n\nTitle: %s\n%s\n\n%s\n\nShould I post it? (yes/no)",
			note, params.CourseName, title, details, content),
	}
}

func (s *Supervisor) stagePage(ctx context.Context, st *conversation.State, req Request) Response {
	params := action.Parse(req.Message)
	if params.CourseName == "" {
		return Response{Agent: AgentCanvasPage, Text: courseMissingReply}
	}

	var content string
	if params.Link != "" {
		if s.fetcher == nil {
			return Response{Agent: AgentCanvasPage, Text: "Web fetching is not configured, so I cannot build a page from a link."}
		}
		fetched, err := s.fetcher.Fetch(ctx, params.Link)
		if err != nil {
			metrics.RecordCapabilityError("fetcher")
			return Response{Agent: AgentError, Text: "I could not fetch that link: " + err.Error()}
		}
		summarized, err := s.summarize(ctx, fetched.Text)
		if err != nil {
			return s.modelFailure(err)
		}
		content = summarized
	} else {
		content = s.generateContent(ctx, st, req.Message, "course page")
	}

	title := params.Title
	if title == "" {
		title = s.generateTitle(ctx, content)
	}

	note := s.stage(st, &conversation.PendingAction{
		Kind:       conversation.ActionPage,
		CourseName: params.CourseName,
		Title:      title,
		Body:       htmlformat.AnnouncementBody(content),
	})
	return Response{
		Agent: AgentCanvasPage,
		Text: fmt.Sprintf("%sHere is the page for [%s]:\n\nTitle: %s\n\n%s\n\nShould I post it? (yes/no)",
			note, params.CourseName, title, content),
	}
}

// execute commits a confirmed pending action against the LMS.
func (s *Supervisor) execute(ctx context.Context, p *conversation.PendingAction) Response {
	if s.backend == nil {
		return Response{Agent: AgentError, Text: "Canvas is not configured, so I cannot post this."}
	}

	var attachment *capability.Attachment
	if p.Upload != nil {
		attachment = &capability.Attachment{FileName: p.Upload.FileName, Content: p.Upload.Content}
	}

	var (
		result capability.ExecutionResult
		err    error
	)
	switch p.Kind {
	case conversation.ActionQuiz:
		result, err = s.backend.CreateQuiz(ctx, capability.QuizInput{
			CourseID:    p.CourseName,
			Title:       p.Title,
			Description: p.Body,
		})
	case conversation.ActionAssignment:
		result, err = s.backend.CreateAssignment(ctx, capability.AssignmentInput{
			CourseID:        p.CourseName,
			Name:            p.Title,
			Description:     p.Body,
			Points:          p.Points,
			DueAt:           p.DueAt,
			SubmissionTypes: p.SubmissionTypes,
			Attachment:      attachment,
		})
	case conversation.ActionPage:
		result, err = s.backend.CreatePage(ctx, capability.PageInput{
			CourseID: p.CourseName,
			Title:    p.Title,
			Body:     p.Body,
		})
	default:
		result, err = s.backend.CreateAnnouncement(ctx, capability.AnnouncementInput{
			CourseID:   p.CourseName,
			Title:      p.Title,
			Body:       p.Body,
			Attachment: attachment,
		})
	}
	if err != nil {
		metrics.RecordCapabilityError("canvas")
		s.logger.Error().Err(err).Str("kind", string(p.Kind)).Str("course", p.CourseName).Msg("canvas execution failed")
		return Response{Agent: AgentError, Text: fmt.Sprintf("Posting the %s failed: %s", kindNoun(p.Kind), err.Error())}
	}

	text := fmt.Sprintf("Posted the %s %q to [%s].", kindNoun(p.Kind), p.Title, p.CourseName)
	if result.Detail != "" {
		text += " " + result.Detail
	}
	return Response{Agent: agentForKind(p.Kind), Text: text}
}

func (s *Supervisor) listCourses(ctx context.Context) Response {
	if s.backend == nil {
		return Response{Agent: AgentCanvasList, Text: "Canvas is not configured, so I cannot list courses."}
	}
	courses, err := s.backend.ListCourses(ctx)
	if err != nil {
		metrics.RecordCapabilityError("canvas")
		return Response{Agent: AgentError, Text: "Listing courses failed: " + err.Error()}
	}
	if len(courses) == 0 {
		return Response{Agent: AgentCanvasList, Text: "No courses found."}
	}
	var b strings.Builder
	b.WriteString("Your courses:\n")
	for _, c := range courses {
		fmt.Fprintf(&b, "- %s", c.Name)
		if c.Code != "" {
			fmt.Fprintf(&b, " (%s)", c.Code)
		}
		if c.StudentCount > 0 {
			fmt.Fprintf(&b, ": %d students", c.StudentCount)
		}
		b.WriteString("\n")
	}
	return Response{Agent: AgentCanvasList, Text: strings.TrimRight(b.String(), "\n")}
}

func (s *Supervisor) searchDocuments(ctx context.Context, message string) Response {
	if s.docs == nil {
		return Response{Agent: AgentDocumentSearch, Text: "The document library is not available."}
	}
	folder := action.CourseName(message)
	query := searchQuery(message)
	results, err := s.docs.Search(ctx, folder, query)
	if err != nil {
		return Response{Agent: AgentError, Text: "Document search failed: " + err.Error()}
	}
	if len(results) == 0 {
		return Response{Agent: AgentDocumentSearch, Text: fmt.Sprintf("No documents matched %q.", query)}
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Found %d matching document(s):\n", len(results))
	for i, r := range results {
		if i == maxSearchResults {
			break
		}
		fmt.Fprintf(&b, "- %s: %s\n", r.Document.FileName, r.Snippet)
	}
	return Response{Agent: AgentDocumentSearch, Text: strings.TrimRight(b.String(), "\n")}
}

const maxSearchResults = 5

// searchQuery strips the "search documents" prefix and the bracketed
// folder from the message, leaving the keyword terms.
func searchQuery(message string) string {
	q := strings.TrimSpace(message)
	lower := strings.ToLower(q)
	if idx := strings.Index(lower, "search documents"); idx >= 0 {
		q = q[idx+len("search documents"):]
	}
	if start := strings.Index(q, "["); start >= 0 {
		if end := strings.Index(q[start:], "]"); end >= 0 {
			q = q[:start] + q[start+end+1:]
		}
	}
	return strings.TrimSpace(q)
}

func (s *Supervisor) listDocumentFolders(ctx context.Context) Response {
	if s.docs == nil {
		return Response{Agent: AgentDocumentFolders, Text: "The document library is not available."}
	}
	folders, err := s.docs.ListFolders(ctx)
	if err != nil {
		return Response{Agent: AgentError, Text: "Listing document folders failed: " + err.Error()}
	}
	if len(folders) == 0 {
		return Response{Agent: AgentDocumentFolders, Text: "No documents have been uploaded yet."}
	}
	return Response{Agent: AgentDocumentFolders, Text: "Available document folders:\n- " + strings.Join(folders, "\n- ")}
}

func (s *Supervisor) webSearch(ctx context.Context, st *conversation.State, message string) Response {
	url := firstURL(message)
	if url == "" || s.fetcher == nil {
		return s.generalAs(ctx, st, message, AgentWebSearch)
	}
	fetched, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		metrics.RecordCapabilityError("fetcher")
		return Response{Agent: AgentError, Text: "I could not fetch that page: " + err.Error()}
	}
	summary, err := s.summarize(ctx, fetched.Text)
	if err != nil {
		return s.modelFailure(err)
	}
	return Response{Agent: AgentWebSearch, Text: summary}
}

func (s *Supervisor) general(ctx context.Context, st *conversation.State, message string) Response {
	return s.generalAs(ctx, st, message, AgentGeneral)
}

func (s *Supervisor) generalAs(ctx context.Context, st *conversation.State, message, agent string) Response {
	prompt := message
	if window := st.ContextWindow(s.contextTurns); window != "" {
		prompt = "Previous conversation:\n" + window + "\nCurrent message: " + message
	}
	reply, err := s.model.Generate(ctx, prompt)
	if err != nil {
		return s.modelFailure(err)
	}
	return Response{Agent: agent, Text: reply}
}

func (s *Supervisor) modelFailure(err error) Response {
	metrics.RecordCapabilityError("model")
	s.logger.Error().Err(err).Msg("model call failed")
	return Response{Agent: AgentError, Text: "The language model is unavailable right now. Please try again."}
}
