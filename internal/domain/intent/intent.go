// Package intent maps a user message to one of the supervisor's routing
// labels. Cheap textual rules run first; anything they do not catch goes
// to the language model.
package intent

import (
	"context"
	"fmt"
	"strings"

	"coursegpt-server/internal/domain/capability"
)

// Intent is a routing label.
type Intent string

const (
	PostAnnouncement    Intent = "post_announcement"
	CreateQuiz          Intent = "create_quiz"
	CreateAssignment    Intent = "create_assignment"
	CreatePage          Intent = "create_page"
	ListCourses         Intent = "list_courses"
	SearchDocuments     Intent = "search_documents"
	ListDocumentFolders Intent = "list_document_folders"
	WebSearch           Intent = "web_search"
	General             Intent = "general"
)

var known = map[string]Intent{
	string(PostAnnouncement):    PostAnnouncement,
	string(CreateQuiz):          CreateQuiz,
	string(CreateAssignment):    CreateAssignment,
	string(CreatePage):          CreatePage,
	string(ListCourses):         ListCourses,
	string(SearchDocuments):     SearchDocuments,
	string(ListDocumentFolders): ListDocumentFolders,
	string(WebSearch):           WebSearch,
	string(General):             General,
}

// Classifier decides the intent of a message.
type Classifier struct {
	model capability.TextModel
}

// NewClassifier returns a Classifier backed by model.
func NewClassifier(model capability.TextModel) *Classifier {
	return &Classifier{model: model}
}

// Classify returns the routing label for message. history is a short
// transcript of the most recent turns, oldest first, and may be empty.
// hasUpload marks that the current request carries a file, which biases
// routing toward the upload-consuming intents.
func (c *Classifier) Classify(ctx context.Context, message, history string, hasUpload bool) (Intent, error) {
	if it, ok := fastPath(message, hasUpload); ok {
		return it, nil
	}

	raw, err := c.model.Classify(ctx, classifyPrompt(message, history, hasUpload))
	if err != nil {
		return General, err
	}
	label := strings.ToLower(strings.TrimSpace(raw))
	if it, ok := known[label]; ok {
		return it, nil
	}
	return General, nil
}

// fastPath handles the phrasings that never need a model round trip.
// Folder listing is checked before document search so that "show
// available documents" is not swallowed by the search rule.
func fastPath(message string, hasUpload bool) (Intent, bool) {
	lower := strings.ToLower(strings.TrimSpace(message))

	if strings.Contains(lower, "show available documents") ||
		strings.Contains(lower, "list document folders") ||
		strings.Contains(lower, "what documents are available") {
		return ListDocumentFolders, true
	}
	if strings.HasPrefix(lower, "search documents") {
		return SearchDocuments, true
	}
	if hasUpload && strings.Contains(lower, "with the file uploaded") {
		switch {
		case strings.Contains(lower, "as a page"):
			return CreatePage, true
		case strings.Contains(lower, "as an assignment"):
			return CreateAssignment, true
		case strings.Contains(lower, "as a quiz"):
			return CreateQuiz, true
		default:
			// "to my announcement" and unspecified both post an announcement.
			return PostAnnouncement, true
		}
	}
	return General, false
}

func classifyPrompt(message, history string, hasUpload bool) string {
	uploadNote := ""
	if hasUpload {
		uploadNote = "The user attached a file to this message.\n"
	}
	if history != "" {
		uploadNote += "Recent conversation:\n" + history + "\n"
	}
	return fmt.Sprintf(`You route messages for a course-management assistant.
%sRespond with exactly one label from this list and nothing else:
post_announcement - post an announcement to a course
create_quiz - create a quiz in a course
create_assignment - create an assignment in a course
create_page - create a content page in a course
list_courses - list the instructor's courses
search_documents - search previously uploaded documents
list_document_folders - show which document folders exist
web_search - fetch or summarize content from the web
general - anything else

Message: %s`, uploadNote, message)
}
