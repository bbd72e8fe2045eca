// Package canvas implements the course backend port against the Canvas
// LMS REST API.
package canvas

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"resty.dev/v3"

	"coursegpt-server/internal/config"
	"coursegpt-server/internal/domain/capability"
	"coursegpt-server/internal/utils/htmlformat"
	"coursegpt-server/internal/utils/platformerrors"
)

// Client calls the Canvas REST API. The course identifiers the
// supervisor passes in are display names; every operation resolves the
// name to a numeric course ID first.
type Client struct {
	client  *resty.Client
	baseURL string
	logger  zerolog.Logger
}

// New builds a Client from the service configuration.
func New(cfg *config.Config, logger zerolog.Logger) *Client {
	rc := resty.New().
		SetTimeout(cfg.CanvasTimeout).
		SetHeader("Authorization", "Bearer "+cfg.CanvasAPIKey)
	return &Client{
		client:  rc,
		baseURL: strings.TrimRight(cfg.CanvasBaseURL, "/"),
		logger:  logger,
	}
}

type course struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	CourseCode    string `json:"course_code"`
	TotalStudents int    `json:"total_students"`
}

// ResolveCourse matches displayName against the instructor's enrollments
// by name or course code, case-insensitively.
func (c *Client) ResolveCourse(ctx context.Context, displayName string) (string, error) {
	courses, err := c.fetchCourses(ctx)
	if err != nil {
		return "", err
	}
	needle := strings.ToLower(strings.TrimSpace(displayName))
	for _, co := range courses {
		if strings.ToLower(co.Name) == needle || strings.ToLower(co.CourseCode) == needle {
			return strconv.FormatInt(co.ID, 10), nil
		}
	}
	for _, co := range courses {
		if strings.Contains(strings.ToLower(co.Name), needle) || strings.Contains(strings.ToLower(co.CourseCode), needle) {
			return strconv.FormatInt(co.ID, 10), nil
		}
	}
	return "", platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeNotFound,
		fmt.Sprintf("no course matches %q", displayName), nil, "")
}

// ListCourses returns the instructor's courses with enrollment counts.
func (c *Client) ListCourses(ctx context.Context) ([]capability.Course, error) {
	courses, err := c.fetchCourses(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]capability.Course, 0, len(courses))
	for _, co := range courses {
		out = append(out, capability.Course{
			ID:           strconv.FormatInt(co.ID, 10),
			Name:         co.Name,
			Code:         co.CourseCode,
			StudentCount: co.TotalStudents,
		})
	}
	return out, nil
}

func (c *Client) fetchCourses(ctx context.Context) ([]course, error) {
	var courses []course
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParam("enrollment_type", "teacher").
		SetQueryParam("include[]", "total_students").
		SetQueryParam("per_page", "100").
		SetResult(&courses).
		Get(c.baseURL + "/api/v1/courses")
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerInfrastructure, err, "canvas course listing failed")
	}
	if resp.IsError() {
		return nil, c.apiError(ctx, resp, "canvas course listing")
	}
	return courses, nil
}

// CreateAnnouncement posts an announcement discussion topic. When an
// attachment is present it is uploaded first and linked at the bottom
// of the body.
func (c *Client) CreateAnnouncement(ctx context.Context, in capability.AnnouncementInput) (capability.ExecutionResult, error) {
	courseID, err := c.ResolveCourse(ctx, in.CourseID)
	if err != nil {
		return capability.ExecutionResult{}, err
	}

	body := in.Body
	if in.Attachment != nil {
		fileURL, upErr := c.uploadFile(ctx, courseID, in.Attachment)
		if upErr != nil {
			c.logger.Warn().Err(upErr).Str("file", in.Attachment.FileName).Msg("attachment upload failed, posting without it")
		} else {
			body += htmlformat.AttachmentLink(fileURL, in.Attachment.FileName)
		}
	}

	var created struct {
		ID int64 `json:"id"`
	}
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(map[string]any{
			"title":           in.Title,
			"message":         body,
			"is_announcement": true,
		}).
		SetResult(&created).
		Post(fmt.Sprintf("%s/api/v1/courses/%s/discussion_topics", c.baseURL, courseID))
	if err != nil {
		return capability.ExecutionResult{}, platformerrors.AsError(ctx, platformerrors.LayerInfrastructure, err, "canvas announcement failed")
	}
	if resp.IsError() {
		return capability.ExecutionResult{}, c.apiError(ctx, resp, "canvas announcement")
	}
	return capability.ExecutionResult{OK: true, CreatedID: strconv.FormatInt(created.ID, 10)}, nil
}

// CreateQuiz creates a classic quiz shell carrying the generated
// questions in its description.
func (c *Client) CreateQuiz(ctx context.Context, in capability.QuizInput) (capability.ExecutionResult, error) {
	courseID, err := c.ResolveCourse(ctx, in.CourseID)
	if err != nil {
		return capability.ExecutionResult{}, err
	}

	var created struct {
		ID int64 `json:"id"`
	}
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(map[string]any{
			"quiz": map[string]any{
				"title":       in.Title,
				"description": in.Description,
				"quiz_type":   "assignment",
			},
		}).
		SetResult(&created).
		Post(fmt.Sprintf("%s/api/v1/courses/%s/quizzes", c.baseURL, courseID))
	if err != nil {
		return capability.ExecutionResult{}, platformerrors.AsError(ctx, platformerrors.LayerInfrastructure, err, "canvas quiz failed")
	}
	if resp.IsError() {
		return capability.ExecutionResult{}, c.apiError(ctx, resp, "canvas quiz")
	}
	return capability.ExecutionResult{OK: true, CreatedID: strconv.FormatInt(created.ID, 10)}, nil
}

// CreateAssignment creates an assignment with points, submission types
// and an optional due date.
func (c *Client) CreateAssignment(ctx context.Context, in capability.AssignmentInput) (capability.ExecutionResult, error) {
	courseID, err := c.ResolveCourse(ctx, in.CourseID)
	if err != nil {
		return capability.ExecutionResult{}, err
	}

	description := in.Description
	if in.Attachment != nil {
		fileURL, upErr := c.uploadFile(ctx, courseID, in.Attachment)
		if upErr != nil {
			c.logger.Warn().Err(upErr).Str("file", in.Attachment.FileName).Msg("attachment upload failed, posting without it")
		} else {
			description += htmlformat.AttachmentLink(fileURL, in.Attachment.FileName)
		}
	}

	assignment := map[string]any{
		"name":             in.Name,
		"description":      description,
		"points_possible":  in.Points,
		"submission_types": in.SubmissionTypes,
		"published":        true,
	}
	if in.DueAt != nil {
		assignment["due_at"] = *in.DueAt
	}

	var created struct {
		ID int64 `json:"id"`
	}
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(map[string]any{"assignment": assignment}).
		SetResult(&created).
		Post(fmt.Sprintf("%s/api/v1/courses/%s/assignments", c.baseURL, courseID))
	if err != nil {
		return capability.ExecutionResult{}, platformerrors.AsError(ctx, platformerrors.LayerInfrastructure, err, "canvas assignment failed")
	}
	if resp.IsError() {
		return capability.ExecutionResult{}, c.apiError(ctx, resp, "canvas assignment")
	}
	return capability.ExecutionResult{OK: true, CreatedID: strconv.FormatInt(created.ID, 10)}, nil
}

// CreatePage creates a wiki page.
func (c *Client) CreatePage(ctx context.Context, in capability.PageInput) (capability.ExecutionResult, error) {
	courseID, err := c.ResolveCourse(ctx, in.CourseID)
	if err != nil {
		return capability.ExecutionResult{}, err
	}

	var created struct {
		URL string `json:"url"`
	}
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(map[string]any{
			"wiki_page": map[string]any{
				"title":     in.Title,
				"body":      in.Body,
				"published": true,
			},
		}).
		SetResult(&created).
		Post(fmt.Sprintf("%s/api/v1/courses/%s/pages", c.baseURL, courseID))
	if err != nil {
		return capability.ExecutionResult{}, platformerrors.AsError(ctx, platformerrors.LayerInfrastructure, err, "canvas page failed")
	}
	if resp.IsError() {
		return capability.ExecutionResult{}, c.apiError(ctx, resp, "canvas page")
	}
	return capability.ExecutionResult{OK: true, CreatedID: created.URL}, nil
}

// uploadFile runs the two-step Canvas upload: declare the file to get a
// one-time upload URL, then post the bytes there. Returns the public
// file URL.
func (c *Client) uploadFile(ctx context.Context, courseID string, att *capability.Attachment) (string, error) {
	var grant struct {
		UploadURL    string            `json:"upload_url"`
		UploadParams map[string]string `json:"upload_params"`
	}
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(map[string]any{
			"name":               att.FileName,
			"size":               len(att.Content),
			"parent_folder_path": "conversation_uploads",
		}).
		SetResult(&grant).
		Post(fmt.Sprintf("%s/api/v1/courses/%s/files", c.baseURL, courseID))
	if err != nil {
		return "", platformerrors.AsError(ctx, platformerrors.LayerInfrastructure, err, "canvas upload grant failed")
	}
	if resp.IsError() {
		return "", c.apiError(ctx, resp, "canvas upload grant")
	}
	if grant.UploadURL == "" {
		return "", platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeExternal,
			"canvas upload grant returned no upload URL", nil, "")
	}

	var file struct {
		ID  int64  `json:"id"`
		URL string `json:"url"`
	}
	resp, err = c.client.R().
		SetContext(ctx).
		SetHeader("Authorization", "").
		SetMultipartFormData(grant.UploadParams).
		SetFileReader("file", att.FileName, bytes.NewReader(att.Content)).
		SetResult(&file).
		Post(grant.UploadURL)
	if err != nil {
		return "", platformerrors.AsError(ctx, platformerrors.LayerInfrastructure, err, "canvas file upload failed")
	}
	if resp.IsError() {
		return "", c.apiError(ctx, resp, "canvas file upload")
	}
	return file.URL, nil
}

func (c *Client) apiError(ctx context.Context, resp *resty.Response, operation string) error {
	msg := fmt.Sprintf("%s returned %d", operation, resp.StatusCode())
	if body := strings.TrimSpace(resp.String()); body != "" {
		msg = fmt.Sprintf("%s: %s", msg, body)
	}
	return platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeExternal, msg, nil, "")
}
