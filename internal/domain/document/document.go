// Package document is the library of uploaded course materials. Files
// extracted from uploads are filed under their course folder and can be
// searched by keyword later in the conversation or in a new one.
package document

import (
	"context"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"coursegpt-server/internal/utils/idgen"
	"coursegpt-server/internal/utils/platformerrors"
)

// Document is one extracted upload.
type Document struct {
	ID         string
	Folder     string
	FileName   string
	FileType   string
	Text       string
	UploadedAt time.Time
}

// Repository persists documents. The database package provides a gorm
// implementation; an in-memory one backs tests and DB-less deployments.
type Repository interface {
	Save(ctx context.Context, doc Document) error
	ByFolder(ctx context.Context, folder string) ([]Document, error)
	Folders(ctx context.Context) ([]string, error)
}

// SearchResult is one matching document with a context snippet.
type SearchResult struct {
	Document Document
	Score    int
	Snippet  string
}

// Service exposes the library operations the supervisor uses.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Ingest files extracted text under folder. Untitled folders go to
// "General".
func (s *Service) Ingest(ctx context.Context, folder, fileName, fileType, text string) (Document, error) {
	if strings.TrimSpace(text) == "" {
		return Document{}, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, "uploaded file produced no readable text", nil, "")
	}
	if strings.TrimSpace(folder) == "" {
		folder = "General"
	}
	doc := Document{
		ID:         idgen.MustGenerateSecureID("doc", 16),
		Folder:     folder,
		FileName:   fileName,
		FileType:   fileType,
		Text:       text,
		UploadedAt: time.Now().UTC(),
	}
	if err := s.repo.Save(ctx, doc); err != nil {
		return Document{}, err
	}
	return doc, nil
}

// ListFolders returns folder names in sorted order.
func (s *Service) ListFolders(ctx context.Context) ([]string, error) {
	folders, err := s.repo.Folders(ctx)
	if err != nil {
		return nil, err
	}
	sort.Strings(folders)
	return folders, nil
}

// Search ranks documents in folder by how often the query terms appear.
// An empty folder searches everything under "General". Results come back
// best match first.
func (s *Service) Search(ctx context.Context, folder, query string) ([]SearchResult, error) {
	if strings.TrimSpace(folder) == "" {
		folder = "General"
	}
	terms := queryTerms(query)
	if len(terms) == 0 {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, "search query is empty", nil, "")
	}

	docs, err := s.repo.ByFolder(ctx, folder)
	if err != nil {
		return nil, err
	}

	var results []SearchResult
	for _, doc := range docs {
		lower := strings.ToLower(doc.Text)
		score := 0
		firstIdx := -1
		for _, term := range terms {
			n := strings.Count(lower, term)
			if n == 0 {
				continue
			}
			score += n
			if idx := strings.Index(lower, term); firstIdx == -1 || idx < firstIdx {
				firstIdx = idx
			}
		}
		if score == 0 {
			continue
		}
		results = append(results, SearchResult{
			Document: doc,
			Score:    score,
			Snippet:  snippet(doc.Text, firstIdx),
		})
	}
	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	return results, nil
}

func queryTerms(query string) []string {
	var terms []string
	for _, f := range strings.Fields(strings.ToLower(query)) {
		f = strings.Trim(f, `.,;:!?"'`)
		if len(f) >= 2 {
			terms = append(terms, f)
		}
	}
	return terms
}

const snippetRadius = 120

func snippet(text string, idx int) string {
	if idx < 0 {
		idx = 0
	}
	start := idx - snippetRadius
	if start < 0 {
		start = 0
	}
	end := idx + snippetRadius
	if end > len(text) {
		end = len(text)
	}
	// Keep the cut points on rune boundaries.
	for start > 0 && !utf8.RuneStart(text[start]) {
		start--
	}
	for end < len(text) && !utf8.RuneStart(text[end]) {
		end++
	}
	s := strings.TrimSpace(text[start:end])
	if start > 0 {
		s = "..." + s
	}
	if end < len(text) {
		s += "..."
	}
	return s
}
