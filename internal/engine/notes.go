package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"frameline/internal/domain"
	"frameline/internal/events"
)

// NoteRequest is a note as submitted. CreatedBy is accepted but ignored; the
// author is always the authenticated principal.
type NoteRequest struct {
	Title     string
	Content   string
	CreatedBy string
}

func (e Engine) CreateNote(ctx context.Context, projectID string, req NoteRequest, author string) (domain.Note, error) {
	if author == "" {
		return domain.Note{}, errors.New("author is required")
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		return domain.Note{}, errors.New("title is required")
	}
	p, err := e.GetProject(ctx, projectID)
	if err != nil {
		return domain.Note{}, err
	}
	now := e.nowMillis()
	n, err := e.Store.InsertNote(ctx, domain.Note{
		ProjectID: p.ID,
		Title:     req.Title,
		Content:   req.Content,
		CreatedBy: author,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return domain.Note{}, fmt.Errorf("insert note: %w", err)
	}
	e.emit(ctx, "note.create", p.ID, "note", n.ID, author, events.EventPayload{"title": n.Title})
	return n, nil
}

// GetProjectNotes lists notes without checking that the project exists.
func (e Engine) GetProjectNotes(ctx context.Context, projectID string) ([]domain.Note, error) {
	if projectID == "" {
		return nil, errors.New("project id is required")
	}
	return e.Store.ListNotesByProject(ctx, projectID)
}
