package repo

import (
	"context"

	"frameline/internal/domain"
)

func (r Repo) InsertNote(ctx context.Context, n domain.Note) (domain.Note, error) {
	if n.ID == "" {
		n.ID = r.newID()
	}
	_, err := r.DB.ExecContext(ctx, `INSERT INTO notes(id,project_id,title,content,created_by,created_at,updated_at) VALUES (?,?,?,?,?,?,?)`,
		n.ID, n.ProjectID, n.Title, n.Content, n.CreatedBy, n.CreatedAt, n.UpdatedAt)
	if err != nil {
		return domain.Note{}, err
	}
	return n, nil
}

func (r Repo) ListNotesByProject(ctx context.Context, projectID string) ([]domain.Note, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT id,project_id,title,content,created_by,created_at,updated_at FROM notes WHERE project_id=? ORDER BY created_at, rowid`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	res := []domain.Note{}
	for rows.Next() {
		var n domain.Note
		if err := rows.Scan(&n.ID, &n.ProjectID, &n.Title, &n.Content, &n.CreatedBy, &n.CreatedAt, &n.UpdatedAt); err != nil {
			return nil, err
		}
		res = append(res, n)
	}
	return res, rows.Err()
}
