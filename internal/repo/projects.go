package repo

import (
	"context"
	"database/sql"
	"fmt"

	"frameline/internal/domain"
)

const projectColumns = `id,owner_id,name,COALESCE(description,''),project_type,team_members_json,metadata_config_json,kanban_boards_json,active,created_at,updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row rowScanner) (domain.Project, error) {
	var (
		p                         domain.Project
		members, metadata, boards string
		active                    int
	)
	if err := row.Scan(&p.ID, &p.OwnerID, &p.Name, &p.Description, &p.ProjectType, &members, &metadata, &boards, &active, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return domain.Project{}, notFound(err)
	}
	p.Active = active == 1
	if err := unmarshalJSON(members, &p.TeamMembers); err != nil {
		return domain.Project{}, fmt.Errorf("project %s team members: %w", p.ID, err)
	}
	if err := unmarshalJSON(metadata, &p.MetadataConfig); err != nil {
		return domain.Project{}, fmt.Errorf("project %s metadata config: %w", p.ID, err)
	}
	if err := unmarshalJSON(boards, &p.KanbanBoards); err != nil {
		return domain.Project{}, fmt.Errorf("project %s boards: %w", p.ID, err)
	}
	return NormalizeProject(p), nil
}

type projectDoc struct {
	members, metadata, boards string
}

func encodeProject(p domain.Project) (projectDoc, error) {
	var (
		d   projectDoc
		err error
	)
	if d.members, err = marshalJSON(p.TeamMembers); err != nil {
		return d, err
	}
	if d.metadata, err = marshalJSON(p.MetadataConfig); err != nil {
		return d, err
	}
	if d.boards, err = marshalJSON(p.KanbanBoards); err != nil {
		return d, err
	}
	return d, nil
}

func (r Repo) InsertProject(ctx context.Context, p domain.Project) (domain.Project, error) {
	if p.ID == "" {
		p.ID = r.newID()
	}
	p = NormalizeProject(p)
	doc, err := encodeProject(p)
	if err != nil {
		return domain.Project{}, err
	}
	_, err = r.DB.ExecContext(ctx, `INSERT INTO projects(id,owner_id,name,description,project_type,team_members_json,metadata_config_json,kanban_boards_json,active,created_at,updated_at) VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
		p.ID, p.OwnerID, p.Name, nullable(p.Description), p.ProjectType, doc.members, doc.metadata, doc.boards, boolInt(p.Active), p.CreatedAt, p.UpdatedAt)
	if isUniqueViolation(err) {
		return domain.Project{}, fmt.Errorf("project %s: %w", p.ID, ErrDuplicate)
	}
	if err != nil {
		return domain.Project{}, err
	}
	return p, nil
}

// UpdateProject rewrites the whole project document. Owner and creation time
// are never changed.
func (r Repo) UpdateProject(ctx context.Context, p domain.Project) error {
	p = NormalizeProject(p)
	doc, err := encodeProject(p)
	if err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx, `UPDATE projects SET name=?,description=?,project_type=?,team_members_json=?,metadata_config_json=?,kanban_boards_json=?,active=?,updated_at=? WHERE id=?`,
		p.Name, nullable(p.Description), p.ProjectType, doc.members, doc.metadata, doc.boards, boolInt(p.Active), p.UpdatedAt, p.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r Repo) GetProject(ctx context.Context, id string) (domain.Project, error) {
	return scanProject(r.DB.QueryRowContext(ctx, `SELECT `+projectColumns+` FROM projects WHERE id=?`, id))
}

func (r Repo) ListProjectsByOwner(ctx context.Context, ownerID string) ([]domain.Project, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT `+projectColumns+` FROM projects WHERE owner_id=? ORDER BY created_at, rowid`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	res := []domain.Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, p)
	}
	return res, rows.Err()
}

func (r Repo) ExistsByOwnerAndActive(ctx context.Context, ownerID string, active bool) (bool, error) {
	var one int
	err := r.DB.QueryRowContext(ctx, `SELECT 1 FROM projects WHERE owner_id=? AND active=? LIMIT 1`, ownerID, boolInt(active)).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
