package repo

import (
	"context"
	"fmt"

	"frameline/internal/domain"
)

func (r Repo) InsertProjectFile(ctx context.Context, f domain.ProjectFile) (domain.ProjectFile, error) {
	if f.ID == "" {
		f.ID = r.newID()
	}
	if f.Warnings == nil {
		f.Warnings = []string{}
	}
	warnings, err := marshalJSON(f.Warnings)
	if err != nil {
		return domain.ProjectFile{}, err
	}
	_, err = r.DB.ExecContext(ctx, `INSERT INTO project_files(id,project_id,filename,size,codec,audio_channels,resolution,has_warnings,warnings_json,uploaded_by,date_added) VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
		f.ID, f.ProjectID, f.Filename, f.Size, f.Codec, f.AudioChannels, nullable(f.Resolution), boolInt(f.HasWarnings), warnings, f.UploadedBy, f.DateAdded)
	if err != nil {
		return domain.ProjectFile{}, err
	}
	return f, nil
}

func (r Repo) ListProjectFiles(ctx context.Context, projectID string) ([]domain.ProjectFile, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT id,project_id,filename,size,codec,audio_channels,COALESCE(resolution,''),has_warnings,warnings_json,uploaded_by,date_added FROM project_files WHERE project_id=? ORDER BY date_added, rowid`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	res := []domain.ProjectFile{}
	for rows.Next() {
		var (
			f           domain.ProjectFile
			hasWarnings int
			warnings    string
		)
		if err := rows.Scan(&f.ID, &f.ProjectID, &f.Filename, &f.Size, &f.Codec, &f.AudioChannels, &f.Resolution, &hasWarnings, &warnings, &f.UploadedBy, &f.DateAdded); err != nil {
			return nil, err
		}
		f.HasWarnings = hasWarnings == 1
		if err := unmarshalJSON(warnings, &f.Warnings); err != nil {
			return nil, fmt.Errorf("file %s warnings: %w", f.ID, err)
		}
		if f.Warnings == nil {
			f.Warnings = []string{}
		}
		res = append(res, f)
	}
	return res, rows.Err()
}
