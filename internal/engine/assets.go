package engine

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"frameline/internal/domain"
	"frameline/internal/events"
	"frameline/internal/extract"
	"frameline/internal/policy"
)

// UploadAsset validates an asset against the project policy and records it.
// Policy violations end up as warnings on the file; a failed extraction
// aborts the upload.
func (e Engine) UploadAsset(ctx context.Context, projectID, filename string, data []byte, uploader string) (domain.ProjectFile, domain.MetadataValidationResult, error) {
	filename = strings.TrimSpace(filename)
	if filename == "" {
		return domain.ProjectFile{}, domain.MetadataValidationResult{}, errors.New("filename is required")
	}
	if filepath.Base(filename) != filename {
		return domain.ProjectFile{}, domain.MetadataValidationResult{}, fmt.Errorf("invalid filename %q", filename)
	}
	if uploader == "" {
		return domain.ProjectFile{}, domain.MetadataValidationResult{}, errors.New("uploader is required")
	}
	if e.Extractor == nil {
		return domain.ProjectFile{}, domain.MetadataValidationResult{}, errors.New("no asset extractor configured")
	}
	p, err := e.GetProject(ctx, projectID)
	if err != nil {
		return domain.ProjectFile{}, domain.MetadataValidationResult{}, err
	}
	attrs, result, err := policy.ValidateAsset(ctx, e.Extractor, data, p.MetadataConfig)
	if err != nil {
		e.Metrics.AssetValidated("failed")
		if !errors.Is(err, extract.ErrExtractionFailed) {
			err = fmt.Errorf("%w: %v", extract.ErrExtractionFailed, err)
		}
		return domain.ProjectFile{}, domain.MetadataValidationResult{}, err
	}
	outcome := "clean"
	if len(result.Warnings) > 0 {
		outcome = "warnings"
	}
	e.Metrics.AssetValidated(outcome)

	f, err := e.Store.InsertProjectFile(ctx, domain.ProjectFile{
		ProjectID:     p.ID,
		Filename:      filename,
		Size:          int64(len(data)),
		Codec:         attrs.Codec,
		AudioChannels: attrs.AudioChannels,
		Resolution:    attrs.Resolution,
		HasWarnings:   len(result.Warnings) > 0,
		Warnings:      result.Warnings,
		UploadedBy:    uploader,
		DateAdded:     e.nowMillis(),
	})
	if err != nil {
		return domain.ProjectFile{}, domain.MetadataValidationResult{}, fmt.Errorf("insert project file: %w", err)
	}
	e.emit(ctx, "asset.upload", p.ID, "file", f.ID, uploader, events.EventPayload{
		"filename": f.Filename,
		"warnings": len(f.Warnings),
	})
	return f, result, nil
}

func (e Engine) ListProjectFiles(ctx context.Context, projectID string) ([]domain.ProjectFile, error) {
	if projectID == "" {
		return nil, errors.New("project id is required")
	}
	return e.Store.ListProjectFiles(ctx, projectID)
}
