package server

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"frameline/internal/domain"
	"frameline/internal/engine"
)

const maxUploadBytes = 256 << 20

func registerNotes(api huma.API, e engine.Engine) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-note",
		Method:        http.MethodPost,
		Path:          "/projects/{project_id}/notes",
		Summary:       "Add a note to a project",
		DefaultStatus: http.StatusCreated,
		Errors:        []int{http.StatusBadRequest, http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		ProjectID string            `path:"project_id"`
		Body      CreateNoteRequest `json:"body"`
	}) (*struct {
		Body domain.Note `json:"body"`
	}, error) {
		actorID, authErr := actorIDFromContext(ctx)
		if authErr != nil {
			return nil, authErr
		}
		n, err := e.CreateNote(ctx, input.ProjectID, engine.NoteRequest{
			Title:     input.Body.Title,
			Content:   input.Body.Content,
			CreatedBy: input.Body.CreatedBy,
		}, actorID)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body domain.Note `json:"body"`
		}{Body: n}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-notes",
		Method:      http.MethodGet,
		Path:        "/projects/{project_id}/notes",
		Summary:     "List project notes",
	}, func(ctx context.Context, input *projectPath) (*struct {
		Body []domain.Note `json:"body"`
	}, error) {
		items, err := e.GetProjectNotes(ctx, input.ProjectID)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body []domain.Note `json:"body"`
		}{Body: items}, nil
	})
}

func registerFiles(api huma.API, e engine.Engine) {
	huma.Register(api, huma.Operation{
		OperationID:   "upload-file",
		Method:        http.MethodPost,
		Path:          "/projects/{project_id}/files",
		Summary:       "Upload an asset",
		Description:   "Validates the asset against the project policy. Policy violations are returned as warnings.",
		DefaultStatus: http.StatusCreated,
		MaxBodyBytes:  maxUploadBytes,
		Errors:        []int{http.StatusBadRequest, http.StatusNotFound, http.StatusUnprocessableEntity},
	}, func(ctx context.Context, input *struct {
		ProjectID string `path:"project_id"`
		Filename  string `query:"filename" required:"true"`
		RawBody   []byte `contentType:"application/octet-stream"`
	}) (*struct {
		Body UploadResponse `json:"body"`
	}, error) {
		actorID, authErr := actorIDFromContext(ctx)
		if authErr != nil {
			return nil, authErr
		}
		f, res, err := e.UploadAsset(ctx, input.ProjectID, input.Filename, input.RawBody, actorID)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body UploadResponse `json:"body"`
		}{Body: UploadResponse{File: f, Validation: res}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-files",
		Method:      http.MethodGet,
		Path:        "/projects/{project_id}/files",
		Summary:     "List project files",
	}, func(ctx context.Context, input *projectPath) (*struct {
		Body []domain.ProjectFile `json:"body"`
	}, error) {
		items, err := e.ListProjectFiles(ctx, input.ProjectID)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body []domain.ProjectFile `json:"body"`
		}{Body: items}, nil
	})
}
