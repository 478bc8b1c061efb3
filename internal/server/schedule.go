package server

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"frameline/internal/domain"
	"frameline/internal/engine"
)

func registerSchedule(api huma.API, e engine.Engine) {
	huma.Register(api, huma.Operation{
		OperationID: "get-schedule",
		Method:      http.MethodGet,
		Path:        "/projects/{project_id}/schedule",
		Summary:     "Get or create the project schedule",
		Errors:      []int{http.StatusBadRequest},
	}, func(ctx context.Context, input *projectPath) (*struct {
		Body domain.Schedule `json:"body"`
	}, error) {
		s, err := e.GetOrCreateSchedule(ctx, input.ProjectID)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body domain.Schedule `json:"body"`
		}{Body: s}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-schedule",
		Method:      http.MethodPut,
		Path:        "/projects/{project_id}/schedule",
		Summary:     "Replace the schedule buckets",
		Description: "Creates the schedule when missing. The schedule id and createdAt never change.",
		Errors:      []int{http.StatusBadRequest},
	}, func(ctx context.Context, input *struct {
		ProjectID string                `path:"project_id"`
		Body      UpdateScheduleRequest `json:"body"`
	}) (*struct {
		Body domain.Schedule `json:"body"`
	}, error) {
		actorID, authErr := actorIDFromContext(ctx)
		if authErr != nil {
			return nil, authErr
		}
		s, err := e.UpdateSchedule(ctx, input.ProjectID, input.Body.toBuckets(), actorID)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body domain.Schedule `json:"body"`
		}{Body: s}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "rebuild-schedule",
		Method:      http.MethodPost,
		Path:        "/projects/{project_id}/schedule/rebuild",
		Summary:     "Rebuild the schedule from the project board",
		Errors:      []int{http.StatusNotFound},
	}, func(ctx context.Context, input *projectPath) (*struct {
		Body domain.Schedule `json:"body"`
	}, error) {
		actorID, authErr := actorIDFromContext(ctx)
		if authErr != nil {
			return nil, authErr
		}
		s, err := e.RebuildSchedule(ctx, input.ProjectID, actorID)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body domain.Schedule `json:"body"`
		}{Body: s}, nil
	})
}
