package server

import (
	"frameline/internal/domain"
	"frameline/internal/engine"
)

// Request payloads

type TeamMemberRequest struct {
	UserID string `json:"userId"`
	Name   string `json:"name,omitempty"`
	Role   string `json:"role,omitempty"`
}

type CreateProjectRequest struct {
	Name        string              `json:"name" minLength:"1"`
	Description string              `json:"description,omitempty"`
	ProjectType string              `json:"projectType" enum:"FULL_LENGTH_VIDEO,SHORT_FORM_CONTENT"`
	TeamMembers []TeamMemberRequest `json:"teamMembers,omitempty"`
}

type AddTaskRequest struct {
	Title          string `json:"title" minLength:"1"`
	Description    string `json:"description,omitempty"`
	Priority       string `json:"priority,omitempty" enum:"LOW,MEDIUM,HIGH"`
	CompletionDate int64  `json:"completionDate,omitempty" doc:"Target date in epoch milliseconds"`
	AssignedTo     string `json:"assignedTo,omitempty"`
	Status         string `json:"status,omitempty" enum:"TO_DO,IN_PROGRESS,COMPLETED"`
}

type MoveTaskRequest struct {
	Status string `json:"status" enum:"TO_DO,IN_PROGRESS,COMPLETED"`
}

type TaskItemRequest struct {
	ID          string `json:"id,omitempty"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	AssignedTo  string `json:"assignedTo,omitempty"`
	Priority    string `json:"priority,omitempty"`
	DueDate     int64  `json:"dueDate,omitempty"`
}

type UpdateScheduleRequest struct {
	InProgress []TaskItemRequest `json:"inProgress,omitempty"`
	Completed  []TaskItemRequest `json:"completed,omitempty"`
	Overdue    []TaskItemRequest `json:"overdue,omitempty"`
}

type CreateNoteRequest struct {
	Title     string `json:"title" minLength:"1"`
	Content   string `json:"content,omitempty"`
	CreatedBy string `json:"createdBy,omitempty" doc:"Ignored; the author is the authenticated caller"`
}

type DevLoginRequest struct {
	UserID     string `json:"userId"`
	TTLSeconds int    `json:"ttlSeconds,omitempty" minimum:"0"`
}

// Response payloads

type ActiveResponse struct {
	Active bool `json:"active"`
}

type UploadResponse struct {
	File       domain.ProjectFile              `json:"file"`
	Validation domain.MetadataValidationResult `json:"validation"`
}

type DevLoginResponse struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expiresAt"`
}

func (r CreateProjectRequest) toEngine() engine.ProjectRequest {
	members := make([]domain.TeamMember, 0, len(r.TeamMembers))
	for _, m := range r.TeamMembers {
		members = append(members, domain.TeamMember{UserID: m.UserID, Name: m.Name, Role: m.Role})
	}
	return engine.ProjectRequest{
		Name:        r.Name,
		Description: r.Description,
		ProjectType: domain.ProjectType(r.ProjectType),
		TeamMembers: members,
	}
}

func (r AddTaskRequest) toEngine() engine.TaskRequest {
	return engine.TaskRequest{
		Title:          r.Title,
		Description:    r.Description,
		Priority:       domain.Priority(r.Priority),
		CompletionDate: r.CompletionDate,
		AssignedTo:     r.AssignedTo,
		Status:         domain.TaskStatus(r.Status),
	}
}

func taskItems(in []TaskItemRequest) []domain.TaskItem {
	out := make([]domain.TaskItem, 0, len(in))
	for _, it := range in {
		out = append(out, domain.TaskItem{
			ID:          it.ID,
			Title:       it.Title,
			Description: it.Description,
			AssignedTo:  it.AssignedTo,
			Priority:    domain.Priority(it.Priority),
			DueDate:     it.DueDate,
		})
	}
	return out
}

func (r UpdateScheduleRequest) toBuckets() domain.ScheduleBuckets {
	return domain.ScheduleBuckets{
		InProgress: taskItems(r.InProgress),
		Completed:  taskItems(r.Completed),
		Overdue:    taskItems(r.Overdue),
	}
}
