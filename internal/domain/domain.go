package domain

type ProjectType string

const (
	ProjectTypeFullLengthVideo  ProjectType = "FULL_LENGTH_VIDEO"
	ProjectTypeShortFormContent ProjectType = "SHORT_FORM_CONTENT"
)

type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
)

// TaskStatus doubles as the id of the default board column holding the task.
type TaskStatus string

const (
	StatusToDo       TaskStatus = "TO_DO"
	StatusInProgress TaskStatus = "IN_PROGRESS"
	StatusCompleted  TaskStatus = "COMPLETED"
)

func (p ProjectType) Valid() bool {
	switch p {
	case ProjectTypeFullLengthVideo, ProjectTypeShortFormContent:
		return true
	}
	return false
}

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

func (s TaskStatus) Valid() bool {
	switch s {
	case StatusToDo, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// MetadataConfig is the asset policy of a project. It is derived from the
// project type at creation and never edited afterwards.
type MetadataConfig struct {
	AllowedCodecs        []string `json:"allowedCodecs" bson:"allowedCodecs"`
	AllowedResolutions   []string `json:"allowedResolutions" bson:"allowedResolutions"`
	AllowedAudioChannels []int    `json:"allowedAudioChannels" bson:"allowedAudioChannels"`
}

type TeamMember struct {
	UserID string `json:"userId" bson:"userId"`
	Name   string `json:"name,omitempty" bson:"name,omitempty"`
	Role   string `json:"role,omitempty" bson:"role,omitempty"`
}

type Project struct {
	ID             string         `json:"id" bson:"_id,omitempty"`
	Name           string         `json:"name" bson:"name"`
	Description    string         `json:"description,omitempty" bson:"description,omitempty"`
	OwnerID        string         `json:"ownerId" bson:"ownerId"`
	ProjectType    ProjectType    `json:"projectType" bson:"projectType"`
	TeamMembers    []TeamMember   `json:"teamMembers" bson:"teamMembers"`
	MetadataConfig MetadataConfig `json:"metadataConfig" bson:"metadataConfig"`
	KanbanBoards   []KanbanBoard  `json:"kanbanBoards" bson:"kanbanBoards"`
	Active         bool           `json:"active" bson:"active"`
	CreatedAt      int64          `json:"createdAt" bson:"createdAt"`
	UpdatedAt      int64          `json:"updatedAt" bson:"updatedAt"`
}

type KanbanBoard struct {
	ID          string       `json:"id" bson:"id"`
	Title       string       `json:"title" bson:"title"`
	Description string       `json:"description,omitempty" bson:"description,omitempty"`
	Columns     []TaskColumn `json:"columns" bson:"columns"`
	CreatedAt   int64        `json:"createdAt" bson:"createdAt"`
}

type TaskColumn struct {
	ID    string `json:"id" bson:"id"`
	Name  string `json:"name" bson:"name"`
	Tasks []Task `json:"tasks" bson:"tasks"`
	Order int    `json:"order" bson:"order"`
}

type Task struct {
	ID             string     `json:"id" bson:"id"`
	Title          string     `json:"title" bson:"title"`
	Description    string     `json:"description,omitempty" bson:"description,omitempty"`
	Priority       Priority   `json:"priority" bson:"priority"`
	CompletionDate int64      `json:"completionDate,omitempty" bson:"completionDate,omitempty"`
	AssignedTo     string     `json:"assignedTo,omitempty" bson:"assignedTo,omitempty"`
	Status         TaskStatus `json:"status" bson:"status"`
	CreatedAt      int64      `json:"createdAt" bson:"createdAt"`
	UpdatedAt      int64      `json:"updatedAt" bson:"updatedAt"`
}

// Schedule is the derived per-project view of task state. At most one exists
// per ProjectID; ID and CreatedAt never change once stored.
type Schedule struct {
	ID         string     `json:"id" bson:"_id,omitempty"`
	ProjectID  string     `json:"projectId" bson:"projectId"`
	InProgress []TaskItem `json:"inProgress" bson:"inProgress"`
	Completed  []TaskItem `json:"completed" bson:"completed"`
	Overdue    []TaskItem `json:"overdue" bson:"overdue"`
	CreatedAt  int64      `json:"createdAt" bson:"createdAt"`
	UpdatedAt  int64      `json:"updatedAt" bson:"updatedAt"`
}

// ScheduleBuckets is the replaceable part of a Schedule.
type ScheduleBuckets struct {
	InProgress []TaskItem `json:"inProgress"`
	Completed  []TaskItem `json:"completed"`
	Overdue    []TaskItem `json:"overdue"`
}

type TaskItem struct {
	ID          string   `json:"id" bson:"id"`
	Title       string   `json:"title" bson:"title"`
	Description string   `json:"description,omitempty" bson:"description,omitempty"`
	AssignedTo  string   `json:"assignedTo,omitempty" bson:"assignedTo,omitempty"`
	Priority    Priority `json:"priority,omitempty" bson:"priority,omitempty"`
	DueDate     int64    `json:"dueDate,omitempty" bson:"dueDate,omitempty"`
}

type Note struct {
	ID        string `json:"id" bson:"_id,omitempty"`
	ProjectID string `json:"projectId" bson:"projectId"`
	Title     string `json:"title" bson:"title"`
	Content   string `json:"content" bson:"content"`
	CreatedBy string `json:"createdBy" bson:"createdBy"`
	CreatedAt int64  `json:"createdAt" bson:"createdAt"`
	UpdatedAt int64  `json:"updatedAt" bson:"updatedAt"`
}

// MetadataValidationResult is the outcome of checking one asset against a
// policy. It is never persisted on its own.
type MetadataValidationResult struct {
	Codec         string   `json:"codec"`
	AudioChannels int      `json:"audioChannels"`
	Warnings      []string `json:"warnings"`
}

type ProjectFile struct {
	ID            string   `json:"id" bson:"_id,omitempty"`
	ProjectID     string   `json:"projectId" bson:"projectId"`
	Filename      string   `json:"filename" bson:"filename"`
	Size          int64    `json:"size" bson:"size"`
	Codec         string   `json:"codec" bson:"codec"`
	AudioChannels int      `json:"audioChannels" bson:"audioChannels"`
	Resolution    string   `json:"resolution,omitempty" bson:"resolution,omitempty"`
	HasWarnings   bool     `json:"hasWarnings" bson:"hasWarnings"`
	Warnings      []string `json:"warnings" bson:"warnings"`
	UploadedBy    string   `json:"uploadedBy" bson:"uploadedBy"`
	DateAdded     int64    `json:"dateAdded" bson:"dateAdded"`
}
