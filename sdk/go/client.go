package framelinesdk

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client is a minimal frameline HTTP API client.
type Client struct {
	BaseURL     string
	BasePath    string
	BearerToken string
	// ActorID is sent as X-Actor-Id when no bearer token is set.
	ActorID    string
	HTTPClient *http.Client
	Timeout    time.Duration
}

// New creates a client with sane defaults.
func New(baseURL string) *Client {
	return &Client{
		BaseURL:  baseURL,
		BasePath: "/v0",
		Timeout:  30 * time.Second,
	}
}

type TeamMember struct {
	UserID string `json:"userId"`
	Name   string `json:"name,omitempty"`
	Role   string `json:"role,omitempty"`
}

type MetadataConfig struct {
	AllowedCodecs        []string `json:"allowedCodecs"`
	AllowedResolutions   []string `json:"allowedResolutions"`
	AllowedAudioChannels []int    `json:"allowedAudioChannels"`
}

type Task struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	Description    string `json:"description,omitempty"`
	Priority       string `json:"priority"`
	CompletionDate int64  `json:"completionDate,omitempty"`
	AssignedTo     string `json:"assignedTo,omitempty"`
	Status         string `json:"status"`
	CreatedAt      int64  `json:"createdAt"`
	UpdatedAt      int64  `json:"updatedAt"`
}

type Column struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Tasks []Task `json:"tasks"`
	Order int    `json:"order"`
}

type Board struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Columns   []Column `json:"columns"`
	CreatedAt int64    `json:"createdAt"`
}

type Project struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	Description    string         `json:"description,omitempty"`
	OwnerID        string         `json:"ownerId"`
	ProjectType    string         `json:"projectType"`
	TeamMembers    []TeamMember   `json:"teamMembers"`
	MetadataConfig MetadataConfig `json:"metadataConfig"`
	KanbanBoards   []Board        `json:"kanbanBoards"`
	Active         bool           `json:"active"`
	CreatedAt      int64          `json:"createdAt"`
	UpdatedAt      int64          `json:"updatedAt"`
}

type TaskItem struct {
	ID          string `json:"id,omitempty"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	AssignedTo  string `json:"assignedTo,omitempty"`
	Priority    string `json:"priority,omitempty"`
	DueDate     int64  `json:"dueDate,omitempty"`
}

type Schedule struct {
	ID         string     `json:"id"`
	ProjectID  string     `json:"projectId"`
	InProgress []TaskItem `json:"inProgress"`
	Completed  []TaskItem `json:"completed"`
	Overdue    []TaskItem `json:"overdue"`
	CreatedAt  int64      `json:"createdAt"`
	UpdatedAt  int64      `json:"updatedAt"`
}

// Buckets is the replaceable part of a schedule.
type Buckets struct {
	InProgress []TaskItem `json:"inProgress,omitempty"`
	Completed  []TaskItem `json:"completed,omitempty"`
	Overdue    []TaskItem `json:"overdue,omitempty"`
}

type Note struct {
	ID        string `json:"id"`
	ProjectID string `json:"projectId"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	CreatedBy string `json:"createdBy"`
	CreatedAt int64  `json:"createdAt"`
	UpdatedAt int64  `json:"updatedAt"`
}

type ProjectFile struct {
	ID            string   `json:"id"`
	ProjectID     string   `json:"projectId"`
	Filename      string   `json:"filename"`
	Size          int64    `json:"size"`
	Codec         string   `json:"codec"`
	AudioChannels int      `json:"audioChannels"`
	Resolution    string   `json:"resolution,omitempty"`
	HasWarnings   bool     `json:"hasWarnings"`
	Warnings      []string `json:"warnings"`
	UploadedBy    string   `json:"uploadedBy"`
	DateAdded     int64    `json:"dateAdded"`
}

type ValidationResult struct {
	Codec         string   `json:"codec"`
	AudioChannels int      `json:"audioChannels"`
	Warnings      []string `json:"warnings"`
}

type Upload struct {
	File       ProjectFile      `json:"file"`
	Validation ValidationResult `json:"validation"`
}

type CreateProjectRequest struct {
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	ProjectType string       `json:"projectType"`
	TeamMembers []TeamMember `json:"teamMembers,omitempty"`
}

type AddTaskRequest struct {
	Title          string `json:"title"`
	Description    string `json:"description,omitempty"`
	Priority       string `json:"priority,omitempty"`
	CompletionDate int64  `json:"completionDate,omitempty"`
	AssignedTo     string `json:"assignedTo,omitempty"`
	Status         string `json:"status,omitempty"`
}

// APIError wraps non-2xx responses.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	Body       string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("api error: status=%d code=%s message=%s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("api error: status=%d body=%s", e.StatusCode, e.Body)
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "health", nil, nil)
}

// DevLogin mints a development token and stores it on the client.
func (c *Client) DevLogin(ctx context.Context, userID string) (string, error) {
	var resp struct {
		Token string `json:"token"`
	}
	if err := c.do(ctx, http.MethodPost, "dev/login", map[string]any{"userId": userID}, &resp); err != nil {
		return "", err
	}
	c.BearerToken = resp.Token
	return resp.Token, nil
}

func (c *Client) CreateProject(ctx context.Context, req CreateProjectRequest) (Project, error) {
	var resp Project
	err := c.do(ctx, http.MethodPost, "projects", req, &resp)
	return resp, err
}

func (c *Client) MyProjects(ctx context.Context) ([]Project, error) {
	var resp []Project
	err := c.do(ctx, http.MethodGet, "projects/mine", nil, &resp)
	return resp, err
}

func (c *Client) HasActiveProjects(ctx context.Context) (bool, error) {
	var resp struct {
		Active bool `json:"active"`
	}
	err := c.do(ctx, http.MethodGet, "projects/active", nil, &resp)
	return resp.Active, err
}

func (c *Client) GetProject(ctx context.Context, projectID string) (Project, error) {
	var resp Project
	err := c.do(ctx, http.MethodGet, projectPath(projectID, ""), nil, &resp)
	return resp, err
}

func (c *Client) GetBoard(ctx context.Context, projectID string) (Board, error) {
	var resp Board
	err := c.do(ctx, http.MethodGet, projectPath(projectID, "board"), nil, &resp)
	return resp, err
}

func (c *Client) AddTask(ctx context.Context, projectID string, req AddTaskRequest) (Task, error) {
	var resp Task
	err := c.do(ctx, http.MethodPost, projectPath(projectID, "board/tasks"), req, &resp)
	return resp, err
}

func (c *Client) MoveTask(ctx context.Context, projectID, taskID, status string) (Task, error) {
	var resp Task
	endpoint := projectPath(projectID, fmt.Sprintf("board/tasks/%s/move", url.PathEscape(taskID)))
	err := c.do(ctx, http.MethodPost, endpoint, map[string]any{"status": status}, &resp)
	return resp, err
}

// Schedule returns the project schedule, creating it if needed.
func (c *Client) Schedule(ctx context.Context, projectID string) (Schedule, error) {
	var resp Schedule
	err := c.do(ctx, http.MethodGet, projectPath(projectID, "schedule"), nil, &resp)
	return resp, err
}

func (c *Client) UpdateSchedule(ctx context.Context, projectID string, b Buckets) (Schedule, error) {
	var resp Schedule
	err := c.do(ctx, http.MethodPut, projectPath(projectID, "schedule"), b, &resp)
	return resp, err
}

func (c *Client) RebuildSchedule(ctx context.Context, projectID string) (Schedule, error) {
	var resp Schedule
	err := c.do(ctx, http.MethodPost, projectPath(projectID, "schedule/rebuild"), nil, &resp)
	return resp, err
}

func (c *Client) CreateNote(ctx context.Context, projectID, title, content string) (Note, error) {
	var resp Note
	err := c.do(ctx, http.MethodPost, projectPath(projectID, "notes"), map[string]any{"title": title, "content": content}, &resp)
	return resp, err
}

func (c *Client) ListNotes(ctx context.Context, projectID string) ([]Note, error) {
	var resp []Note
	err := c.do(ctx, http.MethodGet, projectPath(projectID, "notes"), nil, &resp)
	return resp, err
}

// UploadFile sends data as the raw request body.
func (c *Client) UploadFile(ctx context.Context, projectID, filename string, data io.Reader) (Upload, error) {
	var resp Upload
	endpoint := projectPath(projectID, "files") + "?filename=" + url.QueryEscape(filename)
	err := c.send(ctx, http.MethodPost, endpoint, "application/octet-stream", data, &resp)
	return resp, err
}

func (c *Client) ListFiles(ctx context.Context, projectID string) ([]ProjectFile, error) {
	var resp []ProjectFile
	err := c.do(ctx, http.MethodGet, projectPath(projectID, "files"), nil, &resp)
	return resp, err
}

func (c *Client) do(ctx context.Context, method, endpoint string, body any, out any) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}
	return c.send(ctx, method, endpoint, "application/json", &buf, out)
}

func (c *Client) send(ctx context.Context, method, endpoint, contentType string, body io.Reader, out any) error {
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: c.Timeout}
	}
	req, err := http.NewRequestWithContext(ctx, method, c.url(endpoint), body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", contentType)
	switch {
	case c.BearerToken != "":
		req.Header.Set("Authorization", "Bearer "+c.BearerToken)
	case c.ActorID != "":
		req.Header.Set("X-Actor-Id", c.ActorID)
	}
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		apiErr := &APIError{StatusCode: resp.StatusCode, Body: string(b)}
		var envelope struct {
			Error struct {
				Code    string `json:"code"`
				Message string `json:"message"`
			} `json:"error"`
		}
		if json.Unmarshal(b, &envelope) == nil {
			apiErr.Code = envelope.Error.Code
			apiErr.Message = envelope.Error.Message
		}
		return apiErr
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

func projectPath(projectID, p string) string {
	base := "projects/" + url.PathEscape(projectID)
	if p == "" {
		return base
	}
	return base + "/" + strings.TrimLeft(p, "/")
}

func (c *Client) url(endpoint string) string {
	base := strings.TrimRight(c.BaseURL, "/")
	bp := strings.Trim(c.BasePath, "/")
	if bp != "" {
		base += "/" + bp
	}
	return base + "/" + strings.TrimLeft(endpoint, "/")
}
