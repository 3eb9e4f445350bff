// Copyright 2025 mirrorhq.
// SPDX-License-Identifier: AGPL-3.0-or-later

package asana

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/avast/retry-go"
	"github.com/pkg/errors"
)

const defaultBaseURL = "https://app.asana.com/api/1.0"

// requestTimeout bounds every single remote call. Expiry is treated as a
// transient failure by the callers, never as a reason to abort a whole run.
const requestTimeout = 30 * time.Second

// Client is a minimal Asana REST client. It only implements the calls the
// sync engine needs and maps Asana error responses onto typed errors.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string

	Workspaces  *WorkspacesService
	Projects    *ProjectsService
	Tasks       *TasksService
	Attachments *AttachmentsService
	Stories     *StoriesService
	Tags        *TagsService
	Teams       *TeamsService
	Users       *UsersService
	Webhooks    *WebhooksService
	Events      *EventsService
}

func NewClient(token string) (*Client, error) {
	if token == "" {
		return nil, errors.New("an Asana access token is required")
	}
	c := &Client{
		httpClient: &http.Client{
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 3,
			},
		},
		baseURL: defaultBaseURL,
		token:   token,
	}
	c.Workspaces = &WorkspacesService{client: c}
	c.Projects = &ProjectsService{client: c}
	c.Tasks = &TasksService{client: c}
	c.Attachments = &AttachmentsService{client: c}
	c.Stories = &StoriesService{client: c}
	c.Tags = &TagsService{client: c}
	c.Teams = &TeamsService{client: c}
	c.Users = &UsersService{client: c}
	c.Webhooks = &WebhooksService{client: c}
	c.Events = &EventsService{client: c}
	return c, nil
}

// SetBaseURL points the client at a different API root. Used by tests.
func (c *Client) SetBaseURL(base string) {
	c.baseURL = strings.TrimSuffix(base, "/")
}

type errorResponse struct {
	Sync   string `json:"sync"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any) (json.RawMessage, error) {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(map[string]any{"data": body})
		if err != nil {
			return nil, errors.Wrap(err, "could not marshal request body")
		}
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var raw json.RawMessage
	err := retry.Do(
		func() error {
			reqCtx, cancel := context.WithTimeout(ctx, requestTimeout)
			defer cancel()

			var reader io.Reader
			if payload != nil {
				reader = bytes.NewReader(payload)
			}
			req, err := http.NewRequestWithContext(reqCtx, method, u, reader)
			if err != nil {
				return retry.Unrecoverable(errors.Wrap(err, "could not create request"))
			}
			req.Header.Set("Authorization", "Bearer "+c.token)
			req.Header.Set("Accept", "application/json")
			if payload != nil {
				req.Header.Set("Content-Type", "application/json")
			}

			res, err := c.httpClient.Do(req)
			if err != nil {
				return errors.Wrap(err, "request failed")
			}
			defer res.Body.Close()

			resBody, err := io.ReadAll(res.Body)
			if err != nil {
				return errors.Wrap(err, "could not read response body")
			}

			if res.StatusCode >= 500 {
				return fmt.Errorf("asana responded with status %d", res.StatusCode)
			}
			if res.StatusCode >= 400 {
				return retry.Unrecoverable(typedError(res.StatusCode, method, path, resBody))
			}

			raw = resBody
			return nil
		},
		retry.Attempts(3),
		retry.Delay(2*time.Second),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.Context(ctx),
	)
	if err != nil {
		return nil, err
	}
	return raw, nil
}

// typedError maps an Asana error response onto the typed errors the sync
// engine dispatches on.
func typedError(status int, method, path string, body []byte) error {
	var parsed errorResponse
	_ = json.Unmarshal(body, &parsed)

	message := ""
	if len(parsed.Errors) > 0 {
		message = parsed.Errors[0].Message
	}
	resource, gid := splitPath(path)

	switch status {
	case http.StatusNotFound:
		return &NotFoundError{Resource: resource, GID: gid}
	case http.StatusForbidden, http.StatusUnauthorized:
		return &ForbiddenError{Resource: resource, GID: gid}
	case http.StatusPreconditionFailed:
		// the events endpoint rejects stale tokens with 412 and attaches
		// a replacement sync token to the error body
		return &InvalidTokenError{Sync: parsed.Sync}
	default:
		slog.Debug("asana rejected request", "method", method, "path", path, "status", status, "message", message)
		return &InvalidRequestError{Message: message}
	}
}

func splitPath(path string) (resource, gid string) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) == 0 {
		return "", ""
	}
	resource = strings.TrimSuffix(parts[0], "s")
	if len(parts) > 1 {
		gid = parts[1]
	}
	return resource, gid
}

// getOne fetches a single full resource record.
func (c *Client) getOne(ctx context.Context, path string) (Resource, error) {
	raw, err := c.do(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return nil, err
	}
	var envelope struct {
		Data Resource `json:"data"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, errors.Wrap(err, "could not decode response")
	}
	return envelope.Data, nil
}

// getMany fetches a collection of compact resource records. Compact records
// only carry gid and name; callers must re-fetch by id before syncing.
func (c *Client) getMany(ctx context.Context, path string, query url.Values) ([]Resource, error) {
	raw, err := c.do(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return nil, err
	}
	var envelope struct {
		Data []Resource `json:"data"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, errors.Wrap(err, "could not decode response")
	}
	return envelope.Data, nil
}

type WorkspacesService struct{ client *Client }

func (s *WorkspacesService) FindAll(ctx context.Context) ([]Resource, error) {
	return s.client.getMany(ctx, "/workspaces", nil)
}

func (s *WorkspacesService) FindByID(ctx context.Context, gid string) (Resource, error) {
	return s.client.getOne(ctx, "/workspaces/"+gid)
}

type ProjectsService struct{ client *Client }

func (s *ProjectsService) FindAll(ctx context.Context, workspaceGID string) ([]Resource, error) {
	query := url.Values{"workspace": {workspaceGID}}
	return s.client.getMany(ctx, "/projects", query)
}

func (s *ProjectsService) FindByID(ctx context.Context, gid string) (Resource, error) {
	return s.client.getOne(ctx, "/projects/"+gid)
}

type TasksService struct{ client *Client }

func (s *TasksService) FindAll(ctx context.Context, projectGID string) ([]Resource, error) {
	query := url.Values{"project": {projectGID}}
	return s.client.getMany(ctx, "/tasks", query)
}

func (s *TasksService) FindByID(ctx context.Context, gid string) (Resource, error) {
	return s.client.getOne(ctx, "/tasks/"+gid)
}

func (s *TasksService) Subtasks(ctx context.Context, gid string) ([]Resource, error) {
	return s.client.getMany(ctx, "/tasks/"+gid+"/subtasks", nil)
}

func (s *TasksService) Update(ctx context.Context, gid string, fields map[string]any) (Resource, error) {
	raw, err := s.client.do(ctx, http.MethodPut, "/tasks/"+gid, nil, fields)
	if err != nil {
		return nil, err
	}
	var envelope struct {
		Data Resource `json:"data"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, errors.Wrap(err, "could not decode response")
	}
	return envelope.Data, nil
}

func (s *TasksService) Delete(ctx context.Context, gid string) error {
	_, err := s.client.do(ctx, http.MethodDelete, "/tasks/"+gid, nil, nil)
	return err
}

func (s *TasksService) AddComment(ctx context.Context, gid string, text string) (Resource, error) {
	raw, err := s.client.do(ctx, http.MethodPost, "/tasks/"+gid+"/stories", nil, map[string]any{"text": text})
	if err != nil {
		return nil, err
	}
	var envelope struct {
		Data Resource `json:"data"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, errors.Wrap(err, "could not decode response")
	}
	return envelope.Data, nil
}

type AttachmentsService struct{ client *Client }

func (s *AttachmentsService) FindByTask(ctx context.Context, taskGID string) ([]Resource, error) {
	return s.client.getMany(ctx, "/tasks/"+taskGID+"/attachments", nil)
}

func (s *AttachmentsService) FindByID(ctx context.Context, gid string) (Resource, error) {
	return s.client.getOne(ctx, "/attachments/"+gid)
}

type StoriesService struct{ client *Client }

func (s *StoriesService) FindByTask(ctx context.Context, taskGID string) ([]Resource, error) {
	return s.client.getMany(ctx, "/tasks/"+taskGID+"/stories", nil)
}

func (s *StoriesService) FindByID(ctx context.Context, gid string) (Resource, error) {
	return s.client.getOne(ctx, "/stories/"+gid)
}

type TagsService struct{ client *Client }

func (s *TagsService) FindByWorkspace(ctx context.Context, workspaceGID string) ([]Resource, error) {
	return s.client.getMany(ctx, "/workspaces/"+workspaceGID+"/tags", nil)
}

func (s *TagsService) FindByID(ctx context.Context, gid string) (Resource, error) {
	return s.client.getOne(ctx, "/tags/"+gid)
}

type TeamsService struct{ client *Client }

func (s *TeamsService) FindByOrganization(ctx context.Context, organizationGID string) ([]Resource, error) {
	return s.client.getMany(ctx, "/organizations/"+organizationGID+"/teams", nil)
}

func (s *TeamsService) FindByID(ctx context.Context, gid string) (Resource, error) {
	return s.client.getOne(ctx, "/teams/"+gid)
}

type UsersService struct{ client *Client }

func (s *UsersService) FindAll(ctx context.Context, workspaceGID string) ([]Resource, error) {
	query := url.Values{"workspace": {workspaceGID}}
	return s.client.getMany(ctx, "/users", query)
}

func (s *UsersService) FindByID(ctx context.Context, gid string) (Resource, error) {
	return s.client.getOne(ctx, "/users/"+gid)
}

type WebhooksService struct{ client *Client }

func (s *WebhooksService) Create(ctx context.Context, resourceGID, target string) (Resource, error) {
	raw, err := s.client.do(ctx, http.MethodPost, "/webhooks", nil, map[string]any{
		"resource": resourceGID,
		"target":   target,
	})
	if err != nil {
		return nil, err
	}
	var envelope struct {
		Data Resource `json:"data"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, errors.Wrap(err, "could not decode response")
	}
	return envelope.Data, nil
}

func (s *WebhooksService) GetAll(ctx context.Context, workspaceGID, resourceGID string) ([]Resource, error) {
	query := url.Values{"workspace": {workspaceGID}}
	if resourceGID != "" {
		query.Set("resource", resourceGID)
	}
	return s.client.getMany(ctx, "/webhooks", query)
}

func (s *WebhooksService) DeleteByID(ctx context.Context, gid string) error {
	_, err := s.client.do(ctx, http.MethodDelete, "/webhooks/"+gid, nil, nil)
	return err
}

type EventsService struct{ client *Client }

// Get fetches the events that happened on a resource since the given sync
// token. An empty token asks Asana to issue a fresh one, which it signals
// with an InvalidTokenError carrying the token.
func (s *EventsService) Get(ctx context.Context, resourceGID, sync string) (EventBatch, error) {
	query := url.Values{"resource": {resourceGID}}
	if sync != "" {
		query.Set("sync", sync)
	}
	raw, err := s.client.do(ctx, http.MethodGet, "/events", query, nil)
	if err != nil {
		return EventBatch{}, err
	}
	var batch EventBatch
	if err := json.Unmarshal(raw, &batch); err != nil {
		return EventBatch{}, errors.Wrap(err, "could not decode event batch")
	}
	return batch, nil
}
