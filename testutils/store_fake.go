// Copyright 2025 mirrorhq.
// SPDX-License-Identifier: AGPL-3.0-or-later

package testutils

import (
	"slices"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mirrorhq/asanasync/database/models"
	"github.com/mirrorhq/asanasync/shared"
)

// FakeStore is an in-memory persistence layer keyed by remote id. It mimics
// the upsert semantics of the gorm repositories: the local uuid id survives
// an upsert, association sets are tracked per join table so tests can assert
// replace vs append behavior.
type FakeStore struct {
	Workspaces          map[int64]models.Workspace
	Teams               map[int64]models.Team
	Users               map[int64]models.User
	Tags                map[int64]models.Tag
	Projects            map[int64]models.Project
	ProjectStatuses     map[int64]models.ProjectStatus
	Tasks               map[int64]models.Task
	Stories             map[int64]models.Story
	Attachments         map[int64]models.Attachment
	CustomFields        map[int64]models.CustomField
	CustomFieldSettings map[int64]models.CustomFieldSetting
	Webhooks            []models.Webhook
	SyncTokens          map[int64]models.SyncToken

	UserWorkspaces   map[int64]map[int64]struct{}
	TagFollowers     map[int64]map[int64]struct{}
	ProjectMembers   map[int64]map[int64]struct{}
	ProjectFollowers map[int64]map[int64]struct{}
	TaskFollowers    map[int64]map[int64]struct{}
	TaskDependencies map[int64]map[int64]struct{}
	TaskTags         map[int64]map[int64]struct{}
	TaskProjects     map[int64]map[int64]struct{}
}

func NewFakeStore() *FakeStore {
	return &FakeStore{
		Workspaces:          map[int64]models.Workspace{},
		Teams:               map[int64]models.Team{},
		Users:               map[int64]models.User{},
		Tags:                map[int64]models.Tag{},
		Projects:            map[int64]models.Project{},
		ProjectStatuses:     map[int64]models.ProjectStatus{},
		Tasks:               map[int64]models.Task{},
		Stories:             map[int64]models.Story{},
		Attachments:         map[int64]models.Attachment{},
		CustomFields:        map[int64]models.CustomField{},
		CustomFieldSettings: map[int64]models.CustomFieldSetting{},
		SyncTokens:          map[int64]models.SyncToken{},
		UserWorkspaces:      map[int64]map[int64]struct{}{},
		TagFollowers:        map[int64]map[int64]struct{}{},
		ProjectMembers:      map[int64]map[int64]struct{}{},
		ProjectFollowers:    map[int64]map[int64]struct{}{},
		TaskFollowers:       map[int64]map[int64]struct{}{},
		TaskDependencies:    map[int64]map[int64]struct{}{},
		TaskTags:            map[int64]map[int64]struct{}{},
		TaskProjects:        map[int64]map[int64]struct{}{},
	}
}

// Repositories bundles the store into the interface set the sync engine
// consumes.
func (s *FakeStore) Repositories() shared.Repositories {
	return shared.Repositories{
		Workspaces:          (*fakeWorkspaceRepo)(s),
		Teams:               (*fakeTeamRepo)(s),
		Users:               (*fakeUserRepo)(s),
		Tags:                (*fakeTagRepo)(s),
		Projects:            (*fakeProjectRepo)(s),
		ProjectStatuses:     (*fakeProjectStatusRepo)(s),
		Tasks:               (*fakeTaskRepo)(s),
		Stories:             (*fakeStoryRepo)(s),
		Attachments:         (*fakeAttachmentRepo)(s),
		CustomFields:        (*fakeCustomFieldRepo)(s),
		CustomFieldSettings: (*fakeCustomFieldSettingRepo)(s),
		Webhooks:            (*fakeWebhookRepo)(s),
		SyncTokens:          (*fakeSyncTokenRepo)(s),
	}
}

// Set returns the sorted remote ids of a join table entry, nil when empty.
func Set(m map[int64]map[int64]struct{}, owner int64) []int64 {
	entries := m[owner]
	if len(entries) == 0 {
		return nil
	}
	ids := make([]int64, 0, len(entries))
	for id := range entries {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func replaceSet(m map[int64]map[int64]struct{}, owner int64, ids []int64) {
	entries := map[int64]struct{}{}
	for _, id := range ids {
		entries[id] = struct{}{}
	}
	m[owner] = entries
}

func appendSet(m map[int64]map[int64]struct{}, owner int64, ids ...int64) {
	entries := m[owner]
	if entries == nil {
		entries = map[int64]struct{}{}
		m[owner] = entries
	}
	for _, id := range ids {
		entries[id] = struct{}{}
	}
}

func adopt(obj *models.RemoteObject, existing models.RemoteObject, found bool) {
	if found {
		obj.ID = existing.ID
	} else if obj.ID == uuid.Nil {
		obj.ID = uuid.New()
	}
}

type fakeWorkspaceRepo FakeStore

func (s *fakeWorkspaceRepo) Upsert(tx shared.DB, workspace *models.Workspace) error {
	existing, found := s.Workspaces[workspace.RemoteID]
	adopt(&workspace.RemoteObject, existing.RemoteObject, found)
	s.Workspaces[workspace.RemoteID] = *workspace
	return nil
}

func (s *fakeWorkspaceRepo) FindByRemoteID(remoteID int64) (models.Workspace, error) {
	if w, ok := s.Workspaces[remoteID]; ok {
		return w, nil
	}
	return models.Workspace{}, gorm.ErrRecordNotFound
}

func (s *fakeWorkspaceRepo) GetOrCreateStub(tx shared.DB, remoteID int64, name string) (models.Workspace, error) {
	if w, ok := s.Workspaces[remoteID]; ok {
		return w, nil
	}
	w := models.Workspace{Named: models.Named{Name: name}}
	w.RemoteID = remoteID
	w.ID = uuid.New()
	s.Workspaces[remoteID] = w
	return w, nil
}

func (s *fakeWorkspaceRepo) All() ([]models.Workspace, error) {
	out := make([]models.Workspace, 0, len(s.Workspaces))
	for _, w := range s.Workspaces {
		out = append(out, w)
	}
	return out, nil
}

type fakeTeamRepo FakeStore

func (s *fakeTeamRepo) Upsert(tx shared.DB, team *models.Team) error {
	existing, found := s.Teams[team.RemoteID]
	adopt(&team.RemoteObject, existing.RemoteObject, found)
	s.Teams[team.RemoteID] = *team
	return nil
}

func (s *fakeTeamRepo) GetOrCreateStub(tx shared.DB, remoteID int64, name string) (models.Team, error) {
	if t, ok := s.Teams[remoteID]; ok {
		return t, nil
	}
	t := models.Team{Named: models.Named{Name: name}}
	t.RemoteID = remoteID
	t.ID = uuid.New()
	s.Teams[remoteID] = t
	return t, nil
}

type fakeUserRepo FakeStore

func (s *fakeUserRepo) Upsert(tx shared.DB, user *models.User) error {
	existing, found := s.Users[user.RemoteID]
	adopt(&user.RemoteObject, existing.RemoteObject, found)
	s.Users[user.RemoteID] = *user
	return nil
}

func (s *fakeUserRepo) GetOrCreateStub(tx shared.DB, remoteID int64, name string) (models.User, error) {
	if u, ok := s.Users[remoteID]; ok {
		return u, nil
	}
	u := models.User{Named: models.Named{Name: name}}
	u.RemoteID = remoteID
	u.ID = uuid.New()
	s.Users[remoteID] = u
	return u, nil
}

func (s *fakeUserRepo) FindByRemoteID(remoteID int64) (models.User, error) {
	if u, ok := s.Users[remoteID]; ok {
		return u, nil
	}
	return models.User{}, gorm.ErrRecordNotFound
}

func (s *fakeUserRepo) AppendWorkspace(tx shared.DB, user *models.User, workspace *models.Workspace) error {
	appendSet(s.UserWorkspaces, user.RemoteID, workspace.RemoteID)
	return nil
}

type fakeTagRepo FakeStore

func (s *fakeTagRepo) Upsert(tx shared.DB, tag *models.Tag) error {
	existing, found := s.Tags[tag.RemoteID]
	adopt(&tag.RemoteObject, existing.RemoteObject, found)
	s.Tags[tag.RemoteID] = *tag
	return nil
}

func (s *fakeTagRepo) GetOrCreateStub(tx shared.DB, remoteID int64, name string) (models.Tag, error) {
	if t, ok := s.Tags[remoteID]; ok {
		return t, nil
	}
	t := models.Tag{Named: models.Named{Name: name}}
	t.RemoteID = remoteID
	t.ID = uuid.New()
	s.Tags[remoteID] = t
	return t, nil
}

func (s *fakeTagRepo) ReplaceFollowers(tx shared.DB, tag *models.Tag, followers []models.User) error {
	replaceSet(s.TagFollowers, tag.RemoteID, userRemoteIDs(followers))
	return nil
}

type fakeProjectRepo FakeStore

func (s *fakeProjectRepo) Upsert(tx shared.DB, project *models.Project) error {
	existing, found := s.Projects[project.RemoteID]
	adopt(&project.RemoteObject, existing.RemoteObject, found)
	s.Projects[project.RemoteID] = *project
	return nil
}

func (s *fakeProjectRepo) FindByRemoteID(remoteID int64) (models.Project, error) {
	if p, ok := s.Projects[remoteID]; ok {
		return p, nil
	}
	return models.Project{}, gorm.ErrRecordNotFound
}

func (s *fakeProjectRepo) GetOrCreateStub(tx shared.DB, remoteID int64, name string) (models.Project, error) {
	if p, ok := s.Projects[remoteID]; ok {
		return p, nil
	}
	p := models.Project{Named: models.Named{Name: name}}
	p.RemoteID = remoteID
	p.ID = uuid.New()
	s.Projects[remoteID] = p
	return p, nil
}

func (s *fakeProjectRepo) DeleteByRemoteID(tx shared.DB, remoteID int64) error {
	delete(s.Projects, remoteID)
	return nil
}

func (s *fakeProjectRepo) ReplaceFollowers(tx shared.DB, project *models.Project, followers []models.User) error {
	replaceSet(s.ProjectFollowers, project.RemoteID, userRemoteIDs(followers))
	return nil
}

func (s *fakeProjectRepo) AppendMembers(tx shared.DB, project *models.Project, members []models.User) error {
	appendSet(s.ProjectMembers, project.RemoteID, userRemoteIDs(members)...)
	return nil
}

func (s *fakeProjectRepo) All() ([]models.Project, error) {
	out := make([]models.Project, 0, len(s.Projects))
	for _, p := range s.Projects {
		out = append(out, p)
	}
	return out, nil
}

type fakeProjectStatusRepo FakeStore

func (s *fakeProjectStatusRepo) Upsert(tx shared.DB, status *models.ProjectStatus) error {
	existing, found := s.ProjectStatuses[status.RemoteID]
	adopt(&status.RemoteObject, existing.RemoteObject, found)
	s.ProjectStatuses[status.RemoteID] = *status
	return nil
}

type fakeTaskRepo FakeStore

func (s *fakeTaskRepo) Upsert(tx shared.DB, task *models.Task) error {
	existing, found := s.Tasks[task.RemoteID]
	adopt(&task.RemoteObject, existing.RemoteObject, found)
	s.Tasks[task.RemoteID] = *task
	return nil
}

func (s *fakeTaskRepo) FindByRemoteID(remoteID int64) (models.Task, error) {
	if t, ok := s.Tasks[remoteID]; ok {
		return t, nil
	}
	return models.Task{}, gorm.ErrRecordNotFound
}

func (s *fakeTaskRepo) ExistsByRemoteID(remoteID int64) (bool, error) {
	_, ok := s.Tasks[remoteID]
	return ok, nil
}

func (s *fakeTaskRepo) GetOrCreateStub(tx shared.DB, remoteID int64, name string) (models.Task, error) {
	if t, ok := s.Tasks[remoteID]; ok {
		return t, nil
	}
	t := models.Task{Named: models.Named{Name: name}}
	t.RemoteID = remoteID
	t.ID = uuid.New()
	s.Tasks[remoteID] = t
	return t, nil
}

func (s *fakeTaskRepo) DeleteByRemoteIDs(tx shared.DB, remoteIDs []int64) error {
	for _, id := range remoteIDs {
		delete(s.Tasks, id)
		delete(s.TaskFollowers, id)
		delete(s.TaskDependencies, id)
		delete(s.TaskTags, id)
		delete(s.TaskProjects, id)
	}
	return nil
}

func (s *fakeTaskRepo) ReplaceFollowers(tx shared.DB, task *models.Task, followers []models.User) error {
	replaceSet(s.TaskFollowers, task.RemoteID, userRemoteIDs(followers))
	return nil
}

func (s *fakeTaskRepo) ReplaceDependencies(tx shared.DB, task *models.Task, dependencies []*models.Task) error {
	ids := make([]int64, 0, len(dependencies))
	for _, dep := range dependencies {
		ids = append(ids, dep.RemoteID)
	}
	replaceSet(s.TaskDependencies, task.RemoteID, ids)
	return nil
}

func (s *fakeTaskRepo) AppendTag(tx shared.DB, task *models.Task, tag *models.Tag) error {
	appendSet(s.TaskTags, task.RemoteID, tag.RemoteID)
	return nil
}

func (s *fakeTaskRepo) AppendProject(tx shared.DB, task *models.Task, project *models.Project) error {
	appendSet(s.TaskProjects, task.RemoteID, project.RemoteID)
	return nil
}

func (s *fakeTaskRepo) StaleRemoteIDsInProject(projectRemoteID int64, seen []int64) ([]int64, error) {
	var stale []int64
	for taskRemoteID, projects := range s.TaskProjects {
		if _, inProject := projects[projectRemoteID]; !inProject {
			continue
		}
		if !slices.Contains(seen, taskRemoteID) {
			stale = append(stale, taskRemoteID)
		}
	}
	sort.Slice(stale, func(i, j int) bool { return stale[i] < stale[j] })
	return stale, nil
}

type fakeStoryRepo FakeStore

func (s *fakeStoryRepo) CreateIfAbsent(tx shared.DB, story *models.Story) (bool, error) {
	if _, ok := s.Stories[story.RemoteID]; ok {
		return false, nil
	}
	if story.ID == uuid.Nil {
		story.ID = uuid.New()
	}
	s.Stories[story.RemoteID] = *story
	return true, nil
}

func (s *fakeStoryRepo) Upsert(tx shared.DB, story *models.Story) error {
	existing, found := s.Stories[story.RemoteID]
	adopt(&story.RemoteObject, existing.RemoteObject, found)
	s.Stories[story.RemoteID] = *story
	return nil
}

func (s *fakeStoryRepo) FindByTarget(targetRemoteID int64) ([]models.Story, error) {
	var out []models.Story
	for _, story := range s.Stories {
		if story.Target == targetRemoteID {
			out = append(out, story)
		}
	}
	return out, nil
}

type fakeAttachmentRepo FakeStore

func (s *fakeAttachmentRepo) Upsert(tx shared.DB, attachment *models.Attachment) error {
	existing, found := s.Attachments[attachment.RemoteID]
	adopt(&attachment.RemoteObject, existing.RemoteObject, found)
	s.Attachments[attachment.RemoteID] = *attachment
	return nil
}

type fakeCustomFieldRepo FakeStore

func (s *fakeCustomFieldRepo) Upsert(tx shared.DB, field *models.CustomField) error {
	existing, found := s.CustomFields[field.RemoteID]
	adopt(&field.RemoteObject, existing.RemoteObject, found)
	s.CustomFields[field.RemoteID] = *field
	return nil
}

func (s *fakeCustomFieldRepo) GetOrCreateStub(tx shared.DB, remoteID int64, name string) (models.CustomField, error) {
	if f, ok := s.CustomFields[remoteID]; ok {
		return f, nil
	}
	f := models.CustomField{Named: models.Named{Name: name}}
	f.RemoteID = remoteID
	f.ID = uuid.New()
	s.CustomFields[remoteID] = f
	return f, nil
}

type fakeCustomFieldSettingRepo FakeStore

func (s *fakeCustomFieldSettingRepo) Upsert(tx shared.DB, setting *models.CustomFieldSetting) error {
	existing, found := s.CustomFieldSettings[setting.RemoteID]
	adopt(&setting.RemoteObject, existing.RemoteObject, found)
	s.CustomFieldSettings[setting.RemoteID] = *setting
	return nil
}

type fakeWebhookRepo FakeStore

func (s *fakeWebhookRepo) Create(tx shared.DB, webhook *models.Webhook) error {
	if webhook.ID == uuid.Nil {
		webhook.ID = uuid.New()
	}
	if webhook.CreatedAt.IsZero() {
		webhook.CreatedAt = time.Now()
	}
	s.Webhooks = append(s.Webhooks, *webhook)
	return nil
}

func (s *fakeWebhookRepo) Save(tx shared.DB, webhook *models.Webhook) error {
	for i := range s.Webhooks {
		if s.Webhooks[i].ID == webhook.ID {
			s.Webhooks[i] = *webhook
			return nil
		}
	}
	return s.Create(tx, webhook)
}

func (s *fakeWebhookRepo) Delete(tx shared.DB, webhook *models.Webhook) error {
	for i := range s.Webhooks {
		if s.Webhooks[i].ID == webhook.ID {
			s.Webhooks = append(s.Webhooks[:i], s.Webhooks[i+1:]...)
			return nil
		}
	}
	return nil
}

func (s *fakeWebhookRepo) ListByProject(projectRemoteID int64) ([]models.Webhook, error) {
	var out []models.Webhook
	for _, w := range s.Webhooks {
		if w.ProjectRemoteID == projectRemoteID {
			out = append(out, w)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

type fakeSyncTokenRepo FakeStore

func (s *fakeSyncTokenRepo) GetByProject(projectRemoteID int64) (models.SyncToken, bool, error) {
	token, ok := s.SyncTokens[projectRemoteID]
	return token, ok, nil
}

func (s *fakeSyncTokenRepo) Set(tx shared.DB, projectRemoteID int64, sync string) error {
	token, ok := s.SyncTokens[projectRemoteID]
	if !ok {
		token = models.SyncToken{ID: uuid.New(), ProjectRemoteID: projectRemoteID, CreatedAt: time.Now()}
	}
	token.Sync = sync
	token.UpdatedAt = time.Now()
	s.SyncTokens[projectRemoteID] = token
	return nil
}

func userRemoteIDs(users []models.User) []int64 {
	ids := make([]int64, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.RemoteID)
	}
	return ids
}
