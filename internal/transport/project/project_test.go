package project_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/alanyang/folio/internal/adapter/disk"
	"github.com/alanyang/folio/internal/adapter/memory"
	"github.com/alanyang/folio/internal/domain"
	domainproject "github.com/alanyang/folio/internal/domain/project"
	"github.com/alanyang/folio/internal/mocks"
	portmedia "github.com/alanyang/folio/internal/port/media"
	projectsvc "github.com/alanyang/folio/internal/service/project"
	transportproject "github.com/alanyang/folio/internal/transport/project"
)

func init() { gin.SetMode(gin.TestMode) }

const maxUpload = 1024

var (
	pngData  = append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), bytes.Repeat([]byte{0}, 32)...)
	jpegData = append([]byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00}, bytes.Repeat([]byte{0}, 32)...)
	gifData  = append([]byte("GIF89a"), bytes.Repeat([]byte{0}, 32)...)
)

type projectDeps struct {
	repo  *mocks.MockProjectRepository
	media *mocks.MockMediaStore
}

func newRouter(svc *projectsvc.Service) *gin.Engine {
	r := gin.New()
	transportproject.Register(r.Group("/api/projects"), svc, maxUpload)
	return r
}

func newProjectSvc(t *testing.T) (*projectsvc.Service, projectDeps) {
	t.Helper()
	ctrl := gomock.NewController(t)
	d := projectDeps{
		repo:  mocks.NewMockProjectRepository(ctrl),
		media: mocks.NewMockMediaStore(ctrl),
	}
	return projectsvc.NewService(d.repo, d.media, projectsvc.WithTimeout(time.Second)), d
}

type upload struct {
	name string
	data []byte
}

func multipartBody(t *testing.T, fields map[string]string, files ...upload) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	for _, f := range files {
		fw, err := mw.CreateFormFile(transportproject.ImageField, f.name)
		require.NoError(t, err)
		_, err = fw.Write(f.data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func validForm() map[string]string {
	return map[string]string{
		"projectName": "Portfolio Site",
		"description": "A site.",
		"url":         "https://example.com/p",
	}
}

func send(r *gin.Engine, method, path string, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == nil {
		req, _ = http.NewRequestWithContext(context.Background(), method, path, nil)
	} else {
		req, _ = http.NewRequestWithContext(context.Background(), method, path, body)
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Message  string                  `json:"message"`
	Error    string                  `json:"error"`
	Project  domainproject.Project   `json:"project"`
	Projects []domainproject.Project `json:"projects"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var e envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &e))
	return e
}

// ── POST /api/projects ───────────────────────────────────────────────────────

func TestCreateProject_WithImage(t *testing.T) {
	svc, d := newProjectSvc(t)
	r := newRouter(svc)

	d.media.EXPECT().Store(gomock.Any(), gomock.Any(), projectsvc.MediaNamespace).
		DoAndReturn(func(_ context.Context, f portmedia.File, _ string) (string, error) {
			assert.Equal(t, "image/png", f.ContentType)
			assert.Equal(t, "shot.png", f.Name)
			assert.Equal(t, pngData, f.Data)
			return "/uploads/projects/a.png", nil
		})
	d.repo.EXPECT().Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, p domainproject.Project) (domainproject.Project, error) {
			return p, nil
		})

	body, ct := multipartBody(t, validForm(), upload{"shot.png", pngData})
	w := send(r, http.MethodPost, "/api/projects", body, ct)

	require.Equal(t, http.StatusCreated, w.Code)
	got := decode(t, w)
	assert.Equal(t, "Project uploaded successfully", got.Message)
	assert.Equal(t, "Portfolio Site", got.Project.Name)
	assert.Equal(t, "/uploads/projects/a.png", got.Project.Image)
	assert.NotEqual(t, uuid.Nil, got.Project.ID)
}

func TestCreateProject_URLEncodedWithoutImage(t *testing.T) {
	svc, d := newProjectSvc(t)
	r := newRouter(svc)

	d.repo.EXPECT().Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, p domainproject.Project) (domainproject.Project, error) {
			return p, nil
		})

	form := url.Values{}
	for k, v := range validForm() {
		form.Set(k, v)
	}
	w := send(r, http.MethodPost, "/api/projects", bytes.NewBufferString(form.Encode()), "application/x-www-form-urlencoded")

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "", decode(t, w).Project.Image)
}

func TestCreateProject_JSONBody(t *testing.T) {
	svc, d := newProjectSvc(t)
	r := newRouter(svc)

	d.repo.EXPECT().Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, p domainproject.Project) (domainproject.Project, error) {
			return p, nil
		})

	raw, _ := json.Marshal(validForm())
	w := send(r, http.MethodPost, "/api/projects", bytes.NewBuffer(raw), "application/json")
	require.Equal(t, http.StatusCreated, w.Code)
}

func TestCreateProject_MissingFields(t *testing.T) {
	svc, _ := newProjectSvc(t)
	r := newRouter(svc)

	form := validForm()
	form["description"] = "   "
	body, ct := multipartBody(t, form, upload{"shot.png", pngData})
	w := send(r, http.MethodPost, "/api/projects", body, ct)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Please provide project name, description, and URL.", decode(t, w).Message)
}

func TestCreateProject_UploadConstraints(t *testing.T) {
	tests := []struct {
		name    string
		files   []upload
		wantMsg string
	}{
		{
			name:    "wrong type",
			files:   []upload{{"anim.gif", gifData}},
			wantMsg: "Only image files are allowed",
		},
		{
			name:    "renamed non-image",
			files:   []upload{{"fake.png", []byte("just some text pretending")}},
			wantMsg: "Only image files are allowed",
		},
		{
			name:    "too large",
			files:   []upload{{"big.png", append(append([]byte{}, pngData...), bytes.Repeat([]byte{1}, maxUpload)...)}},
			wantMsg: "Image must be at most",
		},
		{
			name:    "two files",
			files:   []upload{{"a.png", pngData}, {"b.jpg", jpegData}},
			wantMsg: "Only one image",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newProjectSvc(t)
			r := newRouter(svc)

			body, ct := multipartBody(t, validForm(), tt.files...)
			w := send(r, http.MethodPost, "/api/projects", body, ct)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, decode(t, w).Message, tt.wantMsg)
		})
	}
}

func TestCreateProject_StorageFailure(t *testing.T) {
	svc, d := newProjectSvc(t)
	r := newRouter(svc)

	d.media.EXPECT().Store(gomock.Any(), gomock.Any(), gomock.Any()).Return("", errors.New("bucket unavailable"))

	body, ct := multipartBody(t, validForm(), upload{"shot.jpg", jpegData})
	w := send(r, http.MethodPost, "/api/projects", body, ct)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Failed to store project image", decode(t, w).Message)
}

func TestCreateProject_PersistenceFailureReleasesUpload(t *testing.T) {
	svc, d := newProjectSvc(t)
	r := newRouter(svc)

	d.media.EXPECT().Store(gomock.Any(), gomock.Any(), gomock.Any()).Return("/uploads/projects/x.jpg", nil)
	d.repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(domainproject.Project{}, errors.New("db down"))
	d.media.EXPECT().Release(gomock.Any(), "/uploads/projects/x.jpg").Return(nil)

	body, ct := multipartBody(t, validForm(), upload{"shot.jpg", jpegData})
	w := send(r, http.MethodPost, "/api/projects", body, ct)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	got := decode(t, w)
	assert.Equal(t, "Server Error", got.Message)
	assert.Contains(t, got.Error, "db down")
}

// ── GET /api/projects ────────────────────────────────────────────────────────

func TestListProjects(t *testing.T) {
	svc, d := newProjectSvc(t)
	r := newRouter(svc)

	d.repo.EXPECT().List(gomock.Any()).Return([]domainproject.Project{{ID: uuid.New(), Name: "b"}, {ID: uuid.New(), Name: "a"}}, nil)

	w := send(r, http.MethodGet, "/api/projects", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	got := decode(t, w)
	assert.Equal(t, "Projects fetched successfully", got.Message)
	assert.Len(t, got.Projects, 2)
}

func TestListProjects_EmptyIsArray(t *testing.T) {
	svc, d := newProjectSvc(t)
	r := newRouter(svc)

	d.repo.EXPECT().List(gomock.Any()).Return(nil, nil)

	w := send(r, http.MethodGet, "/api/projects", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"projects":[]`)
}

func TestListProjects_StoreError(t *testing.T) {
	svc, d := newProjectSvc(t)
	r := newRouter(svc)

	d.repo.EXPECT().List(gomock.Any()).Return(nil, errors.New("timeout"))

	w := send(r, http.MethodGet, "/api/projects", nil, "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Failed to fetch projects", decode(t, w).Message)
}

// ── GET /api/projects/:id ────────────────────────────────────────────────────

func TestGetProject(t *testing.T) {
	svc, d := newProjectSvc(t)
	r := newRouter(svc)
	id := uuid.New()

	d.repo.EXPECT().GetByID(gomock.Any(), id).Return(domainproject.Project{ID: id, Name: "proj"}, nil)

	w := send(r, http.MethodGet, "/api/projects/"+id.String(), nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	got := decode(t, w)
	assert.Equal(t, "Project fetched successfully", got.Message)
	assert.Equal(t, id, got.Project.ID)
}

func TestGetProject_MalformedIDIsNotFound(t *testing.T) {
	svc, _ := newProjectSvc(t)
	r := newRouter(svc)

	w := send(r, http.MethodGet, "/api/projects/not-a-uuid", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Project not found", decode(t, w).Message)
}

func TestGetProject_NotFound(t *testing.T) {
	svc, d := newProjectSvc(t)
	r := newRouter(svc)
	id := uuid.New()

	d.repo.EXPECT().GetByID(gomock.Any(), id).Return(domainproject.Project{}, domain.ErrNotFound)

	w := send(r, http.MethodGet, "/api/projects/"+id.String(), nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.NotContains(t, w.Body.String(), `"error"`)
}

// ── PUT /api/projects/:id ────────────────────────────────────────────────────

func TestUpdateProject_NotFoundBeforeUpload(t *testing.T) {
	svc, d := newProjectSvc(t)
	r := newRouter(svc)
	id := uuid.New()

	d.repo.EXPECT().GetByID(gomock.Any(), id).Return(domainproject.Project{}, domain.ErrNotFound)

	body, ct := multipartBody(t, validForm(), upload{"shot.png", pngData})
	w := send(r, http.MethodPut, "/api/projects/"+id.String(), body, ct)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateProject_Invalid(t *testing.T) {
	svc, _ := newProjectSvc(t)
	r := newRouter(svc)

	form := validForm()
	form["url"] = "not a url"
	body, ct := multipartBody(t, form)
	w := send(r, http.MethodPut, "/api/projects/"+uuid.NewString(), body, ct)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// ── DELETE /api/projects/:id ─────────────────────────────────────────────────

func TestDeleteProject(t *testing.T) {
	svc, d := newProjectSvc(t)
	r := newRouter(svc)
	id := uuid.New()

	d.repo.EXPECT().Delete(gomock.Any(), id).Return(domainproject.Project{ID: id, Image: "/uploads/projects/a.png"}, nil)
	d.media.EXPECT().Release(gomock.Any(), "/uploads/projects/a.png").Return(errors.New("gone"))

	w := send(r, http.MethodDelete, "/api/projects/"+id.String(), nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Project deleted successfully", decode(t, w).Message)
}

func TestDeleteProject_NotFound(t *testing.T) {
	svc, d := newProjectSvc(t)
	r := newRouter(svc)
	id := uuid.New()

	d.repo.EXPECT().Delete(gomock.Any(), id).Return(domainproject.Project{}, domain.ErrNotFound)

	w := send(r, http.MethodDelete, "/api/projects/"+id.String(), nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

// ── end to end over the in-memory repository and the disk store ──────────────

func TestProjectScenario(t *testing.T) {
	dir := t.TempDir()
	store, err := disk.New(dir, "/uploads")
	require.NoError(t, err)
	svc := projectsvc.NewService(memory.NewProjectRepository(), store)
	r := newRouter(svc)

	body, ct := multipartBody(t, validForm())
	w := send(r, http.MethodPost, "/api/projects", body, ct)
	require.Equal(t, http.StatusCreated, w.Code)
	created := decode(t, w).Project
	assert.Equal(t, "", created.Image)

	form := validForm()
	form["url"] = "https://example.org"
	body, ct = multipartBody(t, form, upload{"shot.png", pngData})
	w = send(r, http.MethodPut, "/api/projects/"+created.ID.String(), body, ct)
	require.Equal(t, http.StatusOK, w.Code)
	updated := decode(t, w).Project
	assert.Equal(t, "https://example.org", updated.URL)
	assert.Equal(t, "Portfolio Site", updated.Name)
	require.True(t, strings.HasPrefix(updated.Image, "/uploads/projects/"))
	assert.FileExists(t, filepath.Join(dir, strings.TrimPrefix(updated.Image, "/uploads/")))

	w = send(r, http.MethodGet, "/api/projects", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	listed := decode(t, w).Projects
	require.Len(t, listed, 1)
	assert.Equal(t, created.ID, listed[0].ID)

	w = send(r, http.MethodDelete, "/api/projects/"+created.ID.String(), nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	_, statErr := os.Stat(filepath.Join(dir, strings.TrimPrefix(updated.Image, "/uploads/")))
	assert.True(t, os.IsNotExist(statErr))

	w = send(r, http.MethodGet, "/api/projects/"+created.ID.String(), nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
