package handler_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"testing"

	models "drive/internal/domain/models/drive"
	"drive/internal/server/servertest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const user = "user-1"

type api struct {
	t  *testing.T
	ts *servertest.Server
}

func newAPI(t *testing.T, opts ...servertest.Option) *api {
	return &api{t: t, ts: servertest.New(t, user, opts...)}
}

func (a *api) do(method, path string, body interface{}) *http.Response {
	a.t.Helper()
	var reader io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			reader = strings.NewReader(b)
		default:
			payload, err := json.Marshal(b)
			require.NoError(a.t, err)
			reader = bytes.NewReader(payload)
		}
	}
	req, err := http.NewRequest(method, a.ts.URL+path, reader)
	require.NoError(a.t, err)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := a.ts.Client().Do(req)
	require.NoError(a.t, err)
	a.t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

type problem struct {
	Status       int    `json:"status"`
	Detail       string `json:"detail"`
	Code         string `json:"code"`
	ResourceType string `json:"resourceType"`
	ResourceID   string `json:"resourceId"`
}

func (a *api) expectProblem(resp *http.Response, status int, code string) problem {
	a.t.Helper()
	require.Equal(a.t, status, resp.StatusCode)
	assert.Equal(a.t, "application/problem+json", resp.Header.Get("Content-Type"))
	p := decode[problem](a.t, resp)
	assert.Equal(a.t, code, p.Code)
	return p
}

func (a *api) mkdir(name string, parentID *string) models.Folder {
	a.t.Helper()
	resp := a.do(http.MethodPost, "/folders", map[string]interface{}{"name": name, "parentId": parentID})
	require.Equal(a.t, http.StatusCreated, resp.StatusCode)
	return decode[models.Folder](a.t, resp)
}

func (a *api) upload(name, content string, folderID string) *http.Response {
	a.t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if folderID != "" {
		require.NoError(a.t, mw.WriteField("folderId", folderID))
	}
	part, err := mw.CreateFormFile("file", name)
	require.NoError(a.t, err)
	_, err = io.WriteString(part, content)
	require.NoError(a.t, err)
	require.NoError(a.t, mw.Close())

	req, err := http.NewRequest(http.MethodPost, a.ts.URL+"/files/upload", &buf)
	require.NoError(a.t, err)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	resp, err := a.ts.Client().Do(req)
	require.NoError(a.t, err)
	a.t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func (a *api) uploadOK(name, content, folderID string) models.File {
	a.t.Helper()
	resp := a.upload(name, content, folderID)
	require.Equal(a.t, http.StatusCreated, resp.StatusCode)
	return decode[models.File](a.t, resp)
}

func TestHealth(t *testing.T) {
	a := newAPI(t, servertest.WithoutAuth())
	resp := a.do(http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestUnauthenticated(t *testing.T) {
	a := newAPI(t, servertest.WithoutAuth())
	a.expectProblem(a.do(http.MethodGet, "/folders", nil), http.StatusUnauthorized, "unauthorized")
}

func TestCreateFolder(t *testing.T) {
	a := newAPI(t)

	folder := a.mkdir("Docs", nil)
	assert.Equal(t, "Docs", folder.Name)
	assert.Nil(t, folder.ParentID)

	child := a.mkdir("Child", &folder.ID)
	require.NotNil(t, child.ParentID)
	assert.Equal(t, folder.ID, *child.ParentID)

	a.expectProblem(a.do(http.MethodPost, "/folders", map[string]string{"name": "  "}), http.StatusBadRequest, "validation_error")
	a.expectProblem(a.do(http.MethodPost, "/folders", map[string]string{"name": "a/b"}), http.StatusBadRequest, "validation_error")
	a.expectProblem(a.do(http.MethodPost, "/folders", `{"name":`), http.StatusBadRequest, "validation_error")
	a.expectProblem(a.do(http.MethodPost, "/folders", map[string]string{"name": "x", "parentId": "not-a-uuid"}), http.StatusBadRequest, "validation_error")
	a.expectProblem(a.do(http.MethodPost, "/folders", map[string]string{"name": "x", "parentId": "6f1f1a52-8f3e-4d43-9e61-1b0c7d3c0a11"}), http.StatusNotFound, "not_found")
}

func TestListFoldersAndSearch(t *testing.T) {
	a := newAPI(t)
	for _, name := range []string{"beta", "Alpha", "gamma", "100%"} {
		a.mkdir(name, nil)
	}

	resp := a.do(http.MethodGet, "/folders?page=1&limit=2", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decode[models.FolderList](t, resp)
	assert.Len(t, list.Folders, 2)
	assert.Equal(t, 4, list.Pagination.Total)
	assert.Equal(t, 2, list.Pagination.TotalPages)

	resp = a.do(http.MethodGet, "/folders?search=%25", nil)
	list = decode[models.FolderList](t, resp)
	require.Len(t, list.Folders, 1)
	assert.Equal(t, "100%", list.Folders[0].Name)

	a.expectProblem(a.do(http.MethodGet, "/folders?page=0", nil), http.StatusBadRequest, "validation_error")
	a.expectProblem(a.do(http.MethodGet, "/folders?limit=abc", nil), http.StatusBadRequest, "validation_error")
	a.expectProblem(a.do(http.MethodGet, "/folders?parentId=bad", nil), http.StatusBadRequest, "validation_error")
}

func TestListPageBeyondData(t *testing.T) {
	a := newAPI(t)
	a.mkdir("docs", nil)
	a.uploadOK("a.txt", "x", "")

	for _, path := range []string{
		"/files?page=9223372036854775807&limit=20",
		"/folders?page=9223372036854775807",
		"/files/trash?page=461168601842738792&limit=20",
		"/folders/starred?page=9223372036854775807&limit=1000",
	} {
		t.Run(path, func(t *testing.T) {
			resp := a.do(http.MethodGet, path, nil)
			require.Equal(t, http.StatusOK, resp.StatusCode)
			body := decode[map[string]json.RawMessage](t, resp)
			for _, key := range []string{"files", "folders"} {
				if raw, ok := body[key]; ok {
					assert.JSONEq(t, "[]", string(raw))
				}
			}
		})
	}

	a.expectProblem(a.do(http.MethodGet, "/files?page=99999999999999999999", nil), http.StatusBadRequest, "validation_error")
}

func TestFolderContentsBreadcrumbStats(t *testing.T) {
	a := newAPI(t)
	docs := a.mkdir("Docs", nil)
	work := a.mkdir("Work", &docs.ID)
	a.uploadOK("a.txt", "hello", work.ID)
	a.uploadOK("b.txt", "abc", docs.ID)

	resp := a.do(http.MethodGet, "/folders/"+docs.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	contents := decode[models.FolderContents](t, resp)
	require.NotNil(t, contents.Folder)
	assert.Len(t, contents.Folders, 1)
	assert.Len(t, contents.Files, 1)

	resp = a.do(http.MethodGet, "/folders/breadcrumb/"+work.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	crumbs := decode[struct {
		Breadcrumb []models.BreadcrumbEntry `json:"breadcrumb"`
	}](t, resp)
	require.Len(t, crumbs.Breadcrumb, 3)
	assert.Nil(t, crumbs.Breadcrumb[0].ID)
	assert.Equal(t, models.RootFolderName, crumbs.Breadcrumb[0].Name)
	assert.Equal(t, "Docs", crumbs.Breadcrumb[1].Name)
	assert.Equal(t, "Docs/Work", crumbs.Breadcrumb[2].Path)

	resp = a.do(http.MethodGet, "/folders/"+docs.ID+"/stats", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	stats := decode[models.FolderStats](t, resp)
	assert.Equal(t, models.FolderStats{TotalItems: 3, TotalFolders: 1, TotalFiles: 2, TotalSize: 8}, stats)

	a.expectProblem(a.do(http.MethodGet, "/folders/"+docs.ID+"/unknown", nil), http.StatusNotFound, "not_found")
	a.expectProblem(a.do(http.MethodGet, "/folders/not-a-uuid", nil), http.StatusBadRequest, "validation_error")
}

func TestMoveFolder(t *testing.T) {
	a := newAPI(t)
	parent := a.mkdir("Parent", nil)
	child := a.mkdir("Child", &parent.ID)
	other := a.mkdir("Other", nil)

	a.expectProblem(a.do(http.MethodPut, "/folders/"+parent.ID+"/move", map[string]string{"parentId": child.ID}), http.StatusUnprocessableEntity, "cyclic_move")
	a.expectProblem(a.do(http.MethodPut, "/folders/"+parent.ID+"/move", map[string]string{"parentId": parent.ID}), http.StatusUnprocessableEntity, "cyclic_move")
	a.expectProblem(a.do(http.MethodPut, "/folders/"+parent.ID+"/move", map[string]string{}), http.StatusBadRequest, "validation_error")

	resp := a.do(http.MethodPut, "/folders/"+child.ID+"/move", map[string]string{"parentId": other.ID})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	moved := decode[models.Folder](t, resp)
	assert.Equal(t, other.ID, *moved.ParentID)

	resp = a.do(http.MethodPut, "/folders/"+child.ID+"/move", `{"parentId":null}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Nil(t, decode[models.Folder](t, resp).ParentID)
}

func TestRenameAndStarFolder(t *testing.T) {
	a := newAPI(t)
	folder := a.mkdir("Old", nil)

	resp := a.do(http.MethodPut, "/folders/"+folder.ID+"/rename", map[string]string{"name": " New "})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "New", decode[models.Folder](t, resp).Name)

	resp = a.do(http.MethodPut, "/folders/"+folder.ID+"/star", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, decode[models.Folder](t, resp).IsStarred)

	starred := decode[models.FolderList](t, a.do(http.MethodGet, "/folders/starred", nil))
	require.Len(t, starred.Folders, 1)
	assert.Equal(t, folder.ID, starred.Folders[0].ID)

	resp = a.do(http.MethodPut, "/folders/"+folder.ID+"/star", nil)
	assert.False(t, decode[models.Folder](t, resp).IsStarred)
}

func TestCopyFolder(t *testing.T) {
	a := newAPI(t)
	src := a.mkdir("Src", nil)
	a.uploadOK("a.txt", "hello", src.ID)
	dest := a.mkdir("Dest", nil)

	resp := a.do(http.MethodPost, "/folders/"+src.ID+"/copy", map[string]string{"parentId": dest.ID})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	copied := decode[models.Folder](t, resp)
	assert.NotEqual(t, src.ID, copied.ID)
	assert.Equal(t, "Src", copied.Name)
	assert.Equal(t, 2, a.ts.Blobs.Len())

	a.expectProblem(a.do(http.MethodPost, "/folders/"+dest.ID+"/copy", map[string]string{"parentId": copied.ID}), http.StatusUnprocessableEntity, "cyclic_move")
}

func TestTrashLifecycle(t *testing.T) {
	a := newAPI(t)
	folder := a.mkdir("Trash me", nil)
	file := a.uploadOK("inside.txt", "data", folder.ID)

	// Permanent delete requires trashing first
	p := a.expectProblem(a.do(http.MethodDelete, "/folders/"+folder.ID+"/permanent", nil), http.StatusConflict, "conflict")
	assert.Equal(t, "folder", p.ResourceType)
	assert.Equal(t, folder.ID, p.ResourceID)

	a.expectProblem(a.do(http.MethodPut, "/folders/"+folder.ID+"/restore", nil), http.StatusConflict, "conflict")

	resp := a.do(http.MethodDelete, "/folders/"+folder.ID, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	a.expectProblem(a.do(http.MethodGet, "/files/"+file.ID, nil), http.StatusNotFound, "not_found")

	trash := decode[models.FolderList](t, a.do(http.MethodGet, "/folders/trash", nil))
	require.Len(t, trash.Folders, 1)
	assert.Equal(t, folder.ID, trash.Folders[0].ID)
	assert.Empty(t, decode[models.FileList](t, a.do(http.MethodGet, "/files/trash", nil)).Files)

	resp = a.do(http.MethodPut, "/folders/"+folder.ID+"/restore", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.False(t, decode[models.Folder](t, resp).IsDeleted)

	require.Equal(t, http.StatusNoContent, a.do(http.MethodDelete, "/folders/"+folder.ID, nil).StatusCode)
	require.Equal(t, http.StatusNoContent, a.do(http.MethodDelete, "/folders/"+folder.ID+"/permanent", nil).StatusCode)
	assert.Equal(t, 0, a.ts.Blobs.Len())
	a.expectProblem(a.do(http.MethodGet, "/folders/"+folder.ID, nil), http.StatusNotFound, "not_found")
}

func TestUploadFile(t *testing.T) {
	a := newAPI(t)
	folder := a.mkdir("Docs", nil)

	file := a.uploadOK("notes.txt", "hello world", folder.ID)
	assert.Equal(t, "notes.txt", file.Name)
	assert.Equal(t, int64(11), file.Size)
	require.NotNil(t, file.FolderID)
	assert.Equal(t, folder.ID, *file.FolderID)

	root := a.uploadOK("root.txt", "x", "")
	assert.Nil(t, root.FolderID)

	list := decode[models.FileList](t, a.do(http.MethodGet, "/files?folderId="+folder.ID, nil))
	require.Len(t, list.Files, 1)
	assert.Equal(t, file.ID, list.Files[0].ID)

	a.expectProblem(a.upload("x.txt", "x", "6f1f1a52-8f3e-4d43-9e61-1b0c7d3c0a11"), http.StatusNotFound, "not_found")
	a.expectProblem(a.upload("x.txt", "x", "nope"), http.StatusBadRequest, "validation_error")

	resp := a.do(http.MethodPost, "/files/upload", map[string]string{"name": "x"})
	a.expectProblem(resp, http.StatusBadRequest, "validation_error")
}

func TestUploadTooLarge(t *testing.T) {
	a := newAPI(t, servertest.WithMaxUploadBytes(8))
	a.expectProblem(a.upload("big.bin", strings.Repeat("x", 64), ""), http.StatusBadRequest, "validation_error")
}

func TestFileOperations(t *testing.T) {
	a := newAPI(t)
	docs := a.mkdir("Docs", nil)
	file := a.uploadOK("report.pdf", "pdf", "")

	resp := a.do(http.MethodPut, "/files/"+file.ID+"/move", map[string]string{"folderId": docs.ID})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, docs.ID, *decode[models.File](t, resp).FolderID)

	a.expectProblem(a.do(http.MethodPut, "/files/"+file.ID+"/move", map[string]string{}), http.StatusBadRequest, "validation_error")

	resp = a.do(http.MethodPut, "/files/"+file.ID+"/rename", map[string]string{"name": "final.pdf"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "final.pdf", decode[models.File](t, resp).Name)

	resp = a.do(http.MethodPost, "/files/"+file.ID+"/copy", map[string]interface{}{"folderId": nil, "name": "copy.pdf"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	copied := decode[models.File](t, resp)
	assert.Equal(t, "copy.pdf", copied.Name)
	assert.Nil(t, copied.FolderID)

	resp = a.do(http.MethodGet, "/files/"+file.ID+"/download", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	link := decode[models.DownloadLink](t, resp)
	assert.Equal(t, "final.pdf", link.FileName)
	assert.Contains(t, link.DownloadURL, "disposition=attachment")

	resp = a.do(http.MethodGet, "/files/"+file.ID+"/preview", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, decode[models.PreviewLink](t, resp).PreviewURL, "disposition=inline")

	resp = a.do(http.MethodPut, "/files/"+file.ID+"/star", nil)
	assert.True(t, decode[models.File](t, resp).IsStarred)
	assert.Len(t, decode[models.FileList](t, a.do(http.MethodGet, "/files/starred", nil)).Files, 1)

	require.Equal(t, http.StatusNoContent, a.do(http.MethodDelete, "/files/"+file.ID, nil).StatusCode)
	a.expectProblem(a.do(http.MethodDelete, "/files/"+file.ID, nil), http.StatusNotFound, "not_found")
	assert.Len(t, decode[models.FileList](t, a.do(http.MethodGet, "/files/trash", nil)).Files, 1)
	assert.Empty(t, decode[models.FileList](t, a.do(http.MethodGet, "/files/starred", nil)).Files)

	resp = a.do(http.MethodPut, "/files/"+file.ID+"/restore", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	a.expectProblem(a.do(http.MethodDelete, "/files/"+file.ID+"/permanent", nil), http.StatusConflict, "conflict")
	require.Equal(t, http.StatusNoContent, a.do(http.MethodDelete, "/files/"+file.ID, nil).StatusCode)
	require.Equal(t, http.StatusNoContent, a.do(http.MethodDelete, "/files/"+file.ID+"/permanent", nil).StatusCode)
	a.expectProblem(a.do(http.MethodGet, "/files/"+file.ID, nil), http.StatusNotFound, "not_found")
}

func TestCapabilities(t *testing.T) {
	a := newAPI(t)

	resp := a.do(http.MethodGet, "/views/trash/capabilities", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	caps := decode[map[string]bool](t, resp)
	assert.True(t, caps["canRestore"])
	assert.True(t, caps["canPermanentDelete"])
	assert.False(t, caps["canMove"])
	assert.True(t, caps["canCreateFolder"])
	assert.False(t, caps["canUpload"])

	a.expectProblem(a.do(http.MethodGet, "/views/shared/capabilities", nil), http.StatusNotFound, "not_found")
}

func TestMetricsEndpoint(t *testing.T) {
	a := newAPI(t, servertest.WithoutAuth())
	a.do(http.MethodGet, "/health", nil)

	resp := a.do(http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "drive_http_requests_total")
}
