package server

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"backgrounder/internal/pipeline"
	"backgrounder/internal/store"
	"backgrounder/internal/types"
)

// fakeRunner replays a scripted event sequence and records its input.
type fakeRunner struct {
	events []pipeline.Event
	got    pipeline.RunInput
}

func (f *fakeRunner) Stream(_ context.Context, in pipeline.RunInput) <-chan pipeline.Event {
	f.got = in
	ch := make(chan pipeline.Event, len(f.events))
	for _, ev := range f.events {
		ch <- ev
	}
	close(ch)
	return ch
}

type fakeResume struct {
	data *types.ResumeData
}

func (f *fakeResume) Extract(context.Context, string) *types.ResumeData {
	if f.data != nil {
		return f.data
	}
	return &types.ResumeData{RawText: "raw"}
}

type fakeUploader struct {
	url string
	err error
}

func (f *fakeUploader) Upload(context.Context, []byte) (string, error) { return f.url, f.err }

type fakeArchive struct {
	saved   []*types.Report
	reports map[uuid.UUID]*types.Report
	listErr error
}

func (f *fakeArchive) SaveReport(_ context.Context, r *types.Report) (uuid.UUID, error) {
	f.saved = append(f.saved, r)
	return uuid.New(), nil
}

func (f *fakeArchive) GetReport(_ context.Context, id uuid.UUID) (*types.Report, error) {
	return f.reports[id], nil
}

func (f *fakeArchive) ListReports(context.Context, int) ([]store.ReportSummary, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return []store.ReportSummary{{ID: uuid.New(), SubjectName: "Jane Doe"}}, nil
}

func runEvents() []pipeline.Event {
	return []pipeline.Event{
		{Type: pipeline.EventStatus, Status: &pipeline.ProgressEvent{
			Step: pipeline.StepSearchStart, Label: "Launching 2 concurrent searches...",
			State: pipeline.StateRunning, Total: 2,
		}},
		{Type: pipeline.EventStatus, Status: &pipeline.ProgressEvent{
			Step: pipeline.StepTaskDone, TaskID: "google:main", State: pipeline.StateDone,
			Completed: 1, Total: 2,
		}},
		{Type: pipeline.EventStatus, Status: &pipeline.ProgressEvent{
			Step: pipeline.StepTaskDone, TaskID: "social_media", State: pipeline.StateError,
			Completed: 2, Total: 2,
		}},
		{Type: pipeline.EventStatus, Status: &pipeline.ProgressEvent{
			Step: pipeline.StepAnalyzing, Label: "AI analyzing all data...",
			State: pipeline.StateRunning, Completed: 2, Total: 2,
		}},
		{Type: pipeline.EventResult, Report: &types.Report{Name: "Jane Doe", Summary: "A summary."}},
	}
}

func newTestServer(runner CheckRunner, archive ReportArchive) *Server {
	return New(Config{
		Port:    0,
		Runner:  runner,
		Resume:  &fakeResume{},
		Photos:  &fakeUploader{url: "https://img.example/hosted.jpg"},
		Archive: archive,
	})
}

func multipartBody(t *testing.T, fields map[string]string, files map[string][]byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	for name, data := range files {
		fw, err := mw.CreateFormFile(name, name+".pdf")
		require.NoError(t, err)
		_, err = fw.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func postCheck(t *testing.T, s *Server, fields map[string]string, files map[string][]byte) *httptest.ResponseRecorder {
	t.Helper()
	body, contentType := multipartBody(t, fields, files)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/check", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	s.handleCheck(rec, req)
	return rec
}

func TestHandleCheck_StreamsEvents(t *testing.T) {
	runner := &fakeRunner{events: runEvents()}
	s := newTestServer(runner, nil)

	rec := postCheck(t, s, map[string]string{"name": "Jane Doe"}, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))

	body := rec.Body.String()
	assert.Contains(t, body, "event: status")
	assert.Contains(t, body, `"step":"search_start"`)
	assert.Contains(t, body, `"step":"task_done"`)
	assert.Contains(t, body, "event: result")
	assert.Contains(t, body, `"summary":"A summary."`)
	// result comes last
	assert.Greater(t, strings.Index(body, "event: result"), strings.LastIndex(body, "event: status"))

	assert.Equal(t, "Jane Doe", runner.got.Request.Name)
	assert.Nil(t, runner.got.Resume)
	assert.Empty(t, runner.got.PhotoURL)
}

func TestHandleCheck_MissingNameRejected(t *testing.T) {
	s := newTestServer(&fakeRunner{}, nil)

	rec := postCheck(t, s, map[string]string{"company": "Acme"}, nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleCheck_UnknownProviderRejected(t *testing.T) {
	s := newTestServer(&fakeRunner{}, nil)

	rec := postCheck(t, s, map[string]string{"name": "Jane Doe", "provider": "psychic"}, nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "unknown provider")
}

func TestHandleCheck_ResumePhase(t *testing.T) {
	runner := &fakeRunner{events: runEvents()}
	s := newTestServer(runner, nil)
	s.resume = &fakeResume{data: &types.ResumeData{
		Skills:     []string{"Go", "SQL"},
		Experience: []types.Experience{{Title: "Engineer", Company: "Acme"}},
	}}

	rec := postCheck(t, s,
		map[string]string{"name": "Jane Doe"},
		map[string][]byte{"resume": []byte("plain text resume body")})

	body := rec.Body.String()
	assert.Contains(t, body, `"step":"resume_parse"`)
	assert.Contains(t, body, "2 skills, 1 roles extracted")
	require.NotNil(t, runner.got.Resume)
	assert.Len(t, runner.got.Resume.Skills, 2)
}

func TestHandleCheck_ResumeTooLargeRejected(t *testing.T) {
	s := newTestServer(&fakeRunner{}, nil)

	rec := postCheck(t, s,
		map[string]string{"name": "Jane Doe"},
		map[string][]byte{"resume": make([]byte, 11*1024*1024)})

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Contains(t, rec.Body.String(), "resume file too large (max 10 MB)")
}

type brokenReader struct{}

func (brokenReader) Read([]byte) (int, error) { return 0, fmt.Errorf("stream reset") }

func TestReadCapped_SeparatesCapFromReadErrors(t *testing.T) {
	_, err := readCapped(strings.NewReader("too many bytes"), 4)
	assert.ErrorIs(t, err, errUploadTooLarge)

	_, err = readCapped(brokenReader{}, 4)
	require.Error(t, err)
	assert.NotErrorIs(t, err, errUploadTooLarge)
	assert.Contains(t, err.Error(), "stream reset")
}

func TestUploadErrorStatus(t *testing.T) {
	assert.Equal(t, http.StatusRequestEntityTooLarge,
		uploadErrorStatus(fmt.Errorf("resume %w (max 10 MB)", errUploadTooLarge)))
	assert.Equal(t, http.StatusBadRequest,
		uploadErrorStatus(fmt.Errorf("failed to read resume upload: %w", fmt.Errorf("stream reset"))))
}

func TestHandleCheck_PhotoUploadPhase(t *testing.T) {
	runner := &fakeRunner{events: runEvents()}
	s := newTestServer(runner, nil)

	rec := postCheck(t, s,
		map[string]string{"name": "Jane Doe"},
		map[string][]byte{"photo": []byte("jpegbytes")})

	body := rec.Body.String()
	assert.Contains(t, body, `"step":"photo_upload"`)
	assert.Contains(t, body, "Photo uploaded")
	assert.Equal(t, "https://img.example/hosted.jpg", runner.got.PhotoURL)
}

func TestHandleCheck_PastedPhotoURLSkipsUpload(t *testing.T) {
	runner := &fakeRunner{events: runEvents()}
	s := newTestServer(runner, nil)

	rec := postCheck(t, s,
		map[string]string{"name": "Jane Doe", "photo_url": "https://img.example/pasted.jpg"},
		map[string][]byte{"photo": []byte("jpegbytes")})

	assert.NotContains(t, rec.Body.String(), `"step":"photo_upload"`)
	assert.Equal(t, "https://img.example/pasted.jpg", runner.got.PhotoURL)
}

func TestHandleCheck_PhotoUploadFailureReported(t *testing.T) {
	runner := &fakeRunner{events: runEvents()}
	s := newTestServer(runner, nil)
	s.photos = &fakeUploader{err: fmt.Errorf("hosting down")}

	rec := postCheck(t, s,
		map[string]string{"name": "Jane Doe"},
		map[string][]byte{"photo": []byte("jpegbytes")})

	assert.Contains(t, rec.Body.String(), "Photo upload failed")
	assert.Empty(t, runner.got.PhotoURL)
}

func TestHandleCheck_ArchivesResult(t *testing.T) {
	archive := &fakeArchive{}
	s := newTestServer(&fakeRunner{events: runEvents()}, archive)

	postCheck(t, s, map[string]string{"name": "Jane Doe"}, nil)

	require.Len(t, archive.saved, 1)
	assert.Equal(t, "Jane Doe", archive.saved[0].Name)
}

func TestHandleGetReport(t *testing.T) {
	id := uuid.New()
	archive := &fakeArchive{reports: map[uuid.UUID]*types.Report{
		id: {Name: "Jane Doe", Summary: "archived"},
	}}
	s := newTestServer(&fakeRunner{}, archive)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reports/"+id.String(), nil)
	req.SetPathValue("id", id.String())
	rec := httptest.NewRecorder()
	s.handleGetReport(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "archived")

	// unknown ID
	other := uuid.New()
	req = httptest.NewRequest(http.MethodGet, "/api/v1/reports/"+other.String(), nil)
	req.SetPathValue("id", other.String())
	rec = httptest.NewRecorder()
	s.handleGetReport(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// malformed ID
	req = httptest.NewRequest(http.MethodGet, "/api/v1/reports/nope", nil)
	req.SetPathValue("id", "nope")
	rec = httptest.NewRecorder()
	s.handleGetReport(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleListReports(t *testing.T) {
	s := newTestServer(&fakeRunner{}, &fakeArchive{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reports", nil)
	rec := httptest.NewRecorder()
	s.handleListReports(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Jane Doe")
}

func TestHandleListReports_ArchiveDisabled(t *testing.T) {
	s := newTestServer(&fakeRunner{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reports", nil)
	rec := httptest.NewRecorder()
	s.handleListReports(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHealthAndMetricsRoutes(t *testing.T) {
	s := newTestServer(&fakeRunner{events: runEvents()}, nil)

	// drive one run so counters have samples
	postCheck(t, s, map[string]string{"name": "Jane Doe"}, nil)

	rec := httptest.NewRecorder()
	s.httpServer.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)

	rec = httptest.NewRecorder()
	s.httpServer.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	metricsBody := rec.Body.String()
	assert.Contains(t, metricsBody, "backgrounder_runs_total")
	assert.Contains(t, metricsBody, `backgrounder_tasks_total{kind="google",state="done"}`)
}

func TestTaskFamily(t *testing.T) {
	assert.Equal(t, "google", taskFamily("google:company:Acme"))
	assert.Equal(t, "linkedin", taskFamily("linkedin:chosen"))
	assert.Equal(t, "social_media", taskFamily("social_media"))
}

func TestCheckRouteRequiresAuthWhenConfigured(t *testing.T) {
	s := New(Config{
		Runner: &fakeRunner{events: runEvents()},
		Resume: &fakeResume{},
		JWT:    &jwtTestConfig,
	})

	body, contentType := multipartBody(t, map[string]string{"name": "Jane Doe"}, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/check", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	s.httpServer.Handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	token, err := NewJWTService(&jwtTestConfig).GenerateToken("ops")
	require.NoError(t, err)

	body, contentType = multipartBody(t, map[string]string{"name": "Jane Doe"}, nil)
	req = httptest.NewRequest(http.MethodPost, "/api/v1/check", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	s.httpServer.Handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
