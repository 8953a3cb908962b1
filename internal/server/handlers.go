package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"backgrounder/internal/pipeline"
	"backgrounder/internal/resume"
	"backgrounder/internal/types"
)

// MaxPhotoSize caps uploaded photos at 5 MB.
const MaxPhotoSize = 5 * 1024 * 1024

// handleCheck runs a streaming background check: multipart form in, SSE
// events out. Validation failures are plain HTTP errors; once the stream
// starts, everything is reported as events.
func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(resume.MaxFileSize + MaxPhotoSize); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid multipart form: "+err.Error())
		return
	}

	provider, err := types.ParseProvider(r.FormValue("provider"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	req := &types.CheckRequest{
		Name:        strings.TrimSpace(r.FormValue("name")),
		Company:     strings.TrimSpace(r.FormValue("company")),
		Location:    strings.TrimSpace(r.FormValue("location")),
		Title:       strings.TrimSpace(r.FormValue("title")),
		LinkedInURL: strings.TrimSpace(r.FormValue("linkedin_url")),
		PhotoURL:    strings.TrimSpace(r.FormValue("photo_url")),
		Provider:    provider,
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	resumeBytes, resumeName, err := readUpload(r, "resume", resume.MaxFileSize)
	if err != nil {
		s.errorResponse(w, uploadErrorStatus(err), err.Error())
		return
	}
	photoBytes, _, err := readUpload(r, "photo", MaxPhotoSize)
	if err != nil {
		s.errorResponse(w, uploadErrorStatus(err), err.Error())
		return
	}

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	ctx := r.Context()
	s.metrics.ActiveRuns.Inc()
	defer s.metrics.ActiveRuns.Dec()
	started := time.Now()

	resumeData := s.resumePhase(ctx, sse, resumeBytes, resumeName)
	photoURL := s.photoPhase(ctx, sse, req.PhotoURL, photoBytes)

	var report *types.Report
	for ev := range s.runner.Stream(ctx, pipeline.RunInput{
		Request:  req,
		Resume:   resumeData,
		PhotoURL: photoURL,
	}) {
		switch ev.Type {
		case pipeline.EventStatus:
			if ev.Status.Step == pipeline.StepTaskDone {
				s.metrics.TasksTotal.WithLabelValues(taskFamily(ev.Status.TaskID), string(ev.Status.State)).Inc()
			}
			sse.WriteEvent("status", ev.Status) //nolint:errcheck
		case pipeline.EventResult:
			report = ev.Report
			sse.WriteEvent("result", ev.Report) //nolint:errcheck
		}
	}

	status := "completed"
	if report == nil {
		status = "aborted"
	}
	s.metrics.RunsTotal.WithLabelValues("stream", status).Inc()
	s.metrics.RunDuration.Observe(time.Since(started).Seconds())

	if report != nil {
		s.archiveReport(report)
	}
}

// resumePhase extracts text and structured fields from an uploaded resume,
// narrating each step over the stream. A failed parse is reported and the
// run continues without resume data.
func (s *Server) resumePhase(ctx context.Context, sse *SSEWriter, data []byte, filename string) *types.ResumeData {
	if len(data) == 0 {
		return nil
	}

	sse.WriteEvent("status", &pipeline.ProgressEvent{ //nolint:errcheck
		Step: pipeline.StepResumeParse, Label: "Parsing resume...", State: pipeline.StateRunning,
	})

	text, err := resume.ExtractText(data, filename)
	if err != nil || strings.TrimSpace(text) == "" {
		if err != nil {
			log.Printf("[SERVER] resume parse failed: %v", err)
		}
		sse.WriteEvent("status", &pipeline.ProgressEvent{ //nolint:errcheck
			Step: pipeline.StepResumeParse, Label: "Could not parse resume", State: pipeline.StateError,
		})
		return nil
	}

	resumeData := s.resume.Extract(ctx, text)
	sse.WriteEvent("status", &pipeline.ProgressEvent{ //nolint:errcheck
		Step:   pipeline.StepResumeParse,
		Label:  "Resume parsed",
		State:  pipeline.StateDone,
		Detail: fmt.Sprintf("%d skills, %d roles extracted", len(resumeData.Skills), len(resumeData.Experience)),
	})
	return resumeData
}

// photoPhase resolves the reverse-image probe URL: a pasted URL wins,
// otherwise uploaded bytes are hosted first.
func (s *Server) photoPhase(ctx context.Context, sse *SSEWriter, pastedURL string, photo []byte) string {
	if pastedURL != "" || len(photo) == 0 {
		return pastedURL
	}

	sse.WriteEvent("status", &pipeline.ProgressEvent{ //nolint:errcheck
		Step: pipeline.StepPhotoUpload, Label: "Uploading photo...", State: pipeline.StateRunning,
	})

	var (
		hostedURL string
		err       error
	)
	if s.photos != nil {
		hostedURL, err = s.photos.Upload(ctx, photo)
	} else {
		err = fmt.Errorf("photo hosting not configured")
	}
	if err != nil || hostedURL == "" {
		if err != nil {
			log.Printf("[SERVER] photo upload failed: %v", err)
		}
		sse.WriteEvent("status", &pipeline.ProgressEvent{ //nolint:errcheck
			Step: pipeline.StepPhotoUpload, Label: "Photo upload failed (check IMGBB_API_KEY)", State: pipeline.StateError,
		})
		return ""
	}

	sse.WriteEvent("status", &pipeline.ProgressEvent{ //nolint:errcheck
		Step:   pipeline.StepPhotoUpload,
		Label:  "Photo uploaded",
		State:  pipeline.StateDone,
		Detail: "Ready for reverse search",
	})
	return hostedURL
}

// archiveReport persists a finished report when an archive is configured.
// Failures are logged; the stream already delivered the result.
func (s *Server) archiveReport(report *types.Report) {
	if s.archive == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	id, err := s.archive.SaveReport(ctx, report)
	if err != nil {
		log.Printf("[SERVER] failed to archive report for %q: %v", report.Name, err)
		return
	}
	log.Printf("[SERVER] archived report %s for %q", id, report.Name)
}

// handleListReports returns archive summaries.
func (s *Server) handleListReports(w http.ResponseWriter, r *http.Request) {
	if s.archive == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "report archive not configured")
		return
	}

	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			s.errorResponse(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	reports, err := s.archive.ListReports(r.Context(), limit)
	if err != nil {
		log.Printf("[SERVER] failed to list reports: %v", err)
		s.errorResponse(w, http.StatusInternalServerError, "failed to list reports")
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"reports": reports})
}

// handleGetReport returns one archived report.
func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	if s.archive == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "report archive not configured")
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid report ID")
		return
	}

	report, err := s.archive.GetReport(r.Context(), id)
	if err != nil {
		log.Printf("[SERVER] failed to get report %s: %v", id, err)
		s.errorResponse(w, http.StatusInternalServerError, "failed to get report")
		return
	}
	if report == nil {
		s.errorResponse(w, http.StatusNotFound, "report not found")
		return
	}
	s.jsonResponse(w, http.StatusOK, report)
}

// errUploadTooLarge marks a size-cap violation, as opposed to a failed read
// from the multipart stream.
var errUploadTooLarge = errors.New("file too large")

// uploadErrorStatus maps a readUpload failure to its HTTP status: 413 for a
// capped upload, 400 for a broken multipart stream.
func uploadErrorStatus(err error) int {
	if errors.Is(err, errUploadTooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusBadRequest
}

// readUpload reads one optional multipart file, enforcing a size cap.
func readUpload(r *http.Request, field string, maxSize int64) ([]byte, string, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		if err == http.ErrMissingFile {
			return nil, "", nil
		}
		return nil, "", fmt.Errorf("failed to read %s upload: %w", field, err)
	}
	defer file.Close()

	data, err := readCapped(file, maxSize)
	switch {
	case errors.Is(err, errUploadTooLarge):
		return nil, "", fmt.Errorf("%s %w (max %d MB)", field, errUploadTooLarge, maxSize/(1024*1024))
	case err != nil:
		return nil, "", fmt.Errorf("failed to read %s upload: %w", field, err)
	}
	return data, header.Filename, nil
}

func readCapped(file io.Reader, maxSize int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(file, maxSize+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > maxSize {
		return nil, errUploadTooLarge
	}
	return data, nil
}
