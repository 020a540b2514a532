// internal/server/handlers.go
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"go.uber.org/zap"

	"github.com/mwiater/ecoaudit/internal/audit"
	"github.com/mwiater/ecoaudit/internal/dashboard"
	"github.com/mwiater/ecoaudit/internal/intake"
	"github.com/mwiater/ecoaudit/internal/render"
)

const (
	// multipartMemory is kept in memory before parts spill to temp files.
	multipartMemory = 32 << 20
	// formOverhead covers multipart headers and the epochs field.
	formOverhead = 1 << 20
)

// toast is a dismissible notification shown above the upload form.
type toast struct {
	Title   string
	Message string
}

func (s *Server) handleIntake(w http.ResponseWriter, r *http.Request) {
	s.renderIntake(w, http.StatusOK, nil)
}

// handleDashboard has no result to show: results are never stored, so the
// only way to a dashboard is through the upload form.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

func (s *Server) handleAudit(w http.ResponseWriter, r *http.Request) {
	limit := s.cfg.MaxUploadBytes()
	r.Body = http.MaxBytesReader(w, r.Body, limit+formOverhead)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			s.fail(w, r, http.StatusRequestEntityTooLarge, toast{
				Title:   "File too large",
				Message: fmt.Sprintf("Uploads are limited to %d MB.", limit>>20),
			}, err)
			return
		}
		s.fail(w, r, http.StatusBadRequest, toast{Title: "Error", Message: "Could not read the upload."}, err)
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	session := intake.NewSession(s.acquirer, s.cfg.Epochs())
	if raw := r.FormValue("epochs"); raw != "" {
		session.SetEpochs(raw)
	}
	if f, hdr, err := r.FormFile("file"); err == nil {
		_ = f.Close()
		if err := session.Select(uploadFrom(hdr)); err != nil {
			s.fail(w, r, statusFor(err), toastFor(err), err)
			return
		}
	}

	res, err := s.submit(r.Context(), session)
	if err != nil {
		s.fail(w, r, statusFor(err), toastFor(err), err)
		return
	}

	view, err := dashboard.Build(res)
	if err != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	page, err := render.HTML(view, render.Options{BackURL: "/"})
	if err != nil {
		s.logger.Error("render dashboard", zap.Error(err))
		http.Error(w, "could not render dashboard", http.StatusInternalServerError)
		return
	}
	s.logger.Info("audit rendered",
		zap.String("model", res.Model.Name),
		zap.String("type", res.Experiment.Type),
		zap.Int("epochs", res.Experiment.Epochs))
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, page)
}

// submit runs the session's acquisition unless another request already has
// one in flight.
func (s *Server) submit(ctx context.Context, session *intake.Session) (*audit.Result, error) {
	if _, ok := session.Selected(); !ok {
		return nil, intake.ErrNoFile
	}
	if !s.inflight.CompareAndSwap(false, true) {
		return nil, intake.ErrBusy
	}
	defer s.inflight.Store(false)
	return session.Submit(ctx)
}

func uploadFrom(hdr *multipart.FileHeader) intake.Upload {
	return intake.Upload{
		Name: hdr.Filename,
		Size: hdr.Size,
		Open: func() (io.ReadCloser, error) { return hdr.Open() },
	}
}

// fail logs err and re-renders the intake page with a notification.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, status int, t toast, err error) {
	s.logger.Warn("audit failed",
		zap.String("request_id", requestID(r)),
		zap.String("kind", string(intake.KindOf(err))),
		zap.Int("status", status),
		zap.Error(err))
	s.renderIntake(w, status, &t)
}

// statusFor maps an intake failure to an HTTP status.
func statusFor(err error) int {
	switch intake.KindOf(err) {
	case intake.KindUnsupported:
		return http.StatusUnsupportedMediaType
	case intake.KindParse, intake.KindStructure:
		return http.StatusUnprocessableEntity
	case intake.KindApplication:
		return http.StatusBadGateway
	case intake.KindTransport:
		return http.StatusServiceUnavailable
	}
	switch {
	case errors.Is(err, intake.ErrNoFile):
		return http.StatusBadRequest
	case errors.Is(err, intake.ErrBusy):
		return http.StatusConflict
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusRequestTimeout
	default:
		return http.StatusInternalServerError
	}
}

func toastFor(err error) toast {
	switch {
	case errors.Is(err, intake.ErrNoFile):
		return toast{Title: "No file", Message: "Please choose a file to upload."}
	case errors.Is(err, intake.ErrBusy):
		return toast{Title: "Audit in progress", Message: "Another audit is still running. Try again when it finishes."}
	}
	return toast{Title: intake.TitleOf(err), Message: err.Error()}
}
