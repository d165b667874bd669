package httpapi

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/S-4-Sidra/heart-disease/internal/encoder"
	"github.com/S-4-Sidra/heart-disease/internal/service"

	"go.uber.org/zap"
)

// SessionHandler 会话与评估相关接口
type SessionHandler struct {
	svc          *service.AssessmentService
	logger       *zap.Logger
	maxBodyBytes int64
}

func NewSessionHandler(svc *service.AssessmentService, logger *zap.Logger, maxBodyBytes int64) *SessionHandler {
	if maxBodyBytes <= 0 {
		maxBodyBytes = 1 << 20
	}
	return &SessionHandler{svc: svc, logger: logger, maxBodyBytes: maxBodyBytes}
}

// StartSession POST /api/v1/sessions
func (h *SessionHandler) StartSession(w http.ResponseWriter, r *http.Request) {
	st, err := h.svc.StartSession(r.Context())
	if err != nil {
		h.logger.Error("Failed to start session", zap.Error(err))
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(st))
}

func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request, id string) {
	st, err := h.svc.Session(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(st))
}

// ResumeSession POST /api/v1/sessions/{id}/start
func (h *SessionHandler) ResumeSession(w http.ResponseWriter, r *http.Request, id string) {
	st, err := h.svc.ResumeSession(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(st))
}

// Logout POST /api/v1/sessions/{id}/logout
func (h *SessionHandler) Logout(w http.ResponseWriter, r *http.Request, id string) {
	st, err := h.svc.Logout(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(st))
}

// EndSession DELETE /api/v1/sessions/{id}
func (h *SessionHandler) EndSession(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.svc.EndSession(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(map[string]any{"session_id": id, "ended": true}))
}

type settingsRequest struct {
	DarkMode *bool `json:"dark_mode"`
}

// UpdateSettings PUT /api/v1/sessions/{id}/settings
func (h *SessionHandler) UpdateSettings(w http.ResponseWriter, r *http.Request, id string) {
	var req settingsRequest
	if err := readBodyJSON(r, h.maxBodyBytes, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid body: "+err.Error()))
		return
	}
	if req.DarkMode == nil {
		writeJSON(w, http.StatusBadRequest, Fail("dark_mode is required"))
		return
	}
	st, err := h.svc.SetDarkMode(r.Context(), id, *req.DarkMode)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(st))
}

// Assess POST /api/v1/sessions/{id}/assess
// body: encoder.Form，分类字段可用代码（typical_angina）或表单文本（Typical Angina）
func (h *SessionHandler) Assess(w http.ResponseWriter, r *http.Request, id string) {
	var form encoder.Form
	if err := readBodyJSON(r, h.maxBodyBytes, &form); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid body: "+err.Error()))
		return
	}
	in, err := encoder.ParseForm(form)
	if err != nil {
		writeError(w, err)
		return
	}
	a, err := h.svc.Assess(r.Context(), id, in)
	if err != nil {
		if statusOf(err) >= http.StatusInternalServerError {
			h.logger.Error("Assessment failed", zap.String("session_id", id), zap.Error(err))
		}
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(a))
}

func (h *SessionHandler) Results(w http.ResponseWriter, r *http.Request, id string) {
	res, err := h.svc.Results(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(res))
}

func (h *SessionHandler) DietPlan(w http.ResponseWriter, r *http.Request, id string) {
	v, err := h.svc.DietPlan(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(v))
}

func (h *SessionHandler) Doctor(w http.ResponseWriter, r *http.Request, id string) {
	v, err := h.svc.Doctor(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(v))
}

func (h *SessionHandler) History(w http.ResponseWriter, r *http.Request, id string) {
	v, err := h.svc.History(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(v))
}

// ExportHistory GET /api/v1/sessions/{id}/history/export?format=csv|xlsx
func (h *SessionHandler) ExportHistory(w http.ResponseWriter, r *http.Request, id string) {
	format, err := service.ParseExportFormat(r.URL.Query().Get("format"))
	if err != nil {
		writeError(w, err)
		return
	}
	out, err := h.svc.ExportHistory(r.Context(), id, format)
	if err != nil {
		if statusOf(err) >= http.StatusInternalServerError {
			h.logger.Error("Failed to export history", zap.String("session_id", id), zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, Fail(fmt.Sprintf("failed to generate export: %v", err)))
			return
		}
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", out.ContentType)
	w.Header().Set("Content-Disposition", "attachment; filename="+out.Filename)
	w.Header().Set("Content-Length", strconv.Itoa(len(out.Data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out.Data)
}

// Emergency GET /api/v1/emergency
func (h *SessionHandler) Emergency(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, Ok(h.svc.Emergency()))
}
