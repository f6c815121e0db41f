package http

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jedalosa/energymatch/internal/domain/billscan"
	"github.com/jedalosa/energymatch/internal/domain/catalog"
	"github.com/jedalosa/energymatch/internal/domain/coach"
	"github.com/jedalosa/energymatch/internal/domain/profile"
	"github.com/jedalosa/energymatch/internal/domain/roleauth"
	"github.com/jedalosa/energymatch/internal/domain/session"
	apperrors "github.com/jedalosa/energymatch/pkg/errors"
)

// Forwarder relays raw lead payloads to the automation webhook unchanged.
type Forwarder interface {
	Forward(ctx context.Context, raw map[string]any) error
}

// Handler wires the HTTP transport to domain services.
type Handler struct {
	sessions       *session.Manager
	catalogSvc     catalog.Service
	coachSvc       coach.Service
	rolesSvc       roleauth.Service
	forwarder      Forwarder
	maxUploadBytes int64
	logger         *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(
	sessions *session.Manager,
	catalogSvc catalog.Service,
	coachSvc coach.Service,
	rolesSvc roleauth.Service,
	forwarder Forwarder,
	maxUploadBytes int64,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		sessions:       sessions,
		catalogSvc:     catalogSvc,
		coachSvc:       coachSvc,
		rolesSvc:       rolesSvc,
		forwarder:      forwarder,
		maxUploadBytes: maxUploadBytes,
		logger:         logger.With("component", "http.handler"),
	}
}

// Health reports liveness.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// IssueRole mints a role-shell token for the selected landing-page role.
func (h *Handler) IssueRole(c *gin.Context) {
	var req struct {
		Role roleauth.Role `json:"role"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	token, err := h.rolesSvc.IssueToken(req.Role)
	if err != nil {
		abortWithDomainError(c, err, "role_failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "role": req.Role})
}

// StartSession opens a fresh wizard session.
func (h *Handler) StartSession(c *gin.Context) {
	c.JSON(http.StatusCreated, h.sessions.Start())
}

// GetSession returns the current wizard snapshot.
func (h *Handler) GetSession(c *gin.Context) {
	id, ok := h.sessionID(c)
	if !ok {
		return
	}
	view, err := h.sessions.Get(id)
	if err != nil {
		abortWithDomainError(c, err, "session_failed")
		return
	}
	c.JSON(http.StatusOK, view)
}

// EndSession discards the session and everything it owns.
func (h *Handler) EndSession(c *gin.Context) {
	id, ok := h.sessionID(c)
	if !ok {
		return
	}
	h.sessions.End(id)
	c.Status(http.StatusNoContent)
}

// UpdateProfile applies a sparse profile patch.
func (h *Handler) UpdateProfile(c *gin.Context) {
	id, ok := h.sessionID(c)
	if !ok {
		return
	}
	var req profile.Update
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	view, err := h.sessions.UpdateProfile(id, req)
	if err != nil {
		abortWithDomainError(c, err, "profile_failed")
		return
	}
	c.JSON(http.StatusOK, view)
}

// ChooseBill records the tri-state bill branch.
func (h *Handler) ChooseBill(c *gin.Context) {
	id, ok := h.sessionID(c)
	if !ok {
		return
	}
	var req struct {
		Choice profile.BillChoice `json:"choice"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	view, err := h.sessions.ChooseBill(id, req.Choice)
	if err != nil {
		abortWithDomainError(c, err, "bill_choice_failed")
		return
	}
	c.JSON(http.StatusOK, view)
}

// UploadBill accepts the bill document and runs the analyzer over it.
func (h *Handler) UploadBill(c *gin.Context) {
	id, ok := h.sessionID(c)
	if !ok {
		return
	}
	file, err := c.FormFile("file")
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "missing bill file", err))
		return
	}
	if h.maxUploadBytes > 0 && file.Size > h.maxUploadBytes {
		abortWithError(c, NewHTTPError(http.StatusRequestEntityTooLarge, "upload_too_large", "bill document exceeds the upload limit", nil))
		return
	}
	src, err := file.Open()
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "could not read bill file", err))
		return
	}
	defer src.Close()
	data, err := io.ReadAll(src)
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "could not read bill file", err))
		return
	}

	doc := billscan.Document{Data: data, MimeType: file.Header.Get("Content-Type")}
	extract, err := h.sessions.AnalyzeBill(c.Request.Context(), id, doc)
	if err != nil {
		abortWithDomainError(c, err, "bill_analysis_failed")
		return
	}
	c.JSON(http.StatusOK, extract)
}

// Advance moves the wizard forward one step.
func (h *Handler) Advance(c *gin.Context) {
	h.step(c, h.sessions.Advance)
}

// Retreat moves the wizard back one step.
func (h *Handler) Retreat(c *gin.Context) {
	h.step(c, h.sessions.Retreat)
}

func (h *Handler) step(c *gin.Context, fn func(uuid.UUID) (session.View, error)) {
	id, ok := h.sessionID(c)
	if !ok {
		return
	}
	view, err := fn(id)
	if err != nil {
		abortWithDomainError(c, err, "wizard_failed")
		return
	}
	c.JSON(http.StatusOK, view)
}

// CaptureLocation performs the one-shot geolocation read.
func (h *Handler) CaptureLocation(c *gin.Context) {
	id, ok := h.sessionID(c)
	if !ok {
		return
	}
	view, err := h.sessions.CaptureLocation(c.Request.Context(), id)
	if err != nil {
		abortWithDomainError(c, err, "location_failed")
		return
	}
	c.JSON(http.StatusOK, view)
}

// SaveProfile persists the live profile to the device store.
func (h *Handler) SaveProfile(c *gin.Context) {
	id, ok := h.sessionID(c)
	if !ok {
		return
	}
	if err := h.sessions.SaveProfile(c.Request.Context(), id); err != nil {
		abortWithDomainError(c, err, "save_failed")
		return
	}
	c.Status(http.StatusNoContent)
}

// RunAnalysis generates the recommendation batch and kicks off delivery.
func (h *Handler) RunAnalysis(c *gin.Context) {
	id, ok := h.sessionID(c)
	if !ok {
		return
	}
	results, err := h.sessions.RunAnalysis(c.Request.Context(), id)
	if err != nil {
		abortWithDomainError(c, err, "analysis_failed")
		return
	}
	c.JSON(http.StatusOK, results)
}

// Recommendations returns the current batch with its chart projection.
func (h *Handler) Recommendations(c *gin.Context) {
	id, ok := h.sessionID(c)
	if !ok {
		return
	}
	results, err := h.sessions.Recommendations(id)
	if err != nil {
		abortWithDomainError(c, err, "recommendations_failed")
		return
	}
	c.JSON(http.StatusOK, results)
}

// Providers lists the marketplace directory.
func (h *Handler) Providers(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"providers": h.catalogSvc.Directory(c.Request.Context())})
}

// ProviderDashboard serves the provider portal summary. Admins may view it
// too, so the response names the role the figures were served under.
func (h *Handler) ProviderDashboard(c *gin.Context) {
	role, _ := getActiveRole(c)
	c.JSON(http.StatusOK, gin.H{
		"viewedAs":  role,
		"dashboard": h.catalogSvc.ProviderDashboard(c.Request.Context()),
	})
}

// AdminDashboard serves the platform summary.
func (h *Handler) AdminDashboard(c *gin.Context) {
	role, _ := getActiveRole(c)
	c.JSON(http.StatusOK, gin.H{
		"viewedAs":  role,
		"dashboard": h.catalogSvc.AdminDashboard(c.Request.Context()),
	})
}

// CoachChat answers an Energy Coach turn.
func (h *Handler) CoachChat(c *gin.Context) {
	var req struct {
		History []coach.Message `json:"history"`
		Message string          `json:"message"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	reply, err := h.coachSvc.Chat(c.Request.Context(), req.History, req.Message)
	if err != nil {
		abortWithDomainError(c, err, "coach_failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"reply": reply})
}

// ForwardLead relays an externally shaped lead payload to the webhook.
func (h *Handler) ForwardLead(c *gin.Context) {
	var raw map[string]any
	if err := c.ShouldBindJSON(&raw); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	if err := h.forwarder.Forward(c.Request.Context(), raw); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadGateway, "forward_failed", errMessage(err), err))
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"status": "forwarded"})
}

func (h *Handler) sessionID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "invalid session id", err))
		return uuid.Nil, false
	}
	return id, true
}

func abortWithDomainError(c *gin.Context, err error, fallbackCode string) {
	status := http.StatusInternalServerError
	code := fallbackCode
	switch {
	case apperrors.IsCode(err, apperrors.CodeInvalidInput):
		status = http.StatusBadRequest
		code = "invalid_request"
	case apperrors.IsCode(err, apperrors.CodeSessionUnknown):
		status = http.StatusNotFound
		code = "session_not_found"
	case apperrors.IsCode(err, apperrors.CodeWizardState):
		status = http.StatusConflict
		code = "wizard_state"
	case apperrors.IsCode(err, apperrors.CodeGeoError):
		status = http.StatusBadGateway
		code = "geo_error"
	case apperrors.IsCode(err, apperrors.CodeStorageError):
		status = http.StatusBadGateway
		code = "storage_error"
	case apperrors.IsCode(err, apperrors.CodeLLMError):
		status = http.StatusBadGateway
		code = "llm_error"
	case apperrors.IsCode(err, apperrors.CodeAuthError):
		status = http.StatusUnauthorized
		code = "auth_error"
	}
	abortWithError(c, NewHTTPError(status, code, errMessage(err), err))
}

func errMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
