package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"absences/internal/referencedata/models"
	"absences/internal/referencedata/service"
	"absences/pkg/domain"
	"absences/pkg/platform/httputil"
	"absences/pkg/platform/strings"
	"absences/pkg/requestcontext"
)

// Service defines the interface for categorisation operations.
type Service interface {
	Filters(ctx context.Context) (*models.CategorisationFilters, error)
	ResolveReasonPath(ctx context.Context, codes models.Codes) (*service.Categorisation, error)
	ValidateCategorisation(ctx context.Context, codes models.Codes) (*service.Categorisation, error)
	HierarchyOptions(ctx context.Context, d domain.DomainCode) ([]models.DomainOption, error)
	Options(ctx context.Context, d domain.DomainCode, code string) (*service.DomainOptions, error)
	ListDomain(ctx context.Context, d domain.DomainCode) ([]models.ReferenceData, error)
	Invalidate(ctx context.Context, trigger string) error
}

// Handler wires categorisation endpoints to the reference-data service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a categorisation handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Register mounts the read endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/absence-categorisation/filters", h.HandleFilters)
	r.Post("/absence-categorisation/reason-path", h.HandleReasonPath)
	r.Post("/absence-categorisation/validate", h.HandleValidate)
	r.Get("/absence-categorisation/{domain}", h.HandleDomainOptions)
	r.Get("/absence-categorisation/{domain}/{code}", h.HandleSelectedOptions)
	r.Get("/reference-data/{domain}", h.HandleReferenceData)
}

// RegisterAdmin mounts the operator endpoints. The caller guards r.
func (h *Handler) RegisterAdmin(r chi.Router) {
	r.Post("/admin/reference-data/refresh", h.HandleRefresh)
}

// HandleFilters handles GET /absence-categorisation/filters.
func (h *Handler) HandleFilters(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	filters, err := h.service.Filters(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to build categorisation filters",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, filters)
}

// HandleReasonPath handles POST /absence-categorisation/reason-path.
func (h *Handler) HandleReasonPath(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[CategorisationRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	result, err := h.service.ResolveReasonPath(ctx, req.Codes())
	if err != nil {
		h.logger.WarnContext(ctx, "reason path resolution failed",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromCategorisation(result))
}

// HandleValidate handles POST /absence-categorisation/validate.
func (h *Handler) HandleValidate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[CategorisationRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	result, err := h.service.ValidateCategorisation(ctx, req.Codes())
	if err != nil {
		h.logger.WarnContext(ctx, "categorisation rejected",
			"request_id", requestID,
			"reason_code", req.AbsenceReasonCode,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "categorisation validated",
		"request_id", requestID,
		"breadcrumb", result.Breadcrumb,
	)
	httputil.WriteJSON(w, http.StatusOK, FromCategorisation(result))
}

// HandleDomainOptions handles GET /absence-categorisation/{domain}.
func (h *Handler) HandleDomainOptions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	d, err := domain.ParseDomainCode(chi.URLParam(r, "domain"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	options, err := h.service.HierarchyOptions(ctx, d)
	if err != nil {
		h.logger.WarnContext(ctx, "failed to list domain options",
			"request_id", requestID,
			"domain", d,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, &DomainOptionsResponse{
		DomainCode: d.String(),
		Options:    options,
	})
}

// HandleSelectedOptions handles GET /absence-categorisation/{domain}/{code}.
func (h *Handler) HandleSelectedOptions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	d, err := domain.ParseDomainCode(chi.URLParam(r, "domain"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	code := strings.NormalizeCode(chi.URLParam(r, "code"))

	result, err := h.service.Options(ctx, d, code)
	if err != nil {
		h.logger.WarnContext(ctx, "failed to list selected options",
			"request_id", requestID,
			"domain", d,
			"code", code,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, &SelectedOptionsResponse{
		Selected: result.Selected,
		Options:  result.Options,
	})
}

// HandleReferenceData handles GET /reference-data/{domain}.
func (h *Handler) HandleReferenceData(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	d, err := domain.ParseDomainCode(chi.URLParam(r, "domain"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	items, err := h.service.ListDomain(ctx, d)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list reference data",
			"request_id", requestID,
			"domain", d,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, &ReferenceDataResponse{
		DomainCode: d.String(),
		Items:      items,
	})
}

// HandleRefresh handles POST /admin/reference-data/refresh.
func (h *Handler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	if err := h.service.Invalidate(ctx, "admin"); err != nil {
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "reference data refresh requested",
		"request_id", requestID,
		"client_ip", requestcontext.ClientIP(ctx),
	)
	w.WriteHeader(http.StatusNoContent)
}
