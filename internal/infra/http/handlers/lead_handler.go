package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/xavierca1/lead-manager/internal/entity"
	"github.com/xavierca1/lead-manager/internal/infra/export"
	"github.com/xavierca1/lead-manager/internal/infra/http/middleware"
	"github.com/xavierca1/lead-manager/internal/usecase"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type LeadHandler struct {
	CreateUC    *usecase.CreateLeadUseCase
	GetUC       *usecase.GetLeadUseCase
	UpdateUC    *usecase.UpdateLeadUseCase
	DeleteUC    *usecase.DeleteLeadUseCase
	ListUC      *usecase.ListLeadsUseCase
	AnalyticsUC *usecase.GetAnalyticsUseCase
	ExportUC    *usecase.ExportLeadsUseCase
	Logger      *zap.Logger
	Now         usecase.Clock
}

func NewLeadHandler(
	createUC *usecase.CreateLeadUseCase,
	getUC *usecase.GetLeadUseCase,
	updateUC *usecase.UpdateLeadUseCase,
	deleteUC *usecase.DeleteLeadUseCase,
	listUC *usecase.ListLeadsUseCase,
	analyticsUC *usecase.GetAnalyticsUseCase,
	exportUC *usecase.ExportLeadsUseCase,
	logger *zap.Logger,
) *LeadHandler {
	return &LeadHandler{
		CreateUC:    createUC,
		GetUC:       getUC,
		UpdateUC:    updateUC,
		DeleteUC:    deleteUC,
		ListUC:      listUC,
		AnalyticsUC: analyticsUC,
		ExportUC:    exportUC,
		Logger:      logger,
		Now:         time.Now,
	}
}

type LeadResponse struct {
	Message string       `json:"message,omitempty"`
	Lead    *entity.Lead `json:"lead"`
}

// List handles GET /api/leads.
func (h *LeadHandler) List(w http.ResponseWriter, r *http.Request) {
	q, err := usecase.ParseListLeadsQuery(r.URL.Query())
	if err != nil {
		writeUseCaseError(w, h.Logger, err, "Internal server error while fetching leads")
		return
	}

	out, err := h.ListUC.Execute(r.Context(), q)
	if err != nil {
		writeUseCaseError(w, h.Logger, err, "Internal server error while fetching leads")
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// Create handles POST /api/leads.
func (h *LeadHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input usecase.CreateLeadInput
	if !decodeJSON(w, r, &input) {
		return
	}

	lead, err := h.CreateUC.Execute(r.Context(), input)
	if err != nil {
		writeUseCaseError(w, h.Logger, err, "Internal server error while creating lead")
		return
	}

	middleware.RecordLeadMutation("create")
	h.Logger.Info("lead created", zap.String("lead_id", lead.ID), zap.String("caller", callerID(r)))
	writeJSON(w, http.StatusCreated, LeadResponse{Message: "Lead created successfully", Lead: lead})
}

// Get handles GET /api/leads/{id}.
func (h *LeadHandler) Get(w http.ResponseWriter, r *http.Request) {
	lead, err := h.GetUC.Execute(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeUseCaseError(w, h.Logger, err, "Internal server error while fetching lead")
		return
	}
	writeJSON(w, http.StatusOK, LeadResponse{Lead: lead})
}

// Update handles PUT and PATCH /api/leads/{id}. Both are partial updates.
func (h *LeadHandler) Update(w http.ResponseWriter, r *http.Request) {
	var input usecase.UpdateLeadInput
	if !decodeJSON(w, r, &input) {
		return
	}

	lead, err := h.UpdateUC.Execute(r.Context(), chi.URLParam(r, "id"), input)
	if err != nil {
		writeUseCaseError(w, h.Logger, err, "Internal server error while updating lead")
		return
	}

	middleware.RecordLeadMutation("update")
	h.Logger.Info("lead updated", zap.String("lead_id", lead.ID), zap.String("caller", callerID(r)))
	writeJSON(w, http.StatusOK, LeadResponse{Message: "Lead updated successfully", Lead: lead})
}

// Delete handles DELETE /api/leads/{id}.
func (h *LeadHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.DeleteUC.Execute(r.Context(), id); err != nil {
		writeUseCaseError(w, h.Logger, err, "Internal server error while deleting lead")
		return
	}

	middleware.RecordLeadMutation("delete")
	h.Logger.Info("lead deleted", zap.String("lead_id", id), zap.String("caller", callerID(r)))
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Lead deleted successfully"})
}

// Analytics handles GET /api/leads/analytics?range=7|30|90|365|all.
func (h *LeadHandler) Analytics(w http.ResponseWriter, r *http.Request) {
	window, err := usecase.ParseWindow(r.URL.Query().Get("range"))
	if err != nil {
		writeUseCaseError(w, h.Logger, err, "Failed to fetch analytics data")
		return
	}

	report, err := h.AnalyticsUC.Execute(r.Context(), window)
	if err != nil {
		writeUseCaseError(w, h.Logger, err, "Failed to fetch analytics data")
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// Export handles GET /api/leads/export. It takes the same filter and sort
// parameters as List and returns an XLSX workbook.
func (h *LeadHandler) Export(w http.ResponseWriter, r *http.Request) {
	filter, sort, err := usecase.ParseLeadFilter(r.URL.Query())
	if err != nil {
		writeUseCaseError(w, h.Logger, err, "Internal server error while exporting leads")
		return
	}

	wb, err := export.NewLeadWorkbook()
	if err != nil {
		writeUseCaseError(w, h.Logger, err, "Internal server error while exporting leads")
		return
	}
	defer wb.Close()

	rows, truncated, err := h.ExportUC.Execute(r.Context(), filter, sort, wb)
	if err != nil {
		writeUseCaseError(w, h.Logger, err, "Internal server error while exporting leads")
		return
	}

	filename := "leads-" + h.Now().UTC().Format("20060102-150405") + ".xlsx"
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.Header().Set("X-Export-Rows", strconv.Itoa(rows))
	w.Header().Set("X-Export-Truncated", strconv.FormatBool(truncated))
	w.WriteHeader(http.StatusOK)

	if _, err := wb.WriteTo(w); err != nil {
		h.Logger.Error("write export workbook", zap.Error(err))
	}
}

func callerID(r *http.Request) string {
	if c, ok := middleware.CallerFrom(r.Context()); ok {
		return c.ID
	}
	return ""
}
