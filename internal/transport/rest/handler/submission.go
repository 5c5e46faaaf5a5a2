package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"methodquiz/internal/model"
	"methodquiz/internal/service"
	"methodquiz/internal/transport/rest/middleware"
)

// SubmissionHandler handles submission endpoints
type SubmissionHandler struct {
	submissionSvc *service.SubmissionService
}

// NewSubmissionHandler creates a new submission handler
func NewSubmissionHandler(submissionSvc *service.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{submissionSvc: submissionSvc}
}

// Submit handles POST /v1/submissions
//
// @Summary Store a finished quiz session
// @Tags submissions
// @Accept json
// @Produce json
// @Param body body model.SubmitRequest true "responses"
// @Success 201 {object} model.SubmitResponse
// @Failure 400 {object} map[string]string
// @Router /submissions [post]
func (h *SubmissionHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req model.SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.submissionSvc.Submit(r.Context(), middleware.GetLearnerID(r.Context()), &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidSubmission) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Printf("[Submission] %v", err)
		writeError(w, http.StatusInternalServerError, "failed to store submission")
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

// Recent handles GET /v1/submissions/recent?type={quizType}
//
// @Summary Newest submissions for a quiz type
// @Tags submissions
// @Produce json
// @Param type query string false "quiz type"
// @Success 200 {object} model.RecentResponse
// @Router /submissions/recent [get]
func (h *SubmissionHandler) Recent(w http.ResponseWriter, r *http.Request) {
	subs, err := h.submissionSvc.Recent(r.Context(), r.URL.Query().Get("type"))
	if err != nil {
		if errors.Is(err, service.ErrInvalidSubmission) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Printf("[Submission] %v", err)
		writeError(w, http.StatusInternalServerError, "failed to list submissions")
		return
	}
	if subs == nil {
		subs = []model.Submission{}
	}

	writeJSON(w, http.StatusOK, &model.RecentResponse{Submissions: subs})
}

// Get handles GET /v1/submissions/{id}
func (h *SubmissionHandler) Get(w http.ResponseWriter, r *http.Request) {
	sub, err := h.submissionSvc.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if sub == nil {
		writeError(w, http.StatusNotFound, "submission not found")
		return
	}

	writeJSON(w, http.StatusOK, sub)
}
