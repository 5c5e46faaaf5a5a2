package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"methodquiz/internal/model"
	"methodquiz/internal/service"
)

// StudyHandler serves the published study set
type StudyHandler struct {
	studySvc *service.StudyService
}

func NewStudyHandler(studySvc *service.StudyService) *StudyHandler {
	return &StudyHandler{studySvc: studySvc}
}

// List handles GET /v1/studies
//
// @Summary List studies
// @Tags studies
// @Produce json
// @Success 200 {array} model.Study
// @Router /studies [get]
func (h *StudyHandler) List(w http.ResponseWriter, r *http.Request) {
	studies, err := h.studySvc.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if studies == nil {
		studies = []model.Study{}
	}

	writeJSON(w, http.StatusOK, studies)
}

// Get handles GET /v1/studies/{index}
//
// @Summary Get one study by position
// @Tags studies
// @Produce json
// @Param index path int true "study index"
// @Success 200 {object} model.Study
// @Failure 404 {object} map[string]string
// @Router /studies/{index} [get]
func (h *StudyHandler) Get(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(mux.Vars(r)["index"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "index must be a number")
		return
	}

	study, err := h.studySvc.Get(r.Context(), index)
	if err != nil {
		if errors.Is(err, service.ErrStudyNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, study)
}
