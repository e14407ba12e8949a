package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/railqa/railcheck/internal/eligibility"
	"github.com/railqa/railcheck/internal/models"
)

// BoundaryDOBHandler generates boundary dates of birth for age-eligibility
// fixtures
type BoundaryDOBHandler struct {
	calculator *eligibility.Calculator
}

// NewBoundaryDOBHandler creates a new boundary DOB handler
func NewBoundaryDOBHandler(calculator *eligibility.Calculator) *BoundaryDOBHandler {
	return &BoundaryDOBHandler{
		calculator: calculator,
	}
}

// BoundaryDOBResponse is a literal date of birth at the eligibility boundary
type BoundaryDOBResponse struct {
	Day   int `json:"day"`
	Month int `json:"month"`
	Year  int `json:"year"`
}

// ServeHTTP handles the boundary DOB request. Query parameters: railcard,
// boundary (lower/upper), years (defaults to 1).
func (h *BoundaryDOBHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	kind, err := models.ParseRailcardKind(r.URL.Query().Get("railcard"))
	if err != nil {
		sendErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	boundary, err := models.ParseBoundary(r.URL.Query().Get("boundary"))
	if err != nil {
		sendErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	years := 1
	if raw := r.URL.Query().Get("years"); raw != "" {
		years, err = strconv.Atoi(raw)
		if err != nil {
			sendErrorResponse(w, "years must be an integer", http.StatusBadRequest)
			return
		}
	}

	dob, err := h.calculator.BoundaryDOB(kind, boundary, years)
	if err != nil {
		log.Printf("Error calculating boundary DOB: %v", err)
		sendErrorResponse(w, err.Error(), statusForError(err))
		return
	}

	sendJSON(w, http.StatusOK, BoundaryDOBResponse{
		Day:   dob.Day,
		Month: int(dob.Month),
		Year:  dob.Year,
	})
}
