// FilePath: api/resources/api.resource.hives.go
package resources

import (
	"encoding/json"
	"net/http"

	"github.com/beemind/hub/internal/errors"
	"github.com/beemind/hub/internal/hubservice"
	"github.com/beemind/hub/internal/models"
	"github.com/gorilla/mux"
	"github.com/gorilla/schema"
)

// HiveHandlers encapsulates the hive-related HTTP handlers
type HiveHandlers struct {
	hubservice *hubservice.HubService
	query      *schema.Decoder
}

type chartQuery struct {
	Limit int `schema:"limit"`
}

// @Summary List hives
// @Description Get the current hive collection with status and recency
// @Tags hives
// @Produce json
// @Success 200 {array} models.Hive
// @Router /hives [get]
func (h *HiveHandlers) ListHives(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.hubservice.ListHives())
}

// @Summary Add a hive
// @Description Add a user-managed hive. Name and device serial must be unique.
// @Tags hives
// @Accept json
// @Produce json
// @Param hive body models.NewHive true "Hive details"
// @Success 201 {object} models.Hive
// @Failure 400 {object} errors.APIError
// @Failure 409 {object} errors.APIError
// @Router /hives [post]
func (h *HiveHandlers) CreateHive(w http.ResponseWriter, r *http.Request) {
	var in models.NewHive
	reqID := requestID(r)

	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondWithError(w, errors.NewValidationError("invalid request body", err).WithRequestID(reqID))
		return
	}

	hive, err := h.hubservice.AddHive(r.Context(), in)
	if err != nil {
		respondWithError(w, asAPIError(err, "failed to add hive").WithRequestID(reqID))
		return
	}

	respondWithJSON(w, http.StatusCreated, hive)
}

// @Summary Get a hive by ID
// @Description Get a hive with its diagnostics and notifications
// @Tags hives
// @Produce json
// @Param id path string true "Hive ID"
// @Success 200 {object} hubservice.HiveDetail
// @Failure 404 {object} errors.APIError
// @Router /hives/{id} [get]
func (h *HiveHandlers) GetHive(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	detail, err := h.hubservice.GetHive(id)
	if err != nil {
		respondWithError(w, asAPIError(err, "failed to get hive").WithRequestID(requestID(r)))
		return
	}

	respondWithJSON(w, http.StatusOK, detail)
}

// @Summary Delete a hive
// @Description Remove a hive and its cached reading
// @Tags hives
// @Param id path string true "Hive ID"
// @Success 204 "No Content"
// @Failure 404 {object} errors.APIError
// @Router /hives/{id} [delete]
func (h *HiveHandlers) DeleteHive(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := h.hubservice.DeleteHive(r.Context(), id); err != nil {
		respondWithError(w, asAPIError(err, "failed to delete hive").WithRequestID(requestID(r)))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// @Summary Get hive chart
// @Description Get a hive's sensor history from the remote API
// @Tags hives
// @Produce json
// @Param id path string true "Hive ID"
// @Param limit query int false "Only the most recent N points"
// @Success 200 {array} models.ChartPoint
// @Failure 404 {object} errors.APIError
// @Failure 502 {object} errors.APIError
// @Router /hives/{id}/chart [get]
func (h *HiveHandlers) GetHiveChart(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	reqID := requestID(r)

	var q chartQuery
	if err := h.query.Decode(&q, r.URL.Query()); err != nil || q.Limit < 0 {
		respondWithError(w, errors.NewValidationError("invalid query parameters", err).WithRequestID(reqID))
		return
	}

	points, err := h.hubservice.HiveChart(r.Context(), id)
	if err != nil {
		respondWithError(w, asAPIError(err, "failed to load chart").WithRequestID(reqID))
		return
	}
	if q.Limit > 0 && len(points) > q.Limit {
		points = points[len(points)-q.Limit:]
	}

	respondWithJSON(w, http.StatusOK, points)
}
