// FilePath: api/resources/api.resource.feeds.go
package resources

import (
	"encoding/json"
	"net/http"

	"github.com/beemind/hub/internal/errors"
	"github.com/beemind/hub/internal/hubservice"
	"github.com/beemind/hub/internal/models"
	"github.com/beemind/hub/internal/notifications"
	"github.com/gorilla/schema"
)

// FeedHandlers serves the dashboard, gateway, weather and notification feeds.
type FeedHandlers struct {
	hubservice *hubservice.HubService
	query      *schema.Decoder
}

type notificationQuery struct {
	Unread bool `schema:"unread"`
	Sorted bool `schema:"sorted"`
}

type notificationResponse struct {
	Notifications []models.Notification `json:"notifications"`
	Unread        int                   `json:"unread"`
}

type locationRequest struct {
	Location string `json:"location"`
}

type locationResponse struct {
	Location string `json:"location"`
}

// @Summary Get the dashboard
// @Description Full view model: hives, connectivity, gateway, weather, notifications
// @Tags dashboard
// @Produce json
// @Success 200 {object} store.ViewModel
// @Router /dashboard [get]
func (h *FeedHandlers) Dashboard(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.hubservice.Dashboard())
}

// @Summary Get the gateway
// @Tags dashboard
// @Produce json
// @Success 200 {object} models.Gateway
// @Router /gateway [get]
func (h *FeedHandlers) Gateway(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.hubservice.Dashboard().Gateway)
}

// @Summary Get the weather
// @Description Current weather, or 204 while it is still unknown
// @Tags dashboard
// @Produce json
// @Success 200 {object} models.Weather
// @Success 204 "Weather unknown"
// @Router /weather [get]
func (h *FeedHandlers) Weather(w http.ResponseWriter, r *http.Request) {
	weather := h.hubservice.Dashboard().Weather
	if weather == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	respondWithJSON(w, http.StatusOK, weather)
}

// @Summary List notifications
// @Tags dashboard
// @Produce json
// @Param unread query bool false "Only unread entries"
// @Param sorted query bool false "Critical first, newest first"
// @Success 200 {object} notificationResponse
// @Router /notifications [get]
func (h *FeedHandlers) Notifications(w http.ResponseWriter, r *http.Request) {
	var q notificationQuery
	if err := h.query.Decode(&q, r.URL.Query()); err != nil {
		respondWithError(w, errors.NewValidationError("invalid query parameters", err).WithRequestID(requestID(r)))
		return
	}

	all := h.hubservice.Dashboard().Notifications
	entries := all
	if q.Unread {
		entries = notifications.Unread(entries)
	}
	if q.Sorted {
		entries = notifications.Activity(entries)
	}

	respondWithJSON(w, http.StatusOK, notificationResponse{
		Notifications: entries,
		Unread:        notifications.UnreadCount(all),
	})
}

// @Summary Refresh now
// @Description Trigger an immediate hive and gateway fetch
// @Tags dashboard
// @Success 202 "Accepted"
// @Failure 503 {object} errors.APIError
// @Router /refresh [post]
func (h *FeedHandlers) Refresh(w http.ResponseWriter, r *http.Request) {
	if err := h.hubservice.Refresh(); err != nil {
		respondWithError(w, asAPIError(err, "refresh failed").WithRequestID(requestID(r)))
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

// @Summary Get the weather location
// @Tags settings
// @Produce json
// @Success 200 {object} locationResponse
// @Router /settings/location [get]
func (h *FeedHandlers) GetLocation(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, locationResponse{Location: h.hubservice.Location(r.Context())})
}

// @Summary Set the weather location
// @Tags settings
// @Accept json
// @Produce json
// @Param body body locationRequest true "Location name"
// @Success 200 {object} locationResponse
// @Failure 400 {object} errors.APIError
// @Router /settings/location [put]
func (h *FeedHandlers) SetLocation(w http.ResponseWriter, r *http.Request) {
	reqID := requestID(r)

	var in locationRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondWithError(w, errors.NewValidationError("invalid request body", err).WithRequestID(reqID))
		return
	}
	if err := h.hubservice.SetLocation(r.Context(), in.Location); err != nil {
		respondWithError(w, asAPIError(err, "failed to set location").WithRequestID(reqID))
		return
	}

	respondWithJSON(w, http.StatusOK, locationResponse{Location: h.hubservice.Location(r.Context())})
}
