// FilePath: api/resources/resources.go
package resources

import (
	"encoding/json"
	"net/http"

	"github.com/beemind/hub/api/middleware"
	"github.com/beemind/hub/internal/errors"
	"github.com/beemind/hub/internal/hubservice"
	"github.com/gorilla/schema"
	nuts "github.com/vaudience/go-nuts"
)

// Resources holds all HTTP resource handlers
type Resources struct {
	Hives       *HiveHandlers
	Feeds       *FeedHandlers
	HealthCheck func(w http.ResponseWriter, r *http.Request)
	Metrics     func(w http.ResponseWriter, r *http.Request)
}

// NewResources creates a new Resources instance
func NewResources(svc *hubservice.HubService) *Resources {
	decoder := schema.NewDecoder()
	decoder.IgnoreUnknownKeys(true)

	res := &Resources{
		Hives: &HiveHandlers{hubservice: svc, query: decoder},
		Feeds: &FeedHandlers{hubservice: svc, query: decoder},
	}
	res.HealthCheck = res.health(svc)
	res.Metrics = res.metrics(svc)
	return res
}

// SetHealthCheck sets the health check handler
func (r *Resources) SetHealthCheck(h func(w http.ResponseWriter, r *http.Request)) {
	r.HealthCheck = h
}

// SetMetrics sets the metrics handler
func (r *Resources) SetMetrics(h func(w http.ResponseWriter, r *http.Request)) {
	r.Metrics = h
}

type healthResponse struct {
	Status       string `json:"status"`
	Version      string `json:"version"`
	APIConnected bool   `json:"apiConnected"`
	Polling      bool   `json:"polling"`
}

func (r *Resources) health(svc *hubservice.HubService) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		vm := svc.Dashboard()
		status := "ok"
		if !vm.APIConnected {
			status = "degraded"
		}
		respondWithJSON(w, http.StatusOK, healthResponse{
			Status:       status,
			Version:      nuts.GetVersion(),
			APIConnected: vm.APIConnected,
			Polling:      svc.Scheduler.Running(),
		})
	}
}

func (r *Resources) metrics(svc *hubservice.HubService) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		respondWithJSON(w, http.StatusOK, svc.Monitoring.Snapshot())
	}
}

// Helper functions

func requestID(r *http.Request) string {
	return middleware.GetRequestID(r.Context())
}

// asAPIError keeps typed errors from the service and wraps anything else.
func asAPIError(err error, fallback string) *errors.APIError {
	if apiErr, ok := errors.As(err); ok {
		return apiErr
	}
	return errors.NewInternalError(fallback, err)
}

func respondWithError(w http.ResponseWriter, err *errors.APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(err.Code)
	json.NewEncoder(w).Encode(err)
	if err.Code >= http.StatusInternalServerError {
		nuts.L.Errorf("[API] %s", err.Error())
	} else {
		nuts.L.Warnf("[API] %s", err.Error())
	}
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	body, err := json.Marshal(payload)
	if err != nil {
		nuts.L.Errorf("[API] Failed to encode response: %v", err)
		body, _ = json.Marshal(errors.NewInternalError("Failed to encode response", err))
		code = http.StatusInternalServerError
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := w.Write(append(body, '\n')); err != nil {
		nuts.L.Errorf("[API] Failed to write response: %v", err)
	}
}
