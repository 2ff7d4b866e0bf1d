package api

import (
	"net/http"

	"github.com/beemind/hub/api/middleware"
	"github.com/beemind/hub/api/resources"
	"github.com/beemind/hub/internal/hubservice"
	"github.com/gorilla/mux"
)

type Router struct {
	router    *mux.Router
	resources *resources.Resources
}

func NewRouter(svc *hubservice.HubService) *Router {
	r := &Router{
		router:    mux.NewRouter(),
		resources: resources.NewResources(svc),
	}

	r.setupRoutes()
	return r
}

func (r *Router) setupRoutes() {
	// API version prefix
	api := r.router.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.RequestID)

	api.HandleFunc("/health", r.resources.HealthCheck).Methods(http.MethodGet)
	api.HandleFunc("/metrics", r.resources.Metrics).Methods(http.MethodGet)

	// Dashboard feeds
	api.HandleFunc("/dashboard", r.resources.Feeds.Dashboard).Methods(http.MethodGet)
	api.HandleFunc("/gateway", r.resources.Feeds.Gateway).Methods(http.MethodGet)
	api.HandleFunc("/weather", r.resources.Feeds.Weather).Methods(http.MethodGet)
	api.HandleFunc("/notifications", r.resources.Feeds.Notifications).Methods(http.MethodGet)
	api.HandleFunc("/refresh", r.resources.Feeds.Refresh).Methods(http.MethodPost)

	// Settings
	api.HandleFunc("/settings/location", r.resources.Feeds.GetLocation).Methods(http.MethodGet)
	api.HandleFunc("/settings/location", r.resources.Feeds.SetLocation).Methods(http.MethodPut)

	// Hives
	hives := api.PathPrefix("/hives").Subrouter()
	hives.HandleFunc("", r.resources.Hives.ListHives).Methods(http.MethodGet)
	hives.HandleFunc("", r.resources.Hives.CreateHive).Methods(http.MethodPost)
	hives.HandleFunc("/{id}", r.resources.Hives.GetHive).Methods(http.MethodGet)
	hives.HandleFunc("/{id}", r.resources.Hives.DeleteHive).Methods(http.MethodDelete)
	hives.HandleFunc("/{id}/chart", r.resources.Hives.GetHiveChart).Methods(http.MethodGet)
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.router.ServeHTTP(w, req)
}
