package httpapi

import (
	"net/http"

	"go.uber.org/zap"
)

// Router thin wrapper over the standard http.ServeMux.
type Router struct {
	mux    *http.ServeMux
	logger *zap.Logger
}

func NewRouter(logger *zap.Logger) *Router {
	return &Router{
		mux:    http.NewServeMux(),
		logger: logger,
	}
}

func (r *Router) Handle(pattern string, h http.HandlerFunc) {
	r.mux.HandleFunc(pattern, h)
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// RegisterTaskRoutes registers the task lifecycle endpoints.
func (r *Router) RegisterTaskRoutes(h *TasksHandler) {
	r.Handle("/api/v1/tasks", h.Collection)
	r.Handle("/api/v1/tasks/", h.Item)
}

// RegisterHealthRoutes registers the liveness endpoint.
func (r *Router) RegisterHealthRoutes() {
	r.Handle("/healthz", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
}
