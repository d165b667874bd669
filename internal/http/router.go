package httpapi

import (
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// Router 使用标准库 http.ServeMux
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

// HandleHandler 支持 http.Handler 接口（用于 pprof 等）
func (r *Router) HandleHandler(pattern string, h http.Handler) {
	r.mux.Handle(pattern, h)
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

const sessionsPath = "/api/v1/sessions"

// RegisterSessionRoutes 会话相关路由
//
//	POST   /api/v1/sessions
//	GET    /api/v1/sessions/{id}
//	DELETE /api/v1/sessions/{id}
//	POST   /api/v1/sessions/{id}/start | logout
//	PUT    /api/v1/sessions/{id}/settings
//	POST   /api/v1/sessions/{id}/assess
//	GET    /api/v1/sessions/{id}/results | diet-plan | doctor | history
//	GET    /api/v1/sessions/{id}/history/export?format=csv|xlsx
func (r *Router) RegisterSessionRoutes(h *SessionHandler) {
	r.Handle(sessionsPath, func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.StartSession(w, req)
	})

	r.Handle(sessionsPath+"/", func(w http.ResponseWriter, req *http.Request) {
		rest := strings.TrimPrefix(req.URL.Path, sessionsPath+"/")
		id, sub, _ := strings.Cut(rest, "/")
		if id == "" {
			w.WriteHeader(http.StatusNotFound)
			return
		}

		route := func(method string, fn func(http.ResponseWriter, *http.Request, string)) {
			if req.Method != method {
				w.WriteHeader(http.StatusMethodNotAllowed)
				return
			}
			fn(w, req, id)
		}

		switch sub {
		case "":
			switch req.Method {
			case http.MethodGet:
				h.GetSession(w, req, id)
			case http.MethodDelete:
				h.EndSession(w, req, id)
			default:
				w.WriteHeader(http.StatusMethodNotAllowed)
			}
		case "start":
			route(http.MethodPost, h.ResumeSession)
		case "logout":
			route(http.MethodPost, h.Logout)
		case "settings":
			route(http.MethodPut, h.UpdateSettings)
		case "assess":
			route(http.MethodPost, h.Assess)
		case "results":
			route(http.MethodGet, h.Results)
		case "diet-plan":
			route(http.MethodGet, h.DietPlan)
		case "doctor":
			route(http.MethodGet, h.Doctor)
		case "history":
			route(http.MethodGet, h.History)
		case "history/export":
			route(http.MethodGet, h.ExportHistory)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
}

// RegisterEmergencyRoutes 与会话无关的急救信息
func (r *Router) RegisterEmergencyRoutes(h *SessionHandler) {
	r.Handle("/api/v1/emergency", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.Emergency(w, req)
	})
}
