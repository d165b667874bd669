package httpapi

import (
	"context"
	"net/http"
	"net/http/pprof"
	"sort"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// CheckFunc 附加的就绪检查（例如模型是否训练成功）
type CheckFunc func(ctx context.Context) error

// HealthHandler 诊断处理器
type HealthHandler struct {
	redisClient  *redis.Client
	checks       map[string]CheckFunc
	logger       *zap.Logger
	pprofEnabled bool
}

// NewHealthHandler redisClient 可为 nil（内存会话且未启用 Streams）
func NewHealthHandler(redisClient *redis.Client, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		redisClient: redisClient,
		checks:      map[string]CheckFunc{},
		logger:      logger,
	}
}

// EnablePprof 启用 pprof 性能分析
func (d *HealthHandler) EnablePprof(enabled bool) {
	d.pprofEnabled = enabled
}

// AddCheck 注册就绪检查
func (d *HealthHandler) AddCheck(name string, fn CheckFunc) {
	d.checks[name] = fn
}

// HealthCheckResponse 健康检查响应
type HealthCheckResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Services  map[string]string `json:"services"`
}

// HealthCheck 健康检查端点
func (d *HealthHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	status := "healthy"
	services := make(map[string]string)

	if d.redisClient != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := d.redisClient.Ping(ctx).Err(); err != nil {
			status = "unhealthy"
			services["redis"] = "unhealthy: " + err.Error()
		} else {
			services["redis"] = "healthy"
		}
	} else {
		services["redis"] = "not configured"
	}

	statusCode := http.StatusOK
	if status == "unhealthy" {
		statusCode = http.StatusServiceUnavailable
	}
	writeJSON(w, statusCode, HealthCheckResponse{
		Status:    status,
		Timestamp: time.Now(),
		Services:  services,
	})
}

// Ready 就绪检查（用于 Kubernetes readiness probes）
func (d *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ready := true
	checks := make(map[string]bool)

	// Redis 可选：未配置时不影响就绪
	if d.redisClient != nil {
		ctx, cancel := context.WithTimeout(r.Context(), time.Second)
		defer cancel()
		checks["redis"] = d.redisClient.Ping(ctx).Err() == nil
		if !checks["redis"] {
			ready = false
		}
	}

	names := make([]string, 0, len(d.checks))
	for name := range d.checks {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		err := d.checks[name](r.Context())
		checks[name] = err == nil
		if err != nil {
			ready = false
			d.logger.Warn("Readiness check failed", zap.String("check", name), zap.Error(err))
		}
	}

	statusCode := http.StatusOK
	if !ready {
		statusCode = http.StatusServiceUnavailable
	}
	writeJSON(w, statusCode, map[string]interface{}{
		"ready":  ready,
		"checks": checks,
	})
}

// RegisterHealthRoutes 注册诊断路由
func (r *Router) RegisterHealthRoutes(d *HealthHandler) {
	r.Handle("/health", d.HealthCheck)
	r.Handle("/healthz", d.HealthCheck)
	r.Handle("/ready", d.Ready)
	r.Handle("/readyz", d.Ready)

	if d.pprofEnabled {
		r.Handle("/debug/pprof/", pprof.Index)
		r.Handle("/debug/pprof/cmdline", pprof.Cmdline)
		r.Handle("/debug/pprof/profile", pprof.Profile)
		r.Handle("/debug/pprof/symbol", pprof.Symbol)
		r.Handle("/debug/pprof/trace", pprof.Trace)
		r.HandleHandler("/debug/pprof/goroutine", pprof.Handler("goroutine"))
		r.HandleHandler("/debug/pprof/heap", pprof.Handler("heap"))
		r.HandleHandler("/debug/pprof/allocs", pprof.Handler("allocs"))
	}
}
