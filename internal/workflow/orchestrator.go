package workflow

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/S-4-Sidra/heart-disease/internal/classifier"
	"github.com/S-4-Sidra/heart-disease/internal/domain"
	"github.com/S-4-Sidra/heart-disease/internal/encoder"
	"github.com/S-4-Sidra/heart-disease/internal/publish"
	"github.com/S-4-Sidra/heart-disease/internal/risk"
	"github.com/S-4-Sidra/heart-disease/internal/session"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// State 评估流程状态
type State int

const (
	StateIdle State = iota
	StateEncoding
	StateClassifying
	StateTiering
	StateRecording
	StatePublished
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateEncoding:
		return "Encoding"
	case StateClassifying:
		return "Classifying"
	case StateTiering:
		return "Tiering"
	case StateRecording:
		return "Recording"
	case StatePublished:
		return "Published"
	default:
		return "Unknown"
	}
}

// Orchestrator 按 Encoding → Classifying → Tiering → Recording → Published 顺序执行一次评估。
// 不做并发控制：同一会话的调用由调用方串行化。
type Orchestrator struct {
	classifier classifier.Classifier
	delay      Delay
	publisher  publish.Publisher
	logger     *zap.Logger

	now          func() time.Time
	newID        func() string
	onTransition func(State)
}

// Option 可选配置
type Option func(*Orchestrator)

// WithDelay 设置"分析中"展示延迟（默认无延迟）
func WithDelay(d Delay) Option {
	return func(o *Orchestrator) { o.delay = d }
}

// WithPublisher 设置下游发布
func WithPublisher(p publish.Publisher) Option {
	return func(o *Orchestrator) { o.publisher = p }
}

// WithClock 替换时钟（测试用）
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) { o.now = now }
}

// WithTransitionHook is called on every state change.
func WithTransitionHook(fn func(State)) Option {
	return func(o *Orchestrator) { o.onTransition = fn }
}

// NewOrchestrator 创建编排器
func NewOrchestrator(clf classifier.Classifier, logger *zap.Logger, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		classifier: clf,
		delay:      NoDelay{},
		publisher:  publish.Nop{},
		logger:     logger,
		now:        time.Now,
		newID:      uuid.NewString,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Assess runs one assessment for the session. On success the session's current
// assessment is replaced and one history entry is appended. On any failure the
// session is left untouched, except that a fit failure halts it.
// Nothing is sent downstream here; callers Announce once the session is stored.
func (o *Orchestrator) Assess(ctx context.Context, s *session.Session, in domain.PatientInput) (domain.RiskAssessment, error) {
	if err := s.Halted(); err != nil {
		return domain.RiskAssessment{}, err
	}

	o.transition(s.ID, StateEncoding)
	features := encoder.Encode(in)

	if err := o.delay.Wait(ctx); err != nil {
		o.transition(s.ID, StateIdle)
		return domain.RiskAssessment{}, fmt.Errorf("assessment canceled: %w", err)
	}

	o.transition(s.ID, StateClassifying)
	p, err := o.classifier.Predict(ctx, features)
	if err == nil && (math.IsNaN(p) || p < 0 || p > 1) {
		err = fmt.Errorf("%w: probability %v out of range", domain.ErrClassifierInference, p)
	}
	if err != nil {
		o.transition(s.ID, StateIdle)
		if errors.Is(err, domain.ErrClassifierFit) {
			s.Halt(err)
			o.logger.Error("Classifier unavailable, halting session",
				zap.String("session_id", s.ID),
				zap.Error(err),
			)
			return domain.RiskAssessment{}, err
		}
		if !errors.Is(err, domain.ErrClassifierInference) {
			err = fmt.Errorf("%w: %v", domain.ErrClassifierInference, err)
		}
		o.logger.Warn("Assessment aborted",
			zap.String("session_id", s.ID),
			zap.Error(err),
		)
		return domain.RiskAssessment{}, err
	}

	o.transition(s.ID, StateTiering)
	tier := risk.TierOf(p)

	o.transition(s.ID, StateRecording)
	now := o.now()
	assessment := domain.RiskAssessment{
		ID:          o.newID(),
		Probability: p,
		Tier:        tier,
		Summary:     domain.SummaryOf(in),
		AssessedAt:  now,
	}
	entry := domain.HistoryEntry{
		Timestamp:   now,
		Tier:        tier,
		Probability: p,
		Age:         in.Age,
		Sex:         in.Sex,
	}

	s.Publish(assessment, entry)
	o.transition(s.ID, StatePublished)

	o.logger.Info("Assessment complete",
		zap.String("session_id", s.ID),
		zap.String("assessment_id", assessment.ID),
		zap.String("tier", string(tier)),
		zap.Float64("probability", p),
	)
	return assessment, nil
}

// Announce 把已保存的评估发送给下游（Redis Streams / MQTT）。
// 发送失败只记录日志，不影响评估结果。
func (o *Orchestrator) Announce(ctx context.Context, sessionID string, a domain.RiskAssessment) {
	if err := o.publisher.Publish(ctx, publish.EventOf(sessionID, a)); err != nil {
		o.logger.Warn("Failed to publish assessment event",
			zap.String("session_id", sessionID),
			zap.String("assessment_id", a.ID),
			zap.Error(err),
		)
	}
}

func (o *Orchestrator) transition(sessionID string, st State) {
	o.logger.Debug("Assessment state",
		zap.String("session_id", sessionID),
		zap.String("state", st.String()),
	)
	if o.onTransition != nil {
		o.onTransition(st)
	}
}
