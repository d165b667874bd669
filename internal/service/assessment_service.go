package service

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/S-4-Sidra/heart-disease/internal/domain"
	"github.com/S-4-Sidra/heart-disease/internal/history"
	"github.com/S-4-Sidra/heart-disease/internal/recommend"
	"github.com/S-4-Sidra/heart-disease/internal/risk"
	"github.com/S-4-Sidra/heart-disease/internal/session"
	"github.com/S-4-Sidra/heart-disease/internal/workflow"

	"go.uber.org/zap"
)

// AssessmentService 会话级业务入口：加载会话、执行操作、写回会话。
// 同一会话的所有操作串行执行，不同会话互不影响。
type AssessmentService struct {
	sessions     session.Store
	orchestrator *workflow.Orchestrator
	locks        *keyedMutex
	logger       *zap.Logger
}

func NewAssessmentService(sessions session.Store, orchestrator *workflow.Orchestrator, logger *zap.Logger) *AssessmentService {
	return &AssessmentService{
		sessions:     sessions,
		orchestrator: orchestrator,
		locks:        newKeyedMutex(),
		logger:       logger,
	}
}

// SessionState 会话概要
type SessionState struct {
	ID            string       `json:"session_id"`
	CreatedAt     time.Time    `json:"created_at"`
	LoggedIn      bool         `json:"logged_in"`
	Page          session.Page `json:"page"`
	DarkMode      bool         `json:"dark_mode"`
	HasAssessment bool         `json:"has_assessment"`
	HistoryCount  int          `json:"history_count"`
	Halted        bool         `json:"halted"`
}

func stateOf(s *session.Session) SessionState {
	return SessionState{
		ID:            s.ID,
		CreatedAt:     s.CreatedAt,
		LoggedIn:      s.LoggedIn,
		Page:          s.Page,
		DarkMode:      s.DarkMode,
		HasAssessment: s.Current != nil,
		HistoryCount:  s.History.Len(),
		Halted:        s.Halted() != nil,
	}
}

// Results 结果页
type Results struct {
	Assessment domain.RiskAssessment `json:"assessment"`
	Label      string                `json:"label"`
	Color      string                `json:"color"`
	Actions    []string              `json:"actions"`
	KeyFactors []recommend.Factor    `json:"key_factors"`
}

// DietPlanView 饮食页
type DietPlanView struct {
	Tier domain.Tier          `json:"tier"`
	Plan []recommend.MealPlan `json:"plan"`
	Tips []string             `json:"tips"`
}

// DoctorView 医生页
type DoctorView struct {
	Tier          domain.Tier              `json:"tier"`
	Advice        string                   `json:"advice"`
	Cardiologists []recommend.Cardiologist `json:"cardiologists"`
}

// EmergencyView 急救页，与会话无关
type EmergencyView struct {
	Info     []recommend.InfoItem `json:"info"`
	Contacts []recommend.Contact  `json:"contacts"`
}

// HistoryView 历史页
type HistoryView struct {
	Entries []history.Row        `json:"entries"`
	Trend   []history.TrendPoint `json:"trend"`
}

// ExportFormat 历史导出格式
type ExportFormat string

const (
	ExportCSV  ExportFormat = "csv"
	ExportXLSX ExportFormat = "xlsx"
)

// ParseExportFormat 空值按 csv 处理
func ParseExportFormat(s string) (ExportFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "csv":
		return ExportCSV, nil
	case "xlsx":
		return ExportXLSX, nil
	default:
		return "", fmt.Errorf("%w: unsupported export format %q", domain.ErrInvalidInput, s)
	}
}

// Export 导出文件
type Export struct {
	Filename    string
	ContentType string
	Data        []byte
}

// StartSession "Get Started"
func (s *AssessmentService) StartSession(ctx context.Context) (SessionState, error) {
	sess, err := s.sessions.Create(ctx)
	if err != nil {
		return SessionState{}, err
	}
	sess.Start()
	if err := s.sessions.Save(ctx, sess); err != nil {
		return SessionState{}, err
	}
	s.logger.Info("Session started", zap.String("session_id", sess.ID))
	return stateOf(sess), nil
}

func (s *AssessmentService) Session(ctx context.Context, id string) (SessionState, error) {
	var st SessionState
	err := s.withSession(ctx, id, func(sess *session.Session) error {
		st = stateOf(sess)
		return nil
	})
	return st, err
}

// ResumeSession "Get Started" on an existing session: back to the app page with
// the previous assessment and history intact.
func (s *AssessmentService) ResumeSession(ctx context.Context, id string) (SessionState, error) {
	var st SessionState
	err := s.mutate(ctx, id, func(sess *session.Session) error {
		sess.Start()
		st = stateOf(sess)
		return nil
	})
	if err == nil {
		s.logger.Info("Session resumed", zap.String("session_id", id))
	}
	return st, err
}

// Logout 回到 Welcome 页；评估和历史保留
func (s *AssessmentService) Logout(ctx context.Context, id string) (SessionState, error) {
	var st SessionState
	err := s.mutate(ctx, id, func(sess *session.Session) error {
		sess.Logout()
		st = stateOf(sess)
		return nil
	})
	if err == nil {
		s.logger.Info("Session logged out", zap.String("session_id", id))
	}
	return st, err
}

// EndSession discards the session together with its assessment and history.
func (s *AssessmentService) EndSession(ctx context.Context, id string) error {
	unlock := s.locks.Lock(id)
	defer unlock()

	if _, err := s.sessions.Get(ctx, id); err != nil {
		return err
	}
	if err := s.sessions.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Session ended", zap.String("session_id", id))
	return nil
}

func (s *AssessmentService) SetDarkMode(ctx context.Context, id string, on bool) (SessionState, error) {
	var st SessionState
	err := s.mutate(ctx, id, func(sess *session.Session) error {
		sess.DarkMode = on
		st = stateOf(sess)
		return nil
	})
	return st, err
}

// Assess 执行一次评估。失败时会话仍会写回（训练失败需要记录停止状态）。
// 会话保存成功后才向下游发布事件。
func (s *AssessmentService) Assess(ctx context.Context, id string, in domain.PatientInput) (domain.RiskAssessment, error) {
	if err := in.Validate(); err != nil {
		return domain.RiskAssessment{}, err
	}
	var out domain.RiskAssessment
	err := s.mutate(ctx, id, func(sess *session.Session) error {
		if err := sess.RequireLoggedIn(); err != nil {
			return err
		}
		a, err := s.orchestrator.Assess(ctx, sess, in)
		if err != nil {
			return err
		}
		out = a
		return nil
	})
	if err != nil {
		return domain.RiskAssessment{}, err
	}
	s.orchestrator.Announce(ctx, id, out)
	return out, nil
}

func (s *AssessmentService) Results(ctx context.Context, id string) (Results, error) {
	var res Results
	err := s.withSession(ctx, id, func(sess *session.Session) error {
		if err := sess.RequireLoggedIn(); err != nil {
			return err
		}
		if sess.Current == nil {
			return domain.ErrNoAssessment
		}
		a := *sess.Current
		res = Results{
			Assessment: a,
			Label:      risk.Label(a.Tier),
			Color:      risk.Color(a.Tier),
			Actions:    recommend.ResultActions(a.Tier),
			KeyFactors: recommend.KeyFactors(),
		}
		return nil
	})
	return res, err
}

func (s *AssessmentService) DietPlan(ctx context.Context, id string) (DietPlanView, error) {
	var v DietPlanView
	err := s.withSession(ctx, id, func(sess *session.Session) error {
		if err := sess.RequireLoggedIn(); err != nil {
			return err
		}
		if sess.Current == nil {
			return domain.ErrNoAssessment
		}
		b := recommend.BundleFor(sess.Current.Tier)
		v = DietPlanView{Tier: b.Tier, Plan: b.DietPlan, Tips: recommend.HeartHealthyTips()}
		return nil
	})
	return v, err
}

func (s *AssessmentService) Doctor(ctx context.Context, id string) (DoctorView, error) {
	var v DoctorView
	err := s.withSession(ctx, id, func(sess *session.Session) error {
		if err := sess.RequireLoggedIn(); err != nil {
			return err
		}
		if sess.Current == nil {
			return domain.ErrNoAssessment
		}
		b := recommend.BundleFor(sess.Current.Tier)
		v = DoctorView{Tier: b.Tier, Advice: b.DoctorAdvice, Cardiologists: recommend.Cardiologists()}
		return nil
	})
	return v, err
}

func (s *AssessmentService) Emergency() EmergencyView {
	return EmergencyView{Info: recommend.EmergencyInfo(), Contacts: recommend.EmergencyContacts()}
}

func (s *AssessmentService) History(ctx context.Context, id string) (HistoryView, error) {
	var v HistoryView
	err := s.withSession(ctx, id, func(sess *session.Session) error {
		if err := sess.RequireLoggedIn(); err != nil {
			return err
		}
		v = HistoryView{Entries: sess.History.Rows(), Trend: sess.History.Trend()}
		return nil
	})
	return v, err
}

// ExportHistory 导出会话历史（空历史只包含表头）
func (s *AssessmentService) ExportHistory(ctx context.Context, id string, format ExportFormat) (Export, error) {
	var out Export
	err := s.withSession(ctx, id, func(sess *session.Session) error {
		if err := sess.RequireLoggedIn(); err != nil {
			return err
		}
		switch format {
		case ExportCSV:
			var buf bytes.Buffer
			if err := sess.History.ExportCSV(&buf); err != nil {
				return err
			}
			out = Export{Filename: "heart_health_history.csv", ContentType: "text/csv", Data: buf.Bytes()}
		case ExportXLSX:
			data, err := sess.History.ExportXLSX()
			if err != nil {
				return err
			}
			out = Export{
				Filename:    "heart_health_history.xlsx",
				ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
				Data:        data,
			}
		default:
			return fmt.Errorf("%w: unsupported export format %q", domain.ErrInvalidInput, format)
		}
		return nil
	})
	return out, err
}

// withSession 只读访问
func (s *AssessmentService) withSession(ctx context.Context, id string, fn func(*session.Session) error) error {
	unlock := s.locks.Lock(id)
	defer unlock()

	sess, err := s.sessions.Get(ctx, id)
	if err != nil {
		return err
	}
	return fn(sess)
}

// mutate 执行 fn 后总是写回会话，fn 的错误优先返回
func (s *AssessmentService) mutate(ctx context.Context, id string, fn func(*session.Session) error) error {
	unlock := s.locks.Lock(id)
	defer unlock()

	sess, err := s.sessions.Get(ctx, id)
	if err != nil {
		return err
	}
	fnErr := fn(sess)
	if err := s.sessions.Save(ctx, sess); err != nil {
		s.logger.Error("Failed to save session", zap.String("session_id", id), zap.Error(err))
		if fnErr == nil {
			return err
		}
	}
	return fnErr
}
