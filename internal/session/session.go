package session

import (
	"fmt"
	"time"

	"github.com/S-4-Sidra/heart-disease/internal/domain"
	"github.com/S-4-Sidra/heart-disease/internal/history"

	"github.com/google/uuid"
)

// Page 当前页面
type Page string

const (
	PageWelcome Page = "Welcome"
	PageApp     Page = "App"
)

// Session 一个用户会话的全部可变状态；会话之间不共享任何数据。
// 生命周期：创建后 Start 进入应用页；Logout 只回到 Welcome 页，评估与历史保留，
// 再次 Start 即可继续使用。会话结束（删除或空闲过期）时全部丢弃。
type Session struct {
	ID        string
	CreatedAt time.Time
	LoggedIn  bool
	Page      Page
	DarkMode  bool

	// Current 最近一次评估，每次评估整体覆盖
	Current *domain.RiskAssessment
	History *history.Log

	haltReason string
}

// New 创建未登录的会话（Welcome 页）
func New() *Session {
	return &Session{
		ID:        uuid.NewString(),
		CreatedAt: time.Now(),
		Page:      PageWelcome,
		History:   history.NewLog(),
	}
}

// Start "Get Started"：进入应用页
func (s *Session) Start() {
	s.LoggedIn = true
	s.Page = PageApp
}

// Logout 回到 Welcome 页
func (s *Session) Logout() {
	s.LoggedIn = false
	s.Page = PageWelcome
}

// RequireLoggedIn 应用页内的操作需要已登录
func (s *Session) RequireLoggedIn() error {
	if !s.LoggedIn {
		return domain.ErrLoggedOut
	}
	return nil
}

// Publish replaces the current assessment and records it in the history.
func (s *Session) Publish(a domain.RiskAssessment, e domain.HistoryEntry) {
	s.Current = &a
	s.History.Append(e)
}

// Halt stops every further assessment in this session.
func (s *Session) Halt(err error) {
	if err == nil || s.haltReason != "" {
		return
	}
	s.haltReason = err.Error()
}

// Halted 会话已因模型训练失败而停止时返回错误
func (s *Session) Halted() error {
	if s.haltReason == "" {
		return nil
	}
	return fmt.Errorf("%w (session halted: %s)", domain.ErrClassifierFit, s.haltReason)
}

// Snapshot 会话的可序列化形式（Redis 存储用）
type Snapshot struct {
	ID         string                 `json:"id"`
	CreatedAt  time.Time              `json:"created_at"`
	LoggedIn   bool                   `json:"logged_in"`
	Page       Page                   `json:"page"`
	DarkMode   bool                   `json:"dark_mode"`
	Current    *domain.RiskAssessment `json:"current,omitempty"`
	History    []domain.HistoryEntry  `json:"history"`
	HaltReason string                 `json:"halt_reason,omitempty"`
}

func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		ID:         s.ID,
		CreatedAt:  s.CreatedAt,
		LoggedIn:   s.LoggedIn,
		Page:       s.Page,
		DarkMode:   s.DarkMode,
		History:    s.History.Entries(),
		HaltReason: s.haltReason,
	}
	if s.Current != nil {
		c := *s.Current
		snap.Current = &c
	}
	return snap
}

// FromSnapshot 从快照恢复会话
func FromSnapshot(snap Snapshot) *Session {
	s := &Session{
		ID:         snap.ID,
		CreatedAt:  snap.CreatedAt,
		LoggedIn:   snap.LoggedIn,
		Page:       snap.Page,
		DarkMode:   snap.DarkMode,
		History:    history.Restore(snap.History),
		haltReason: snap.HaltReason,
	}
	if snap.Current != nil {
		c := *snap.Current
		s.Current = &c
	}
	return s
}
