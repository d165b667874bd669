package publish

import (
	"context"
	"errors"
	"time"

	"github.com/S-4-Sidra/heart-disease/internal/domain"
)

// Event 评估完成事件（推送给下游视图/订阅方）
type Event struct {
	SessionID    string      `json:"session_id"`
	AssessmentID string      `json:"assessment_id"`
	Tier         domain.Tier `json:"tier"`
	Probability  float64     `json:"probability"`
	Age          int         `json:"age"`
	Sex          string      `json:"sex"`
	AssessedAt   time.Time   `json:"assessed_at"`
}

// EventOf 由评估结果构造事件
func EventOf(sessionID string, a domain.RiskAssessment) Event {
	return Event{
		SessionID:    sessionID,
		AssessmentID: a.ID,
		Tier:         a.Tier,
		Probability:  a.Probability,
		Age:          a.Summary.Age,
		Sex:          a.Summary.Sex,
		AssessedAt:   a.AssessedAt,
	}
}

// Publisher 下游发布
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// Nop 不发布
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }

// Multi 依次发布到所有目标，返回合并的错误
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, e Event) error {
	var errs []error
	for _, p := range m {
		if err := p.Publish(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
