package workflow

import (
	"context"
	"time"
)

// Delay 纯展示用的"分析中"停顿，不影响结果
type Delay interface {
	Wait(ctx context.Context) error
}

// NoDelay 默认实现
type NoDelay struct{}

func (NoDelay) Wait(context.Context) error { return nil }

// FixedDelay 固定停顿，ctx 取消时提前返回
type FixedDelay time.Duration

func (d FixedDelay) Wait(ctx context.Context) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(time.Duration(d))
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
