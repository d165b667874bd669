package classifier

import (
	"context"
	"fmt"
	"sync"

	"github.com/S-4-Sidra/heart-disease/internal/domain"

	"go.uber.org/zap"
)

// Classifier 二分类概率模型；返回阳性（患病）概率 [0,1]
type Classifier interface {
	Predict(ctx context.Context, features domain.FeatureVector) (float64, error)
}

// FitFunc 构建（训练）分类器
type FitFunc func() (Classifier, error)

// Fitter fits the wrapped model at most once per process and caches the
// result, including a failed fit. The fitted model is shared read-only by all
// sessions.
type Fitter struct {
	fit    FitFunc
	logger *zap.Logger

	once sync.Once
	clf  Classifier
	err  error
}

// NewFitter 创建惰性训练器
func NewFitter(fit FitFunc, logger *zap.Logger) *Fitter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Fitter{fit: fit, logger: logger}
}

// Classifier 返回已训练的模型；训练失败时每次都返回同一个 ErrClassifierFit
func (f *Fitter) Classifier() (Classifier, error) {
	f.once.Do(func() {
		clf, err := f.fit()
		if err != nil {
			f.err = fmt.Errorf("%w: %v", domain.ErrClassifierFit, err)
			f.logger.Error("Classifier fit failed", zap.Error(err))
			return
		}
		if clf == nil {
			f.err = fmt.Errorf("%w: fit returned no model", domain.ErrClassifierFit)
			f.logger.Error("Classifier fit returned nil model")
			return
		}
		f.clf = clf
		f.logger.Info("Classifier fitted")
	})
	return f.clf, f.err
}

// Predict fits on first use, then delegates.
func (f *Fitter) Predict(ctx context.Context, features domain.FeatureVector) (float64, error) {
	clf, err := f.Classifier()
	if err != nil {
		return 0, err
	}
	return clf.Predict(ctx, features)
}
