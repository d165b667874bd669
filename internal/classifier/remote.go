package classifier

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/S-4-Sidra/heart-disease/internal/domain"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// RemoteRequest 外部推理服务请求体
type RemoteRequest struct {
	Features []float64 `json:"features"`
	Names    []string  `json:"feature_names"`
}

// RemoteResponse 外部推理服务响应体
type RemoteResponse struct {
	Probability *float64 `json:"probability"`
	Model       string   `json:"model,omitempty"`
}

// RemoteClassifier 调用外部模型推理服务（替换占位随机森林时使用）
type RemoteClassifier struct {
	httpClient *resty.Client
	path       string
	logger     *zap.Logger
}

// NewRemoteClassifier 创建远程分类器
func NewRemoteClassifier(baseURL string, timeout time.Duration, logger *zap.Logger) *RemoteClassifier {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	// 不重试：一次推理失败只中止本次评估，由用户重新提交
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &RemoteClassifier{
		httpClient: client,
		path:       "/predict",
		logger:     logger,
	}
}

// Predict POST /predict {"features":[...]} -> {"probability":p}
func (c *RemoteClassifier) Predict(ctx context.Context, features domain.FeatureVector) (float64, error) {
	req := RemoteRequest{
		Features: features[:],
		Names:    domain.FeatureNames[:],
	}
	var out RemoteResponse

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&out).
		Post(c.path)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrClassifierInference, err)
	}
	if resp.IsError() {
		c.logger.Warn("Remote classifier returned error status",
			zap.Int("status", resp.StatusCode()),
			zap.String("body", resp.String()),
		)
		return 0, fmt.Errorf("%w: status %d", domain.ErrClassifierInference, resp.StatusCode())
	}
	if out.Probability == nil {
		return 0, fmt.Errorf("%w: response has no probability", domain.ErrClassifierInference)
	}
	p := *out.Probability
	if math.IsNaN(p) || p < 0 || p > 1 {
		return 0, fmt.Errorf("%w: probability %v out of range", domain.ErrClassifierInference, p)
	}

	c.logger.Debug("Remote classifier prediction",
		zap.Float64("probability", p),
		zap.String("model", out.Model),
	)
	return p, nil
}
