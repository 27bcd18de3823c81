package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// Urgency 通知紧急程度
type Urgency string

const (
	UrgencyInfo     Urgency = "info"
	UrgencyWarning  Urgency = "warning"
	UrgencyCritical Urgency = "critical"
)

// Dispatcher 通知下发接口
// 下发是 fire-and-forget 语义：失败只记录日志，绝不阻塞采样路径
type Dispatcher interface {
	Dispatch(ctx context.Context, title, body string, urgency Urgency) error
}

// notificationPayload 推送请求体
type notificationPayload struct {
	Title     string `json:"title"`
	Body      string `json:"body"`
	Urgency   string `json:"urgency"`
	Timestamp int64  `json:"timestamp"`
}

// WebhookDispatcher 基于 HTTP webhook 的通知下发器
type WebhookDispatcher struct {
	httpClient *resty.Client
	logger     *zap.Logger
}

// NewWebhookDispatcher 创建 webhook 通知下发器
func NewWebhookDispatcher(endpoint string, logger *zap.Logger) *WebhookDispatcher {
	client := resty.New().
		SetBaseURL(endpoint).
		SetTimeout(10 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(2 * time.Second).
		SetHeader("Content-Type", "application/json")

	return &WebhookDispatcher{
		httpClient: client,
		logger:     logger,
	}
}

// Dispatch 发送一条通知
func (d *WebhookDispatcher) Dispatch(ctx context.Context, title, body string, urgency Urgency) error {
	payload := notificationPayload{
		Title:     title,
		Body:      body,
		Urgency:   string(urgency),
		Timestamp: time.Now().Unix(),
	}

	resp, err := d.httpClient.R().
		SetContext(ctx).
		SetBody(payload).
		Post("")
	if err != nil {
		return fmt.Errorf("failed to dispatch notification: %w", err)
	}

	if resp.IsError() {
		return fmt.Errorf("notification endpoint returned status %d", resp.StatusCode())
	}

	d.logger.Debug("Notification dispatched",
		zap.String("title", title),
		zap.String("urgency", string(urgency)),
	)

	return nil
}

// NopDispatcher 空实现（未配置通知端点时使用）
type NopDispatcher struct{}

// Dispatch 丢弃通知
func (NopDispatcher) Dispatch(ctx context.Context, title, body string, urgency Urgency) error {
	return nil
}
