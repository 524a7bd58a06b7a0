package realtime

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"resumeforge/internal/resume"
)

// 通过 Redis Pub/Sub 转发给 WebSocket 客户端的消息类型。
const (
	TypeInvalidate = "invalidate"
	TypeExport     = "export"
)

// Export 通知的状态。
const (
	StatusCompleted = "completed"
	StatusError     = "error"
)

// Channel 返回用户的通知频道。
func Channel(userID string) string {
	return "user_notify:" + userID
}

// InvalidateMessage 通知客户端重新拉取某些视图。
type InvalidateMessage struct {
	Type  string        `json:"type"`
	Views []resume.View `json:"views"`
}

// ExportMessage 通知导出结果，字段名与前端解析保持一致。
type ExportMessage struct {
	Type          string `json:"type"`
	Status        string `json:"status"`
	ExportID      string `json:"export_id"`
	ResumeID      string `json:"resume_id"`
	CorrelationID string `json:"correlation_id"`
	ErrorCode     int    `json:"error_code"`
	ErrorMessage  string `json:"error_message"`
}

type redisPublisher interface {
	Publish(ctx context.Context, channel string, message any) *redis.IntCmd
}

// Publisher 把视图失效与导出结果发布到用户频道。
type Publisher struct {
	client redisPublisher
}

var _ resume.Invalidator = (*Publisher)(nil)

// NewPublisher 构造 Publisher，*redis.Client 即可满足。
func NewPublisher(client redisPublisher) *Publisher {
	return &Publisher{client: client}
}

// Invalidate 实现 resume.Invalidator。
func (p *Publisher) Invalidate(ctx context.Context, userID string, views ...resume.View) error {
	if len(views) == 0 {
		return nil
	}
	return p.publish(ctx, userID, InvalidateMessage{Type: TypeInvalidate, Views: views})
}

// PublishExport 发布导出结果。
func (p *Publisher) PublishExport(ctx context.Context, userID string, msg ExportMessage) error {
	msg.Type = TypeExport
	return p.publish(ctx, userID, msg)
}

func (p *Publisher) publish(ctx context.Context, userID string, msg any) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal notification payload: %w", err)
	}
	channel := Channel(userID)
	if err := p.client.Publish(ctx, channel, data).Err(); err != nil {
		return fmt.Errorf("publish redis notification to %q: %w", channel, err)
	}
	return nil
}
