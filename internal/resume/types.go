package resume

import (
	"context"
	"errors"
	"time"
)

// 服务边界上的错误分类。存储层错误会被包装后原样返回。
var (
	ErrUnauthorized = errors.New("unauthorized")
	// ErrNotFound 同时覆盖“不存在”与“不属于当前用户”，调用方无法区分二者。
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
)

// DefaultTitle 是新建简历的标题。
const DefaultTitle = "Untitled Resume"

// Identity 提供当前操作者的用户 ID。
type Identity interface {
	CurrentUser(ctx context.Context) (string, bool)
}

// IdentityFunc 让普通函数满足 Identity。
type IdentityFunc func(ctx context.Context) (string, bool)

func (f IdentityFunc) CurrentUser(ctx context.Context) (string, bool) { return f(ctx) }

// StaticIdentity 始终以固定用户身份执行，用于 worker 等非请求场景。
type StaticIdentity string

func (s StaticIdentity) CurrentUser(context.Context) (string, bool) {
	return string(s), s != ""
}

// View 标识一个需要在变更后刷新的逻辑视图。
type View string

// ViewResumeList 是简历列表视图。
const ViewResumeList View = "resume list"

// EditorView 返回某份简历编辑页对应的视图。
func EditorView(resumeID string) View {
	return View("editor:" + resumeID)
}

// Invalidator 接收变更后失效的视图通知。
type Invalidator interface {
	Invalidate(ctx context.Context, userID string, views ...View) error
}

type nopInvalidator struct{}

func (nopInvalidator) Invalidate(context.Context, string, ...View) error { return nil }

// ListItem 是简历列表中的一行。
type ListItem struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	UpdatedAt time.Time `json:"updated_at"`
}
