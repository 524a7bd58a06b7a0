package auth

import (
	"context"

	"resumeforge/internal/resume"
)

type userIDKey struct{}

// WithUserID 把已认证用户写入 context。
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey{}, userID)
}

// UserIDFromContext 读取已认证用户。
func UserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userIDKey{}).(string)
	return userID, ok && userID != ""
}

// ContextIdentity 以请求 context 中的用户作为操作者。
var ContextIdentity resume.Identity = resume.IdentityFunc(UserIDFromContext)
