package storage

import (
	"errors"
	"strings"

	"github.com/minio/minio-go/v7"
)

// errorCode 提取 MinIO 错误码（小写），非 MinIO 错误返回空串。
func errorCode(err error) string {
	var minioErr minio.ErrorResponse
	if errors.As(err, &minioErr) {
		return strings.ToLower(strings.TrimSpace(minioErr.Code))
	}
	return ""
}

// IsNoSuchKey 判断错误是否表示对象不存在。
func IsNoSuchKey(err error) bool {
	if err == nil {
		return false
	}
	switch errorCode(err) {
	case "nosuchkey", "notfound":
		return true
	}
	// 代理可能把错误包装成字符串。
	lower := strings.ToLower(err.Error())
	return strings.Contains(lower, "nosuchkey") || strings.Contains(lower, "specified key does not exist")
}

// IsNoSuchBucket 判断错误是否表示 Bucket 不存在。
func IsNoSuchBucket(err error) bool {
	if err == nil {
		return false
	}
	if errorCode(err) == "nosuchbucket" {
		return true
	}
	lower := strings.ToLower(err.Error())
	return strings.Contains(lower, "nosuchbucket") || strings.Contains(lower, "specified bucket does not exist")
}
