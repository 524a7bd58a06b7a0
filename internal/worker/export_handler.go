package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/hibiken/asynq"

	"resumeforge/internal/errcode"
	"resumeforge/internal/metrics"
	"resumeforge/internal/realtime"
	"resumeforge/internal/render"
	"resumeforge/internal/resume"
	"resumeforge/internal/storage"
	"resumeforge/internal/tasks"
)

// Renderer 把 HTML 打印为 PDF。
type Renderer interface {
	Render(ctx context.Context, html []byte) ([]byte, error)
}

// Uploader 保存 PDF 并返回写入的字节数。
type Uploader interface {
	PutPDF(ctx context.Context, objectKey string, data []byte) (int64, error)
}

// Notifier 向用户推送导出结果。
type Notifier interface {
	PublishExport(ctx context.Context, userID string, msg realtime.ExportMessage) error
}

// ExportTaskHandler 负责消费简历导出任务。
type ExportTaskHandler struct {
	service  *resume.Service
	renderer Renderer
	uploader Uploader
	notifier Notifier
	logger   *slog.Logger

	finalAttempt func(ctx context.Context) bool
}

// NewExportTaskHandler 创建任务处理器。service 的身份会按任务替换为导出记录的所有者。
func NewExportTaskHandler(service *resume.Service, renderer Renderer, uploader Uploader, notifier Notifier, logger *slog.Logger) *ExportTaskHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExportTaskHandler{
		service:      service,
		renderer:     renderer,
		uploader:     uploader,
		notifier:     notifier,
		logger:       logger,
		finalAttempt: isFinalAsynqAttempt,
	}
}

// ProcessTask 实现 asynq.Handler。
func (h *ExportTaskHandler) ProcessTask(ctx context.Context, t *asynq.Task) (retErr error) {
	log := h.logger

	var payload tasks.ResumeExportPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		log.Error("unmarshal task payload failed", slog.Any("error", err))
		return fmt.Errorf("decode payload: %w", asynq.SkipRetry)
	}

	log = log.With(
		slog.String("correlation_id", payload.CorrelationID),
		slog.String("export_id", payload.ExportID),
		slog.String("user_id", payload.UserID),
	)
	log.Info("starting resume export task")

	svc := h.service.WithIdentity(resume.StaticIdentity(payload.UserID))

	export, aggregate, err := svc.ExportSource(ctx, payload.ExportID)
	if err != nil {
		if errors.Is(err, resume.ErrNotFound) || errors.Is(err, resume.ErrUnauthorized) {
			log.Warn("export or resume not found, skipping task")
			metrics.ExportsTotal.WithLabelValues(metrics.ExportOutcomeSkipped).Inc()
			return nil
		}
		log.Error("load export source failed", slog.Any("error", err))
		return err
	}

	log = log.With(slog.String("resume_id", export.ResumeID))

	// failCode 随阶段推进更新，重试耗尽时随错误通知下发。
	var failCode int
	defer func() {
		if retErr != nil {
			metrics.ExportsTotal.WithLabelValues(metrics.ExportOutcomeError).Inc()
		}
		if retErr == nil || !h.finalAttempt(ctx) {
			return
		}

		reason := strings.TrimSpace(retErr.Error())
		if err := svc.FailExport(ctx, export.ID, reason); err != nil {
			log.Error("mark export failed failed", slog.Any("error", err))
		}
		notify := realtime.ExportMessage{
			Status:        realtime.StatusError,
			ExportID:      export.ID,
			ResumeID:      export.ResumeID,
			CorrelationID: payload.CorrelationID,
			ErrorCode:     failCode,
			ErrorMessage:  reason,
		}
		if err := h.notifier.PublishExport(ctx, payload.UserID, notify); err != nil {
			log.Error("publish export error notification failed", slog.Any("error", err))
		}
	}()

	failCode = errcode.ExportRenderFailed
	doc := render.Build(aggregate)
	html, err := render.HTML(doc, export.Title)
	if err != nil {
		log.Error("render resume html failed", slog.Any("error", err))
		return err
	}

	failCode = errcode.ExportPrintFailed
	pdfBytes, err := h.renderer.Render(ctx, html)
	if err != nil {
		log.Error("print pdf failed", slog.Any("error", err))
		return err
	}

	failCode = errcode.ExportUploadFailed
	objectKey := storage.ExportObjectKey(payload.UserID, export.ResumeID, export.ID)
	size, err := h.uploader.PutPDF(ctx, objectKey, pdfBytes)
	if err != nil {
		log.Error("upload pdf to minio failed", slog.Any("error", err))
		return err
	}

	failCode = errcode.ExportRecordFailed
	snapshot, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal document snapshot: %w", err)
	}
	if err := svc.CompleteExport(ctx, export.ID, objectKey, size, snapshot); err != nil {
		log.Error("record export failed", slog.Any("error", err))
		return err
	}
	metrics.ExportBytes.Observe(float64(size))
	metrics.ExportsTotal.WithLabelValues(metrics.ExportOutcomeCompleted).Inc()

	notify := realtime.ExportMessage{
		Status:        realtime.StatusCompleted,
		ExportID:      export.ID,
		ResumeID:      export.ResumeID,
		CorrelationID: payload.CorrelationID,
		ErrorCode:     errcode.OK,
	}
	// 导出记录已落库，客户端仍可轮询，推送失败不重试。
	if err := h.notifier.PublishExport(ctx, payload.UserID, notify); err != nil {
		log.Error("publish export notification failed", slog.Any("error", err))
	}

	log.Info("resume export task completed", slog.Int64("size_bytes", size))
	return nil
}

func isFinalAsynqAttempt(ctx context.Context) bool {
	retryCount, ok1 := asynq.GetRetryCount(ctx)
	maxRetry, ok2 := asynq.GetMaxRetry(ctx)
	if !ok1 || !ok2 {
		return false
	}
	return retryCount >= maxRetry
}
