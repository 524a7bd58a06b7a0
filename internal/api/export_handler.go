package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"

	"resumeforge/internal/api/middleware"
	"resumeforge/internal/database"
	"resumeforge/internal/resume"
	"resumeforge/internal/tasks"
)

// Enqueuer 投递异步任务，*asynq.Client 即可满足。
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// LinkSigner 为导出的 PDF 签发限时下载链接。
type LinkSigner interface {
	DownloadURL(ctx context.Context, objectKey, filename string, ttl time.Duration) (string, error)
}

// ExportHandler 负责发起 PDF 导出与查询导出状态。
type ExportHandler struct {
	service  *resume.Service
	enqueuer Enqueuer
	links    LinkSigner
	linkTTL  time.Duration
	maxRetry int
}

// NewExportHandler 构造 ExportHandler。
func NewExportHandler(service *resume.Service, enqueuer Enqueuer, links LinkSigner, linkTTL time.Duration, maxRetry int) *ExportHandler {
	return &ExportHandler{
		service:  service,
		enqueuer: enqueuer,
		links:    links,
		linkTTL:  linkTTL,
		maxRetry: maxRetry,
	}
}

type exportResponse struct {
	ID          string `json:"id"`
	ResumeID    string `json:"resume_id"`
	Status      string `json:"status"`
	SizeBytes   int64  `json:"size_bytes,omitempty"`
	Error       string `json:"error,omitempty"`
	DownloadURL string `json:"download_url,omitempty"`
	ExpiresIn   int    `json:"expires_in,omitempty"`
}

func newExportResponse(export *database.ResumeExport) exportResponse {
	return exportResponse{
		ID:        export.ID,
		ResumeID:  export.ResumeID,
		Status:    export.Status,
		SizeBytes: export.SizeBytes,
		Error:     export.Error,
	}
}

// RequestExport 登记导出并投递 resume:export 任务。
func (h *ExportHandler) RequestExport(c *gin.Context) {
	ctx := c.Request.Context()
	logger := middleware.LoggerFromContext(c)

	export, err := h.service.RequestExport(ctx, c.Param("id"))
	if err != nil {
		ServiceError(c, err)
		return
	}

	task, err := tasks.NewResumeExportTask(export.ID, export.UserID, middleware.GetCorrelationID(c))
	if err != nil {
		ServiceError(c, err)
		return
	}

	info, err := h.enqueuer.EnqueueContext(ctx, task, asynq.MaxRetry(h.maxRetry), asynq.Timeout(2*time.Minute))
	if err != nil {
		logger.Error("enqueue export task failed", slog.String("export_id", export.ID), slog.Any("error", err))
		if failErr := h.service.FailExport(ctx, export.ID, "enqueue failed"); failErr != nil {
			logger.Error("mark export failed failed", slog.Any("error", failErr))
		}
		Internal(c, "failed to enqueue export")
		return
	}

	logger.Info("export task enqueued",
		slog.String("export_id", export.ID),
		slog.String("task_id", info.ID),
		slog.String("queue", info.Queue),
	)
	c.JSON(http.StatusAccepted, newExportResponse(export))
}

// GetExport 返回导出状态；完成时附带下载链接。
func (h *ExportHandler) GetExport(c *gin.Context) {
	ctx := c.Request.Context()

	export, err := h.service.GetExport(ctx, c.Param("id"), c.Param("exportId"))
	if err != nil {
		ServiceError(c, err)
		return
	}

	resp := newExportResponse(export)
	if export.Status == database.ExportCompleted && export.ObjectKey != "" {
		url, err := h.links.DownloadURL(ctx, export.ObjectKey, downloadFilename(export.Title), h.linkTTL)
		if err != nil {
			ServiceError(c, err)
			return
		}
		resp.DownloadURL = url
		resp.ExpiresIn = int(h.linkTTL.Seconds())
	}
	c.JSON(http.StatusOK, resp)
}

func downloadFilename(title string) string {
	if title == "" {
		title = "resume"
	}
	return title + ".pdf"
}
