package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"resumeforge/internal/api/middleware"
	"resumeforge/internal/render"
	"resumeforge/internal/resume"
	"resumeforge/internal/storage"
)

// ObjectRemover 删除简历的导出产物。
type ObjectRemover interface {
	DeletePrefix(ctx context.Context, prefix string) error
}

// ResumeHandler 负责简历本身的增删改查、复制与预览。
type ResumeHandler struct {
	service *resume.Service
	objects ObjectRemover
}

// NewResumeHandler 构造 ResumeHandler。objects 可为 nil。
func NewResumeHandler(service *resume.Service, objects ObjectRemover) *ResumeHandler {
	return &ResumeHandler{service: service, objects: objects}
}

type idResponse struct {
	ID string `json:"id"`
}

type renameRequest struct {
	Title string `json:"title" binding:"required"`
}

// CreateResume 新建空白简历。
func (h *ResumeHandler) CreateResume(c *gin.Context) {
	id, err := h.service.CreateResume(c.Request.Context())
	if err != nil {
		ServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, idResponse{ID: id})
}

// ListResumes 列出当前用户的简历。
func (h *ResumeHandler) ListResumes(c *gin.Context) {
	items, err := h.service.ListResumes(c.Request.Context())
	if err != nil {
		ServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"resumes": items})
}

// GetResume 返回完整的简历聚合。
func (h *ResumeHandler) GetResume(c *gin.Context) {
	aggregate, err := h.service.GetResumeAggregate(c.Request.Context(), c.Param("id"))
	if err != nil {
		ServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, aggregate)
}

// RenameResume 修改标题。
func (h *ResumeHandler) RenameResume(c *gin.Context) {
	var req renameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	if err := h.service.RenameResume(c.Request.Context(), c.Param("id"), req.Title); err != nil {
		ServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DeleteResume 删除简历，并尽力清理已导出的 PDF。
func (h *ResumeHandler) DeleteResume(c *gin.Context) {
	ctx := c.Request.Context()
	resumeID := c.Param("id")
	if err := h.service.DeleteResume(ctx, resumeID); err != nil {
		ServiceError(c, err)
		return
	}

	if userID, ok := middleware.UserID(c); ok && h.objects != nil {
		if err := h.objects.DeletePrefix(ctx, storage.ResumePrefix(userID, resumeID)); err != nil {
			middleware.LoggerFromContext(c).Warn("delete exported pdfs failed",
				slog.String("resume_id", resumeID),
				slog.Any("error", err),
			)
		}
	}
	c.Status(http.StatusNoContent)
}

// DuplicateResume 复制简历，返回新简历 ID。
func (h *ResumeHandler) DuplicateResume(c *gin.Context) {
	id, err := h.service.DuplicateResume(c.Request.Context(), c.Param("id"))
	if err != nil {
		ServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, idResponse{ID: id})
}

// Preview 返回渲染树 JSON。
func (h *ResumeHandler) Preview(c *gin.Context) {
	aggregate, err := h.service.GetResumeAggregate(c.Request.Context(), c.Param("id"))
	if err != nil {
		ServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, render.Build(aggregate))
}

// PreviewHTML 返回可打印页面，与 PDF 使用同一模板。
func (h *ResumeHandler) PreviewHTML(c *gin.Context) {
	aggregate, err := h.service.GetResumeAggregate(c.Request.Context(), c.Param("id"))
	if err != nil {
		ServiceError(c, err)
		return
	}
	page, err := render.HTML(render.Build(aggregate), aggregate.Title)
	if err != nil {
		ServiceError(c, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", page)
}
