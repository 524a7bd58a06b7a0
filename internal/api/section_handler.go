package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"resumeforge/internal/resume"
)

// SectionHandler 负责联系方式、简介与四个集合分区的写操作。
type SectionHandler struct {
	service *resume.Service
}

// NewSectionHandler 构造 SectionHandler。
func NewSectionHandler(service *resume.Service) *SectionHandler {
	return &SectionHandler{service: service}
}

type summaryRequest struct {
	Content *string `json:"content" binding:"required"`
}

type skillRequest struct {
	Name string `json:"name" binding:"required"`
}

// UpsertContact 创建或局部更新联系方式。
func (h *SectionHandler) UpsertContact(c *gin.Context) {
	var req resume.ContactFields
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	noContent(c, h.service.UpsertContactInfo(c.Request.Context(), c.Param("id"), req))
}

// UpsertSummary 创建或覆盖个人简介。
func (h *SectionHandler) UpsertSummary(c *gin.Context) {
	var req summaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	noContent(c, h.service.UpsertSummary(c.Request.Context(), c.Param("id"), *req.Content))
}

func (h *SectionHandler) AddExperience(c *gin.Context) {
	var req resume.ExperienceFields
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	created(c)(h.service.AddExperience(c.Request.Context(), c.Param("id"), req))
}

func (h *SectionHandler) UpdateExperience(c *gin.Context) {
	var req resume.ExperienceFields
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	noContent(c, h.service.UpdateExperience(c.Request.Context(), c.Param("itemId"), c.Param("id"), req))
}

func (h *SectionHandler) DeleteExperience(c *gin.Context) {
	noContent(c, h.service.DeleteExperience(c.Request.Context(), c.Param("itemId"), c.Param("id")))
}

func (h *SectionHandler) AddEducation(c *gin.Context) {
	var req resume.EducationFields
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	created(c)(h.service.AddEducation(c.Request.Context(), c.Param("id"), req))
}

func (h *SectionHandler) UpdateEducation(c *gin.Context) {
	var req resume.EducationFields
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	noContent(c, h.service.UpdateEducation(c.Request.Context(), c.Param("itemId"), c.Param("id"), req))
}

func (h *SectionHandler) DeleteEducation(c *gin.Context) {
	noContent(c, h.service.DeleteEducation(c.Request.Context(), c.Param("itemId"), c.Param("id")))
}

func (h *SectionHandler) AddSkill(c *gin.Context) {
	var req skillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	created(c)(h.service.AddSkill(c.Request.Context(), c.Param("id"), req.Name))
}

func (h *SectionHandler) UpdateSkill(c *gin.Context) {
	var req resume.SkillFields
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	noContent(c, h.service.UpdateSkill(c.Request.Context(), c.Param("itemId"), c.Param("id"), req))
}

func (h *SectionHandler) DeleteSkill(c *gin.Context) {
	noContent(c, h.service.DeleteSkill(c.Request.Context(), c.Param("itemId"), c.Param("id")))
}

func (h *SectionHandler) AddProject(c *gin.Context) {
	var req resume.ProjectFields
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	created(c)(h.service.AddProject(c.Request.Context(), c.Param("id"), req))
}

func (h *SectionHandler) UpdateProject(c *gin.Context) {
	var req resume.ProjectFields
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	noContent(c, h.service.UpdateProject(c.Request.Context(), c.Param("itemId"), c.Param("id"), req))
}

func (h *SectionHandler) DeleteProject(c *gin.Context) {
	noContent(c, h.service.DeleteProject(c.Request.Context(), c.Param("itemId"), c.Param("id")))
}

func noContent(c *gin.Context, err error) {
	if err != nil {
		ServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func created(c *gin.Context) func(id string, err error) {
	return func(id string, err error) {
		if err != nil {
			ServiceError(c, err)
			return
		}
		c.JSON(http.StatusCreated, idResponse{ID: id})
	}
}
