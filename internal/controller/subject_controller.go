package controller

import (
	"quizbank_backend/internal/service"
	"quizbank_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type SubjectController struct {
	catalogSvc *service.CatalogService
}

func NewSubjectController(catalogSvc *service.CatalogService) *SubjectController {
	return &SubjectController{catalogSvc: catalogSvc}
}

// Create godoc
// @Summary Create a subject
// @Tags subjects
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body service.SubjectInput true "subject data"
// @Success 201 {object} util.Response
// @Failure 409 {object} util.Response
// @Router /subjects [post]
func (ctl *SubjectController) Create(c *gin.Context) {
	auth, ok := authFromContext(c)
	if !ok {
		util.Unauthorized(c, "authentication required")
		return
	}

	var input service.SubjectInput
	if err := c.ShouldBindJSON(&input); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	subject, err := ctl.catalogSvc.CreateSubject(auth, input)
	if err != nil {
		respondServiceError(c, "create subject", err)
		return
	}
	util.Created(c, subject)
}

// List godoc
// @Summary List subjects
// @Tags subjects
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /subjects [get]
func (ctl *SubjectController) List(c *gin.Context) {
	subjects, err := ctl.catalogSvc.ListSubjects()
	if err != nil {
		respondServiceError(c, "list subjects", err)
		return
	}
	util.Success(c, subjects)
}

// Get godoc
// @Summary Get one subject
// @Tags subjects
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "subject ID"
// @Success 200 {object} util.Response
// @Router /subjects/{id} [get]
func (ctl *SubjectController) Get(c *gin.Context) {
	id, err := util.ParseUint(c.Param("id"))
	if err != nil {
		util.BadRequest(c, "invalid id")
		return
	}

	subject, err := ctl.catalogSvc.GetSubject(id)
	if err != nil {
		respondServiceError(c, "get subject", err)
		return
	}
	util.Success(c, subject)
}

// Update godoc
// @Summary Update a subject
// @Tags subjects
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "subject ID"
// @Param request body service.SubjectInput true "subject data"
// @Success 200 {object} util.Response
// @Router /subjects/{id} [put]
func (ctl *SubjectController) Update(c *gin.Context) {
	auth, ok := authFromContext(c)
	if !ok {
		util.Unauthorized(c, "authentication required")
		return
	}
	id, err := util.ParseUint(c.Param("id"))
	if err != nil {
		util.BadRequest(c, "invalid id")
		return
	}

	var input service.SubjectInput
	if err := c.ShouldBindJSON(&input); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	subject, err := ctl.catalogSvc.UpdateSubject(auth, id, input)
	if err != nil {
		respondServiceError(c, "update subject", err)
		return
	}
	util.Success(c, subject)
}

// Delete godoc
// @Summary Delete a subject
// @Description Fails with 409 while questionnaires still reference it.
// @Tags subjects
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "subject ID"
// @Success 200 {object} util.Response
// @Failure 409 {object} util.Response
// @Router /subjects/{id} [delete]
func (ctl *SubjectController) Delete(c *gin.Context) {
	auth, ok := authFromContext(c)
	if !ok {
		util.Unauthorized(c, "authentication required")
		return
	}
	id, err := util.ParseUint(c.Param("id"))
	if err != nil {
		util.BadRequest(c, "invalid id")
		return
	}

	if err := ctl.catalogSvc.DeleteSubject(auth, id); err != nil {
		respondServiceError(c, "delete subject", err)
		return
	}
	util.SuccessWithMessage(c, "subject deleted", nil)
}
