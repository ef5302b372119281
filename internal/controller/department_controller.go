package controller

import (
	"quizbank_backend/internal/service"
	"quizbank_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type DepartmentController struct {
	catalogSvc *service.CatalogService
}

func NewDepartmentController(catalogSvc *service.CatalogService) *DepartmentController {
	return &DepartmentController{catalogSvc: catalogSvc}
}

// Create godoc
// @Summary Create a department
// @Tags departments
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body service.DepartmentInput true "department data"
// @Success 201 {object} util.Response
// @Failure 409 {object} util.Response
// @Router /departments [post]
func (ctl *DepartmentController) Create(c *gin.Context) {
	auth, ok := authFromContext(c)
	if !ok {
		util.Unauthorized(c, "authentication required")
		return
	}

	var input service.DepartmentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	dept, err := ctl.catalogSvc.CreateDepartment(auth, input)
	if err != nil {
		respondServiceError(c, "create department", err)
		return
	}
	util.Created(c, dept)
}

// List godoc
// @Summary List departments
// @Tags departments
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /departments [get]
func (ctl *DepartmentController) List(c *gin.Context) {
	depts, err := ctl.catalogSvc.ListDepartments()
	if err != nil {
		respondServiceError(c, "list departments", err)
		return
	}
	util.Success(c, depts)
}

// Get godoc
// @Summary Get one department with its subjects
// @Tags departments
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "department ID"
// @Success 200 {object} util.Response
// @Router /departments/{id} [get]
func (ctl *DepartmentController) Get(c *gin.Context) {
	id, err := util.ParseUint(c.Param("id"))
	if err != nil {
		util.BadRequest(c, "invalid id")
		return
	}

	dept, err := ctl.catalogSvc.GetDepartment(id)
	if err != nil {
		respondServiceError(c, "get department", err)
		return
	}
	util.Success(c, dept)
}

// Subjects godoc
// @Summary List subjects assigned to a department
// @Tags departments
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "department ID"
// @Success 200 {object} util.Response
// @Router /departments/{id}/subjects [get]
func (ctl *DepartmentController) Subjects(c *gin.Context) {
	id, err := util.ParseUint(c.Param("id"))
	if err != nil {
		util.BadRequest(c, "invalid id")
		return
	}

	subjects, err := ctl.catalogSvc.SubjectsByDepartment(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, "list department subjects", err)
		return
	}
	util.Success(c, subjects)
}

// Update godoc
// @Summary Update a department
// @Tags departments
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "department ID"
// @Param request body service.DepartmentInput true "department data"
// @Success 200 {object} util.Response
// @Router /departments/{id} [put]
func (ctl *DepartmentController) Update(c *gin.Context) {
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

	var input service.DepartmentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	dept, err := ctl.catalogSvc.UpdateDepartment(auth, id, input)
	if err != nil {
		respondServiceError(c, "update department", err)
		return
	}
	util.Success(c, dept)
}

// Delete godoc
// @Summary Delete a department
// @Description Fails with 409 while teachers or questionnaires still reference it.
// @Tags departments
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "department ID"
// @Success 200 {object} util.Response
// @Failure 409 {object} util.Response
// @Router /departments/{id} [delete]
func (ctl *DepartmentController) Delete(c *gin.Context) {
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

	if err := ctl.catalogSvc.DeleteDepartment(auth, id); err != nil {
		respondServiceError(c, "delete department", err)
		return
	}
	util.SuccessWithMessage(c, "department deleted", nil)
}
