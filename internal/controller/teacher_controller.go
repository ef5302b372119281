package controller

import (
	"quizbank_backend/internal/repository"
	"quizbank_backend/internal/service"
	"quizbank_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type TeacherController struct {
	teacherSvc *service.TeacherService
}

func NewTeacherController(teacherSvc *service.TeacherService) *TeacherController {
	return &TeacherController{teacherSvc: teacherSvc}
}

// Create godoc
// @Summary Create a teacher account with profile
// @Tags teachers
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body service.CreateTeacherInput true "teacher data"
// @Success 201 {object} util.Response
// @Failure 409 {object} util.Response
// @Router /teachers [post]
func (ctl *TeacherController) Create(c *gin.Context) {
	auth, ok := authFromContext(c)
	if !ok {
		util.Unauthorized(c, "authentication required")
		return
	}

	var input service.CreateTeacherInput
	if err := c.ShouldBindJSON(&input); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	profile, err := ctl.teacherSvc.Create(auth, input)
	if err != nil {
		respondServiceError(c, "create teacher", err)
		return
	}
	util.Created(c, profile)
}

// List godoc
// @Summary List teachers
// @Tags teachers
// @Produce json
// @Security ApiKeyAuth
// @Param page query int false "page number"
// @Param search query string false "search in name, email and employee ID"
// @Param department_id query int false "filter by department"
// @Param active query bool false "only active teachers"
// @Success 200 {object} util.Response
// @Router /teachers [get]
func (ctl *TeacherController) List(c *gin.Context) {
	filter := repository.TeacherFilter{
		Search:     c.Query("search"),
		ActiveOnly: c.Query("active") == "true",
	}
	if v := c.Query("department_id"); v != "" {
		id, err := util.ParseUint(v)
		if err != nil {
			util.BadRequest(c, "invalid department_id")
			return
		}
		filter.DepartmentID = id
	}

	page := util.ParsePage(c.Query("page"))
	profiles, total, err := ctl.teacherSvc.List(filter, page)
	if err != nil {
		respondServiceError(c, "list teachers", err)
		return
	}
	util.Success(c, util.NewPagedData(profiles, total, page, util.TeacherPageSize))
}

// Get godoc
// @Summary Get one teacher profile
// @Tags teachers
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "teacher profile ID"
// @Success 200 {object} util.Response
// @Router /teachers/{id} [get]
func (ctl *TeacherController) Get(c *gin.Context) {
	id, err := util.ParseUint(c.Param("id"))
	if err != nil {
		util.BadRequest(c, "invalid id")
		return
	}

	profile, err := ctl.teacherSvc.Get(id)
	if err != nil {
		respondServiceError(c, "get teacher", err)
		return
	}
	util.Success(c, profile)
}

// Update godoc
// @Summary Update a teacher profile
// @Tags teachers
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "teacher profile ID"
// @Param request body service.UpdateTeacherInput true "teacher data"
// @Success 200 {object} util.Response
// @Router /teachers/{id} [put]
func (ctl *TeacherController) Update(c *gin.Context) {
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

	var input service.UpdateTeacherInput
	if err := c.ShouldBindJSON(&input); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	profile, err := ctl.teacherSvc.Update(auth, id, input)
	if err != nil {
		respondServiceError(c, "update teacher", err)
		return
	}
	util.Success(c, profile)
}

// Delete godoc
// @Summary Delete a teacher account
// @Tags teachers
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "teacher profile ID"
// @Success 200 {object} util.Response
// @Router /teachers/{id} [delete]
func (ctl *TeacherController) Delete(c *gin.Context) {
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

	if err := ctl.teacherSvc.Delete(auth, id); err != nil {
		respondServiceError(c, "delete teacher", err)
		return
	}
	util.SuccessWithMessage(c, "teacher deleted", nil)
}
