package controller

import (
	"fmt"
	"io"
	"mime"
	"path/filepath"

	"quizbank_backend/internal/model"
	"quizbank_backend/internal/repository"
	"quizbank_backend/internal/service"
	"quizbank_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type QuestionnaireController struct {
	questionnaireSvc *service.QuestionnaireService
}

func NewQuestionnaireController(questionnaireSvc *service.QuestionnaireService) *QuestionnaireController {
	return &QuestionnaireController{questionnaireSvc: questionnaireSvc}
}

// Upload godoc
// @Summary Upload a questionnaire document
// @Description Stores the file and, unless auto_extract=false, immediately runs question extraction for the selected question types. A failed extraction does not fail the upload.
// @Tags questionnaires
// @Accept multipart/form-data
// @Produce json
// @Security ApiKeyAuth
// @Param file formData file true "questionnaire document (pdf, doc, docx, txt, xls, xlsx)"
// @Param title formData string true "title"
// @Param description formData string false "description"
// @Param department_id formData int true "department ID"
// @Param subject_id formData int true "subject ID"
// @Param question_type_ids formData []int false "question type IDs to extract (default all)"
// @Param auto_extract formData bool false "run extraction after upload (default true)"
// @Success 201 {object} util.Response
// @Failure 400 {object} util.Response
// @Failure 413 {object} util.Response
// @Router /questionnaires [post]
func (ctl *QuestionnaireController) Upload(c *gin.Context) {
	auth, ok := authFromContext(c)
	if !ok {
		util.Unauthorized(c, "authentication required")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		util.BadRequest(c, "file is required")
		return
	}

	title := c.PostForm("title")
	if title == "" {
		util.BadRequest(c, "title is required")
		return
	}
	departmentID, err := util.ParseUint(c.PostForm("department_id"))
	if err != nil {
		util.BadRequest(c, "invalid department_id")
		return
	}
	subjectID, err := util.ParseUint(c.PostForm("subject_id"))
	if err != nil {
		util.BadRequest(c, "invalid subject_id")
		return
	}

	var typeIDs []uint
	for _, raw := range c.PostFormArray("question_type_ids") {
		id, err := util.ParseUint(raw)
		if err != nil {
			util.BadRequest(c, "invalid question_type_ids")
			return
		}
		typeIDs = append(typeIDs, id)
	}

	file, err := fileHeader.Open()
	if err != nil {
		util.LogInternalError(c, "open upload", err)
		return
	}
	defer file.Close()

	result, err := ctl.questionnaireSvc.Upload(c.Request.Context(), auth, service.UploadInput{
		Title:           title,
		Description:     c.PostForm("description"),
		DepartmentID:    departmentID,
		SubjectID:       subjectID,
		FileName:        fileHeader.Filename,
		FileSize:        fileHeader.Size,
		ContentType:     fileHeader.Header.Get("Content-Type"),
		File:            file,
		QuestionTypeIDs: typeIDs,
		AutoExtract:     c.DefaultPostForm("auto_extract", "true") != "false",
	})
	if err != nil {
		respondServiceError(c, "upload questionnaire", err)
		return
	}
	util.Created(c, result)
}

// List godoc
// @Summary List questionnaires
// @Description Teachers see their own uploads; admins see everything.
// @Tags questionnaires
// @Produce json
// @Security ApiKeyAuth
// @Param page query int false "page number"
// @Param search query string false "search in title, description and file name"
// @Param department_id query int false "filter by department"
// @Param subject_id query int false "filter by subject"
// @Param status query string false "filter by extraction status"
// @Success 200 {object} util.Response
// @Router /questionnaires [get]
func (ctl *QuestionnaireController) List(c *gin.Context) {
	auth, ok := authFromContext(c)
	if !ok {
		util.Unauthorized(c, "authentication required")
		return
	}

	filter := repository.QuestionnaireFilter{
		Search: c.Query("search"),
		Status: model.ExtractionStatus(c.Query("status")),
	}
	if v := c.Query("department_id"); v != "" {
		id, err := util.ParseUint(v)
		if err != nil {
			util.BadRequest(c, "invalid department_id")
			return
		}
		filter.DepartmentID = id
	}
	if v := c.Query("subject_id"); v != "" {
		id, err := util.ParseUint(v)
		if err != nil {
			util.BadRequest(c, "invalid subject_id")
			return
		}
		filter.SubjectID = id
	}

	page := util.ParsePage(c.Query("page"))
	items, total, err := ctl.questionnaireSvc.List(auth, filter, page)
	if err != nil {
		respondServiceError(c, "list questionnaires", err)
		return
	}
	util.Success(c, util.NewPagedData(items, total, page, util.QuestionnairePageSize))
}

// Browse godoc
// @Summary Browse the shared questionnaire catalog
// @Description Lists every teacher's uploads, newest first, for any authenticated user.
// @Tags questionnaires
// @Produce json
// @Security ApiKeyAuth
// @Param page query int false "page number"
// @Param search query string false "search in title, description and file name"
// @Param department_id query int false "filter by department"
// @Param subject_id query int false "filter by subject"
// @Success 200 {object} util.Response
// @Router /questionnaires/browse [get]
func (ctl *QuestionnaireController) Browse(c *gin.Context) {
	filter := repository.QuestionnaireFilter{
		Search: c.Query("search"),
	}
	if v := c.Query("department_id"); v != "" {
		id, err := util.ParseUint(v)
		if err != nil {
			util.BadRequest(c, "invalid department_id")
			return
		}
		filter.DepartmentID = id
	}
	if v := c.Query("subject_id"); v != "" {
		id, err := util.ParseUint(v)
		if err != nil {
			util.BadRequest(c, "invalid subject_id")
			return
		}
		filter.SubjectID = id
	}

	page := util.ParsePage(c.Query("page"))
	items, total, err := ctl.questionnaireSvc.Browse(filter, page)
	if err != nil {
		respondServiceError(c, "browse questionnaires", err)
		return
	}
	util.Success(c, util.NewPagedData(items, total, page, util.BrowsePageSize))
}

// Get godoc
// @Summary Get one questionnaire
// @Tags questionnaires
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "questionnaire ID"
// @Success 200 {object} util.Response
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /questionnaires/{id} [get]
func (ctl *QuestionnaireController) Get(c *gin.Context) {
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

	q, err := ctl.questionnaireSvc.Get(auth, id)
	if err != nil {
		respondServiceError(c, "get questionnaire", err)
		return
	}
	util.Success(c, q)
}

// Update godoc
// @Summary Update questionnaire metadata
// @Tags questionnaires
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "questionnaire ID"
// @Param request body service.UpdateQuestionnaireInput true "metadata"
// @Success 200 {object} util.Response
// @Router /questionnaires/{id} [put]
func (ctl *QuestionnaireController) Update(c *gin.Context) {
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

	var input service.UpdateQuestionnaireInput
	if err := c.ShouldBindJSON(&input); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	q, err := ctl.questionnaireSvc.Update(auth, id, input)
	if err != nil {
		respondServiceError(c, "update questionnaire", err)
		return
	}
	util.Success(c, q)
}

// Delete godoc
// @Summary Delete a questionnaire
// @Tags questionnaires
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "questionnaire ID"
// @Success 200 {object} util.Response
// @Router /questionnaires/{id} [delete]
func (ctl *QuestionnaireController) Delete(c *gin.Context) {
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

	if err := ctl.questionnaireSvc.Delete(c.Request.Context(), auth, id); err != nil {
		respondServiceError(c, "delete questionnaire", err)
		return
	}
	util.SuccessWithMessage(c, "questionnaire deleted", nil)
}

// Download godoc
// @Summary Download the original document
// @Tags questionnaires
// @Produce octet-stream
// @Security ApiKeyAuth
// @Param id path int true "questionnaire ID"
// @Success 200 {file} binary
// @Router /questionnaires/{id}/download [get]
func (ctl *QuestionnaireController) Download(c *gin.Context) {
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

	q, file, err := ctl.questionnaireSvc.Download(c.Request.Context(), auth, id, c.ClientIP())
	if err != nil {
		respondServiceError(c, "download questionnaire", err)
		return
	}
	defer file.Close()

	contentType := mime.TypeByExtension(filepath.Ext(q.OriginalName))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", q.OriginalName))
	c.Header("Content-Type", contentType)
	if q.FileSize > 0 {
		c.Header("Content-Length", fmt.Sprintf("%d", q.FileSize))
	}
	if _, err := io.Copy(c.Writer, file); err != nil {
		// Headers are already written; just note the broken transfer.
		c.Abort()
	}
}

// Questions godoc
// @Summary List extracted questions of a questionnaire
// @Tags questionnaires
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "questionnaire ID"
// @Success 200 {object} util.Response
// @Router /questionnaires/{id}/questions [get]
func (ctl *QuestionnaireController) Questions(c *gin.Context) {
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

	questions, err := ctl.questionnaireSvc.Questions(auth, id)
	if err != nil {
		respondServiceError(c, "list questions", err)
		return
	}
	util.Success(c, questions)
}

// ApproveAll godoc
// @Summary Approve every extracted question of a questionnaire
// @Tags questionnaires
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "questionnaire ID"
// @Success 200 {object} util.Response
// @Router /questionnaires/{id}/questions/approve-all [post]
func (ctl *QuestionnaireController) ApproveAll(c *gin.Context) {
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

	approved, err := ctl.questionnaireSvc.ApproveAll(auth, id)
	if err != nil {
		respondServiceError(c, "approve questions", err)
		return
	}
	util.Success(c, gin.H{"approved": approved})
}

// UpdateQuestion godoc
// @Summary Edit one extracted question
// @Tags questionnaires
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "questionnaire ID"
// @Param questionId path int true "question ID"
// @Param request body service.UpdateQuestionInput true "question data"
// @Success 200 {object} util.Response
// @Router /questionnaires/{id}/questions/{questionId} [put]
func (ctl *QuestionnaireController) UpdateQuestion(c *gin.Context) {
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
	questionID, err := util.ParseUint(c.Param("questionId"))
	if err != nil {
		util.BadRequest(c, "invalid question id")
		return
	}

	var input service.UpdateQuestionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	question, err := ctl.questionnaireSvc.UpdateQuestion(auth, id, questionID, input)
	if err != nil {
		respondServiceError(c, "update question", err)
		return
	}
	util.Success(c, question)
}

// DeleteQuestion godoc
// @Summary Delete one extracted question
// @Tags questionnaires
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "questionnaire ID"
// @Param questionId path int true "question ID"
// @Success 200 {object} util.Response
// @Router /questionnaires/{id}/questions/{questionId} [delete]
func (ctl *QuestionnaireController) DeleteQuestion(c *gin.Context) {
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
	questionID, err := util.ParseUint(c.Param("questionId"))
	if err != nil {
		util.BadRequest(c, "invalid question id")
		return
	}

	if err := ctl.questionnaireSvc.DeleteQuestion(auth, id, questionID); err != nil {
		respondServiceError(c, "delete question", err)
		return
	}
	util.SuccessWithMessage(c, "question deleted", nil)
}

// RetryExtraction godoc
// @Summary Re-run question extraction for a questionnaire
// @Description Replaces all previously extracted questions. An optional body selects the question types to extract; omitted means all types.
// @Tags questionnaires
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "questionnaire ID"
// @Success 200 {object} util.Response
// @Failure 409 {object} util.Response
// @Router /questionnaires/{id}/retry-extraction [post]
func (ctl *QuestionnaireController) RetryExtraction(c *gin.Context) {
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

	var body struct {
		QuestionTypeIDs []uint `json:"question_type_ids"`
	}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&body); err != nil {
			util.BadRequest(c, "invalid request body")
			return
		}
	}

	result, err := ctl.questionnaireSvc.RetryExtraction(c.Request.Context(), auth, id, body.QuestionTypeIDs)
	if err != nil {
		respondServiceError(c, "retry extraction", err)
		return
	}
	util.Success(c, result)
}

// QuestionTypes godoc
// @Summary List the available question types
// @Tags questionnaires
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /question-types [get]
func (ctl *QuestionnaireController) QuestionTypes(c *gin.Context) {
	types, err := ctl.questionnaireSvc.QuestionTypes()
	if err != nil {
		respondServiceError(c, "list question types", err)
		return
	}
	util.Success(c, types)
}
