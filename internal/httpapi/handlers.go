package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Peak-Offshorly/transcend-backend-services-sub000/internal/domain"
	"github.com/Peak-Offshorly/transcend-backend-services-sub000/internal/repository"
	"github.com/Peak-Offshorly/transcend-backend-services-sub000/internal/service"
)

type handlers struct {
	svcs Services
}

// writeError maps service errors onto the wire contract: 400 for validation,
// 404 for missing rows, 409 for lost races, 500 otherwise. The body always
// carries a "detail" field.
func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, repository.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrConflict):
		status = http.StatusConflict
	}
	c.JSON(status, gin.H{"detail": err.Error()})
}

func (h *handlers) registerUser(c *gin.Context) {
	var req struct {
		UserID    string `json:"user_id"`
		Email     string `json:"email"`
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
		Company   string `json:"company"`
		JobTitle  string `json:"job_title"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}
	userID, ok := requireCaller(c, req.UserID)
	if !ok {
		return
	}
	u := &domain.User{
		ID:        userID,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Company:   req.Company,
		JobTitle:  req.JobTitle,
	}
	if err := h.svcs.Users.Register(c.Request.Context(), u); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "user registered", "user_id": u.ID})
}

func (h *handlers) saveInitialAnswers(c *gin.Context) {
	var req struct {
		UserID  string                `json:"user_id"`
		Answers []service.AnswerInput `json:"answers"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}
	userID, ok := requireCaller(c, req.UserID)
	if !ok {
		return
	}
	result, err := h.svcs.Assessments.SaveInitialAnswers(c.Request.Context(), userID, req.Answers)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "answers saved", "changed": result.Changed})
}

func (h *handlers) getInitialAnswers(c *gin.Context) {
	userID, ok := requireCaller(c, c.Query("user_id"))
	if !ok {
		return
	}
	answers, err := h.svcs.Assessments.GetInitialAnswers(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"answers": answers})
}

func (h *handlers) getTopBottomFive(c *gin.Context) {
	userID, ok := requireCaller(c, c.Query("user_id"))
	if !ok {
		return
	}
	ranking, err := h.svcs.Traits.GetTopBottomFive(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, ranking)
}

func (h *handlers) saveStrengthWeakness(c *gin.Context) {
	var req struct {
		UserID            string `json:"user_id"`
		DevelopmentPlanID string `json:"development_plan_id"`
		Strength          string `json:"strength"`
		Weakness          string `json:"weakness"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}
	userID, ok := requireCaller(c, req.UserID)
	if !ok {
		return
	}
	pair, err := h.svcs.Traits.SelectTraits(c.Request.Context(), userID, req.DevelopmentPlanID, req.Strength, req.Weakness)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "traits saved", "chosen": pair})
}

func (h *handlers) getChosenTraits(c *gin.Context) {
	userID, ok := requireCaller(c, c.Query("user_id"))
	if !ok {
		return
	}
	pair, err := h.svcs.Traits.GetChosenTraits(c.Request.Context(), userID, c.Query("development_plan_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, pair)
}

func (h *handlers) saveTraitAnswers(c *gin.Context) {
	var req struct {
		UserID        string                      `json:"user_id"`
		ChosenTraitID string                      `json:"chosen_trait_id"`
		Answers       []service.ExtentAnswerInput `json:"answers"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}
	userID, ok := requireCaller(c, req.UserID)
	if !ok {
		return
	}
	if err := h.svcs.Practices.SaveTraitAnswers(c.Request.Context(), userID, req.ChosenTraitID, req.Answers); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "trait answers saved"})
}

func (h *handlers) getTraitPractices(c *gin.Context) {
	userID, ok := requireCaller(c, c.Query("user_id"))
	if !ok {
		return
	}
	practices, err := h.svcs.Practices.GetTraitPractices(c.Request.Context(), userID, c.Query("chosen_trait_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"practices": practices})
}

// saveChosenPractice serves both the strength and weakness variants of the
// route; the bound chosen trait decides which form link gets written.
func (h *handlers) saveChosenPractice(strength bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			UserID        string `json:"user_id"`
			ChosenTraitID string `json:"chosen_trait_id"`
			PracticeID    string `json:"practice_id"`
			Name          string `json:"name"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
			return
		}
		userID, ok := requireCaller(c, req.UserID)
		if !ok {
			return
		}
		saved, err := h.svcs.Practices.SaveChosenPractice(c.Request.Context(), userID, service.ChosenPracticeInput{
			ChosenTraitID: req.ChosenTraitID,
			PracticeID:    req.PracticeID,
			Name:          req.Name,
		})
		if err != nil {
			writeError(c, err)
			return
		}
		label := "weakness"
		if strength {
			label = "strength"
		}
		c.JSON(http.StatusOK, gin.H{"message": label + " practice saved", "chosen_practice_id": saved.ID})
	}
}

func (h *handlers) getCurrentSprint(c *gin.Context) {
	userID, ok := requireCaller(c, c.Query("user_id"))
	if !ok {
		return
	}
	status, err := h.svcs.Sprints.GetCurrent(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

func (h *handlers) finishSprint(c *gin.Context) {
	var req struct {
		UserID   string `json:"user_id"`
		SprintID string `json:"sprint_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}
	userID, ok := requireCaller(c, req.UserID)
	if !ok {
		return
	}
	if err := h.svcs.Sprints.Finish(c.Request.Context(), userID, req.SprintID); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "sprint finished"})
}

func (h *handlers) progressFormName(c *gin.Context) {
	userID, ok := requireCaller(c, c.Query("user_id"))
	if !ok {
		return
	}
	tt := domain.TraitType(c.Query("trait_type"))
	if tt != domain.TraitStrength && tt != domain.TraitWeakness {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "trait_type must be strength or weakness"})
		return
	}
	name, err := h.svcs.Sprints.ProgressFormName(c.Request.Context(), userID, tt)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"form_name": name})
}

func (h *handlers) getCurrentPlan(c *gin.Context) {
	userID, ok := requireCaller(c, c.Query("user_id"))
	if !ok {
		return
	}
	plan, err := h.svcs.Plans.GetOrCreate(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":         plan.ID,
		"start_date": plan.StartDate,
		"end_date":   plan.EndDate,
	})
}

func (h *handlers) colleagueSchedule(c *gin.Context) {
	userID, ok := requireCaller(c, c.Query("user_id"))
	if !ok {
		return
	}
	touchpoints, err := h.svcs.Plans.ColleagueSchedule(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, touchpoints)
}

func (h *handlers) savePendingActions(c *gin.Context) {
	var req struct {
		UserID   string   `json:"user_id"`
		Category string   `json:"category"`
		Actions  []string `json:"actions"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}
	userID, ok := requireCaller(c, req.UserID)
	if !ok {
		return
	}
	if err := h.svcs.PendingActions.Save(c.Request.Context(), userID, req.Category, req.Actions); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "pending actions saved"})
}

func (h *handlers) listPendingActions(c *gin.Context) {
	userID, ok := requireCaller(c, c.Query("user_id"))
	if !ok {
		return
	}
	actions, err := h.svcs.PendingActions.List(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"actions": actions})
}

func (h *handlers) savePersonalCategory(c *gin.Context) {
	var req struct {
		UserID            string `json:"user_id"`
		DevelopmentPlanID string `json:"development_plan_id"`
		Name              string `json:"name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}
	userID, ok := requireCaller(c, req.UserID)
	if !ok {
		return
	}
	category, err := h.svcs.PersonalPractices.SaveCategory(c.Request.Context(), userID, req.DevelopmentPlanID, req.Name)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "category saved", "category_id": category.ID})
}

func (h *handlers) getPersonalCategory(c *gin.Context) {
	userID, ok := requireCaller(c, c.Query("user_id"))
	if !ok {
		return
	}
	category, err := h.svcs.PersonalPractices.GetCategory(c.Request.Context(), userID, c.Query("development_plan_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, category)
}

func (h *handlers) saveChosenPersonal(c *gin.Context) {
	var req struct {
		UserID     string   `json:"user_id"`
		CategoryID string   `json:"category_id"`
		Practices  []string `json:"practices"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}
	userID, ok := requireCaller(c, req.UserID)
	if !ok {
		return
	}
	if err := h.svcs.PersonalPractices.SaveChosen(c.Request.Context(), userID, req.CategoryID, req.Practices); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "personal practices saved"})
}
