package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"defense_panel/internal/response"
	"defense_panel/internal/store"
	"defense_panel/internal/ws"

	"github.com/gin-gonic/gin"
)

type AssignRequest struct {
	PanelistID uint `json:"panelist_id" binding:"required"`
}

// AssignPanelistHandler обрабатывает назначение преподавателя в комиссию
// @Summary		Назначение преподавателя в комиссию слота
// @Description	Проверяет доступность и пересечения, назначает преподавателя и уведомляет открытые вкладки
// @Tags			assignments
// @Accept			json
// @Produce		json
// @Param			id	path		string	true	"ID слота"
// @Param			assign	body		AssignRequest	true	"ID преподавателя"
// @Security		BearerAuth
// @Success		200	{object}	response.AssignmentResponse	"Успешное назначение"
// @Failure		400	{object}	response.ErrorResponse	"Ошибка валидации (INVALID_SLOT_ID, VALIDATION_ERROR, INVALID_SLOT, PANELIST_STATUS_INVALID, PANELIST_INELIGIBLE)"
// @Failure		404	{object}	response.ErrorResponse	"Слот или преподаватель не найдены (NOT_FOUND)"
// @Failure		409	{object}	response.ErrorResponse	"Пересечение назначений (SLOT_CONFLICT)"
// @Failure		500	{object}	response.ErrorResponse	"Ошибка сервера (DB_ERROR)"
// @Router			/api/slots/{id}/assign [post]
func AssignPanelistHandler(c *gin.Context) {
	slotIDStr := c.Param("id")
	slotID, err := strconv.Atoi(slotIDStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{
			Code:    "INVALID_SLOT_ID",
			Message: "Неверный идентификатор слота",
		})
		return
	}

	var req AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "Ошибка валидации данных",
			Details: err.Error(),
		})
		return
	}

	actor := c.GetUint("userID")
	a, err := Svc.Assign(actor, req.PanelistID, uint(slotID))
	if err != nil {
		writeAssignmentError(c, err)
		return
	}

	ws.HubInstance.BroadcastWSMessage(ws.WSMessage{
		EventType: "panelist_assigned",
		SlotID:    slotIDStr,
		Data: map[string]interface{}{
			"assignment_id": a.ID,
			"panelist_id":   a.PanelistID,
		},
	})

	c.JSON(http.StatusOK, response.AssignmentResponse{
		Message:      "Преподаватель назначен в комиссию",
		AssignmentID: a.ID,
		SlotID:       a.SlotID,
		PanelistID:   a.PanelistID,
	})
}

// UnassignPanelistHandler обрабатывает снятие назначения
// @Summary		Снятие преподавателя с комиссии
// @Description	Помечает назначение неактивным и уведомляет открытые вкладки
// @Tags			assignments
// @Accept			json
// @Produce		json
// @Param			id	path		string	true	"ID назначения"
// @Security		BearerAuth
// @Success		200	{object}	response.SuccessResponse	"Назначение снято"
// @Failure		400	{object}	response.ErrorResponse	"Ошибка валидации (INVALID_ASSIGNMENT_ID)"
// @Failure		404	{object}	response.ErrorResponse	"Назначение не найдено (NOT_FOUND)"
// @Failure		500	{object}	response.ErrorResponse	"Ошибка сервера (DB_ERROR)"
// @Router			/api/assignments/{id}/unassign [post]
func UnassignPanelistHandler(c *gin.Context) {
	assignmentID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{
			Code:    "INVALID_ASSIGNMENT_ID",
			Message: "Неверный идентификатор назначения",
		})
		return
	}

	actor := c.GetUint("userID")
	a, err := Svc.Unassign(actor, uint(assignmentID))
	if err != nil {
		writeAssignmentError(c, err)
		return
	}

	ws.HubInstance.BroadcastWSMessage(ws.WSMessage{
		EventType: "panelist_unassigned",
		SlotID:    strconv.Itoa(int(a.SlotID)),
		Data: map[string]interface{}{
			"assignment_id": a.ID,
			"panelist_id":   a.PanelistID,
		},
	})

	c.JSON(http.StatusOK, response.SuccessResponse{
		Message: "Назначение успешно снято",
	})
}

// EligiblePanelistsHandler возвращает кандидатов для слота
// @Summary		Кандидаты в комиссию слота
// @Description	Возвращает активных преподавателей, чья доступность целиком покрывает слот и у кого нет пересечений
// @Tags			assignments
// @Accept			json
// @Produce		json
// @Param			id	path		string	true	"ID слота"
// @Security		BearerAuth
// @Success		200	{array}		assignment.EligiblePanelist	"Список кандидатов"
// @Failure		400	{object}	response.ErrorResponse	"Ошибка валидации (INVALID_SLOT_ID, INVALID_SLOT)"
// @Failure		404	{object}	response.ErrorResponse	"Слот не найден (NOT_FOUND)"
// @Failure		500	{object}	response.ErrorResponse	"Ошибка сервера (DB_ERROR)"
// @Router			/api/slots/{id}/eligible [get]
func EligiblePanelistsHandler(c *gin.Context) {
	slotID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{
			Code:    "INVALID_SLOT_ID",
			Message: "Неверный идентификатор слота",
		})
		return
	}

	list, err := Svc.ListEligible(uint(slotID))
	if err != nil {
		writeAssignmentError(c, err)
		return
	}

	c.JSON(http.StatusOK, list)
}

type PanelMember struct {
	AssignmentID uint   `json:"assignment_id"`
	PanelistID   uint   `json:"panelist_id"`
	Name         string `json:"name"`
	Surname      string `json:"surname"`
	Department   string `json:"department"`
}

// SlotPanelHandler возвращает текущий состав комиссии слота
// @Summary		Состав комиссии слота
// @Description	Возвращает активные назначения слота с данными преподавателей
// @Tags			assignments
// @Accept			json
// @Produce		json
// @Param			id	path		string	true	"ID слота"
// @Security		BearerAuth
// @Success		200	{array}		PanelMember	"Состав комиссии"
// @Failure		400	{object}	response.ErrorResponse	"Ошибка валидации (INVALID_SLOT_ID)"
// @Failure		404	{object}	response.ErrorResponse	"Слот не найден (NOT_FOUND)"
// @Failure		500	{object}	response.ErrorResponse	"Ошибка сервера (DB_ERROR)"
// @Router			/api/slots/{id}/panel [get]
func SlotPanelHandler(c *gin.Context) {
	slotID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{
			Code:    "INVALID_SLOT_ID",
			Message: "Неверный идентификатор слота",
		})
		return
	}

	if _, err := St.GetSlot(uint(slotID)); err != nil {
		writeAssignmentError(c, err)
		return
	}

	assignments, err := St.ActiveAssignmentsBySlot(uint(slotID))
	if err != nil {
		writeAssignmentError(c, err)
		return
	}

	members := make([]PanelMember, 0, len(assignments))
	for _, a := range assignments {
		members = append(members, PanelMember{
			AssignmentID: a.ID,
			PanelistID:   a.PanelistID,
			Name:         a.Panelist.Name,
			Surname:      a.Panelist.Surname,
			Department:   a.Panelist.Department,
		})
	}

	c.JSON(http.StatusOK, members)
}

// writeAssignmentError сопоставляет ошибки ядра с HTTP-ответами.
// Детали сбоев хранилища наружу не уходят.
func writeAssignmentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrInvalidSlot):
		c.JSON(http.StatusBadRequest, response.ErrorResponse{
			Code:    "INVALID_SLOT",
			Message: "У слота некорректное окно времени",
		})
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, response.ErrorResponse{
			Code:    "NOT_FOUND",
			Message: "Слот, преподаватель или назначение не найдены",
		})
	case errors.Is(err, store.ErrPanelistStatusInvalid):
		c.JSON(http.StatusBadRequest, response.ErrorResponse{
			Code:    "PANELIST_STATUS_INVALID",
			Message: "Преподаватель не активен",
		})
	case errors.Is(err, store.ErrPanelistIneligible):
		c.JSON(http.StatusBadRequest, response.ErrorResponse{
			Code:    "PANELIST_INELIGIBLE",
			Message: "Доступность преподавателя не покрывает слот",
		})
	case errors.Is(err, store.ErrSlotConflict):
		c.JSON(http.StatusConflict, response.ErrorResponse{
			Code:    "SLOT_CONFLICT",
			Message: "Пересечение с другим назначением преподавателя",
		})
	default:
		c.JSON(http.StatusInternalServerError, response.ErrorResponse{
			Code:    "DB_ERROR",
			Message: "Ошибка сервера, попробуйте позже",
		})
	}
}
