package handlers

import (
	"net/http"
	"time"

	"defense_panel/internal/response"

	"github.com/gin-gonic/gin"
)

type SlotItem struct {
	SlotID        uint   `json:"slot_id"`
	Title         string `json:"title"`
	Date          string `json:"date"`
	StartTime     string `json:"start_time"`
	EndTime       string `json:"end_time"`
	GroupID       *uint  `json:"group_id,omitempty"`
	AssignedCount int    `json:"assigned_count"`
}

// GetSlotsHandler возвращает расписание защит
// @Summary		Список слотов защит
// @Description	Возвращает все слоты защит с числом назначенных членов комиссии
// @Tags			slots
// @Accept			json
// @Produce		json
// @Success		200	{array}		SlotItem	"Список слотов"
// @Failure		500	{object}	response.ErrorResponse	"Ошибка сервера (DB_ERROR)"
// @Router			/slots [get]
func GetSlotsHandler(c *gin.Context) {
	slots, err := St.ListSlots()
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.ErrorResponse{
			Code:    "DB_ERROR",
			Message: "Ошибка загрузки расписания защит",
		})
		return
	}

	items := make([]SlotItem, 0, len(slots))
	for _, s := range slots {
		items = append(items, SlotItem{
			SlotID:        s.ID,
			Title:         s.Title,
			Date:          s.Date.Format(time.DateOnly),
			StartTime:     s.StartTime,
			EndTime:       s.EndTime,
			GroupID:       s.GroupID,
			AssignedCount: s.AssignedCount,
		})
	}

	c.JSON(http.StatusOK, items)
}
