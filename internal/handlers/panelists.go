package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"defense_panel/internal/response"
	"defense_panel/internal/storage"

	"github.com/gin-gonic/gin"
)

var ctx = context.Background()

type PanelistItem struct {
	PanelistID uint   `json:"panelist_id"`
	Name       string `json:"name"`
	Surname    string `json:"surname"`
	Department string `json:"department"`
	Expertise  string `json:"expertise"`
	Status     string `json:"status"`
}

// GetPanelistsHandler обрабатывает запрос на получение справочника преподавателей
// @Summary		Справочник преподавателей
// @Description	Возвращает список преподавателей кафедр, кэширует результат в Redis
// @Tags			panelists
// @Accept			json
// @Produce		json
// @Success		200	{array}		PanelistItem	"Список преподавателей"
// @Failure		500	{object}	response.ErrorResponse	"Ошибка сервера (DB_ERROR)"
// @Router			/panelists [get]
func GetPanelistsHandler(c *gin.Context) {
	cacheKey := "panelists_all"
	redisClient := storage.RedisClient

	// Проверка кэша: справочник меняется редко, назначения его не трогают.
	if redisClient != nil {
		cached, err := redisClient.Get(ctx, cacheKey).Result()
		if err == nil && cached != "" {
			var items []PanelistItem
			if err := json.Unmarshal([]byte(cached), &items); err == nil {
				c.JSON(http.StatusOK, items)
				return
			}
		}
	}

	panelists, err := St.ListPanelists()
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.ErrorResponse{
			Code:    "DB_ERROR",
			Message: "Ошибка загрузки справочника преподавателей",
		})
		return
	}

	items := make([]PanelistItem, 0, len(panelists))
	for _, p := range panelists {
		items = append(items, PanelistItem{
			PanelistID: p.ID,
			Name:       p.Name,
			Surname:    p.Surname,
			Department: p.Department,
			Expertise:  p.Expertise,
			Status:     p.Status,
		})
	}

	// Кэширование результата на 6 часов.
	if redisClient != nil {
		if payload, err := json.Marshal(items); err == nil {
			redisClient.Set(ctx, cacheKey, string(payload), time.Hour*6)
		}
	}

	c.JSON(http.StatusOK, items)
}
