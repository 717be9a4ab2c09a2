package main

import (
	"fmt"
	"log"
	"os"

	_ "defense_panel/docs"
	"defense_panel/internal/assignment"
	"defense_panel/internal/auth"
	"defense_panel/internal/dispatch"
	"defense_panel/internal/handlers"
	"defense_panel/internal/models"
	"defense_panel/internal/storage"
	"defense_panel/internal/store"
	"defense_panel/internal/tasks"
	"defense_panel/internal/ws"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @Title						Назначение комиссий на защиты ВКР
// @securityDefinitions.apikey	BearerAuth
// @in							header
// @name						Authorization
func main() {
	key := os.Getenv("ENV_CHEK")
	if key == "" {
		fmt.Println("Подключение к .env")
		err := godotenv.Load()
		if err != nil {
			log.Fatal("Ошибка получения .env")
		}
	}

	storage.ConnectDatabase()

	if err := storage.DB.AutoMigrate(
		&models.User{},
		&models.Panelist{},
		&models.AvailabilityWindow{},
		&models.DefenseGroup{},
		&models.ScheduleSlot{},
		&models.Assignment{},
	); err != nil {
		log.Fatal("Ошибка при миграции... ", err.Error())
	}

	storage.InitRedis()

	st := store.NewGormStore(storage.DB)
	dispatcher := dispatch.NewDispatcher(dispatch.LogNotifier{}, dispatch.LogAudit{})
	go dispatcher.Run()

	svc := assignment.NewService(st, dispatcher)
	handlers.Setup(st, svc)

	tasks.InitScheduler(st, dispatcher)

	go ws.HubInstance.Run()

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	authGroup := r.Group("/auth")
	{
		authGroup.POST("/login", handlers.Login)
		authGroup.POST("/register", handlers.Register)
		authGroup.POST("/refresh", handlers.RefreshToken)
	}

	apiGroup := r.Group("")
	{
		apiGroup.GET("/panelists", handlers.GetPanelistsHandler)
		apiGroup.GET("/slots", handlers.GetSlotsHandler)
	}

	slots := r.Group("/api", auth.AuthMiddleware())
	{
		slots.GET("/slots/:id/eligible", handlers.EligiblePanelistsHandler)
		slots.GET("/slots/:id/panel", handlers.SlotPanelHandler)
		slots.POST("/slots/:id/assign", handlers.AssignPanelistHandler)
		slots.POST("/assignments/:id/unassign", handlers.UnassignPanelistHandler)
	}

	r.GET("/api/slots/:id/ws", ws.SlotWebSocketHandler)

	if err := r.Run(":8080"); err != nil {
		log.Fatal("Ошибка запуска сервера...", err.Error())
	}
}
