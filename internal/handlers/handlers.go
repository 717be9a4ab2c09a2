package handlers

import (
	"defense_panel/internal/assignment"
	"defense_panel/internal/store"
)

var (
	// St — хранилище, через которое ходят все обработчики.
	St store.Store
	// Svc — сервис назначений.
	Svc *assignment.Service
)

// Setup связывает обработчики с хранилищем и сервисом назначений.
// Вызывается из main и из тестовых серверов.
func Setup(st store.Store, svc *assignment.Service) {
	St = st
	Svc = svc
}
