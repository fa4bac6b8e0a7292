package http

import (
	"github.com/nats-io/nats.go"

	"github.com/gatherly/api/internal/adapters/postgres"
	"github.com/gatherly/api/internal/adapters/valkey"
	"github.com/gatherly/api/internal/core/usecases"
	"github.com/gatherly/api/internal/pkg/config"
)

// Dependencies holds all services needed by HTTP handlers.
type Dependencies struct {
	Activities *usecases.ActivityService
	Attendance *usecases.AttendanceService
	Reviews    *usecases.ReviewService
	Users      *usecases.UserService
	NATS       *nats.Conn
	DB         *postgres.DB
	Cache      *valkey.Cache
	Search     config.SearchConfig
}
