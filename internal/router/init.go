package router

import (
	appuser "github.com/avandra/account-service/internal/application"
	"github.com/avandra/account-service/internal/container"
	pginfra "github.com/avandra/account-service/internal/infrastructure/postgres"
	handlers "github.com/avandra/account-service/internal/interface/http"
	"github.com/avandra/account-service/internal/router/modules"
)

func buildUserModule() *modules.Module {
	repo := pginfra.NewUserRepository(container.GetPGPool())

	// Avoid a typed-nil publisher ending up inside the interface.
	var jobs appuser.Publisher
	if p := container.GetRabbitPub(); p != nil {
		jobs = p
	}

	service := appuser.NewService(
		repo,
		container.GetJWT(),
		container.GetGCS(),
		container.GetConfig().GCSBucket,
		container.GetRedis(),
		container.GetLogger(),
		container.GetES(),
		container.GetConfig().ESUsersIndex,
		jobs,
	)

	handler := handlers.NewUserHandler(
		service,
		container.GetLogger(),
		container.GetConfig().CookieDomain,
		container.GetConfig().CookieSecure,
	)

	return modules.New(handler, container.GetJWT())
}

// InitModules wires all feature modules into the registry.
// Called once during startup.
func InitModules(r *Registry) {
	r.Add(buildUserModule())
}
