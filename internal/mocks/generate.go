// Package mocks holds gomock doubles for the port interfaces.
package mocks

//go:generate mockgen -destination=project_repository.go -package=mocks -mock_names=Repository=MockProjectRepository github.com/alanyang/folio/internal/port/project Repository
//go:generate mockgen -destination=register_repository.go -package=mocks -mock_names=Repository=MockRegisterRepository github.com/alanyang/folio/internal/port/register Repository
//go:generate mockgen -destination=media_store.go -package=mocks -mock_names=Store=MockMediaStore github.com/alanyang/folio/internal/port/media Store
//go:generate mockgen -destination=event_bus.go -package=mocks github.com/alanyang/folio/internal/port/eventbus EventBus
