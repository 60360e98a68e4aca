package container

import (
	app "face-assess-bot/internal/application"
	"face-assess-bot/internal/domain/port"
)

type Container struct {
	UserService       *app.UserService
	AssessmentService *app.AssessmentService
}

func New(userRepo port.UserRepository, deps app.AssessmentDeps) (*Container, error) {
	userService := app.NewUserService(userRepo)
	assessmentService, err := app.NewAssessmentService(deps)
	if err != nil {
		return nil, err
	}

	return &Container{
		UserService:       userService,
		AssessmentService: assessmentService,
	}, nil
}
