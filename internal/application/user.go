package app

import (
	"context"
	"errors"

	"shot-coach/internal/domain/entity"
	"shot-coach/internal/domain/port"
)

// ErrBusy — у пользователя уже обрабатывается видео.
var ErrBusy = errors.New("video is still being processed")

type UserService struct {
	repo port.UserRepository
}

func NewUserService(repo port.UserRepository) *UserService {
	return &UserService{repo: repo}
}

func (s *UserService) Get(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	return s.repo.Get(ctx, userID, chatID)
}

func (s *UserService) SetState(ctx context.Context, userID, chatID int64, state entity.UserState) (*entity.User, error) {
	// Get заводит пользователя, если его ещё нет.
	if _, err := s.repo.Get(ctx, userID, chatID); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateState(ctx, userID, state); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, userID, chatID)
}

// BeginClassify ждёт видео для определения типа удара.
func (s *UserService) BeginClassify(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	return s.await(ctx, userID, chatID, entity.PendingRequest{Kind: entity.RequestClassify})
}

// BeginFeedback ждёт видео для разбора техники указанного удара.
func (s *UserService) BeginFeedback(ctx context.Context, userID, chatID int64, shotType string) (*entity.User, error) {
	return s.await(ctx, userID, chatID, entity.PendingRequest{Kind: entity.RequestFeedback, ShotType: shotType})
}

// Cancel возвращает в главное меню. Во время обработки видео — ErrBusy:
// сбросить состояние может только Finish.
func (s *UserService) Cancel(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	user, err := s.repo.Get(ctx, userID, chatID)
	if err != nil {
		return nil, err
	}
	if user.State == entity.StateProcessing {
		return user, ErrBusy
	}
	return s.SetState(ctx, userID, chatID, entity.StateMainMenu)
}

// Finish завершает обработку видео и возвращает пользователя в главное меню.
func (s *UserService) Finish(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	return s.SetState(ctx, userID, chatID, entity.StateMainMenu)
}

func (s *UserService) await(ctx context.Context, userID, chatID int64, req entity.PendingRequest) (*entity.User, error) {
	user, err := s.repo.Get(ctx, userID, chatID)
	if err != nil {
		return nil, err
	}

	if user.State == entity.StateProcessing {
		return user, ErrBusy
	}

	user.Await(req)
	if err := s.repo.Save(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}
