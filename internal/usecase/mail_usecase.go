package usecase

import (
	"context"
	"errors"

	"blogauth/internal/domain/service"
)

var (
	// ErrUnknownMailType is returned for events the dispatcher cannot render.
	ErrUnknownMailType = errors.New("unknown auth mail type")
	// ErrInvalidMailEvent is returned for events missing a recipient or token.
	ErrInvalidMailEvent = errors.New("invalid auth mail event")
)

// MailDispatchUsecase turns auth mail events into delivered mail.
type MailDispatchUsecase interface {
	Dispatch(ctx context.Context, event *service.AuthMailEvent) error
}
