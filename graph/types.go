package graph

import (
	"context"

	log "github.com/sirupsen/logrus"

	"taskboard-api/domain"
	"taskboard-api/pubsub"
)

// Storage abstracts persistence for resolvers.
type Storage interface {
	CreateUser(ctx context.Context, u domain.User) (domain.User, error)
	UserByID(ctx context.Context, id string) (domain.User, error)
	UserByEmail(ctx context.Context, email string) (domain.User, error)
	Users(ctx context.Context) ([]domain.User, error)
	SaveUser(ctx context.Context, u domain.User) error

	CreateBoard(ctx context.Context, b domain.Board) (domain.Board, error)
	BoardByID(ctx context.Context, id string) (domain.Board, error)
	BoardsByOwner(ctx context.Context, ownerID string) ([]domain.Board, error)
	Boards(ctx context.Context) ([]domain.Board, error)
	SaveBoard(ctx context.Context, b domain.Board) error

	CreateList(ctx context.Context, l domain.List) (domain.List, error)
	ListByID(ctx context.Context, id string) (domain.List, error)
	ListsByBoard(ctx context.Context, boardID string, includeArchived bool) ([]domain.List, error)
	SaveList(ctx context.Context, l domain.List) error

	CreateTask(ctx context.Context, t domain.Task) (domain.Task, error)
	TaskByID(ctx context.Context, id string) (domain.Task, error)
	TasksByList(ctx context.Context, listID string) ([]domain.Task, error)
	SaveTask(ctx context.Context, t domain.Task) error
	DeleteTask(ctx context.Context, id string) error
	DeleteTasksByList(ctx context.Context, listID string) ([]domain.Task, error)
}

// TokenIssuer creates session tokens for register and login.
type TokenIssuer interface {
	IssueToken(userID string) (string, error)
}

// Resolver carries the dependencies shared by every resolver. The event bus
// is injected here rather than being package state so tests and multiple
// schemas can own their own instance.
type Resolver struct {
	Store  Storage
	Bus    *pubsub.Bus
	Tokens TokenIssuer
	Log    *log.Logger
}

type ctxKey int

const userIDKey ctxKey = 0

// WithUserID attaches the authenticated user id resolved by the transport to
// the request context. An empty id marks an anonymous request.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserIDFrom extracts the transport-resolved user id, if any.
func UserIDFrom(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}
