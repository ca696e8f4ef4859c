package graph

import (
	"context"
	"errors"

	"taskboard-api/domain"
	"taskboard-api/storage"
)

// The guards resolve "who is acting" and "are they allowed" before any
// domain logic runs. Ownership is never cached: every list and task
// operation re-walks the chain up to the owning board at request time.

// caller resolves the acting user from the transport-supplied id.
func (r *Resolver) caller(ctx context.Context) (domain.User, error) {
	id, ok := UserIDFrom(ctx)
	if !ok {
		return domain.User{}, errUnauthenticated()
	}
	u, err := r.Store.UserByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return domain.User{}, errUnauthenticated()
		}
		return domain.User{}, err
	}
	return u, nil
}

// activeCaller additionally rejects disabled accounts. A disabled user's
// token stays structurally valid; the status check is what locks them out.
func (r *Resolver) activeCaller(ctx context.Context) (domain.User, error) {
	u, err := r.caller(ctx)
	if err != nil {
		return domain.User{}, err
	}
	if u.Status == domain.StatusDisabled {
		return domain.User{}, errForbidden()
	}
	return u, nil
}

func (r *Resolver) adminCaller(ctx context.Context) (domain.User, error) {
	u, err := r.activeCaller(ctx)
	if err != nil {
		return domain.User{}, err
	}
	if u.Role != domain.RoleAdmin {
		return domain.User{}, errForbidden()
	}
	return u, nil
}

// ensureBoardOwner passes for the board's owner and for admins.
func ensureBoardOwner(b domain.Board, caller domain.User) error {
	if caller.Role == domain.RoleAdmin || b.OwnerID == caller.ID {
		return nil
	}
	return errForbidden()
}

// ownedBoard loads a board and verifies the caller may act on it.
func (r *Resolver) ownedBoard(ctx context.Context, boardID string, caller domain.User) (domain.Board, error) {
	b, err := r.Store.BoardByID(ctx, boardID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return domain.Board{}, errBadInput("Board not found")
		}
		return domain.Board{}, err
	}
	if err := ensureBoardOwner(b, caller); err != nil {
		return domain.Board{}, err
	}
	return b, nil
}

// ownedList walks List → Board and verifies ownership.
func (r *Resolver) ownedList(ctx context.Context, listID string, caller domain.User) (domain.List, domain.Board, error) {
	l, err := r.Store.ListByID(ctx, listID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return domain.List{}, domain.Board{}, errBadInput("List not found")
		}
		return domain.List{}, domain.Board{}, err
	}
	b, err := r.ownedBoard(ctx, l.BoardID, caller)
	if err != nil {
		return domain.List{}, domain.Board{}, err
	}
	return l, b, nil
}

// ownedTask walks Task → List → Board and verifies ownership.
func (r *Resolver) ownedTask(ctx context.Context, taskID string, caller domain.User) (domain.Task, domain.List, domain.Board, error) {
	t, err := r.Store.TaskByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return domain.Task{}, domain.List{}, domain.Board{}, errBadInput("Task not found")
		}
		return domain.Task{}, domain.List{}, domain.Board{}, err
	}
	l, b, err := r.ownedList(ctx, t.ListID, caller)
	if err != nil {
		return domain.Task{}, domain.List{}, domain.Board{}, err
	}
	return t, l, b, nil
}
