package graph

import (
	"errors"

	"github.com/graphql-go/graphql"

	"taskboard-api/domain"
	"taskboard-api/storage"
)

func (r *Resolver) hello(graphql.ResolveParams) (interface{}, error) {
	return "Hello from Taskboard", nil
}

func (r *Resolver) me(p graphql.ResolveParams) (interface{}, error) {
	caller, err := r.activeCaller(p.Context)
	if err != nil {
		return nil, err
	}
	return userPayload(caller), nil
}

// boards returns the caller's non-archived boards; admins see every
// non-archived board.
func (r *Resolver) boards(p graphql.ResolveParams) (interface{}, error) {
	caller, err := r.activeCaller(p.Context)
	if err != nil {
		return nil, err
	}
	var boards []domain.Board
	if caller.Role == domain.RoleAdmin {
		boards, err = r.Store.Boards(p.Context)
	} else {
		boards, err = r.Store.BoardsByOwner(p.Context, caller.ID)
	}
	if err != nil {
		return nil, err
	}
	out := make([]interface{}, 0, len(boards))
	for _, b := range boards {
		out = append(out, boardPayload(b))
	}
	return out, nil
}

func (r *Resolver) board(p graphql.ResolveParams) (interface{}, error) {
	caller, err := r.activeCaller(p.Context)
	if err != nil {
		return nil, err
	}
	b, err := r.Store.BoardByID(p.Context, p.Args["id"].(string))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if err := ensureBoardOwner(b, caller); err != nil {
		return nil, err
	}
	return boardPayload(b), nil
}

func (r *Resolver) list(p graphql.ResolveParams) (interface{}, error) {
	caller, err := r.activeCaller(p.Context)
	if err != nil {
		return nil, err
	}
	l, err := r.Store.ListByID(p.Context, p.Args["id"].(string))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if _, err := r.ownedBoard(p.Context, l.BoardID, caller); err != nil {
		return nil, err
	}
	return listPayload(l), nil
}

func (r *Resolver) lists(p graphql.ResolveParams) (interface{}, error) {
	caller, err := r.activeCaller(p.Context)
	if err != nil {
		return nil, err
	}
	board, err := r.ownedBoard(p.Context, p.Args["boardId"].(string), caller)
	if err != nil {
		return nil, err
	}
	lists, err := r.Store.ListsByBoard(p.Context, board.ID, false)
	if err != nil {
		return nil, err
	}
	out := make([]interface{}, 0, len(lists))
	for _, l := range lists {
		out = append(out, listPayload(l))
	}
	return out, nil
}

// tasks returns the list's tasks; an archived list reads as empty.
func (r *Resolver) tasks(p graphql.ResolveParams) (interface{}, error) {
	caller, err := r.activeCaller(p.Context)
	if err != nil {
		return nil, err
	}
	l, _, err := r.ownedList(p.Context, p.Args["listId"].(string), caller)
	if err != nil {
		return nil, err
	}
	if l.IsArchived {
		return []interface{}{}, nil
	}
	tasks, err := r.Store.TasksByList(p.Context, l.ID)
	if err != nil {
		return nil, err
	}
	out := make([]interface{}, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, taskPayload(t))
	}
	return out, nil
}

func (r *Resolver) task(p graphql.ResolveParams) (interface{}, error) {
	caller, err := r.activeCaller(p.Context)
	if err != nil {
		return nil, err
	}
	t, err := r.Store.TaskByID(p.Context, p.Args["id"].(string))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if _, _, err := r.ownedList(p.Context, t.ListID, caller); err != nil {
		return nil, err
	}
	return taskPayload(t), nil
}

func (r *Resolver) users(p graphql.ResolveParams) (interface{}, error) {
	if _, err := r.adminCaller(p.Context); err != nil {
		return nil, err
	}
	users, err := r.Store.Users(p.Context)
	if err != nil {
		return nil, err
	}
	out := make([]interface{}, 0, len(users))
	for _, u := range users {
		out = append(out, userPayload(u))
	}
	return out, nil
}

func (r *Resolver) user(p graphql.ResolveParams) (interface{}, error) {
	if _, err := r.adminCaller(p.Context); err != nil {
		return nil, err
	}
	u, err := r.Store.UserByID(p.Context, p.Args["id"].(string))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return userPayload(u), nil
}
