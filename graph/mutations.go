package graph

import (
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/graphql-go/graphql"

	"taskboard-api/auth"
	"taskboard-api/domain"
	"taskboard-api/pubsub"
	"taskboard-api/storage"
)

var avatarURLPattern = regexp.MustCompile(`^https?://`)

func (r *Resolver) register(p graphql.ResolveParams) (interface{}, error) {
	input := inputMap(p.Args)
	email, _ := field(input, "email").stringValue()
	email = strings.ToLower(strings.TrimSpace(email))
	name, _ := field(input, "name").stringValue()
	name = strings.TrimSpace(name)

	_, err := r.Store.UserByEmail(p.Context, email)
	if err == nil {
		return nil, errBadInput("Email already registered")
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}

	password, _ := field(input, "password").stringValue()
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}
	u := domain.User{
		Email:        email,
		PasswordHash: hash,
		Name:         name,
		Role:         domain.RoleUser,
		Status:       domain.StatusActive,
	}
	if avatar, ok := field(input, "avatarUrl").stringValue(); ok {
		u.AvatarURL = avatar
	}
	u, err = r.Store.CreateUser(p.Context, u)
	if err != nil {
		return nil, err
	}
	token, err := r.Tokens.IssueToken(u.ID)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{"token": token, "user": userPayload(u)}, nil
}

func (r *Resolver) login(p graphql.ResolveParams) (interface{}, error) {
	input := inputMap(p.Args)
	email, _ := field(input, "email").stringValue()
	email = strings.ToLower(strings.TrimSpace(email))
	u, err := r.Store.UserByEmail(p.Context, email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, errUnauthenticated()
		}
		return nil, err
	}
	password, _ := field(input, "password").stringValue()
	if !auth.VerifyPassword(password, u.PasswordHash) {
		return nil, errUnauthenticated()
	}
	token, err := r.Tokens.IssueToken(u.ID)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{"token": token, "user": userPayload(u)}, nil
}

func (r *Resolver) updateProfile(p graphql.ResolveParams) (interface{}, error) {
	caller, err := r.activeCaller(p.Context)
	if err != nil {
		return nil, err
	}
	input := inputMap(p.Args)
	nameField := field(input, "name")
	avatarField := field(input, "avatarUrl")
	if !nameField.provided && !avatarField.provided {
		return nil, errBadInput("Nothing to update")
	}
	if nameField.provided {
		name, ok := nameField.stringValue()
		name = strings.TrimSpace(name)
		if !ok || utf8.RuneCountInString(name) < 2 {
			return nil, errBadInput("Name must be at least 2 characters")
		}
		caller.Name = name
	}
	if avatarField.provided {
		if avatarField.isNull() {
			caller.AvatarURL = ""
		} else {
			avatar, _ := avatarField.stringValue()
			if !avatarURLPattern.MatchString(avatar) {
				return nil, errBadInput("Avatar URL must start with http:// or https://")
			}
			caller.AvatarURL = avatar
		}
	}
	if err := r.Store.SaveUser(p.Context, caller); err != nil {
		return nil, err
	}
	return userPayload(caller), nil
}

func (r *Resolver) changePassword(p graphql.ResolveParams) (interface{}, error) {
	caller, err := r.activeCaller(p.Context)
	if err != nil {
		return nil, err
	}
	input := inputMap(p.Args)
	oldPassword, _ := field(input, "oldPassword").stringValue()
	if !auth.VerifyPassword(oldPassword, caller.PasswordHash) {
		return nil, errBadInput("Old password is incorrect")
	}
	newPassword, _ := field(input, "newPassword").stringValue()
	if len(newPassword) < 6 {
		return nil, errBadInput("New password must be at least 6 characters")
	}
	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return nil, err
	}
	caller.PasswordHash = hash
	if err := r.Store.SaveUser(p.Context, caller); err != nil {
		return nil, err
	}
	return true, nil
}

// createBoard creates the board and seeds its three default lists.
func (r *Resolver) createBoard(p graphql.ResolveParams) (interface{}, error) {
	caller, err := r.activeCaller(p.Context)
	if err != nil {
		return nil, err
	}
	input := inputMap(p.Args)
	title, err := requiredTitle(input["title"])
	if err != nil {
		return nil, err
	}
	b := domain.Board{
		Title:      title,
		OwnerID:    caller.ID,
		Visibility: domain.VisibilityPrivate,
	}
	if description, ok := field(input, "description").stringValue(); ok {
		b.Description = description
	}
	if visibility, ok := field(input, "visibility").stringValue(); ok {
		b.Visibility = domain.BoardVisibility(visibility)
	}
	if cover, ok := field(input, "cover").stringValue(); ok {
		b.Cover = cover
	}
	b, err = r.Store.CreateBoard(p.Context, b)
	if err != nil {
		return nil, err
	}
	for _, l := range domain.DefaultLists(b.ID) {
		if _, err := r.Store.CreateList(p.Context, l); err != nil {
			return nil, err
		}
	}
	return boardPayload(b), nil
}

func (r *Resolver) updateBoard(p graphql.ResolveParams) (interface{}, error) {
	caller, err := r.activeCaller(p.Context)
	if err != nil {
		return nil, err
	}
	input := inputMap(p.Args)
	id, _ := field(input, "id").stringValue()
	b, err := r.ownedBoard(p.Context, id, caller)
	if err != nil {
		return nil, err
	}
	if f := field(input, "title"); f.provided {
		title, err := requiredTitle(f.value)
		if err != nil {
			return nil, err
		}
		b.Title = title
	}
	if f := field(input, "description"); f.provided {
		description, _ := f.stringValue()
		b.Description = description
	}
	if f := field(input, "visibility"); f.provided {
		visibility, ok := f.stringValue()
		if !ok {
			return nil, errBadInput("Visibility is required")
		}
		b.Visibility = domain.BoardVisibility(visibility)
	}
	if f := field(input, "cover"); f.provided {
		cover, _ := f.stringValue()
		b.Cover = cover
	}
	if f := field(input, "isArchived"); f.provided {
		archived, ok := f.boolValue()
		if !ok {
			return nil, errBadInput("isArchived must be a boolean")
		}
		b.IsArchived = archived
	}
	if err := r.Store.SaveBoard(p.Context, b); err != nil {
		return nil, err
	}
	return boardPayload(b), nil
}

// deleteBoard archives the board and its lists and hard-deletes the tasks
// beneath them. No events are emitted for the removed tasks.
func (r *Resolver) deleteBoard(p graphql.ResolveParams) (interface{}, error) {
	caller, err := r.activeCaller(p.Context)
	if err != nil {
		return nil, err
	}
	b, err := r.ownedBoard(p.Context, p.Args["id"].(string), caller)
	if err != nil {
		return nil, err
	}
	b.IsArchived = true
	if err := r.Store.SaveBoard(p.Context, b); err != nil {
		return nil, err
	}
	lists, err := r.Store.ListsByBoard(p.Context, b.ID, true)
	if err != nil {
		return nil, err
	}
	for _, l := range lists {
		l.IsArchived = true
		if err := r.Store.SaveList(p.Context, l); err != nil {
			return nil, err
		}
		if _, err := r.Store.DeleteTasksByList(p.Context, l.ID); err != nil {
			return nil, err
		}
	}
	return true, nil
}

func (r *Resolver) createList(p graphql.ResolveParams) (interface{}, error) {
	caller, err := r.activeCaller(p.Context)
	if err != nil {
		return nil, err
	}
	input := inputMap(p.Args)
	boardID, _ := field(input, "boardId").stringValue()
	b, err := r.ownedBoard(p.Context, boardID, caller)
	if err != nil {
		return nil, err
	}
	title, err := requiredTitle(input["title"])
	if err != nil {
		return nil, err
	}
	order, ok := field(input, "order").intValue()
	if !ok {
		return nil, errBadInput("Order is required")
	}
	l := domain.List{BoardID: b.ID, Title: title, Order: order}
	if color, ok := field(input, "color").stringValue(); ok {
		l.Color = color
	}
	if wipLimit, ok := field(input, "wipLimit").intValue(); ok {
		l.WIPLimit = &wipLimit
	}
	l, err = r.Store.CreateList(p.Context, l)
	if err != nil {
		return nil, err
	}
	return listPayload(l), nil
}

func (r *Resolver) updateList(p graphql.ResolveParams) (interface{}, error) {
	caller, err := r.activeCaller(p.Context)
	if err != nil {
		return nil, err
	}
	input := inputMap(p.Args)
	id, _ := field(input, "id").stringValue()
	l, _, err := r.ownedList(p.Context, id, caller)
	if err != nil {
		return nil, err
	}
	if f := field(input, "title"); f.provided {
		title, err := requiredTitle(f.value)
		if err != nil {
			return nil, err
		}
		l.Title = title
	}
	if f := field(input, "order"); f.provided {
		order, ok := f.intValue()
		if !ok {
			return nil, errBadInput("Order must be a number")
		}
		l.Order = order
	}
	if f := field(input, "color"); f.provided {
		color, _ := f.stringValue()
		l.Color = color
	}
	if f := field(input, "wipLimit"); f.provided {
		if wipLimit, ok := f.intValue(); ok {
			l.WIPLimit = &wipLimit
		} else {
			l.WIPLimit = nil
		}
	}
	if f := field(input, "isArchived"); f.provided {
		archived, ok := f.boolValue()
		if !ok {
			return nil, errBadInput("isArchived must be a boolean")
		}
		l.IsArchived = archived
	}
	if err := r.Store.SaveList(p.Context, l); err != nil {
		return nil, err
	}
	return listPayload(l), nil
}

// deleteList archives the list and hard-deletes its tasks, publishing one
// DELETED event per removed task.
func (r *Resolver) deleteList(p graphql.ResolveParams) (interface{}, error) {
	caller, err := r.activeCaller(p.Context)
	if err != nil {
		return nil, err
	}
	l, b, err := r.ownedList(p.Context, p.Args["id"].(string), caller)
	if err != nil {
		return nil, err
	}
	l.IsArchived = true
	if err := r.Store.SaveList(p.Context, l); err != nil {
		return nil, err
	}
	removed, err := r.Store.DeleteTasksByList(p.Context, l.ID)
	if err != nil {
		return nil, err
	}
	for _, t := range removed {
		r.publishTaskEvent(b.ID, domain.TaskDeleted, t)
	}
	return true, nil
}

func (r *Resolver) createTask(p graphql.ResolveParams) (interface{}, error) {
	caller, err := r.activeCaller(p.Context)
	if err != nil {
		return nil, err
	}
	input := inputMap(p.Args)
	listID, _ := field(input, "listId").stringValue()
	l, b, err := r.ownedList(p.Context, listID, caller)
	if err != nil {
		return nil, err
	}
	title, err := requiredTitle(input["title"])
	if err != nil {
		return nil, err
	}
	t := domain.Task{
		ListID:   l.ID,
		Title:    title,
		Priority: domain.PriorityMedium,
		Status:   domain.StatusTodo,
		Tags:     []string{},
	}
	if description, ok := field(input, "description").stringValue(); ok {
		t.Description = description
	}
	if assigneeID, ok := field(input, "assigneeId").stringValue(); ok {
		t.AssigneeID = assigneeID
	}
	if priority, ok := field(input, "priority").stringValue(); ok {
		t.Priority = domain.TaskPriority(priority)
	}
	if status, ok := field(input, "status").stringValue(); ok {
		t.Status = domain.TaskStatus(status)
	}
	if f := field(input, "dueDate"); f.provided && !f.isNull() {
		raw, _ := f.stringValue()
		due, err := parseDueDate(raw)
		if err != nil {
			return nil, errBadInput("Invalid date format")
		}
		t.DueDate = &due
	}
	if tags, ok := field(input, "tags").stringSliceValue(); ok {
		t.Tags = tags
	}
	t, err = r.Store.CreateTask(p.Context, t)
	if err != nil {
		return nil, err
	}
	r.publishTaskEvent(b.ID, domain.TaskCreated, t)
	return taskPayload(t), nil
}

func (r *Resolver) updateTask(p graphql.ResolveParams) (interface{}, error) {
	caller, err := r.activeCaller(p.Context)
	if err != nil {
		return nil, err
	}
	input := inputMap(p.Args)
	id, _ := field(input, "id").stringValue()
	t, _, b, err := r.ownedTask(p.Context, id, caller)
	if err != nil {
		return nil, err
	}
	if f := field(input, "title"); f.provided {
		title, err := requiredTitle(f.value)
		if err != nil {
			return nil, err
		}
		t.Title = title
	}
	if f := field(input, "description"); f.provided {
		description, _ := f.stringValue()
		t.Description = description
	}
	if f := field(input, "assigneeId"); f.provided {
		assigneeID, _ := f.stringValue()
		t.AssigneeID = assigneeID
	}
	if f := field(input, "priority"); f.provided {
		priority, ok := f.stringValue()
		if !ok {
			return nil, errBadInput("Priority is required")
		}
		t.Priority = domain.TaskPriority(priority)
	}
	if f := field(input, "status"); f.provided {
		status, ok := f.stringValue()
		if !ok {
			return nil, errBadInput("Status is required")
		}
		t.Status = domain.TaskStatus(status)
	}
	if f := field(input, "dueDate"); f.provided {
		if f.isNull() {
			t.DueDate = nil
		} else {
			raw, _ := f.stringValue()
			due, err := parseDueDate(raw)
			if err != nil {
				return nil, errBadInput("Invalid date format")
			}
			t.DueDate = &due
		}
	}
	if f := field(input, "tags"); f.provided {
		tags, ok := f.stringSliceValue()
		if !ok {
			return nil, errBadInput("Tags must be a list of strings")
		}
		t.Tags = tags
	}
	if err := r.Store.SaveTask(p.Context, t); err != nil {
		return nil, err
	}
	r.publishTaskEvent(b.ID, domain.TaskUpdated, t)
	return taskPayload(t), nil
}

func (r *Resolver) updateTaskStatus(p graphql.ResolveParams) (interface{}, error) {
	caller, err := r.activeCaller(p.Context)
	if err != nil {
		return nil, err
	}
	t, _, b, err := r.ownedTask(p.Context, p.Args["id"].(string), caller)
	if err != nil {
		return nil, err
	}
	t.Status = domain.TaskStatus(p.Args["status"].(string))
	if err := r.Store.SaveTask(p.Context, t); err != nil {
		return nil, err
	}
	r.publishTaskEvent(b.ID, domain.TaskUpdated, t)
	return taskPayload(t), nil
}

// moveTask reassigns the task's list. Both the source chain and the
// destination list are ownership-checked, and the move must stay within one
// board.
func (r *Resolver) moveTask(p graphql.ResolveParams) (interface{}, error) {
	caller, err := r.activeCaller(p.Context)
	if err != nil {
		return nil, err
	}
	input := inputMap(p.Args)
	taskID, _ := field(input, "taskId").stringValue()
	t, _, srcBoard, err := r.ownedTask(p.Context, taskID, caller)
	if err != nil {
		return nil, err
	}
	toListID, _ := field(input, "toListId").stringValue()
	dst, dstBoard, err := r.ownedList(p.Context, toListID, caller)
	if err != nil {
		return nil, err
	}
	if srcBoard.ID != dstBoard.ID {
		return nil, errBadInput("Cannot move task across boards")
	}
	t.ListID = dst.ID
	if err := r.Store.SaveTask(p.Context, t); err != nil {
		return nil, err
	}
	r.publishTaskEvent(srcBoard.ID, domain.TaskMoved, t)
	return taskPayload(t), nil
}

func (r *Resolver) deleteTask(p graphql.ResolveParams) (interface{}, error) {
	caller, err := r.activeCaller(p.Context)
	if err != nil {
		return nil, err
	}
	t, _, b, err := r.ownedTask(p.Context, p.Args["id"].(string), caller)
	if err != nil {
		return nil, err
	}
	if err := r.Store.DeleteTask(p.Context, t.ID); err != nil {
		return nil, err
	}
	r.publishTaskEvent(b.ID, domain.TaskDeleted, t)
	return true, nil
}

func (r *Resolver) setUserRole(p graphql.ResolveParams) (interface{}, error) {
	if _, err := r.adminCaller(p.Context); err != nil {
		return nil, err
	}
	input := inputMap(p.Args)
	role, _ := field(input, "role").stringValue()
	if !domain.ValidRole(role) {
		return nil, errBadInput("Invalid role")
	}
	userID, _ := field(input, "userId").stringValue()
	u, err := r.Store.UserByID(p.Context, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, errBadInput("User not found")
		}
		return nil, err
	}
	u.Role = domain.UserRole(role)
	if err := r.Store.SaveUser(p.Context, u); err != nil {
		return nil, err
	}
	return userPayload(u), nil
}

func (r *Resolver) setUserStatus(p graphql.ResolveParams) (interface{}, error) {
	if _, err := r.adminCaller(p.Context); err != nil {
		return nil, err
	}
	input := inputMap(p.Args)
	status, _ := field(input, "status").stringValue()
	if !domain.ValidStatus(status) {
		return nil, errBadInput("Invalid status")
	}
	userID, _ := field(input, "userId").stringValue()
	u, err := r.Store.UserByID(p.Context, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, errBadInput("User not found")
		}
		return nil, err
	}
	u.Status = domain.UserStatus(status)
	if err := r.Store.SaveUser(p.Context, u); err != nil {
		return nil, err
	}
	return userPayload(u), nil
}

// publishTaskEvent fans the event out after the store write has committed.
func (r *Resolver) publishTaskEvent(boardID string, typ domain.TaskEventType, t domain.Task) {
	r.Bus.Publish(pubsub.TaskTopic(boardID), domain.TaskEvent{Type: typ, Task: t})
}
