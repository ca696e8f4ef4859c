package graph

import (
	"time"

	"taskboard-api/domain"
)

// Payload builders project domain records into response maps. Optional
// fields become explicit nulls so the wire shape matches the schema's
// nullability exactly.

func userPayload(u domain.User) map[string]interface{} {
	return map[string]interface{}{
		"id":        u.ID,
		"email":     u.Email,
		"name":      u.Name,
		"role":      string(u.Role),
		"status":    string(u.Status),
		"avatarUrl": nullableString(u.AvatarURL),
	}
}

func boardPayload(b domain.Board) map[string]interface{} {
	return map[string]interface{}{
		"id":          b.ID,
		"title":       b.Title,
		"description": nullableString(b.Description),
		"ownerId":     b.OwnerID,
		"visibility":  string(b.Visibility),
		"cover":       nullableString(b.Cover),
		"isArchived":  b.IsArchived,
	}
}

func listPayload(l domain.List) map[string]interface{} {
	out := map[string]interface{}{
		"id":         l.ID,
		"boardId":    l.BoardID,
		"title":      l.Title,
		"order":      l.Order,
		"color":      nullableString(l.Color),
		"isArchived": l.IsArchived,
		"wipLimit":   nil,
	}
	if l.WIPLimit != nil {
		out["wipLimit"] = *l.WIPLimit
	}
	return out
}

func taskPayload(t domain.Task) map[string]interface{} {
	out := map[string]interface{}{
		"id":          t.ID,
		"listId":      t.ListID,
		"title":       t.Title,
		"description": nullableString(t.Description),
		"assigneeId":  nullableString(t.AssigneeID),
		"priority":    string(t.Priority),
		"status":      string(t.Status),
		"dueDate":     nil,
		"tags":        t.Tags,
	}
	if t.DueDate != nil {
		out["dueDate"] = t.DueDate.UTC().Format("2006-01-02T15:04:05.000Z")
	}
	if t.Tags == nil {
		out["tags"] = []string{}
	}
	return out
}

func taskEventPayload(ev domain.TaskEvent) map[string]interface{} {
	return map[string]interface{}{
		"type": string(ev.Type),
		"task": taskPayload(ev.Task),
	}
}

func nullableString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// parseDueDate accepts RFC 3339 timestamps or plain dates.
func parseDueDate(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", value)
}
