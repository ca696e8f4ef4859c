package domain

import "time"

type BoardVisibility string

const (
	VisibilityPrivate BoardVisibility = "PRIVATE"
	VisibilityPublic  BoardVisibility = "PUBLIC"
)

// Board is a named collection of lists owned by exactly one user. Deleting a
// board is a soft archive; its record survives.
type Board struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	OwnerID     string          `json:"ownerId"`
	Visibility  BoardVisibility `json:"visibility"`
	Cover       string          `json:"cover,omitempty"`
	IsArchived  bool            `json:"isArchived"`
	CreatedAt   time.Time       `json:"-"`
	UpdatedAt   time.Time       `json:"-"`
}

// List is an ordered column within one board. Order is a sort key and is not
// required to be unique.
type List struct {
	ID         string    `json:"id"`
	BoardID    string    `json:"boardId"`
	Title      string    `json:"title"`
	Order      int       `json:"order"`
	Color      string    `json:"color,omitempty"`
	IsArchived bool      `json:"isArchived"`
	WIPLimit   *int      `json:"wipLimit,omitempty"`
	CreatedAt  time.Time `json:"-"`
	UpdatedAt  time.Time `json:"-"`
}

// DefaultLists returns the three lists seeded under every new board.
func DefaultLists(boardID string) []List {
	return []List{
		{BoardID: boardID, Title: "今天", Order: 1},
		{BoardID: boardID, Title: "本周", Order: 2},
		{BoardID: boardID, Title: "稍后", Order: 3},
	}
}
