package storage

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"taskboard-api/domain"
)

// Mongo persists the four document collections backing the board domain.
type Mongo struct {
	client *mongo.Client
	users  *mongo.Collection
	boards *mongo.Collection
	lists  *mongo.Collection
	tasks  *mongo.Collection
}

// NewMongo connects to the given MongoDB deployment and prepares the
// collections, including the unique email index.
func NewMongo(ctx context.Context, uri, database string) (*Mongo, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}
	db := client.Database(database)
	m := &Mongo{
		client: client,
		users:  db.Collection("users"),
		boards: db.Collection("boards"),
		lists:  db.Collection("lists"),
		tasks:  db.Collection("tasks"),
	}
	_, err = m.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

// Close disconnects the underlying client.
func (m *Mongo) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

type userEntity struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Email        string             `bson:"email"`
	PasswordHash string             `bson:"passwordHash"`
	Name         string             `bson:"name"`
	Role         string             `bson:"role"`
	Status       string             `bson:"status"`
	AvatarURL    string             `bson:"avatarUrl,omitempty"`
	CreatedAt    time.Time          `bson:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt"`
}

type boardEntity struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Title       string             `bson:"title"`
	Description string             `bson:"description,omitempty"`
	OwnerID     primitive.ObjectID `bson:"ownerId"`
	Visibility  string             `bson:"visibility"`
	Cover       string             `bson:"cover,omitempty"`
	IsArchived  bool               `bson:"isArchived"`
	CreatedAt   time.Time          `bson:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt"`
}

type listEntity struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	BoardID    primitive.ObjectID `bson:"boardId"`
	Title      string             `bson:"title"`
	Order      int                `bson:"order"`
	Color      string             `bson:"color,omitempty"`
	IsArchived bool               `bson:"isArchived"`
	WIPLimit   *int               `bson:"wipLimit,omitempty"`
	CreatedAt  time.Time          `bson:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt"`
}

type taskEntity struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty"`
	ListID      primitive.ObjectID  `bson:"listId"`
	Title       string              `bson:"title"`
	Description string              `bson:"description,omitempty"`
	AssigneeID  *primitive.ObjectID `bson:"assigneeId,omitempty"`
	Priority    string              `bson:"priority"`
	Status      string              `bson:"status"`
	DueDate     *time.Time          `bson:"dueDate,omitempty"`
	Tags        []string            `bson:"tags"`
	CreatedAt   time.Time           `bson:"createdAt"`
	UpdatedAt   time.Time           `bson:"updatedAt"`
}

func (e userEntity) toDomain() domain.User {
	return domain.User{
		ID:           e.ID.Hex(),
		Email:        e.Email,
		PasswordHash: e.PasswordHash,
		Name:         e.Name,
		Role:         domain.UserRole(e.Role),
		Status:       domain.UserStatus(e.Status),
		AvatarURL:    e.AvatarURL,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}
}

func (e boardEntity) toDomain() domain.Board {
	return domain.Board{
		ID:          e.ID.Hex(),
		Title:       e.Title,
		Description: e.Description,
		OwnerID:     e.OwnerID.Hex(),
		Visibility:  domain.BoardVisibility(e.Visibility),
		Cover:       e.Cover,
		IsArchived:  e.IsArchived,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

func (e listEntity) toDomain() domain.List {
	return domain.List{
		ID:         e.ID.Hex(),
		BoardID:    e.BoardID.Hex(),
		Title:      e.Title,
		Order:      e.Order,
		Color:      e.Color,
		IsArchived: e.IsArchived,
		WIPLimit:   e.WIPLimit,
		CreatedAt:  e.CreatedAt,
		UpdatedAt:  e.UpdatedAt,
	}
}

func (e taskEntity) toDomain() domain.Task {
	t := domain.Task{
		ID:          e.ID.Hex(),
		ListID:      e.ListID.Hex(),
		Title:       e.Title,
		Description: e.Description,
		Priority:    domain.TaskPriority(e.Priority),
		Status:      domain.TaskStatus(e.Status),
		DueDate:     e.DueDate,
		Tags:        e.Tags,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
	if e.AssigneeID != nil {
		t.AssigneeID = e.AssigneeID.Hex()
	}
	if t.Tags == nil {
		t.Tags = []string{}
	}
	return t
}

func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, ErrNotFound
	}
	return oid, nil
}

func (m *Mongo) CreateUser(ctx context.Context, u domain.User) (domain.User, error) {
	now := time.Now().UTC()
	e := userEntity{
		ID:           primitive.NewObjectID(),
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Name:         u.Name,
		Role:         string(u.Role),
		Status:       string(u.Status),
		AvatarURL:    u.AvatarURL,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if _, err := m.users.InsertOne(ctx, e); err != nil {
		return domain.User{}, err
	}
	return e.toDomain(), nil
}

func (m *Mongo) UserByID(ctx context.Context, id string) (domain.User, error) {
	oid, err := objectID(id)
	if err != nil {
		return domain.User{}, err
	}
	var e userEntity
	if err := m.users.FindOne(ctx, bson.M{"_id": oid}).Decode(&e); err != nil {
		return domain.User{}, mapErr(err)
	}
	return e.toDomain(), nil
}

func (m *Mongo) UserByEmail(ctx context.Context, email string) (domain.User, error) {
	var e userEntity
	if err := m.users.FindOne(ctx, bson.M{"email": email}).Decode(&e); err != nil {
		return domain.User{}, mapErr(err)
	}
	return e.toDomain(), nil
}

func (m *Mongo) Users(ctx context.Context) ([]domain.User, error) {
	cur, err := m.users.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	var entities []userEntity
	if err := cur.All(ctx, &entities); err != nil {
		return nil, err
	}
	users := make([]domain.User, 0, len(entities))
	for _, e := range entities {
		users = append(users, e.toDomain())
	}
	return users, nil
}

func (m *Mongo) SaveUser(ctx context.Context, u domain.User) error {
	oid, err := objectID(u.ID)
	if err != nil {
		return err
	}
	e := userEntity{
		ID:           oid,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Name:         u.Name,
		Role:         string(u.Role),
		Status:       string(u.Status),
		AvatarURL:    u.AvatarURL,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    time.Now().UTC(),
	}
	res, err := m.users.ReplaceOne(ctx, bson.M{"_id": oid}, e)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *Mongo) CreateBoard(ctx context.Context, b domain.Board) (domain.Board, error) {
	ownerID, err := objectID(b.OwnerID)
	if err != nil {
		return domain.Board{}, err
	}
	now := time.Now().UTC()
	e := boardEntity{
		ID:          primitive.NewObjectID(),
		Title:       b.Title,
		Description: b.Description,
		OwnerID:     ownerID,
		Visibility:  string(b.Visibility),
		Cover:       b.Cover,
		IsArchived:  b.IsArchived,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := m.boards.InsertOne(ctx, e); err != nil {
		return domain.Board{}, err
	}
	return e.toDomain(), nil
}

func (m *Mongo) BoardByID(ctx context.Context, id string) (domain.Board, error) {
	oid, err := objectID(id)
	if err != nil {
		return domain.Board{}, err
	}
	var e boardEntity
	if err := m.boards.FindOne(ctx, bson.M{"_id": oid}).Decode(&e); err != nil {
		return domain.Board{}, mapErr(err)
	}
	return e.toDomain(), nil
}

// BoardsByOwner returns the owner's non-archived boards.
func (m *Mongo) BoardsByOwner(ctx context.Context, ownerID string) ([]domain.Board, error) {
	oid, err := objectID(ownerID)
	if err != nil {
		return nil, err
	}
	return m.findBoards(ctx, bson.M{"ownerId": oid, "isArchived": false})
}

// Boards returns every non-archived board, regardless of owner.
func (m *Mongo) Boards(ctx context.Context) ([]domain.Board, error) {
	return m.findBoards(ctx, bson.M{"isArchived": false})
}

func (m *Mongo) findBoards(ctx context.Context, filter bson.M) ([]domain.Board, error) {
	cur, err := m.boards.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	var entities []boardEntity
	if err := cur.All(ctx, &entities); err != nil {
		return nil, err
	}
	boards := make([]domain.Board, 0, len(entities))
	for _, e := range entities {
		boards = append(boards, e.toDomain())
	}
	return boards, nil
}

func (m *Mongo) SaveBoard(ctx context.Context, b domain.Board) error {
	oid, err := objectID(b.ID)
	if err != nil {
		return err
	}
	ownerID, err := objectID(b.OwnerID)
	if err != nil {
		return err
	}
	e := boardEntity{
		ID:          oid,
		Title:       b.Title,
		Description: b.Description,
		OwnerID:     ownerID,
		Visibility:  string(b.Visibility),
		Cover:       b.Cover,
		IsArchived:  b.IsArchived,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   time.Now().UTC(),
	}
	res, err := m.boards.ReplaceOne(ctx, bson.M{"_id": oid}, e)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *Mongo) CreateList(ctx context.Context, l domain.List) (domain.List, error) {
	boardID, err := objectID(l.BoardID)
	if err != nil {
		return domain.List{}, err
	}
	now := time.Now().UTC()
	e := listEntity{
		ID:         primitive.NewObjectID(),
		BoardID:    boardID,
		Title:      l.Title,
		Order:      l.Order,
		Color:      l.Color,
		IsArchived: l.IsArchived,
		WIPLimit:   l.WIPLimit,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if _, err := m.lists.InsertOne(ctx, e); err != nil {
		return domain.List{}, err
	}
	return e.toDomain(), nil
}

func (m *Mongo) ListByID(ctx context.Context, id string) (domain.List, error) {
	oid, err := objectID(id)
	if err != nil {
		return domain.List{}, err
	}
	var e listEntity
	if err := m.lists.FindOne(ctx, bson.M{"_id": oid}).Decode(&e); err != nil {
		return domain.List{}, mapErr(err)
	}
	return e.toDomain(), nil
}

// ListsByBoard returns a board's lists sorted ascending by order. Archived
// lists are excluded unless includeArchived is set.
func (m *Mongo) ListsByBoard(ctx context.Context, boardID string, includeArchived bool) ([]domain.List, error) {
	oid, err := objectID(boardID)
	if err != nil {
		return nil, err
	}
	filter := bson.M{"boardId": oid}
	if !includeArchived {
		filter["isArchived"] = false
	}
	cur, err := m.lists.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "order", Value: 1}}))
	if err != nil {
		return nil, err
	}
	var entities []listEntity
	if err := cur.All(ctx, &entities); err != nil {
		return nil, err
	}
	lists := make([]domain.List, 0, len(entities))
	for _, e := range entities {
		lists = append(lists, e.toDomain())
	}
	return lists, nil
}

func (m *Mongo) SaveList(ctx context.Context, l domain.List) error {
	oid, err := objectID(l.ID)
	if err != nil {
		return err
	}
	boardID, err := objectID(l.BoardID)
	if err != nil {
		return err
	}
	e := listEntity{
		ID:         oid,
		BoardID:    boardID,
		Title:      l.Title,
		Order:      l.Order,
		Color:      l.Color,
		IsArchived: l.IsArchived,
		WIPLimit:   l.WIPLimit,
		CreatedAt:  l.CreatedAt,
		UpdatedAt:  time.Now().UTC(),
	}
	res, err := m.lists.ReplaceOne(ctx, bson.M{"_id": oid}, e)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *Mongo) CreateTask(ctx context.Context, t domain.Task) (domain.Task, error) {
	listID, err := objectID(t.ListID)
	if err != nil {
		return domain.Task{}, err
	}
	now := time.Now().UTC()
	e := taskEntity{
		ID:          primitive.NewObjectID(),
		ListID:      listID,
		Title:       t.Title,
		Description: t.Description,
		Priority:    string(t.Priority),
		Status:      string(t.Status),
		DueDate:     t.DueDate,
		Tags:        t.Tags,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if t.AssigneeID != "" {
		assigneeID, err := objectID(t.AssigneeID)
		if err != nil {
			return domain.Task{}, err
		}
		e.AssigneeID = &assigneeID
	}
	if e.Tags == nil {
		e.Tags = []string{}
	}
	if _, err := m.tasks.InsertOne(ctx, e); err != nil {
		return domain.Task{}, err
	}
	return e.toDomain(), nil
}

func (m *Mongo) TaskByID(ctx context.Context, id string) (domain.Task, error) {
	oid, err := objectID(id)
	if err != nil {
		return domain.Task{}, err
	}
	var e taskEntity
	if err := m.tasks.FindOne(ctx, bson.M{"_id": oid}).Decode(&e); err != nil {
		return domain.Task{}, mapErr(err)
	}
	return e.toDomain(), nil
}

func (m *Mongo) TasksByList(ctx context.Context, listID string) ([]domain.Task, error) {
	oid, err := objectID(listID)
	if err != nil {
		return nil, err
	}
	cur, err := m.tasks.Find(ctx, bson.M{"listId": oid})
	if err != nil {
		return nil, err
	}
	var entities []taskEntity
	if err := cur.All(ctx, &entities); err != nil {
		return nil, err
	}
	tasks := make([]domain.Task, 0, len(entities))
	for _, e := range entities {
		tasks = append(tasks, e.toDomain())
	}
	return tasks, nil
}

func (m *Mongo) SaveTask(ctx context.Context, t domain.Task) error {
	oid, err := objectID(t.ID)
	if err != nil {
		return err
	}
	listID, err := objectID(t.ListID)
	if err != nil {
		return err
	}
	e := taskEntity{
		ID:          oid,
		ListID:      listID,
		Title:       t.Title,
		Description: t.Description,
		Priority:    string(t.Priority),
		Status:      string(t.Status),
		DueDate:     t.DueDate,
		Tags:        t.Tags,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   time.Now().UTC(),
	}
	if t.AssigneeID != "" {
		assigneeID, err := objectID(t.AssigneeID)
		if err != nil {
			return err
		}
		e.AssigneeID = &assigneeID
	}
	if e.Tags == nil {
		e.Tags = []string{}
	}
	res, err := m.tasks.ReplaceOne(ctx, bson.M{"_id": oid}, e)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *Mongo) DeleteTask(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	res, err := m.tasks.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteTasksByList removes every task in the list and returns the removed
// tasks so callers can fan out deletion events.
func (m *Mongo) DeleteTasksByList(ctx context.Context, listID string) ([]domain.Task, error) {
	tasks, err := m.TasksByList(ctx, listID)
	if err != nil {
		return nil, err
	}
	oid, err := objectID(listID)
	if err != nil {
		return nil, err
	}
	if _, err := m.tasks.DeleteMany(ctx, bson.M{"listId": oid}); err != nil {
		return nil, err
	}
	return tasks, nil
}

func mapErr(err error) error {
	if err == mongo.ErrNoDocuments {
		return ErrNotFound
	}
	return err
}

// DeleteUserCascade removes the user with the given email together with
// every board they own and all lists and tasks beneath those boards. Used by
// the provisioning tool to reset demo data; the API itself never
// hard-deletes users.
func (m *Mongo) DeleteUserCascade(ctx context.Context, email string) error {
	var user userEntity
	err := m.users.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil
	}
	if err != nil {
		return err
	}

	cur, err := m.boards.Find(ctx, bson.M{"ownerId": user.ID})
	if err != nil {
		return err
	}
	var boards []boardEntity
	if err := cur.All(ctx, &boards); err != nil {
		return err
	}
	boardIDs := make([]primitive.ObjectID, 0, len(boards))
	for _, b := range boards {
		boardIDs = append(boardIDs, b.ID)
	}

	if len(boardIDs) > 0 {
		cur, err := m.lists.Find(ctx, bson.M{"boardId": bson.M{"$in": boardIDs}})
		if err != nil {
			return err
		}
		var lists []listEntity
		if err := cur.All(ctx, &lists); err != nil {
			return err
		}
		listIDs := make([]primitive.ObjectID, 0, len(lists))
		for _, l := range lists {
			listIDs = append(listIDs, l.ID)
		}
		if len(listIDs) > 0 {
			if _, err := m.tasks.DeleteMany(ctx, bson.M{"listId": bson.M{"$in": listIDs}}); err != nil {
				return err
			}
		}
		if _, err := m.lists.DeleteMany(ctx, bson.M{"boardId": bson.M{"$in": boardIDs}}); err != nil {
			return err
		}
		if _, err := m.boards.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": boardIDs}}); err != nil {
			return err
		}
	}

	_, err = m.users.DeleteOne(ctx, bson.M{"_id": user.ID})
	return err
}
