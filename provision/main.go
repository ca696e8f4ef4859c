// Command provision resets and seeds the demo dataset: a demo account, a
// board with the default lists and a handful of tasks spread across them.
// It is idempotent, rerunning replaces the previous demo data.
package main

import (
	"context"
	"log"
	"os"
	"time"

	"taskboard-api/auth"
	"taskboard-api/domain"
	"taskboard-api/storage"
)

const (
	demoEmail    = "demo@example.com"
	demoPassword = "Passw0rd!"
	demoBoard    = "Realtime Demo Board"
)

type demoTask struct {
	list     string
	title    string
	priority domain.TaskPriority
	status   domain.TaskStatus
}

var demoTasks = []demoTask{
	{"今天", "配置 Apollo Client", domain.PriorityHigh, domain.StatusTodo},
	{"今天", "撰写 README 演示步骤", domain.PriorityMedium, domain.StatusDoing},
	{"本周", "完善 Dashboard 列表数量", domain.PriorityLow, domain.StatusTodo},
	{"本周", "修复权限提示文案", domain.PriorityMedium, domain.StatusDone},
	{"稍后", "打包 Docker 镜像", domain.PriorityHigh, domain.StatusTodo},
}

func main() {
	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		log.Fatal("MONGO_URI is required")
	}
	database := os.Getenv("MONGO_DB")
	if database == "" {
		log.Fatal("MONGO_DB is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	store, err := storage.NewMongo(ctx, uri, database)
	if err != nil {
		log.Fatalf("connect to mongo: %v", err)
	}
	defer store.Close(context.Background())

	if err := store.DeleteUserCascade(ctx, demoEmail); err != nil {
		log.Fatalf("remove previous demo data: %v", err)
	}

	hash, err := auth.HashPassword(demoPassword)
	if err != nil {
		log.Fatalf("hash demo password: %v", err)
	}
	user, err := store.CreateUser(ctx, domain.User{
		Email:        demoEmail,
		Name:         "Demo User",
		PasswordHash: hash,
		Role:         domain.RoleUser,
		Status:       domain.StatusActive,
	})
	if err != nil {
		log.Fatalf("create demo user: %v", err)
	}

	board, err := store.CreateBoard(ctx, domain.Board{
		Title:      demoBoard,
		OwnerID:    user.ID,
		Visibility: domain.VisibilityPrivate,
	})
	if err != nil {
		log.Fatalf("create demo board: %v", err)
	}

	listByTitle := make(map[string]domain.List, 3)
	for _, l := range domain.DefaultLists(board.ID) {
		created, err := store.CreateList(ctx, l)
		if err != nil {
			log.Fatalf("create list %q: %v", l.Title, err)
		}
		listByTitle[created.Title] = created
	}

	for _, t := range demoTasks {
		list, ok := listByTitle[t.list]
		if !ok {
			log.Fatalf("no seeded list named %q", t.list)
		}
		if _, err := store.CreateTask(ctx, domain.Task{
			Title:    t.title,
			ListID:   list.ID,
			Priority: t.priority,
			Status:   t.status,
			Tags:     []string{"demo"},
		}); err != nil {
			log.Fatalf("create task %q: %v", t.title, err)
		}
	}

	log.Printf("seeded demo account %s with board %q (%d lists, %d tasks)",
		demoEmail, demoBoard, len(listByTitle), len(demoTasks))
}
