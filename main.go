package main

import (
	"context"
	"os"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	log "github.com/sirupsen/logrus"

	"taskboard-api/api"
	"taskboard-api/auth"
	"taskboard-api/graph"
	"taskboard-api/pubsub"
	"taskboard-api/storage"
)

func main() {
	if dbg, err := strconv.ParseBool(os.Getenv("DEBUG")); err == nil && dbg {
		log.SetLevel(log.DebugLevel)
	}

	mongoURI := os.Getenv("MONGO_URI")
	mongoDB := os.Getenv("MONGO_DB")
	jwtSecret := os.Getenv("JWT_SECRET")
	if mongoURI == "" || mongoDB == "" || jwtSecret == "" {
		log.Fatal("missing MONGO_URI, MONGO_DB or JWT_SECRET")
	}

	tokenTTL := auth.DefaultTokenTTL
	if v := os.Getenv("TOKEN_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			log.Fatalf("invalid TOKEN_TTL: %v", err)
		}
		tokenTTL = d
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	store, err := storage.NewMongo(ctx, mongoURI, mongoDB)
	cancel()
	if err != nil {
		log.Fatalf("storage: %v", err)
	}

	authority := auth.New(jwtSecret, tokenTTL)
	logger := log.New()

	resolver := &graph.Resolver{
		Store:  store,
		Bus:    pubsub.New(),
		Tokens: authority,
		Log:    logger,
	}
	schema, err := graph.NewSchema(resolver)
	if err != nil {
		log.Fatalf("schema: %v", err)
	}

	e := echo.New()
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	api.Register(e, schema, authority, logger)

	listenAddr := ":4000"
	if val, ok := os.LookupEnv("PORT"); ok {
		listenAddr = ":" + val
	}

	e.Logger.Fatal(e.Start(listenAddr))
}
