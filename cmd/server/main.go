package main

import (
	"context"
	"math/rand"
	"net/http"
	"os"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/abhijeetkharade09/Sketch-Hero/config"
	"github.com/abhijeetkharade09/Sketch-Hero/crypto"
	"github.com/abhijeetkharade09/Sketch-Hero/game"
	"github.com/abhijeetkharade09/Sketch-Hero/identity"
	"github.com/abhijeetkharade09/Sketch-Hero/migrations"
	"github.com/abhijeetkharade09/Sketch-Hero/storage"
)

const (
	tokenMaxAge = time.Hour * 24 * 7
	trollTime   = time.Second * 2
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("loading configuration")
	}

	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	if err := migrations.Migrate(cfg.PostgresURL); err != nil {
		log.Fatal().Err(err).Msg("running migrations")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	repo, err := storage.NewPostgresRepo(ctx, cfg.PostgresURL)
	cancel()
	if err != nil {
		log.Fatal().Err(err).Msg("connecting to postgres")
	}
	defer repo.Close()

	jwtManager := crypto.NewJWTManager(cfg.JWTKey, tokenMaxAge)

	// Word picks come from the database, topped up from the built-in list
	// when the words table runs short.
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	wordGen := game.NewFallbackWordsGenerator(repo, game.NewStaticWordsGenerator(rng))

	registry := game.NewRegistry(game.TickerCreator{})
	started := make(chan struct{})
	go registry.RegistryActor(started)
	<-started

	identityHandler := identity.NewIdentityHandler(repo, jwtManager, tokenMaxAge)
	gameHandler := game.NewGameHandler(registry, repo, repo, wordGen, func(r *http.Request) bool {
		return slices.Contains(cfg.AllowedOrigins, r.Header.Get("Origin"))
	})

	r := gin.Default()

	r.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowCredentials: true,
		AllowHeaders:     []string{"Content-Type", "Origin"},
	}))

	r.POST("/users", identityHandler.RegisterHandler)

	authed := r.Group("/", identityHandler.RequireAuthMiddleware(trollTime))
	authed.GET("/users/me", identityHandler.MeHandler)
	authed.POST("/rooms", gameHandler.CreateRoomHandler)
	authed.GET("/rooms/:code", gameHandler.GetRoomHandler)
	authed.GET("/rooms/:code/ws", gameHandler.JoinRoomHandler)

	log.Info().Str("port", cfg.Port).Msg("api listening")
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
