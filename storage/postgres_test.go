package storage_test

import (
	"context"
	"flag"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/abhijeetkharade09/Sketch-Hero/domain"
	"github.com/abhijeetkharade09/Sketch-Hero/migrations"
	"github.com/abhijeetkharade09/Sketch-Hero/storage"
)

var repo *storage.PostgresRepo

func TestMain(m *testing.M) {
	flag.Parse()
	if testing.Short() {
		os.Exit(m.Run())
	}

	ctx := context.Background()

	postgresContainer, err := postgres.Run(ctx,
		"postgres:16-alpine3.22",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testusername"),
		postgres.WithPassword("testpassword"),
		testcontainers.WithWaitStrategy(wait.ForLog("database system is ready to accept connections").WithOccurrence(2).WithStartupTimeout(5*time.Second)),
	)
	if err != nil {
		panic(err)
	}

	connString, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		panic(err)
	}

	if err := migrations.Migrate(connString); err != nil {
		panic(err)
	}

	repo, err = storage.NewPostgresRepo(ctx, connString)
	if err != nil {
		panic(err)
	}

	code := m.Run()

	repo.Close()
	postgresContainer.Terminate(ctx)

	os.Exit(code)
}

func requireRepo(t *testing.T) {
	t.Helper()
	if repo == nil {
		t.Skip("integration test, needs docker")
	}
}

func TestPostgresRepo_Users(t *testing.T) {
	requireRepo(t)
	ctx := context.Background()

	var userID string

	t.Run("CreateUser", func(t *testing.T) {
		user, err := repo.CreateUser(ctx, "oussama", "cat-3")
		require.NoError(t, err)
		assert.NotEmpty(t, user.ID)
		assert.Equal(t, "oussama", user.Username)
		assert.Equal(t, "cat-3", user.Avatar)
		userID = user.ID
	})

	t.Run("GetUserByID", func(t *testing.T) {
		user, err := repo.GetUserByID(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, "oussama", user.Username)
		assert.Zero(t, user.TotalScore)
	})

	t.Run("GetUserByID_NotFound", func(t *testing.T) {
		_, err := repo.GetUserByID(ctx, "11111111-2222-3333-4444-555555555555")
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})
}

func TestPostgresRepo_Rooms(t *testing.T) {
	requireRepo(t)
	ctx := context.Background()

	host, err := repo.CreateUser(ctx, "roomhost", "")
	require.NoError(t, err)

	var code string

	t.Run("CreateRoom", func(t *testing.T) {
		room, err := repo.CreateRoom(ctx, host.ID, 4, 5, 90)
		require.NoError(t, err)
		assert.Len(t, room.Code, 4)
		assert.Equal(t, host.ID, room.HostID)
		assert.Equal(t, 4, room.MaxPlayers)
		assert.Equal(t, 5, room.RoundCount)
		assert.Equal(t, 90, room.RoundTime)
		code = room.Code
	})

	t.Run("GetRoomByCode", func(t *testing.T) {
		room, err := repo.GetRoomByCode(ctx, code)
		require.NoError(t, err)
		assert.Equal(t, code, room.Code)
		assert.Equal(t, host.ID, room.HostID)
	})

	t.Run("GetRoomByCode_NotFound", func(t *testing.T) {
		_, err := repo.GetRoomByCode(ctx, "----")
		assert.ErrorIs(t, err, domain.ErrRoomNotFound)
	})

	t.Run("CodesAreUniquePerRoom", func(t *testing.T) {
		seen := map[string]bool{code: true}
		for i := 0; i < 10; i++ {
			room, err := repo.CreateRoom(ctx, host.ID, 8, 3, 60)
			require.NoError(t, err)
			assert.False(t, seen[room.Code], "duplicate code %q", room.Code)
			seen[room.Code] = true
		}
	})
}

func TestPostgresRepo_Words(t *testing.T) {
	requireRepo(t)

	t.Run("Generate", func(t *testing.T) {
		words := repo.Generate(3)
		require.Len(t, words, 3, "words table should be seeded by migrations")

		seen := map[string]bool{}
		for _, w := range words {
			assert.NotEmpty(t, w)
			assert.False(t, seen[w], "duplicate word %q", w)
			seen[w] = true
		}
	})

	t.Run("GenerateZero", func(t *testing.T) {
		assert.Empty(t, repo.Generate(0))
	})
}
