package storage

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"github.com/abhijeetkharade09/Sketch-Hero/domain"
)

// Characters used for room codes. No lowercase: codes are typed by hand
// and compared case-sensitively.
const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

const codeLength = 4

const maxCodeAttempts = 10

type PostgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresRepo(ctx context.Context, connString string) (*PostgresRepo, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		return nil, err
	}
	return &PostgresRepo{pool: pool}, nil
}

func (pgr *PostgresRepo) Close() {
	pgr.pool.Close()
}

func (pgr *PostgresRepo) CreateUser(ctx context.Context, username, avatar string) (domain.User, error) {
	user := domain.User{Username: username, Avatar: avatar}

	row := pgr.pool.QueryRow(ctx,
		"INSERT INTO users(username, avatar) VALUES($1, $2) RETURNING id", username, avatar)

	if err := row.Scan(&user.ID); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return domain.User{}, err
		}
		return domain.User{}, fmt.Errorf("%w: %w", domain.UnexpectedDatabaseError, err)
	}

	return user, nil
}

func (pgr *PostgresRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	user := domain.User{ID: id}

	row := pgr.pool.QueryRow(ctx,
		"SELECT username, avatar, total_score, games_played FROM users WHERE id = $1", id)

	err := row.Scan(&user.Username, &user.Avatar, &user.TotalScore, &user.GamesPlayed)

	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return domain.User{}, domain.ErrUserNotFound
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return domain.User{}, err
		default:
			return domain.User{}, fmt.Errorf("%w: %w", domain.UnexpectedDatabaseError, err)
		}
	}

	return user, nil
}

// CreateRoom inserts a room record under a freshly generated code,
// retrying on the rare code collision.
func (pgr *PostgresRepo) CreateRoom(ctx context.Context, hostID string, maxPlayers, roundCount, roundTime int) (domain.Room, error) {
	var host any
	if hostID != "" {
		host = hostID
	}

	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code := randomCode(codeLength)

		row := pgr.pool.QueryRow(ctx,
			`INSERT INTO rooms(code, host_id, max_players, round_count, round_time)
			 VALUES($1, $2, $3, $4, $5) RETURNING id`,
			code, host, maxPlayers, roundCount, roundTime)

		var id string
		err := row.Scan(&id)
		if err == nil {
			return domain.Room{
				ID:         id,
				Code:       code,
				HostID:     hostID,
				MaxPlayers: maxPlayers,
				RoundCount: roundCount,
				RoundTime:  roundTime,
			}, nil
		}

		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			// unique_violation on code, roll a new one
			log.Debug().Str("code", code).Msg("room code collision, retrying")
			continue
		}

		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return domain.Room{}, err
		}

		return domain.Room{}, fmt.Errorf("%w: %w", domain.UnexpectedDatabaseError, err)
	}

	return domain.Room{}, fmt.Errorf("%w: could not generate a unique room code", domain.UnexpectedDatabaseError)
}

func (pgr *PostgresRepo) GetRoomByCode(ctx context.Context, code string) (domain.Room, error) {
	room := domain.Room{Code: code}

	row := pgr.pool.QueryRow(ctx,
		`SELECT id, COALESCE(host_id::text, ''), max_players, round_count, round_time
		 FROM rooms WHERE code = $1`, code)

	err := row.Scan(&room.ID, &room.HostID, &room.MaxPlayers, &room.RoundCount, &room.RoundTime)

	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return domain.Room{}, domain.ErrRoomNotFound
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return domain.Room{}, err
		default:
			return domain.Room{}, fmt.Errorf("%w: %w", domain.UnexpectedDatabaseError, err)
		}
	}

	return room, nil
}

// Generate implements the game.RandomWordsGenerator interface.
// It fetches 'count' random words from the words table.
// Returns fewer words (possibly none) if the table is short or the query fails.
func (pgr *PostgresRepo) Generate(count int) []string {
	ctx := context.Background()

	rows, err := pgr.pool.Query(ctx, "SELECT word FROM words ORDER BY RANDOM() LIMIT $1", count)
	if err != nil {
		log.Error().Err(err).Msg("word query failed")
		return []string{}
	}
	defer rows.Close()

	words := make([]string, 0, count)
	for rows.Next() {
		var word string
		if err := rows.Scan(&word); err != nil {
			continue
		}
		words = append(words, word)
	}

	return words
}

func randomCode(length int) string {
	code := make([]byte, length)
	for i := range code {
		code[i] = codeAlphabet[rand.Intn(len(codeAlphabet))]
	}
	return string(code)
}
