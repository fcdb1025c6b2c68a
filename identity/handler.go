package identity

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/abhijeetkharade09/Sketch-Hero/domain"
)

var (
	ErrMissingTokenStr          = "missing-token"
	ErrExpiredTokenStr          = "expired-token"
	ErrServerTimeoutStr         = "server-timeout"
	ErrInvalidRequestFormatStr  = "bad-request-format"
	ErrInvalidUsernameFormatStr = "invalid-username-format"
	ErrUserNotFoundStr          = "user-not-found"
	ErrUnknownStr               = "unknown-error"
)

const maxUsernameLength = 20

type UserStore interface {
	CreateUser(ctx context.Context, username, avatar string) (domain.User, error)
	GetUserByID(ctx context.Context, id string) (domain.User, error)
}

type TokenManager interface {
	Generate(id string, now time.Time) (string, error)
	Verify(token string) (string, error)
}

type identityHandler struct {
	users        UserStore
	tokens       TokenManager
	cookieMaxAge time.Duration
}

func NewIdentityHandler(users UserStore, tokens TokenManager, cookieMaxAge time.Duration) *identityHandler {
	return &identityHandler{users: users, tokens: tokens, cookieMaxAge: cookieMaxAge}
}

// RequireAuthMiddleware authenticates from the token cookie, falling back
// to a token query parameter for websocket clients that cannot send
// cookies. Tampered tokens get a delayed opaque 500.
func (ih *identityHandler) RequireAuthMiddleware(trollTime time.Duration) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		token, err := ctx.Cookie("token")
		if err != nil {
			token = ctx.Query("token")
		}
		if token == "" {
			ctx.String(http.StatusUnauthorized, ErrMissingTokenStr)
			ctx.Abort()
			return
		}

		id, err := ih.tokens.Verify(token)
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrInvalidSigningAlg), errors.Is(err, domain.ErrInvalidTokenSignature), errors.Is(err, domain.ErrCorruptedToken):
				time.Sleep(trollTime)
				ctx.Status(http.StatusInternalServerError)
				ctx.Abort()
			case errors.Is(err, domain.ErrExpiredToken):
				ctx.String(http.StatusUnauthorized, ErrExpiredTokenStr)
				ctx.Abort()
			default:
				ctx.String(http.StatusInternalServerError, ErrUnknownStr)
				ctx.Abort()
			}
			return
		}

		ctx.Set("id", id)
		ctx.Next()
	}
}

// RegisterHandler creates a guest identity and hands back its token. The
// token also goes out as a cookie for browser clients.
func (ih *identityHandler) RegisterHandler(ctx *gin.Context) {
	var req struct {
		Username string `json:"username"`
		Avatar   string `json:"avatar"`
	}

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.String(http.StatusBadRequest, ErrInvalidRequestFormatStr)
		ctx.Abort()
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || len(req.Username) > maxUsernameLength {
		ctx.String(http.StatusBadRequest, ErrInvalidUsernameFormatStr)
		ctx.Abort()
		return
	}

	reqCtx := ctx.Request.Context()

	user, err := ih.users.CreateUser(reqCtx, req.Username, req.Avatar)
	if err != nil {
		switch {
		case errors.Is(err, context.DeadlineExceeded):
			ctx.String(http.StatusGatewayTimeout, ErrServerTimeoutStr)
		case errors.Is(err, context.Canceled):
			ctx.Status(499) // http code for "Client Closed Request"
		default:
			log.Error().Err(err).Msg("create user")
			ctx.String(http.StatusInternalServerError, ErrUnknownStr)
		}
		ctx.Abort()
		return
	}

	token, err := ih.tokens.Generate(user.ID, time.Now())
	if err != nil {
		log.Error().Err(err).Str("id", user.ID).Msg("generate token")
		ctx.String(http.StatusInternalServerError, ErrUnknownStr)
		ctx.Abort()
		return
	}

	ctx.SetCookie("token", token, int(ih.cookieMaxAge.Seconds()), "/", "", true, true)
	ctx.SetSameSite(http.SameSiteNoneMode)
	ctx.JSON(http.StatusCreated, gin.H{"token": token, "user": user})
}

func (ih *identityHandler) MeHandler(ctx *gin.Context) {
	id := ctx.GetString("id")
	if id == "" {
		ctx.String(http.StatusInternalServerError, ErrUnknownStr)
		ctx.Abort()
		return
	}

	user, err := ih.users.GetUserByID(ctx.Request.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			ctx.String(http.StatusNotFound, ErrUserNotFoundStr)
			ctx.Abort()
			return
		}
		log.Error().Err(err).Str("id", id).Msg("get user")
		ctx.String(http.StatusInternalServerError, ErrUnknownStr)
		ctx.Abort()
		return
	}

	ctx.JSON(http.StatusOK, user)
}
