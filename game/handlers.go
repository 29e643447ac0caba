package game

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"werewolf/auth"
	"werewolf/domain"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	ErrMissingTokenStr   = "missing-token"
	ErrInvalidSeatStr    = "invalid-seat"
	ErrInvalidRequestStr = "bad-request-format"
	ErrUnknownStr        = "unknown-error"
)

type LobbyService interface {
	CreateRoom(ctx context.Context, req CreateRoomRequest) (RoomInfo, error)
	DestroyRoom(ctx context.Context, id string) error
	MintInvite(ctx context.Context, roomID string, user domain.User) (string, error)
	Connect(ctx context.Context, creds Credentials, client Client) (ConnectResult, error)
	Pause(ctx context.Context, id string) error
	Resume(ctx context.Context, id string) error
	Rooms(ctx context.Context) ([]RoomInfo, error)
}

type GameHandler struct {
	lobby    LobbyService
	upgrader websocket.Upgrader
}

// NewGameHandler serves the player socket and the room admin API.
// checkOrigin guards the websocket upgrade.
func NewGameHandler(lobby LobbyService, checkOrigin func(r *http.Request) bool) *GameHandler {
	return &GameHandler{
		lobby: lobby,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin,
		},
	}
}

// ConnectHandler upgrades a player connection. Tokens are checked after the
// upgrade so a rejection reaches the client as a close reason.
func (h *GameHandler) ConnectHandler(ctx *gin.Context) {
	creds := Credentials{
		Invite:  ctx.Query("invite"),
		Refresh: ctx.Query("refresh"),
		Seat:    -1,
	}
	if creds.Invite == "" && creds.Refresh == "" {
		ctx.String(http.StatusUnauthorized, ErrMissingTokenStr)
		return
	}
	if s := ctx.Query("seat"); s != "" {
		seat, err := strconv.Atoi(s)
		if err != nil {
			ctx.String(http.StatusBadRequest, ErrInvalidSeatStr)
			return
		}
		creds.Seat = seat
	}

	conn, err := h.upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		log.Debug().Err(err).Str("ip", ctx.ClientIP()).Msg("websocket upgrade failed")
		return
	}

	client := NewClient(NewWebsocketConnection(conn))
	go client.WritePump()

	res, err := h.lobby.Connect(ctx.Request.Context(), creds, client)
	if err != nil {
		log.Debug().Err(err).Str("ip", ctx.ClientIP()).Msg("connection rejected")
		client.Close(err.Error())
		return
	}

	client.Send(MakePacketSession(res.RoomID, res.Seat, res.RefreshToken))
	client.ReadPump(res.Seat, res.Sink)
}

func (h *GameHandler) CreateRoomHandler(ctx *gin.Context) {
	var req CreateRoomRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.String(http.StatusBadRequest, ErrInvalidRequestStr)
		return
	}

	info, err := h.lobby.CreateRoom(ctx.Request.Context(), req)
	if err != nil {
		writeError(ctx, err)
		return
	}
	log.Info().Str("room", info.ID).Str("by", ctx.GetString(auth.SubjectKey)).Msg("room created over api")
	ctx.JSON(http.StatusCreated, info)
}

func (h *GameHandler) ListRoomsHandler(ctx *gin.Context) {
	rooms, err := h.lobby.Rooms(ctx.Request.Context())
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, rooms)
}

func (h *GameHandler) DestroyRoomHandler(ctx *gin.Context) {
	if err := h.lobby.DestroyRoom(ctx.Request.Context(), ctx.Param("id")); err != nil {
		writeError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

func (h *GameHandler) InviteHandler(ctx *gin.Context) {
	var body struct {
		User domain.User `json:"user"`
	}
	if err := ctx.ShouldBindJSON(&body); err != nil || body.User.ID == "" {
		ctx.String(http.StatusBadRequest, ErrInvalidRequestStr)
		return
	}

	code, err := h.lobby.MintInvite(ctx.Request.Context(), ctx.Param("id"), body.User)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"invite": code})
}

func (h *GameHandler) PauseHandler(ctx *gin.Context) {
	if err := h.lobby.Pause(ctx.Request.Context(), ctx.Param("id")); err != nil {
		writeError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

func (h *GameHandler) ResumeHandler(ctx *gin.Context) {
	if err := h.lobby.Resume(ctx.Request.Context(), ctx.Param("id")); err != nil {
		writeError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

func writeError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrRoomNotFound), errors.Is(err, domain.ErrRoomClosed):
		ctx.String(http.StatusNotFound, domain.ErrRoomNotFound.Error())
	case errors.Is(err, domain.ErrRoomExists):
		ctx.String(http.StatusConflict, domain.ErrRoomExists.Error())
	case errors.Is(err, domain.ErrRoomStarted):
		ctx.String(http.StatusConflict, domain.ErrRoomStarted.Error())
	case errors.Is(err, domain.ErrInvalidRoomConfig):
		ctx.String(http.StatusBadRequest, domain.ErrInvalidRoomConfig.Error())
	case errors.Is(err, domain.ErrVoiceJoin):
		log.Error().Err(err).Msg("voice join failed")
		ctx.String(http.StatusBadGateway, domain.ErrVoiceJoin.Error())
	default:
		log.Error().Err(err).Msg("room api request failed")
		ctx.String(http.StatusInternalServerError, ErrUnknownStr)
	}
}
