package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/Temutjin2k/studylens-dashboard/internal/adapter/http/handler/dto"
	wshandler "github.com/Temutjin2k/studylens-dashboard/internal/adapter/http/ws"
	"github.com/Temutjin2k/studylens-dashboard/internal/domain/models"
	"github.com/Temutjin2k/studylens-dashboard/internal/domain/types"
	"github.com/Temutjin2k/studylens-dashboard/pkg/logger"
	wrap "github.com/Temutjin2k/studylens-dashboard/pkg/logger/wrapper"
	ws "github.com/Temutjin2k/studylens-dashboard/pkg/wsHub"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	feedAuthTimeout  = 10 * time.Second
	feedPongWait     = 60 * time.Second
	feedPingInterval = feedPongWait * 9 / 10
)

var errAuthFrameExpected = errors.New("auth frame expected")

type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

type connRegistry interface {
	Add(c *ws.Conn) error
	Delete(id uuid.UUID) error
}

// Feed serves the live sessions WebSocket.
type Feed struct {
	auth     Authenticator
	hub      connRegistry
	upgrader websocket.Upgrader

	pingInterval time.Duration
	pongWait     time.Duration

	l logger.Logger
}

func NewFeed(auth Authenticator, hub *ws.ConnectionHub, allowedOrigins []string, l logger.Logger) *Feed {
	return &Feed{
		auth: auth,
		hub:  hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
		pingInterval: feedPingInterval,
		pongWait:     feedPongWait,
		l:            l,
	}
}

// originChecker accepts every origin when the list is empty or holds "*".
func originChecker(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" || len(allowed) == 0 {
			return true
		}
		for _, o := range allowed {
			if o == "*" || o == origin {
				return true
			}
		}
		return false
	}
}

// HandleWS godoc
// @Summary      Live sessions feed
// @Description  WebSocket. Send {"type":"auth","token":"<access token>"} within 10 seconds, then receive session_created frames.
// @Tags         Sessions
// @Success      101
// @Router       /ws/sessions [get]
func (h *Feed) HandleWS(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), types.ActionFeedConnected)

	raw, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the HTTP error
		h.l.Warn(ctx, "websocket upgrade failed", "error", err.Error())
		return
	}

	user, conn, err := h.handshake(ctx, raw)
	if err != nil {
		h.l.Warn(ctx, "websocket authentication failed", "error", err.Error())
		return
	}

	ctx = wrap.WithUserID(ctx, user.ID.String())
	if err := h.hub.Add(conn); err != nil {
		h.l.Error(ctx, "failed to register websocket connection", err)
		_ = conn.Close()
		return
	}
	defer func() {
		_ = h.hub.Delete(conn.ID())
		h.l.Info(wrap.WithAction(ctx, types.ActionFeedDisconnected), "live feed closed", "conn_id", conn.ID())
	}()

	userID := user.ID
	if err := conn.Send(models.FeedMessage{Type: models.FeedMessageAuthOK, UserID: &userID}); err != nil {
		h.l.Warn(ctx, "failed to acknowledge authentication", "error", err.Error())
		return
	}
	h.l.Info(ctx, "live feed connected", "conn_id", conn.ID())

	if err := conn.SetPongWait(h.pongWait); err != nil {
		h.l.Warn(ctx, "failed to arm pong deadline", "error", err.Error())
		return
	}
	go h.keepAlive(conn)

	// clients have nothing to say after auth; reading only detects disconnects
	// and half-open peers that stop answering pings
	_ = conn.Listen(func(map[string]any) error { return nil })
}

// handshake waits for the auth frame. The connection is closed on failure.
func (h *Feed) handshake(ctx context.Context, raw *websocket.Conn) (*models.User, *ws.Conn, error) {
	conn := ws.NewConn(context.Background(), uuid.Nil, raw)

	var msg dto.AuthWebSocketReq
	if err := conn.ReadJSON(&msg, time.Now().Add(feedAuthTimeout)); err != nil {
		_ = conn.Close()
		return nil, nil, err
	}

	if msg.Type != models.FeedMessageAuth || msg.Token == "" {
		_ = wshandler.ErrorResponse(conn, "first message must be an auth frame with a token")
		_ = conn.Close()
		return nil, nil, errAuthFrameExpected
	}

	user, err := h.auth.Authenticate(ctx, msg.Token)
	if err != nil {
		_ = wshandler.ErrorResponse(conn, errorMessage(err))
		_ = conn.Close()
		return nil, nil, err
	}

	conn.SetOwner(user.ID)
	return user, conn, nil
}

func (h *Feed) keepAlive(conn *ws.Conn) {
	ticker := time.NewTicker(h.pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-conn.Done():
			return
		case <-ticker.C:
			if err := conn.Ping(); err != nil {
				_ = h.hub.Delete(conn.ID())
				return
			}
		}
	}
}
