package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/sgeduc/sge-backend/internal/config"
	"github.com/sgeduc/sge-backend/internal/middleware"
	ws "github.com/sgeduc/sge-backend/internal/websocket"
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// allowedOrigins comes from config.Config.AllowedOrigins.
// An empty slice permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// WSHandler streams schedule change events to dashboard clients.
type WSHandler struct {
	rdb      *redis.Client
	log      zerolog.Logger
	upgrader websocket.Upgrader
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(rdb *redis.Client, log zerolog.Logger, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		rdb:      rdb,
		log:      log.With().Str("component", "ws_handler").Logger(),
		upgrader: buildUpgrader(allowedOrigins),
	}
}

// ScheduleEventStream godoc
// WS /ws/v1/schedule/stream?token=...
// Upgrades to WebSocket and relays the caller's school PubSub channel. Events
// carry identifiers only; the client refetches the grids it cares about.
func (h *WSHandler) ScheduleEventStream(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	wsLog := h.log.With().
		Str("user_id", claims.UserID).
		Str("school_id", claims.SchoolID).
		Logger()

	channel := config.CacheKey.ScheduleEventsChannel(claims.SchoolID)
	pubsub := h.rdb.Subscribe(c.Request.Context(), channel)
	defer pubsub.Close()

	wsLog.Info().Str("channel", channel).Msg("Client connected")

	// All outbound frames go through one Sender; the relay goroutine and the
	// read loop below must never write to the connection directly.
	sender := ws.NewSender(conn)

	sender.Send(ws.SubscribedResponse{
		Event:    ws.EventSubscribed,
		SchoolID: claims.SchoolID,
	})

	// Relay PubSub messages to the socket. The goroutine exits when the
	// pubsub is closed below.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for msg := range pubsub.Channel() {
			sender.SendRaw([]byte(msg.Payload))
		}
	}()

	// Read loop keeps the connection alive and answers pings until the
	// client disconnects.
	for {
		var msg ws.RequestEnvelope
		if err := ws.ReadJSON(conn, &msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				wsLog.Warn().Err(err).Msg("Unexpected close")
			} else {
				wsLog.Debug().Msg("Connection closed")
			}
			break
		}

		switch msg.Action {
		case ws.ActionPing:
			sender.Send(ws.PongResponse{Event: ws.EventPong})
		case ws.ActionSubscribe:
			// Already subscribed at connect; acknowledge again.
			sender.Send(ws.SubscribedResponse{
				Event:    ws.EventSubscribed,
				SchoolID: claims.SchoolID,
			})
		default:
			wsLog.Warn().Str("action", string(msg.Action)).Msg("Unknown action")
			sender.Send(ws.ErrorResponse{Event: ws.EventError, Error: "unknown action: " + string(msg.Action)})
		}
	}

	// Stop producers before the sender: close the pubsub so the relay
	// goroutine drains out, then shut the write goroutine down.
	pubsub.Close()
	<-done
	sender.Close()
}
