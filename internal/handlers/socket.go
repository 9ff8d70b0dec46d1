package handlers

import (
	"fmt"
	"net/http"

	"github.com/ebarcelosf/Activelearn-hub/internal/services"
	"github.com/ebarcelosf/Activelearn-hub/pkg/logger"
	"github.com/ebarcelosf/Activelearn-hub/pkg/utils"
	"github.com/gin-gonic/gin"
	socketio "github.com/googollee/go-socket.io"
	"github.com/googollee/go-socket.io/engineio"
	"github.com/googollee/go-socket.io/engineio/transport"
	"github.com/googollee/go-socket.io/engineio/transport/polling"
	"github.com/googollee/go-socket.io/engineio/transport/websocket"
)

const BadgeEarnedEvent = "badge_earned"

var SocketServer *socketio.Server

// RoomBroadcaster is the part of *socketio.Server the badge sink needs
type RoomBroadcaster interface {
	BroadcastToRoom(namespace string, room, event string, args ...interface{}) bool
}

// BadgeSink pushes each granted badge to the owner's socket room
type BadgeSink struct {
	server RoomBroadcaster
}

func NewBadgeSink(server RoomBroadcaster) *BadgeSink {
	return &BadgeSink{server: server}
}

func (s *BadgeSink) Deliver(n services.Notice) {
	if s.server == nil {
		return
	}
	s.server.BroadcastToRoom("/", n.UserID, BadgeEarnedEvent, n)
}

func InitSocketServer() *socketio.Server {
	server := socketio.NewServer(&engineio.Options{
		Transports: []transport.Transport{
			&websocket.Transport{
				CheckOrigin: func(r *http.Request) bool { return true },
			},
			&polling.Transport{
				CheckOrigin: func(r *http.Request) bool { return true },
			},
		},
	})

	server.OnConnect("/", onSocketConnect)
	server.OnEvent("/", "dismiss_badge", onDismissBadge)

	server.OnError("/", func(s socketio.Conn, e error) {
		logger.Warn().Err(e).Msg("Socket error")
	})

	server.OnDisconnect("/", func(s socketio.Conn, reason string) {
		if userID, _ := s.Context().(string); userID != "" {
			logger.Debug().Str("user_id", userID).Str("reason", reason).Msg("Socket disconnected")
		}
	})

	SocketServer = server
	return server
}

// onSocketConnect authenticates the connection from its token query
// parameter, joins the user's room and replays pending notices
func onSocketConnect(s socketio.Conn) error {
	s.SetContext("")
	u := s.URL()
	query := u.Query()

	token := query.Get("token")
	if token == "" {
		token = query.Get("auth_token")
	}
	if token == "" {
		logger.Debug().Str("socket_id", s.ID()).Msg("Socket connection rejected: no token")
		return fmt.Errorf("authentication required")
	}

	claims, err := utils.ValidateToken(token)
	if err != nil {
		logger.Debug().Str("socket_id", s.ID()).Msg("Socket connection rejected: invalid token")
		return fmt.Errorf("invalid token")
	}

	s.SetContext(claims.UserID)
	s.Join(claims.UserID)

	// Replay notices granted while the user was offline
	if Engine != nil {
		for _, n := range Engine.Notifier().Pending(claims.UserID) {
			s.Emit(BadgeEarnedEvent, n)
		}
	}
	logger.Debug().Str("socket_id", s.ID()).Str("user_id", claims.UserID).Msg("Socket authenticated")
	return nil
}

func onDismissBadge(s socketio.Conn, badgeID string) {
	userID, _ := s.Context().(string)
	if userID == "" || Engine == nil {
		return
	}
	Engine.Notifier().Dismiss(userID, badgeID)
}

func SocketHandler(server *socketio.Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		server.ServeHTTP(c.Writer, c.Request)
	}
}
