package ws

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/skillshare-hub/backend/internal/events"
)

// Handler upgrades HTTP requests to WebSocket connections and wires each
// connection to the event bus. Every connection is subscribed to its own
// user topic; post topics are managed by the client.
type Handler struct {
	bus      events.Bus
	logger   zerolog.Logger
	upgrader websocket.Upgrader
}

// NewHandler creates a new WebSocket Handler
func NewHandler(bus events.Bus, logger zerolog.Logger) *Handler {
	return &Handler{
		bus:    bus,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Origin enforcement happens at the gateway in front of us.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// RegisterRoutes registers the WebSocket endpoint
func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("/ws", h.Serve)
}

// Serve upgrades the connection and starts the client pumps.
func (h *Handler) Serve(c echo.Context) error {
	userID, _ := c.Get("userID").(string)
	if userID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	client := newClient(conn, h.bus, userID, h.logger)
	if err := client.subscribe(events.UserTopic(userID)); err != nil {
		h.logger.Error().Err(err).Str("user", userID).Msg("user topic subscription failed")
		conn.Close()
		return nil
	}

	go client.writePump()
	go client.readPump()
	return nil
}
