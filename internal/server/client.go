package server

import (
	"errors"
	"gridtactics/internal/domain"
	"gridtactics/internal/engine"
	"gridtactics/internal/network"
	"gridtactics/pkg/api"
	"gridtactics/pkg/logger"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// Настройки WebSocket
const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Client - посредник между Websocket и инстансом уровня
type Client struct {
	Instance *engine.Instance
	Hub      *network.Broadcaster
	Conn     *websocket.Conn
	Send     chan api.ServerResponse
	Key      string

	encode encoder
	log    *logrus.Entry
}

func NewClient(inst *engine.Instance, hub *network.Broadcaster, conn *websocket.Conn, enc encoder) *Client {
	return &Client{
		Instance: inst,
		Hub:      hub,
		Conn:     conn,
		encode:   enc,
		log:      logger.Log.WithField("component", "ws_client"),
	}
}

// run: рукопожатие, подписка на хаб, затем пампы
func (c *Client) run() {
	c.Conn.SetReadLimit(maxMessageSize)
	if err := c.Conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.log.WithError(err).Warn("failed to set read deadline")
	}
	c.Conn.SetPongHandler(func(string) error {
		if err := c.Conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			c.log.WithError(err).Warn("failed to set pong read deadline")
		}
		return nil
	})

	// 1. HANDSHAKE (LOGIN)
	var loginCmd api.ClientCommand
	if err := c.Conn.ReadJSON(&loginCmd); err != nil {
		c.log.WithError(err).Warn("Handshake failed")
		c.close()
		return
	}

	key, err := c.Instance.Join(loginCmd.Token)
	if err != nil {
		c.log.WithError(err).WithField("token", loginCmd.Token).Warn("Join rejected")
		c.reject(err)
		return
	}
	c.Key = key
	c.log = c.log.WithField("key", key)
	c.log.Info("Client logged in")

	// 2. ПОДПИСКА НА ОБНОВЛЕНИЯ
	c.Send = c.Hub.Register(key)
	go c.writePump()

	// Первый кадр - полный снимок
	first := domain.InternalCommand{Action: domain.ActionInit, Token: key}
	if err := c.Instance.Submit(first); err != nil {
		c.log.WithError(err).Warn("INIT not queued")
	}

	c.readPump()
}

// readPump читает команды клиента и ставит их в очередь инстанса
func (c *Client) readPump() {
	defer func() {
		c.Hub.Unregister(c.Key, c.Send)
		c.Instance.Leave(c.Key)
		c.close()
		c.log.Info("Client disconnected")
	}()

	for {
		var cmd api.ClientCommand
		if err := c.Conn.ReadJSON(&cmd); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.log.WithError(err).Error("WS Error")
			}
			return
		}

		action := domain.ParseAction(cmd.Action)
		if action == domain.ActionUnknown {
			c.log.WithField("action", cmd.Action).Warn("Unknown action")
			continue
		}

		// Токен из сообщения игнорируем: клиент управляет только своей сущностью
		err := c.Instance.Submit(domain.InternalCommand{
			Action:  action,
			Token:   c.Key,
			Payload: cmd.Payload,
		})
		if errors.Is(err, domain.ErrInstanceShutdown) {
			return
		}
		if err != nil {
			c.log.WithError(err).Debug("Command not queued")
		}
	}
}

// writePump отправляет кадры клиенту + Ping
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			if err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.log.WithError(err).Warn("failed to set write deadline")
			}
			if !ok {
				// Хаб закрыл канал: нас вытеснили или мы ушли сами
				if err := c.Conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
					c.log.WithError(err).Debug("write close message failed")
				}
				return
			}
			if err := c.encode(c.Conn, message); err != nil {
				c.log.WithError(err).Debug("write message failed")
				return
			}

		case <-ticker.C:
			if err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.log.WithError(err).Warn("failed to set ping write deadline")
			}
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.log.WithError(err).Debug("ping failed")
				return
			}
		}
	}
}

// reject отправляет кадр с ошибкой и закрывает соединение (до запуска writePump)
func (c *Client) reject(cause error) {
	msg := api.ServerResponse{
		Type:     "ERROR",
		Tick:     c.Instance.Tick(),
		TickRate: c.Instance.Config().TickRate,
		Logs: []api.LogEntry{{
			ID:        "join",
			Text:      cause.Error(),
			Type:      "ERROR",
			Timestamp: time.Now().UnixMilli(),
		}},
	}
	if err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err == nil {
		if err := c.encode(c.Conn, msg); err != nil {
			c.log.WithError(err).Debug("write reject failed")
		}
	}
	c.close()
}

func (c *Client) close() {
	if err := c.Conn.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
		c.log.WithError(err).Debug("failed to close websocket connection")
	}
}
