package api

import (
	"net/http"
	"time"

	"github.com/battlesnakeio/gravitysnake/rules"
	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	log "github.com/sirupsen/logrus"
)

const writeWait = 5 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Message types a socket client may send.
const (
	MessageTilt  = "tilt"
	MessageTouch = "touch"
)

// ClientMessage is read from the socket. X and Y are a gravity vector for
// tilt and a position for touch.
type ClientMessage struct {
	Type string  `json:"type"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

// socket streams every state of a game to the client and applies the tilt and
// touch messages it sends back. The socket closes when the game stops.
func (s *Server) socket(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	g, ok := s.game(w, r, ps)
	if !ok {
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.WithError(err).Warn("unable to upgrade socket")
		return
	}
	defer conn.Close()

	fields := log.Fields{"game": g.ID, "remote": r.RemoteAddr}
	log.WithFields(fields).Info("socket opened")
	defer log.WithFields(fields).Info("socket closed")

	states, unsubscribe := g.Subscribe()
	defer unsubscribe()

	// Only this goroutine reads; the handler goroutine is the only writer.
	readErr := make(chan error, 1)
	go func() {
		for {
			var msg ClientMessage
			if err := conn.ReadJSON(&msg); err != nil {
				readErr <- err
				return
			}
			switch msg.Type {
			case MessageTilt:
				g.Tilt(msg.X, msg.Y)
			case MessageTouch:
				if err := g.Touch(rules.Point{X: msg.X, Y: msg.Y}); err != nil {
					readErr <- err
					return
				}
			default:
				log.WithFields(fields).WithField("type", msg.Type).Warn("unknown socket message")
			}
		}
	}()

	for {
		select {
		case st, ok := <-states:
			if !ok {
				conn.SetWriteDeadline(time.Now().Add(writeWait))
				conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "game closed"))
				return
			}
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(st); err != nil {
				log.WithError(err).WithFields(fields).Warn("socket write failed")
				return
			}
		case err := <-readErr:
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.WithError(err).WithFields(fields).Debug("socket read ended")
			}
			return
		}
	}
}
