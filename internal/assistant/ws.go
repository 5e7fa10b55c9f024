package assistant

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/vendorguard/helpassist/internal/knowledge"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// HostFactory builds a Host whose events are pushed through notify.
// The ws handler creates one host per connection: each browser tab owns
// its own widget.
type HostFactory func(notify func(Event)) *Host

// wsRequest is the incoming WebSocket message format.
type wsRequest struct {
	Type    string `json:"type"` // open, message, suggestion, minimize, maximize, close, toggle
	Context string `json:"context,omitempty"`
	Text    string `json:"text,omitempty"`
}

// wsResponse is the outgoing WebSocket message format.
type wsResponse struct {
	Type    string   `json:"type"` // state, message, typing, prefill, error
	State   State    `json:"state"`
	Message *Message `json:"message,omitempty"`
	Prefill string   `json:"prefill,omitempty"`
	Error   string   `json:"error,omitempty"`
}

// RegisterRoutes mounts the assistant widget websocket endpoint.
func RegisterRoutes(r chi.Router, factory HostFactory, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	r.Get("/api/assistant/ws", handleWebSocket(factory, logger))
}

func handleWebSocket(factory HostFactory, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Error("websocket upgrade failed", "error", err)
			return
		}
		defer conn.Close()

		// The reply timer fires on another goroutine; writes to the
		// connection must be serialized.
		var writeMu sync.Mutex
		send := func(resp wsResponse) {
			writeMu.Lock()
			defer writeMu.Unlock()
			if err := conn.WriteJSON(resp); err != nil {
				logger.Debug("websocket write failed", "error", err)
			}
		}

		host := factory(func(ev Event) {
			send(wsResponse{
				Type:    string(ev.Kind),
				State:   ev.State,
				Message: ev.Message,
				Prefill: ev.Prefill,
			})
		})
		defer host.Close()

		for {
			_, raw, err := conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					logger.Debug("websocket read failed", "error", err)
				}
				return
			}

			var req wsRequest
			if err := json.Unmarshal(raw, &req); err != nil {
				send(wsResponse{Type: "error", Error: "invalid message format"})
				continue
			}

			handleRequest(host, req, send)
		}
	}
}

func handleRequest(host *Host, req wsRequest, send func(wsResponse)) {
	switch req.Type {
	case "open":
		hc, err := knowledge.ParseContext(req.Context)
		if err != nil {
			send(wsResponse{Type: "error", State: host.State(), Error: err.Error()})
			return
		}
		state := host.Open(hc)
		send(wsResponse{Type: "state", State: state})
		// Replay the transcript so a fresh connection sees the greeting.
		for _, msg := range host.Transcript() {
			m := msg
			send(wsResponse{Type: "message", State: state, Message: &m})
		}

	case "message":
		if !host.Submit(req.Text) {
			send(wsResponse{Type: "error", State: host.State(), Error: "message not accepted"})
		}

	case "suggestion":
		host.ClickSuggestion(req.Text)

	case "minimize":
		send(wsResponse{Type: "state", State: host.Minimize()})

	case "maximize":
		send(wsResponse{Type: "state", State: host.Maximize()})

	case "close":
		send(wsResponse{Type: "state", State: host.Close()})

	case "toggle":
		send(wsResponse{Type: "state", State: host.Toggle()})

	default:
		send(wsResponse{Type: "error", State: host.State(), Error: "unknown message type: " + req.Type})
	}
}
