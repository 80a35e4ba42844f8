package http

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/websocket"
	"pdf-quiz-service/internal/app"
	"pdf-quiz-service/internal/domain"
)

// WSHandler streams session state to a browser and accepts quiz actions over the same socket.
type WSHandler struct {
	service  *app.QuizService
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.QuizService) *WSHandler {
	return &WSHandler{
		service: service,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeWS upgrades HTTP requests to websockets and wires them into the quiz use cases.
// Every state change is pushed as a "state" message; "answer" also gets an "answerResult" reply.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("sessionId")
	if sessionID == "" {
		http.Error(w, "missing sessionId", http.StatusBadRequest)
		return
	}
	updates, cancel, err := h.service.Subscribe(r.Context(), sessionID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	defer cancel()

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	updatesDone := make(chan struct{})

	// single writer: gorilla connections do not support concurrent writes
	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		}
	}()

	go func() {
		defer close(updatesDone)
		for {
			select {
			case update, ok := <-updates:
				if !ok {
					// session ended; unblock the reader
					_ = conn.Close()
					return
				}
				select {
				case send <- outboundMessage[any]{Type: "state", Payload: update}:
				case <-closeSignals:
					return
				}
			case <-closeSignals:
				return
			}
		}
	}()

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		if msg, ok := h.dispatch(r, sessionID, inbound); ok {
			send <- msg
		}
	}

	close(closeSignals)
	<-updatesDone
	close(send)
	<-writerDone
}

// dispatch runs one inbound action. State changes reach the client through the
// subscription, so only results and errors are returned here.
func (h *WSHandler) dispatch(r *http.Request, sessionID string, inbound inboundMessage) (outboundMessage[any], bool) {
	ctx := r.Context()
	var err error
	switch inbound.Type {
	case "start":
		var payload startRequest
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			return errorMessage("invalid start payload"), true
		}
		mode, perr := domain.ParseMode(payload.Mode)
		if perr != nil {
			return errorMessage(perr.Error()), true
		}
		_, err = h.service.Start(ctx, sessionID, app.StartRequest{Mode: mode, Count: payload.Count})
	case "answer":
		var payload answerRequest
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			return errorMessage("invalid answer payload"), true
		}
		result, _, aerr := h.service.Answer(ctx, sessionID, payload.Selection)
		if aerr != nil {
			return errorMessage(aerr.Error()), true
		}
		return outboundMessage[any]{Type: "answerResult", Payload: result}, true
	case "next":
		_, err = h.service.Next(ctx, sessionID)
	case "menu":
		_, err = h.service.Menu(ctx, sessionID)
	default:
		return errorMessage("unsupported message type"), true
	}
	if err != nil {
		return errorMessage(err.Error()), true
	}
	return outboundMessage[any]{}, false
}

func errorMessage(msg string) outboundMessage[any] {
	return outboundMessage[any]{Type: "error", Payload: errorPayload{Message: msg}}
}
