package http

import (
	"net/http"

	"github.com/gorilla/mux"
	"pdf-quiz-service/internal/app"
)

// NewRouter wires the REST API, the websocket channel and the health check.
func NewRouter(service *app.QuizService, defaultBankID string) *mux.Router {
	api := NewQuizHandler(service, defaultBankID)
	ws := NewWSHandler(service)

	router := mux.NewRouter()
	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}).Methods(http.MethodGet)
	router.HandleFunc("/ws", ws.ServeWS)

	r := router.PathPrefix("/api").Subrouter()
	r.HandleFunc("/banks/{bankId}", api.GetBank).Methods(http.MethodGet)
	r.HandleFunc("/sessions", api.OpenSession).Methods(http.MethodPost)
	r.HandleFunc("/sessions/{id}", api.GetSession).Methods(http.MethodGet)
	r.HandleFunc("/sessions/{id}", api.EndSession).Methods(http.MethodDelete)
	r.HandleFunc("/sessions/{id}/start", api.StartQuiz).Methods(http.MethodPost)
	r.HandleFunc("/sessions/{id}/answer", api.Answer).Methods(http.MethodPost)
	r.HandleFunc("/sessions/{id}/next", api.Next).Methods(http.MethodPost)
	r.HandleFunc("/sessions/{id}/menu", api.Menu).Methods(http.MethodPost)
	r.HandleFunc("/players/{playerId}/review", api.GetReview).Methods(http.MethodGet)
	r.HandleFunc("/players/{playerId}/stats", api.GetStats).Methods(http.MethodGet)
	return router
}
