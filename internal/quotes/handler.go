package quotes

import (
	"net/http"

	"github.com/2beens/mm2kbench/internal/telemetry/tracing"
	"github.com/2beens/mm2kbench/pkg"

	"github.com/gorilla/mux"
	"go.opentelemetry.io/otel/attribute"
)

type Handler struct {
	manager *Manager
}

func NewHandler(manager *Manager) *Handler {
	return &Handler{
		manager: manager,
	}
}

func (handler *Handler) SetupRoutes(r *mux.Router) {
	r.HandleFunc("/quote/random", handler.handleGetRandomQuote).Methods("GET").Name("quote")
}

func (handler *Handler) handleGetRandomQuote(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "quotesHandler.random")
	defer span.End()

	genre := r.URL.Query().Get("genre")
	if genre == "" {
		genre = GenreGeneric
	}
	span.SetAttributes(attribute.String("quote.genre", genre))

	pkg.WriteJSON(w, handler.manager.RandomQuote(genre), http.StatusOK)
}
