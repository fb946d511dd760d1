package quotes

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"nhooyr.io/websocket"

	"github.com/dalalsunil1986/portfoliomgr/internal/domain"
)

// Hub fans fresh intraday bars out to websocket subscribers. A slow or gone
// subscriber is dropped rather than allowed to block the broadcast.
type Hub struct {
	mu          sync.Mutex
	subscribers map[*subscriber]struct{}
	log         zerolog.Logger
}

type subscriber struct {
	quotes chan domain.IntradayQuote
}

const subscriberBuffer = 16

// NewHub creates a new intraday quote hub.
func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		subscribers: make(map[*subscriber]struct{}),
		log:         log.With().Str("component", "quote_hub").Logger(),
	}
}

// Broadcast delivers a bar to every subscriber. Subscribers whose buffer is
// full miss the bar; intraday pushes are best-effort.
func (h *Hub) Broadcast(quote domain.IntradayQuote) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for sub := range h.subscribers {
		select {
		case sub.quotes <- quote:
		default:
		}
	}
}

// SubscriberCount returns the number of connected listeners.
func (h *Hub) SubscriberCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subscribers)
}

// ServeHTTP lets the hub be mounted directly as a handler.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.HandleWS(w, r)
}

// HandleWS upgrades the request to a websocket and streams intraday bars as
// JSON messages until the client disconnects.
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true, // same-origin enforcement handled by CORS middleware
	})
	if err != nil {
		h.log.Warn().Err(err).Msg("websocket accept failed")
		return
	}
	defer conn.Close(websocket.StatusInternalError, "closed")

	sub := &subscriber{quotes: make(chan domain.IntradayQuote, subscriberBuffer)}
	h.add(sub)
	defer h.remove(sub)

	// CloseRead watches for client disconnect; the stream is server-to-client only.
	ctx := conn.CloseRead(r.Context())

	for {
		select {
		case <-ctx.Done():
			conn.Close(websocket.StatusNormalClosure, "")
			return
		case quote := <-sub.quotes:
			if err := writeQuote(ctx, conn, quote); err != nil {
				h.log.Debug().Err(err).Msg("websocket write failed, dropping subscriber")
				return
			}
		}
	}
}

func (h *Hub) add(sub *subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.subscribers[sub] = struct{}{}
}

func (h *Hub) remove(sub *subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.subscribers, sub)
}

func writeQuote(ctx context.Context, conn *websocket.Conn, quote domain.IntradayQuote) error {
	payload, err := json.Marshal(quote)
	if err != nil {
		return err
	}
	writeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return conn.Write(writeCtx, websocket.MessageText, payload)
}
