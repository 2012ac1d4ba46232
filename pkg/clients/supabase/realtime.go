package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/emreacar/kafepos/internal/domain/models"
)

const (
	productsTopic     = "realtime:public:products"
	heartbeatInterval = 25 * time.Second
)

// ProductStream is a live subscription to row updates of the product table.
// Updates are delivered in arrival order; the channel is closed when the
// underlying socket dies so the consumer can resubscribe.
type ProductStream struct {
	conn    *websocket.Conn
	updates chan models.Product
	logger  *zap.Logger

	writeMu   sync.Mutex
	done      chan struct{}
	closeOnce sync.Once
}

type realtimeMessage struct {
	Topic   string          `json:"topic"`
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
	Ref     string          `json:"ref"`
}

// SubscribeProducts opens the realtime channel and joins the product topic.
// The returned stream must be closed when no longer needed; an abandoned
// subscription leaks a backend connection.
func (c *Client) SubscribeProducts(ctx context.Context) (*ProductStream, error) {
	wsURL := strings.Replace(c.baseURL, "http", "ws", 1) +
		"/realtime/v1/websocket?apikey=" + c.anonKey + "&vsn=1.0.0"

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("realtime dial: %w", err)
	}

	stream := &ProductStream{
		conn:    conn,
		updates: make(chan models.Product, 16),
		logger:  c.logger.Named("realtime"),
		done:    make(chan struct{}),
	}

	join := realtimeMessage{
		Topic:   productsTopic,
		Event:   "phx_join",
		Payload: json.RawMessage(`{}`),
		Ref:     uuid.NewString(),
	}
	if err := stream.write(join); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("realtime join: %w", err)
	}

	go stream.heartbeatLoop()
	go stream.readLoop()

	return stream, nil
}

// Updates returns the channel of authoritative product rows. The channel is
// closed when the subscription ends.
func (s *ProductStream) Updates() <-chan models.Product {
	return s.updates
}

// Close leaves the topic and tears the socket down.
func (s *ProductStream) Close() error {
	var err error
	s.closeOnce.Do(func() {
		leave := realtimeMessage{
			Topic:   productsTopic,
			Event:   "phx_leave",
			Payload: json.RawMessage(`{}`),
			Ref:     uuid.NewString(),
		}
		_ = s.write(leave)
		close(s.done)
		err = s.conn.Close()
	})
	return err
}

func (s *ProductStream) write(msg realtimeMessage) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.conn.WriteJSON(msg)
}

func (s *ProductStream) heartbeatLoop() {
	ticker := time.NewTicker(heartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			beat := realtimeMessage{
				Topic:   "phoenix",
				Event:   "heartbeat",
				Payload: json.RawMessage(`{}`),
				Ref:     uuid.NewString(),
			}
			if err := s.write(beat); err != nil {
				s.logger.Warn("heartbeat failed", zap.Error(err))
				return
			}
		}
	}
}

func (s *ProductStream) readLoop() {
	defer close(s.updates)

	for {
		var msg realtimeMessage
		if err := s.conn.ReadJSON(&msg); err != nil {
			select {
			case <-s.done:
			default:
				s.logger.Warn("realtime read failed", zap.Error(err))
			}
			return
		}

		if msg.Topic != productsTopic {
			continue
		}

		product, ok := decodeProductUpdate(msg.Event, msg.Payload)
		if !ok {
			continue
		}
		if err := validateRow(&product); err != nil {
			s.logger.Warn("realtime row rejected", zap.Error(err))
			continue
		}

		select {
		case s.updates <- product:
		case <-s.done:
			return
		}
	}
}

// decodeProductUpdate extracts the changed row from an update notification,
// accepting both the flat and the enveloped payload variants of the channel
// protocol.
func decodeProductUpdate(event string, payload []byte) (models.Product, bool) {
	if event != "UPDATE" && event != "postgres_changes" {
		return models.Product{}, false
	}

	var flat struct {
		Record *models.Product `json:"record"`
	}
	if err := json.Unmarshal(payload, &flat); err == nil && flat.Record != nil {
		return *flat.Record, true
	}

	var enveloped struct {
		Data struct {
			Record *models.Product `json:"record"`
		} `json:"data"`
	}
	if err := json.Unmarshal(payload, &enveloped); err == nil && enveloped.Data.Record != nil {
		return *enveloped.Data.Record, true
	}

	return models.Product{}, false
}
