package stream

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/Saad-Labelenergie/CRM.2.0-sub000/internal/crm"
	"github.com/Saad-Labelenergie/CRM.2.0-sub000/internal/lib/api"
	"github.com/Saad-Labelenergie/CRM.2.0-sub000/internal/storage"
)

const (
	TypeSnapshot = "snapshot"
	TypeChange   = "change"
	TypeRefresh  = "refresh"

	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

type Subscriber interface {
	Subscribe(collection string) (<-chan storage.Change, func())
}

type ResourceProvider interface {
	Resource(name string) (crm.Resource, bool)
}

// Message is one frame sent to the client. Items is set on snapshots, Doc
// on added and modified changes.
type Message struct {
	Type       string             `json:"type"`
	Collection string             `json:"collection"`
	Kind       storage.ChangeKind `json:"kind,omitempty"`
	ID         string             `json:"id,omitempty"`
	Doc        json.RawMessage    `json:"doc,omitempty"`
	Items      any                `json:"items,omitempty"`
}

// Stream upgrades to a websocket and follows one collection: a snapshot
// first, then every committed change. When the hub drops the connection
// for being slow, it subscribes again and sends a fresh snapshot.
func Stream(log *slog.Logger, hub Subscriber, res ResourceProvider, origins []string) http.HandlerFunc {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || len(origins) == 0 || slices.Contains(origins, origin)
		},
	}

	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.realtime.Stream"

		name := chi.URLParam(r, "collection")
		rs, ok := res.Resource(name)
		if !ok {
			api.JSONError(w, r, http.StatusNotFound, "collection inconnue", nil)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			// Upgrade already answered the client
			log.Debug("websocket upgrade failed", slog.String("op", op), slog.String("error", err.Error()))
			return
		}
		defer conn.Close()

		log := log.With(slog.String("op", op), slog.String("collection", name))

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		go readPump(conn, cancel)

		if err := writePump(ctx, conn, hub, rs, name); err != nil {
			log.Debug("stream closed", slog.String("error", err.Error()))
		}
	}
}

// readPump discards client frames and keeps the read deadline moving on
// pongs. It cancels the stream once the peer is gone.
func readPump(conn *websocket.Conn, cancel context.CancelFunc) {
	defer cancel()

	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func writePump(ctx context.Context, conn *websocket.Conn, hub Subscriber, rs crm.Resource, name string) error {
	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()

	for {
		ch, unsubscribe := hub.Subscribe(name)
		err := follow(ctx, conn, ch, ping.C, rs, name)
		unsubscribe()
		if !errors.Is(err, errResync) {
			return err
		}
	}
}

var errResync = errors.New("subscriber dropped")

func follow(ctx context.Context, conn *websocket.Conn, ch <-chan storage.Change, ping <-chan time.Time, rs crm.Resource, name string) error {
	items, err := rs.List(ctx)
	if err != nil {
		return err
	}
	if err := send(conn, Message{Type: TypeSnapshot, Collection: name, Items: items}); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
			return ctx.Err()
		case <-ping:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return err
			}
		case c, ok := <-ch:
			if !ok {
				return errResync
			}
			if err := send(conn, message(c)); err != nil {
				return err
			}
		}
	}
}

func message(c storage.Change) Message {
	if c.Kind == storage.ChangeRefresh {
		return Message{Type: TypeRefresh, Collection: c.Collection}
	}
	m := Message{Type: TypeChange, Collection: c.Collection, Kind: c.Kind, ID: c.Document.ID}
	if c.Kind != storage.ChangeRemoved && len(c.Document.Data) > 0 {
		m.Doc = c.Document.Data
	}
	return m
}

func send(conn *websocket.Conn, m Message) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(m)
}
