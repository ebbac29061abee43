package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/startfranchise/expo-leaderboard-api/infrastructure/stream"
	"github.com/startfranchise/expo-leaderboard-api/internal/domain"
	"github.com/startfranchise/expo-leaderboard-api/internal/usecases/dealing"
	"github.com/startfranchise/expo-leaderboard-api/internal/usecases/reconciling"
	"github.com/startfranchise/expo-leaderboard-api/pkg/apiErrors"
)

const heartbeatInterval = 25 * time.Second

type sseMessage struct {
	event string
	data  []byte
}

// Realtime serves the live event stream consumed by the expo screen: an
// initial snapshot on connect, then deal changes and leaderboard signals as
// server-sent events, with periodic heartbeats to keep proxies from closing
// the connection.
func Realtime(
	reconciler *reconciling.Service,
	deals dealing.DealService,
	signals *stream.Broker[domain.Signal],
) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := w.(http.Flusher)
		if !ok {
			apiErrors.WriteError(w, apiErrors.ErrStreamUnavailable, "Streaming tidak didukung", nil)
			return
		}

		// Buffered so a slow client drops events instead of blocking brokers
		messages := make(chan sseMessage, 64)

		dealSub, err := deals.SubscribeDeals(func(ev domain.DealEvent) {
			enqueueSSE(messages, "deal", ev)
		})
		if err != nil {
			logrus.Error("Error subscribing to deal events:", err)
			apiErrors.WriteError(w, apiErrors.ErrStreamUnavailable, "Stream tidak tersedia", nil)
			return
		}
		defer dealSub.Unsubscribe()

		signalSub := signals.Subscribe(func(sig domain.Signal) {
			enqueueSSE(messages, "signal", sig)
		})
		defer signalSub.Unsubscribe()

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.WriteHeader(http.StatusOK)

		snapshot, err := json.Marshal(reconciler.Snapshot())
		if err != nil {
			logrus.Error("Error encoding snapshot for stream:", err)
			return
		}
		writeSSE(w, "snapshot", snapshot)
		flusher.Flush()

		heartbeat := time.NewTicker(heartbeatInterval)
		defer heartbeat.Stop()

		for {
			select {
			case <-r.Context().Done():
				return

			case <-heartbeat.C:
				fmt.Fprint(w, ": heartbeat\n\n")
				flusher.Flush()

			case msg := <-messages:
				writeSSE(w, msg.event, msg.data)
				flusher.Flush()
			}
		}
	})
}

func enqueueSSE(messages chan sseMessage, event string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		logrus.WithError(err).Warn("Error encoding stream payload")
		return
	}

	select {
	case messages <- sseMessage{event: event, data: data}:
	default:
		logrus.WithField("event", event).Warn("Stream client too slow, dropping event")
	}
}

func writeSSE(w http.ResponseWriter, event string, data []byte) {
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data)
}
