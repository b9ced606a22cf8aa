package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"stride/internal/engine"
	"stride/internal/gateway/entity"

	"github.com/gorilla/websocket"
)

const (
	chatWSWriteWait = 10 * time.Second
	chatWSPongWait  = 60 * time.Second
	chatWSPingEvery = (chatWSPongWait * 9) / 10
)

var chatWSUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(_ *http.Request) bool {
		return true
	},
}

type chatWSInbound struct {
	Type    string `json:"type"`
	Message string `json:"message,omitempty"`
}

type chatWSOutbound struct {
	Type            string `json:"type"`
	Message         string `json:"message,omitempty"`
	NextField       string `json:"next_field,omitempty"`
	ProfileComplete bool   `json:"profile_complete,omitempty"`
	Code            string `json:"code,omitempty"`
}

// wsUserID resolves the caller for the websocket path, where browsers cannot
// set an Authorization header. A token query parameter is accepted instead.
func (s *Service) wsUserID(r *http.Request) (entity.UserID, error) {
	if s.users == nil {
		return entity.DemoUserID, nil
	}
	if token := strings.TrimSpace(r.URL.Query().Get("token")); token != "" {
		return s.users.ByToken(token)
	}
	return s.currentUserID(r)
}

func (s *Service) handleChatWS(w http.ResponseWriter, r *http.Request) {
	uid, err := s.wsUserID(r)
	if err != nil {
		http.Error(w, "not authenticated", http.StatusUnauthorized)
		return
	}

	conn, err := chatWSUpgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	if err := conn.SetReadDeadline(time.Now().Add(chatWSPongWait)); err != nil {
		log.Printf("chat ws set read deadline failed: %v", err)
		return
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(chatWSPongWait))
	})

	writeCh := make(chan chatWSOutbound, 32)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		ticker := time.NewTicker(chatWSPingEvery)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case out := <-writeCh:
				if err := conn.SetWriteDeadline(time.Now().Add(chatWSWriteWait)); err != nil {
					return
				}
				if err := conn.WriteJSON(out); err != nil {
					return
				}
			case <-ticker.C:
				if err := conn.SetWriteDeadline(time.Now().Add(chatWSWriteWait)); err != nil {
					return
				}
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			}
		}
	}()

	start, err := s.engine.StartSession(ctx, uid)
	if err != nil {
		pushChatWS(writeCh, chatWSOutbound{
			Type:    "error",
			Code:    "internal",
			Message: "failed to start session",
		})
		cancel()
		<-writerDone
		return
	}
	pushChatWS(writeCh, chatWSOutbound{
		Type:            "greeting",
		Message:         start.Message,
		NextField:       start.NextField,
		ProfileComplete: start.ProfileComplete,
	})

	for {
		var in chatWSInbound
		if err := conn.ReadJSON(&in); err != nil {
			cancel()
			<-writerDone
			return
		}
		switch strings.ToLower(strings.TrimSpace(in.Type)) {
		case "ping":
			pushChatWS(writeCh, chatWSOutbound{Type: "pong"})
		case "chat", "":
			res, err := s.engine.SubmitTurn(ctx, uid, in.Message)
			if err != nil {
				var validation *engine.ValidationError
				code := "internal"
				if errors.As(err, &validation) {
					code = "invalid_argument"
				}
				pushChatWS(writeCh, chatWSOutbound{
					Type:    "error",
					Code:    code,
					Message: err.Error(),
				})
				continue
			}
			pushChatWS(writeCh, chatWSOutbound{
				Type:            "response",
				Message:         res.Response,
				NextField:       res.NextField,
				ProfileComplete: res.ProfileComplete,
			})
		default:
			pushChatWS(writeCh, chatWSOutbound{
				Type:    "error",
				Code:    "invalid_argument",
				Message: "unsupported type: " + in.Type,
			})
		}
	}
}

func pushChatWS(writeCh chan chatWSOutbound, out chatWSOutbound) {
	if writeCh == nil {
		return
	}
	select {
	case writeCh <- out:
		return
	default:
	}
	select {
	case <-writeCh:
	default:
	}
	select {
	case writeCh <- out:
	default:
	}
}
