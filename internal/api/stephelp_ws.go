package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/buildnow/buildnow-api/internal/models"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// stepHelpWSMessage is one question from the client over the socket.
type stepHelpWSMessage struct {
	Project          *models.StepHelpProject `json:"project"`
	CurrentStepIndex int                     `json:"currentStepIndex"`
	PreviousSteps    []string                `json:"previousSteps,omitempty"`
	Question         string                  `json:"question"`
}

// stepHelpWSReply is the server's answer (or error) to one question.
type stepHelpWSReply struct {
	Answer string               `json:"answer,omitempty"`
	Usage  models.UsageEstimate `json:"usage,omitempty"`
	Error  string               `json:"error,omitempty"`
}

// handleStepHelpWS runs a step-help conversation over a websocket. Each
// inbound message is one question answered through the same orchestrator path
// as the POST endpoint; a failed answer is reported on the socket without
// closing it.
func (s *Server) handleStepHelpWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("failed to upgrade to websocket", "error", err)
		return
	}
	defer conn.Close()

	slog.Info("step help websocket connected", "remote_addr", r.RemoteAddr)

	for {
		var msg stepHelpWSMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Warn("step help websocket read failed", "error", err)
			}
			return
		}

		req := models.StepHelpRequest{
			Project:          msg.Project,
			CurrentStepIndex: msg.CurrentStepIndex,
			PreviousSteps:    msg.PreviousSteps,
			UserQuestion:     msg.Question,
		}

		if err := req.Validate(); err != nil {
			if werr := conn.WriteJSON(stepHelpWSReply{Error: err.Error()}); werr != nil {
				return
			}
			continue
		}

		result, err := s.orch.StepHelp(r.Context(), &req)
		if err != nil {
			slog.Error("step help over websocket failed", "error", err)
			if werr := conn.WriteJSON(stepHelpWSReply{Error: "Failed to generate AI help. Please try again."}); werr != nil {
				return
			}
			continue
		}

		if err := conn.WriteJSON(stepHelpWSReply{Answer: result.Answer, Usage: result.Usage}); err != nil {
			return
		}
	}
}
