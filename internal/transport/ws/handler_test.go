package ws

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"promptscore/internal/config"
	"promptscore/internal/model"
	"promptscore/internal/service"
)

type fakeAnalyzer struct{}

func (fakeAnalyzer) AnalyzeObserved(ctx context.Context, prompt string, observe service.StageObserver) *model.ScoreResult {
	observe(service.StageEvent{AnalysisID: "a1", Stage: service.StageGate, State: service.StateStarted})
	observe(service.StageEvent{AnalysisID: "a1", Stage: service.StageGate, State: service.StateDone})
	return &model.ScoreResult{ID: "a1", BertScore: 40, LLMScore: 55, FinalScore: 50.5, Status: model.StatusAccepted}
}

func dial(t *testing.T, srv *httptest.Server, query string) (*websocket.Conn, *http.Response, error) {
	t.Helper()
	return dialWithHeader(t, srv, query, nil)
}

func dialWithHeader(t *testing.T, srv *httptest.Server, query string, header http.Header) (*websocket.Conn, *http.Response, error) {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws" + query
	return websocket.DefaultDialer.Dial(url, header)
}

func readEvent(t *testing.T, conn *websocket.Conn) Event {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var ev Event
	require.NoError(t, conn.ReadJSON(&ev))
	return ev
}

func TestAnalyzeWSStreamsStagesAndResult(t *testing.T) {
	handler := NewHandler(fakeAnalyzer{}, service.NewAuthService(config.AuthConfig{}), nil)
	srv := httptest.NewServer(http.HandlerFunc(handler.AnalyzeWS))
	defer srv.Close()

	conn, _, err := dial(t, srv, "")
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteJSON(model.AnalyzeRequest{Prompt: "Write a haiku about the ocean"}))

	first := readEvent(t, conn)
	assert.Equal(t, EventStage, first.Type)
	require.NotNil(t, first.Stage)
	assert.Equal(t, service.StateStarted, first.Stage.State)

	second := readEvent(t, conn)
	assert.Equal(t, EventStage, second.Type)
	assert.Equal(t, service.StateDone, second.Stage.State)

	result := readEvent(t, conn)
	assert.Equal(t, EventResult, result.Type)
	require.NotNil(t, result.Result)
	assert.True(t, result.Result.Success)
	assert.Equal(t, 50.5, result.Result.FinalScore)
	assert.Equal(t, model.StatusAccepted, result.Result.Status)
}

func TestAnalyzeWSRejectsBadFrames(t *testing.T) {
	handler := NewHandler(fakeAnalyzer{}, nil, nil)
	srv := httptest.NewServer(http.HandlerFunc(handler.AnalyzeWS))
	defer srv.Close()

	conn, _, err := dial(t, srv, "")
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("{not json")))
	ev := readEvent(t, conn)
	assert.Equal(t, EventError, ev.Type)
	assert.Equal(t, "invalid message", ev.Error)

	require.NoError(t, conn.WriteJSON(model.AnalyzeRequest{Prompt: "   "}))
	ev = readEvent(t, conn)
	assert.Equal(t, EventError, ev.Type)
	assert.Equal(t, "Please enter a prompt.", ev.Error)
}

func TestAnalyzeWSRequiresTokenWhenAuthEnabled(t *testing.T) {
	auth := service.NewAuthService(config.AuthConfig{JWTSecret: "s", Username: "u", Password: "p"})
	handler := NewHandler(fakeAnalyzer{}, auth, nil)
	srv := httptest.NewServer(http.HandlerFunc(handler.AnalyzeWS))
	defer srv.Close()

	_, resp, err := dial(t, srv, "")
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	_, resp, err = dial(t, srv, "?token=garbage")
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	login, err := auth.Login("u", "p")
	require.NoError(t, err)
	conn, _, err := dial(t, srv, "?token="+login.Token)
	require.NoError(t, err)
	conn.Close()

	conn, _, err = dialWithHeader(t, srv, "", http.Header{"Authorization": {"Bearer " + login.Token}})
	require.NoError(t, err)
	conn.Close()
}
