package api

import (
	"bytes"
	"context"
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/battlesnakeio/gravitysnake/highscore"
	"github.com/battlesnakeio/gravitysnake/rules"
	"github.com/battlesnakeio/gravitysnake/session"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

func createAPIServer(t *testing.T) (*Server, highscore.Store) {
	store := highscore.InMemStore()
	// Games never tick on their own so every response is predictable.
	games := session.NewManager(store, session.Options{
		Interval: time.Hour,
		Source:   rand.NewSource(1),
	})
	s := New(":1234", games, store)
	t.Cleanup(func() { s.cancel() })
	return s, store
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	var buf *bytes.Buffer
	if body != "" {
		buf = bytes.NewBufferString(body)
	} else {
		buf = &bytes.Buffer{}
	}
	req, err := http.NewRequest(method, path, buf)
	require.NoError(t, err)
	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, req)
	return rr
}

func createGame(t *testing.T, s *Server, body string) session.State {
	rr := do(t, s, "POST", "/games", body)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	st := session.State{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &st))
	return st
}

func TestCreate(t *testing.T) {
	s, _ := createAPIServer(t)

	st := createGame(t, s, `{"difficulty": "hard", "width": 300, "height": 500}`)
	require.NotEmpty(t, st.ID)
	require.Equal(t, "hard", st.Difficulty)
	require.Equal(t, rules.GameStatusRunning, st.Frame.Status)
	require.Equal(t, 300.0, st.Frame.Width)
	require.Equal(t, 500.0, st.Frame.Height)
	require.Len(t, st.Frame.Body, 1)
}

func TestCreateDefaults(t *testing.T) {
	s, _ := createAPIServer(t)

	st := createGame(t, s, "")
	require.Equal(t, "beginner", st.Difficulty)
	require.Equal(t, rules.Preset(rules.DifficultyBeginner), st.Params)
}

func TestCreateRemembersDifficulty(t *testing.T) {
	s, store := createAPIServer(t)

	createGame(t, s, `{"difficulty": "insane"}`)
	d, err := highscore.LastDifficulty(context.Background(), store)
	require.NoError(t, err)
	require.Equal(t, rules.DifficultyInsane, d)

	st := createGame(t, s, "")
	require.Equal(t, "insane", st.Difficulty)
	require.Equal(t, rules.Preset(rules.DifficultyInsane), st.Params)
}

func TestCreateBadRequest(t *testing.T) {
	s, _ := createAPIServer(t)

	rr := do(t, s, "POST", "/games", `{"difficulty": "nightmare"}`)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.Contains(t, rr.Body.String(), "unknown difficulty")

	rr = do(t, s, "POST", "/games", `{nope`)
	require.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestStatus(t *testing.T) {
	s, _ := createAPIServer(t)
	st := createGame(t, s, `{"difficulty": "1"}`)

	rr := do(t, s, "GET", "/games/"+st.ID, "")
	require.Equal(t, http.StatusOK, rr.Code)
	got := session.State{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	require.Equal(t, st.ID, got.ID)
	require.Equal(t, "easy", got.Difficulty)

	rr = do(t, s, "GET", "/games/abc_123", "")
	require.Equal(t, http.StatusNotFound, rr.Code)
}

func TestTiltAndTouch(t *testing.T) {
	s, _ := createAPIServer(t)
	st := createGame(t, s, "")

	rr := do(t, s, "POST", "/games/"+st.ID+"/tilt", `{"x": 0, "y": 1}`)
	require.Equal(t, http.StatusOK, rr.Code)
	require.JSONEq(t, `{"accepted": true}`, rr.Body.String())

	rr = do(t, s, "POST", "/games/"+st.ID+"/touch", `{"x": 5, "y": 6}`)
	require.Equal(t, http.StatusAccepted, rr.Code)

	rr = do(t, s, "POST", "/games/abc_123/tilt", `{"x": 0, "y": 1}`)
	require.Equal(t, http.StatusNotFound, rr.Code)
}

func TestRemove(t *testing.T) {
	s, _ := createAPIServer(t)
	st := createGame(t, s, "")

	rr := do(t, s, "DELETE", "/games/"+st.ID, "")
	require.Equal(t, http.StatusNoContent, rr.Code)

	rr = do(t, s, "POST", "/games/"+st.ID+"/touch", `{}`)
	require.Equal(t, http.StatusNotFound, rr.Code)

	rr = do(t, s, "DELETE", "/games/"+st.ID, "")
	require.Equal(t, http.StatusNotFound, rr.Code)
}

func TestHighScores(t *testing.T) {
	s, store := createAPIServer(t)
	require.NoError(t, store.Put(context.Background(), rules.DifficultyHard.HighScoreKey(), 7))

	rr := do(t, s, "GET", "/highscores", "")
	require.Equal(t, http.StatusOK, rr.Code)

	scores := []HighScore{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &scores))
	require.Len(t, scores, 5)
	require.Equal(t, HighScore{Difficulty: "beginner", Key: "high_beginner_preference"}, scores[0])
	require.Equal(t, HighScore{Difficulty: "hard", Key: "high_hard_preference", Score: 7}, scores[3])
}

func TestCORS(t *testing.T) {
	s, _ := createAPIServer(t)

	req, err := http.NewRequest("GET", "/highscores", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://example.com")
	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, req)
	require.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
}

func dialSocket(t *testing.T, ts *httptest.Server, id string) (*websocket.Conn, *http.Response, error) {
	u := "ws" + strings.TrimPrefix(ts.URL, "http") + "/socket/" + id
	return websocket.DefaultDialer.Dial(u, nil)
}

func TestSocket(t *testing.T) {
	s, _ := createAPIServer(t)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	st := createGame(t, s, "")
	conn, _, err := dialSocket(t, ts, st.ID)
	require.NoError(t, err)
	defer conn.Close()

	first := session.State{}
	require.NoError(t, conn.ReadJSON(&first))
	require.Equal(t, st.ID, first.ID)
	require.Equal(t, rules.GameStatusRunning, first.Frame.Status)

	require.NoError(t, conn.WriteJSON(ClientMessage{Type: MessageTilt, X: 0, Y: 1}))
	require.NoError(t, conn.WriteJSON(ClientMessage{Type: MessageTouch, X: 3, Y: 4}))

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	for {
		next := session.State{}
		require.NoError(t, conn.ReadJSON(&next))
		if next.Touches == 1 {
			break
		}
	}

	// Removing the game closes the socket.
	rr := do(t, s, "DELETE", "/games/"+st.ID, "")
	require.Equal(t, http.StatusNoContent, rr.Code)
	for {
		var next session.State
		if err := conn.ReadJSON(&next); err != nil {
			require.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure), err.Error())
			break
		}
	}
}

func TestSocketUnknownGame(t *testing.T) {
	s, _ := createAPIServer(t)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	_, resp, err := dialSocket(t, ts, "abc_123")
	require.Error(t, err)
	require.NotNil(t, resp)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}
