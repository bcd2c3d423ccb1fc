// Package api exposes running games over HTTP so a phone or a browser can
// stream its gravity sensor in and frames out.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/battlesnakeio/gravitysnake/highscore"
	"github.com/battlesnakeio/gravitysnake/rules"
	"github.com/battlesnakeio/gravitysnake/session"
	"github.com/julienschmidt/httprouter"
	"github.com/pkg/errors"
	"github.com/rs/cors"
	log "github.com/sirupsen/logrus"
)

// Server is the http host of a session.Manager.
type Server struct {
	hs    *http.Server
	games *session.Manager
	store highscore.Store

	// ctx bounds every game created through the server.
	ctx    context.Context
	cancel context.CancelFunc
}

// New returns a server listening on addr. The store may be nil when no high
// scores are kept.
func New(addr string, games *session.Manager, store highscore.Store) *Server {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		games:  games,
		store:  store,
		ctx:    ctx,
		cancel: cancel,
	}

	router := httprouter.New()
	router.POST("/games", s.createGame)
	router.GET("/games/:id", s.gameStatus)
	router.DELETE("/games/:id", s.removeGame)
	router.POST("/games/:id/tilt", s.tilt)
	router.POST("/games/:id/touch", s.touch)
	router.GET("/socket/:id", s.socket)
	router.GET("/highscores", s.highScores)

	s.hs = &http.Server{
		Addr:    addr,
		Handler: cors.Default().Handler(router),
	}
	return s
}

// Handler returns the root handler, routes wrapped in CORS.
func (s *Server) Handler() http.Handler { return s.hs.Handler }

// WaitForExit serves until the server is shut down.
func (s *Server) WaitForExit() {
	log.WithField("addr", s.hs.Addr).Info("gravitysnake api listening")
	err := s.hs.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		log.WithError(err).Error("error while listening")
	}
}

// Shutdown stops accepting requests and every game the server started.
func (s *Server) Shutdown(ctx context.Context) error {
	s.cancel()
	return s.hs.Shutdown(ctx)
}

// CreateRequest is the body of POST /games. Every field is optional.
type CreateRequest struct {
	Difficulty string  `json:"difficulty"`
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	DpToPx     float64 `json:"dp_to_px"`
}

// Vector is a gravity sample or a tap position.
type Vector struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// TiltResponse reports whether the sample steered the snake.
type TiltResponse struct {
	Accepted bool `json:"accepted"`
}

// HighScore is one row of GET /highscores.
type HighScore struct {
	Difficulty string `json:"difficulty"`
	Key        string `json:"key"`
	Score      int    `json:"score"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.WithError(err).Warn("unable to write response")
	}
}

func writeError(w http.ResponseWriter, r *http.Request, code int, err error) {
	log.WithError(err).WithFields(log.Fields{
		"method": r.Method,
		"path":   r.URL.Path,
		"code":   code,
	}).Warn("request failed")
	writeJSON(w, code, errorResponse{Error: err.Error()})
}

func statusFor(err error) int {
	switch errors.Cause(err) {
	case session.ErrNotFound:
		return http.StatusNotFound
	case session.ErrClosed:
		return http.StatusGone
	}
	return http.StatusInternalServerError
}

func decode(r *http.Request, v interface{}) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	return errors.Wrap(json.NewDecoder(r.Body).Decode(v), "invalid body")
}

func (s *Server) game(w http.ResponseWriter, r *http.Request, ps httprouter.Params) (*session.Runner, bool) {
	g, err := s.games.Get(ps.ByName("id"))
	if err != nil {
		writeError(w, r, statusFor(err), err)
		return nil, false
	}
	return g, true
}

func (s *Server) createGame(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	req := CreateRequest{}
	if err := decode(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return
	}

	d := rules.DifficultyBeginner
	switch {
	case req.Difficulty != "":
		var err error
		if d, err = rules.ParseDifficulty(req.Difficulty); err != nil {
			writeError(w, r, http.StatusBadRequest, err)
			return
		}
	case s.store != nil:
		var err error
		if d, err = highscore.LastDifficulty(r.Context(), s.store); err != nil {
			log.WithError(err).Warn("unable to read last difficulty")
		}
	}
	if s.store != nil {
		if err := highscore.RememberDifficulty(r.Context(), s.store, d); err != nil {
			log.WithError(err).Warn("unable to remember difficulty")
		}
	}

	g := s.games.Create(s.ctx, d, session.Options{
		Width:  req.Width,
		Height: req.Height,
		DpToPx: req.DpToPx,
	})
	writeJSON(w, http.StatusOK, g.Latest())
}

func (s *Server) gameStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if g, ok := s.game(w, r, ps); ok {
		writeJSON(w, http.StatusOK, g.Latest())
	}
}

func (s *Server) removeGame(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := s.games.Remove(ps.ByName("id")); err != nil {
		writeError(w, r, statusFor(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) tilt(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	g, ok := s.game(w, r, ps)
	if !ok {
		return
	}
	v := Vector{}
	if err := decode(r, &v); err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, TiltResponse{Accepted: g.Tilt(v.X, v.Y)})
}

func (s *Server) touch(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	g, ok := s.game(w, r, ps)
	if !ok {
		return
	}
	v := Vector{}
	if err := decode(r, &v); err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return
	}
	if err := g.Touch(rules.Point{X: v.X, Y: v.Y}); err != nil {
		writeError(w, r, statusFor(err), err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

func (s *Server) highScores(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	scores := []HighScore{}
	for _, d := range rules.Difficulties() {
		row := HighScore{Difficulty: d.String(), Key: d.HighScoreKey()}
		if s.store != nil {
			best, err := highscore.Best(r.Context(), s.store, row.Key)
			if err != nil {
				writeError(w, r, http.StatusInternalServerError, err)
				return
			}
			row.Score = best
		}
		scores = append(scores, row)
	}
	writeJSON(w, http.StatusOK, scores)
}
