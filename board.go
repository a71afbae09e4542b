/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

// Quizshow board game
//
// One host screen shows the board; any number of extra devices (the
// quizmaster's phone, a second screen) join the same game and see the same
// state. The server owns the board, the open question, tile assignments and
// team scores. Browsers only send actions and draw what they are sent.
//
// Routes:
// - $path                 → redirect to a new random game
// - $path/:gameid         → HTML client
// - $path/:gameid/ws      → WebSocket for that game
// - $path/:gameid/state   → current state as JSON
// - $path/:gameid/qr      → PNG QR code for the game URL

package main

import (
	"context"
	"crypto/rand"
	_ "embed"
	"encoding/hex"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"github.com/skip2/go-qrcode"
	"golang.org/x/time/rate"

	"github.com/Seednode/quizshow/quiz"
	"github.com/Seednode/quizshow/snapshot"
)

// Messages coming from clients
type ClientMessage struct {
	Type  string      `json:"type"`            // "open", "reveal", "close", "award", "play_audio", "stop_audio", "hotkey"
	Coord *quiz.Coord `json:"coord,omitempty"` // open
	Team  string      `json:"team,omitempty"`  // award
	Combo string      `json:"combo,omitempty"` // hotkey
}

// StateMessage carries everything needed to draw the game. View is nil
// when the quiz document failed to load.
type StateMessage struct {
	Type      string        `json:"type"` // "state"
	GameID    string        `json:"game_id"`
	Title     string        `json:"title"`
	LoadError string        `json:"load_error,omitempty"`
	View      *quiz.View    `json:"view,omitempty"`
	Hotkeys   []quiz.Hotkey `json:"hotkeys"`
}

// SoundMessage tells every view to play a hotkey sound.
type SoundMessage struct {
	Type string   `json:"type"` // "sound"
	Cue  quiz.Cue `json:"cue"`
}

// ErrorMessage is sent only to the client whose action failed.
type ErrorMessage struct {
	Type    string `json:"type"` // "error"
	Message string `json:"message"`
}

type Client struct {
	conn     *websocket.Conn
	send     chan any
	clientID string
	limiter  *rate.Limiter
}

type actionRequest struct {
	client *Client
	msg    ClientMessage
}

type Hub struct {
	id  string
	cfg *Config

	session *quiz.Session
	loadErr error
	keymap  *quiz.Keymap
	store   snapshot.Store
	metrics *metrics

	clients map[*Client]bool

	register chan *Client
	unreg    chan *Client
	actions  chan actionRequest
	done     chan struct{}
	once     sync.Once

	mu sync.RWMutex

	createdAt  time.Time
	lastActive time.Time
}

func newHub(gm *GameManager, gameID string, session *quiz.Session, loadErr error) *Hub {
	now := time.Now()
	return &Hub{
		id:         gameID,
		cfg:        gm.cfg,
		session:    session,
		loadErr:    loadErr,
		keymap:     gm.keymap,
		store:      gm.store,
		metrics:    gm.metrics,
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unreg:      make(chan *Client),
		actions:    make(chan actionRequest),
		done:       make(chan struct{}),
		createdAt:  now,
		lastActive: now,
	}
}

func (h *Hub) run() {
	for {
		select {
		case <-h.done:
			return

		case c := <-h.register:
			h.mu.Lock()
			h.lastActive = time.Now()
			h.clients[c] = true
			h.metrics.connections.Inc()
			c.send <- h.stateLocked()
			h.mu.Unlock()

		case c := <-h.unreg:
			h.mu.Lock()
			h.lastActive = time.Now()
			h.dropLocked(c)
			h.mu.Unlock()

		case ar := <-h.actions:
			h.handleAction(ar)
		}
	}
}

func (h *Hub) stateLocked() StateMessage {
	msg := StateMessage{
		Type:    "state",
		GameID:  h.id,
		Title:   h.cfg.title,
		Hotkeys: h.keymap.Bindings(),
	}

	if h.session == nil {
		msg.LoadError = "Failed to load quiz."
		if h.loadErr != nil {
			msg.LoadError = "Failed to load quiz: " + h.loadErr.Error()
		}
		return msg
	}

	view := h.session.View()
	msg.View = &view

	return msg
}

// State returns the current state message.
func (h *Hub) State() StateMessage {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return h.stateLocked()
}

// dropLocked removes a client, closing its send channel exactly once.
func (h *Hub) dropLocked(c *Client) {
	if _, ok := h.clients[c]; !ok {
		return
	}

	delete(h.clients, c)
	close(c.send)
	h.metrics.connections.Dec()
}

func (h *Hub) broadcastLocked(msg any) {
	for client := range h.clients {
		select {
		case client.send <- msg:
		default:
			h.dropLocked(client)
		}
	}
}

func (h *Hub) replyLocked(c *Client, err error) {
	if _, ok := h.clients[c]; !ok {
		return
	}

	select {
	case c.send <- ErrorMessage{Type: "error", Message: err.Error()}:
	default:
		h.dropLocked(c)
	}
}

// handleAction applies one client action to the session and fans out the
// result.
func (h *Hub) handleAction(ar actionRequest) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed() {
		return
	}

	h.lastActive = time.Now()

	if ar.msg.Type == "hotkey" {
		cue, err := h.keymap.Trigger(ar.msg.Combo)
		if err != nil {
			h.replyLocked(ar.client, err)
			return
		}

		h.metrics.cues.WithLabelValues(cue.Sound).Inc()
		logf(h.cfg, "GAMES: Played %s sound in %s", cue.Sound, h.id)
		h.broadcastLocked(SoundMessage{Type: "sound", Cue: cue})

		return
	}

	if h.session == nil {
		h.replyLocked(ar.client, quiz.ErrBoardUnavailable)
		return
	}

	changed, err := h.applyLocked(ar)
	if err != nil {
		h.replyLocked(ar.client, err)
		return
	}
	if !changed {
		return
	}

	h.persistLocked()
	h.broadcastLocked(h.stateLocked())
}

func (h *Hub) applyLocked(ar actionRequest) (bool, error) {
	s := h.session
	msg := ar.msg

	switch msg.Type {
	case "open":
		if msg.Coord == nil {
			return false, errors.New("open needs a tile coordinate")
		}
		if _, err := s.Open(*msg.Coord); err != nil {
			return false, err
		}

		return true, nil

	case "reveal":
		return s.RevealSolution(), nil

	case "close":
		if s.Phase() == quiz.Closed {
			return false, nil
		}
		s.Close()

		return true, nil

	case "award":
		team, err := quiz.ParseTeam(msg.Team)
		if err != nil {
			return false, err
		}

		award, err := s.Award(team)
		if err != nil {
			return false, err
		}

		h.metrics.awards.WithLabelValues(team.String()).Inc()
		logf(h.cfg, "GAMES: Awarded %d points on tile %s to %s in %s (client %s)", award.Value, award.Coord, team, h.id, ar.client.clientID)

		return true, nil

	case "play_audio":
		if _, err := s.PlayAudio(); err != nil {
			return false, err
		}

		return true, nil

	case "stop_audio":
		return s.StopAudio() != nil, nil
	}

	return false, nil
}

func (h *Hub) persistLocked() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := h.store.Save(ctx, h.id, h.session.Snapshot()); err != nil {
		errorf(h.cfg, "GAMES: Failed to save %s: %v", h.id, err)
	}
}

func (h *Hub) closed() bool {
	select {
	case <-h.done:
		return true
	default:
		return false
	}
}

// closeAll disconnects all clients of this hub and stops its loop.
func (h *Hub) closeAll() {
	h.once.Do(func() { close(h.done) })

	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.clients {
		h.dropLocked(c)
		_ = c.conn.Close()
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

const clientCookieName = "quizshow_id"

func getOrSetClientID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(clientCookieName); err == nil && c.Value != "" {
		return c.Value
	}

	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return ""
	}
	id := hex.EncodeToString(buf)

	http.SetCookie(w, &http.Cookie{
		Name:     clientCookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	return id
}

// GameManager holds a set of hubs keyed by game ID, so each $path/$gameid
// is its own isolated game.
type GameManager struct {
	cfg     *Config
	catalog *quiz.Catalog
	keymap  *quiz.Keymap
	store   snapshot.Store
	metrics *metrics

	mu          sync.Mutex
	hubs        map[string]*Hub
	idleTimeout time.Duration
}

func newGameManager(cfg *Config, catalog *quiz.Catalog, keymap *quiz.Keymap, store snapshot.Store, m *metrics) *GameManager {
	return &GameManager{
		cfg:         cfg,
		catalog:     catalog,
		keymap:      keymap,
		store:       store,
		metrics:     m,
		hubs:        make(map[string]*Hub),
		idleTimeout: cfg.sessionTimeout,
	}
}

func (gm *GameManager) sessionOptions() quiz.Options {
	return quiz.Options{
		Policy:    gm.cfg.policy,
		AutoClose: gm.cfg.autoClose,
	}
}

// restoreLocked looks for a saved snapshot of gameID.
func (gm *GameManager) restoreLocked(gameID string) *Hub {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	snap, ok, err := gm.store.Load(ctx, gameID)
	if err != nil {
		errorf(gm.cfg, "GAMES: Failed to load snapshot for %s: %v", gameID, err)
		return nil
	}
	if !ok {
		return nil
	}

	session, err := quiz.Restore(snap, gm.sessionOptions())
	if err != nil {
		errorf(gm.cfg, "GAMES: Discarding snapshot for %s: %v", gameID, err)
		return nil
	}

	logf(gm.cfg, "GAMES: Restored game %s", gameID)

	return newHub(gm, gameID, session, nil)
}

func (gm *GameManager) startLocked(h *Hub) *Hub {
	gm.hubs[h.id] = h
	go h.run()
	return h
}

// getHub returns the game, restoring it from the snapshot store or
// starting it from the current quiz board when it does not exist yet.
func (gm *GameManager) getHub(gameID string) *Hub {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if hub, ok := gm.hubs[gameID]; ok {
		return hub
	}

	if hub := gm.restoreLocked(gameID); hub != nil {
		return gm.startLocked(hub)
	}

	result := gm.catalog.Current()

	var session *quiz.Session
	if result.OK() {
		session = quiz.NewSession(result.Board, gm.sessionOptions())
	}

	gm.metrics.games.Inc()
	logf(gm.cfg, "GAMES: Started game %s", gameID)

	return gm.startLocked(newHub(gm, gameID, session, result.Err))
}

// findHub is like getHub but never starts a new game.
func (gm *GameManager) findHub(gameID string) (*Hub, bool) {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if hub, ok := gm.hubs[gameID]; ok {
		return hub, true
	}

	if hub := gm.restoreLocked(gameID); hub != nil {
		return gm.startLocked(hub), true
	}

	return nil, false
}

// newGameID generates a crypto-random game ID and ensures it doesn't
// collide with existing games.
func (gm *GameManager) newGameID() string {
	const letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	const max = byte(255 - (256 % len(letters)))

	for {
		out := make([]byte, 0, 8)
		buf := make([]byte, 16)

		for len(out) < 8 {
			if _, err := rand.Read(buf); err != nil {
				panic("crypto/rand failure: " + err.Error())
			}
			for _, b := range buf {
				if b <= max && len(out) < 8 {
					out = append(out, letters[int(b)%len(letters)])
				}
			}
		}

		id := string(out)

		gm.mu.Lock()
		_, exists := gm.hubs[id]
		gm.mu.Unlock()

		if !exists {
			return id
		}
	}
}

// reap ends games idle since before cutoff. Games with a connected
// client are never idle.
func (gm *GameManager) reap(cutoff time.Time) {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	for id, hub := range gm.hubs {
		hub.mu.RLock()
		last := hub.lastActive
		connected := len(hub.clients)
		hub.mu.RUnlock()

		if connected > 0 || !last.Before(cutoff) {
			continue
		}

		delete(gm.hubs, id)

		// Once closed, the hub saves nothing more, so the delete below
		// is final.
		hub.closeAll()

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := gm.store.Delete(ctx, id); err != nil {
			errorf(gm.cfg, "GAMES: Failed to delete snapshot for %s: %v", id, err)
		}
		cancel()

		logf(gm.cfg, "GAMES: Ended idle game %s", id)
	}
}

// reaperLoop periodically removes hubs that have been idle longer than
// idleTimeout, until ctx is done.
func (gm *GameManager) reaperLoop(ctx context.Context) {
	if gm.idleTimeout <= 0 {
		return
	}

	ticker := time.NewTicker(gm.idleTimeout / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			gm.reap(time.Now().Add(-gm.idleTimeout))
		}
	}
}

// closeAll ends every game.
func (gm *GameManager) closeAll() {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	for id, hub := range gm.hubs {
		delete(gm.hubs, id)
		hub.closeAll()
	}
}

// WebSocket handler that picks the hub based on :gameid
func serveWSForManager(cfg *Config, gm *GameManager) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		gameID := ps.ByName("gameid")
		if gameID == "" {
			http.Error(w, "missing game id", http.StatusBadRequest)
			return
		}

		clientID := getOrSetClientID(w, r)

		hub := gm.getHub(gameID)

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			errorf(cfg, "SERVE: Websocket upgrade for %s failed: %v", realIP(r), err)
			return
		}

		client := &Client{
			conn:     conn,
			send:     make(chan any, 16),
			clientID: clientID,
			limiter:  rate.NewLimiter(rate.Limit(20), 40),
		}

		select {
		case hub.register <- client:
		case <-hub.done:
			_ = conn.Close()
			return
		}

		logf(cfg, "SERVE: %s joined game %s", realIP(r), gameID)

		go client.writePump()
		client.readPump(hub)
	}
}

func (c *Client) readPump(h *Hub) {
	defer func() {
		select {
		case h.unreg <- c:
		case <-h.done:
		}
		c.conn.Close()
	}()

	for {
		var msg ClientMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			return
		}

		if !c.limiter.Allow() {
			h.metrics.dropped.Inc()
			continue
		}

		switch msg.Type {
		case "open", "reveal", "close", "award", "play_audio", "stop_audio", "hotkey":
			select {
			case h.actions <- actionRequest{client: c, msg: msg}:
			case <-h.done:
				return
			}
		default:
			// ignore unknown types
		}
	}
}

func (c *Client) writePump() {
	defer c.conn.Close()

	for msg := range c.send {
		if err := c.conn.WriteJSON(msg); err != nil {
			return
		}
	}
}

func serveState(cfg *Config, gm *GameManager, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		hub, ok := gm.findHub(ps.ByName("gameid"))
		if !ok {
			http.Error(w, "unknown game", http.StatusNotFound)
			return
		}

		data, err := json.Marshal(hub.State())
		if err != nil {
			errs <- err

			http.Error(w, "encoding failed", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		securityHeaders(cfg, w)

		_, err = w.Write(data)
		if err != nil {
			errs <- err

			return
		}
	}
}

// QR handler: generates a PNG QR code for the current game URL using go-qrcode.
func qrHandler(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	gameID := ps.ByName("gameid")
	if gameID == "" {
		http.Error(w, "missing game id", http.StatusBadRequest)
		return
	}

	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}

	path := strings.TrimSuffix(r.URL.Path, "/qr")
	url := scheme + "://" + r.Host + path

	const qrSize = 320

	png, err := qrcode.Encode(url, qrcode.Medium, qrSize)
	if err != nil {
		http.Error(w, "qr generation failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(png)
}

//go:embed assets/board/index.html
var indexTemplate string

var boardPage = template.Must(template.New("board").Parse(indexTemplate))

type boardPageData struct {
	Title  string
	Prefix string
	Path   string
}

func getIndexHandler(cfg *Config, path string, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		securityHeaders(cfg, w)
		_ = getOrSetClientID(w, r)

		err := boardPage.Execute(w, boardPageData{
			Title:  cfg.title,
			Prefix: cfg.prefix,
			Path:   cfg.prefix + path,
		})
		if err != nil {
			errs <- err

			return
		}
	}
}

// redirectNewGame handles GET /path by generating a new random game ID
// (with server-side collision detection) and redirecting to /path/:gameid.
func redirectNewGame(cfg *Config, path string, gm *GameManager) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		gameID := gm.newGameID()
		logf(cfg, "GAMES: Created game %s/%s", path, gameID)
		http.Redirect(w, r, cfg.prefix+path+"/"+gameID, http.StatusTemporaryRedirect)
	}
}

func registerBoardGame(cfg *Config, path string, mux *httprouter.Router, gm *GameManager, errs chan<- error) {
	mux.GET(cfg.prefix+path, redirectNewGame(cfg, path, gm))

	mux.GET(cfg.prefix+path+"/:gameid", getIndexHandler(cfg, path, errs))

	mux.GET(cfg.prefix+path+"/:gameid/ws", serveWSForManager(cfg, gm))

	mux.GET(cfg.prefix+path+"/:gameid/state", serveState(cfg, gm, errs))

	mux.GET(cfg.prefix+path+"/:gameid/qr", qrHandler)
}
