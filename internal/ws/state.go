package ws

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/coreman2200/funtimes-dotstar/internal/config"
	diag "github.com/coreman2200/funtimes-dotstar/internal/diagnostics"
	"github.com/coreman2200/funtimes-dotstar/internal/effects"
	"github.com/coreman2200/funtimes-dotstar/model"
	"github.com/coreman2200/funtimes-dotstar/spi"
)

// State owns the strip and everything that touches it. All websocket writes
// happen with mu held.
type State struct {
	mu  sync.RWMutex
	cfg config.Config

	ConfigPath string
	// saveMu orders config writes. It is taken before mu is released and
	// held for the duration of the write.
	saveMu sync.Mutex
	save   func(path string, c *config.Config) error

	strip    *model.PixelStrip
	driver   spi.Driver
	drvName  string
	effects  *effects.Registry
	effect   effects.Effect
	preset   string
	frameID  uint64
	failures uint64

	startTime   time.Time
	clients     map[*websocket.Conn]bool
	diagClients map[*websocket.Conn]bool
}

// NewState builds the strip described by cfg, sending frames to drv. The
// effect named in cfg is started right away.
func NewState(cfg config.Config, drv spi.Driver, driverName string) *State {
	if drv == nil {
		drv = spi.Discard{}
	}
	s := &State{
		cfg:         cfg,
		driver:      drv,
		drvName:     driverName,
		effects:     effects.Default(),
		save:        config.Save,
		startTime:   time.Now(),
		clients:     map[*websocket.Conn]bool{},
		diagClients: map[*websocket.Conn]bool{},
	}
	s.strip = model.New(cfg.Pixels, model.SenderFunc(s.send),
		model.WithGlobalBrightness(cfg.Brightness),
		model.WithOrder(cfg.ColorOrder))

	if cfg.Effect != "" {
		if err := s.startEffect(cfg.Effect, "", s.startTime); err != nil {
			log.Warn().Err(err).Str("effect", cfg.Effect).Msg("boot effect not started")
		}
	}
	return s
}

// Tick advances the active effect and shows the strip. It is the render
// loop's per-frame callback.
func (s *State) Tick(now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.effect != nil {
		s.effect.Step(s.strip, now)
	}
	return s.show()
}

func (s *State) show() error {
	err := s.strip.Show()
	if err != nil {
		s.failures++
		if s.failures%100 == 1 {
			s.pushDiag(diag.ShowFailed(err, s.failures))
		}
	}
	return err
}

// send is the strip's Sender. It runs inside Show, so mu is held.
func (s *State) send(frame []byte) error {
	s.frameID++
	err := s.driver.Send(frame)
	s.broadcastFrame(s.strip.Pixels().RGB())
	return err
}

func (s *State) startEffect(name, preset string, now time.Time) error {
	e, ok := s.effects.Get(name)
	if !ok {
		s.pushDiag(diag.EffectUnknown(name, s.effects.List()))
		return errUnknownEffect(name)
	}
	if preset != "" {
		e.ApplyPreset(preset)
	}
	e.Start(s.strip, now)
	s.effect, s.preset = e, preset
	s.pushDiag(diag.EffectStarted(name, preset))
	return nil
}

func (s *State) stopEffect() {
	s.effect, s.preset = nil, ""
}

func (s *State) effectName() string {
	if s.effect == nil {
		return ""
	}
	return s.effect.Name()
}

// Strip runs f with exclusive access to the strip.
func (s *State) Strip(f func(*model.PixelStrip)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f(s.strip)
}

// Diagnose pushes d to every diagnostics client.
func (s *State) Diagnose(d diag.Diagnostic) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pushDiag(d)
}

// unlockAndSave persists the current config, releasing mu before touching
// the disk. mu must be held.
func (s *State) unlockAndSave() {
	path := s.ConfigPath
	if path == "" {
		s.mu.Unlock()
		return
	}
	cfg := s.cfg
	cfg.Effect = s.effectName()
	s.saveMu.Lock()
	s.mu.Unlock()
	defer s.saveMu.Unlock()
	if err := s.save(path, &cfg); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("config save failed")
	}
}

func upgrade(w http.ResponseWriter, r *http.Request) (*websocket.Conn, error) {
	up := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
	return up.Upgrade(w, r, nil)
}

// HandleFramesWS streams every shown frame as {"t","frame_id","rgb"}.
func (s *State) HandleFramesWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrade(w, r)
	if err != nil {
		return
	}
	s.mu.Lock()
	writeJSON(conn, s.topology())
	s.clients[conn] = true
	s.mu.Unlock()
	go s.drain(conn, s.clients)
}

// HandleDiagWS streams diagnostics.
func (s *State) HandleDiagWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrade(w, r)
	if err != nil {
		return
	}
	s.mu.Lock()
	s.diagClients[conn] = true
	s.mu.Unlock()
	go s.drain(conn, s.diagClients)
}

// drain reads until the peer goes away, then forgets it.
func (s *State) drain(conn *websocket.Conn, set map[*websocket.Conn]bool) {
	defer func() {
		s.mu.Lock()
		delete(set, conn)
		s.mu.Unlock()
		conn.Close()
	}()
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

type topology struct {
	Count            int      `json:"count"`
	Order            string   `json:"order"`
	GlobalBrightness int      `json:"global_brightness"`
	Driver           string   `json:"driver"`
	Effect           string   `json:"effect"`
	Effects          []string `json:"effects"`
}

func (s *State) topology() topology {
	return topology{
		Count:            s.strip.PixelCount(),
		Order:            s.strip.Order().String(),
		GlobalBrightness: s.strip.GlobalBrightness(),
		Driver:           s.drvName,
		Effect:           s.effectName(),
		Effects:          s.effects.List(),
	}
}

func (s *State) broadcastFrame(rgb []byte) {
	if len(s.clients) == 0 {
		return
	}
	type frame struct {
		T       int64  `json:"t"`
		FrameID uint64 `json:"frame_id"`
		RGB     []int  `json:"rgb"`
	}
	vals := make([]int, len(rgb))
	for i, v := range rgb {
		vals[i] = int(v)
	}
	b, _ := json.Marshal(frame{T: time.Now().UnixNano(), FrameID: s.frameID, RGB: vals})
	for c := range s.clients {
		c.SetWriteDeadline(time.Now().Add(200 * time.Millisecond))
		if err := c.WriteMessage(websocket.TextMessage, b); err != nil {
			log.Debug().Err(err).Msg("write frame")
		}
	}
}

func (s *State) pushDiag(d diag.Diagnostic) {
	log.Debug().Str("code", d.Code).Str("severity", string(d.Severity)).Msg(d.Summary)
	b, _ := json.Marshal(d)
	for c := range s.diagClients {
		c.SetWriteDeadline(time.Now().Add(200 * time.Millisecond))
		_ = c.WriteMessage(websocket.TextMessage, b)
	}
}

func writeJSON(conn *websocket.Conn, v any) {
	b, _ := json.Marshal(v)
	conn.SetWriteDeadline(time.Now().Add(200 * time.Millisecond))
	_ = conn.WriteMessage(websocket.TextMessage, b)
}
