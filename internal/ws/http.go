package ws

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/coreman2200/funtimes-dotstar/model"
)

// Routes registers every endpoint on mux.
func (s *State) Routes(mux *http.ServeMux) {
	mux.HandleFunc("/ws", s.HandleFramesWS)
	mux.HandleFunc("/diag", s.HandleDiagWS)
	mux.HandleFunc("/control", s.HandleControlWS)
	mux.HandleFunc("/health", s.HandleHealth)
	mux.HandleFunc("/pixels", s.HandlePixels)
	mux.HandleFunc("/dump", s.HandleDump)
	mux.HandleFunc("/effects", s.HandleEffects)
}

func (s *State) HandleHealth(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	resp := map[string]any{
		"frame_id":   s.frameID,
		"failures":   s.failures,
		"uptime_s":   time.Since(s.startTime).Seconds(),
		"count":      s.strip.PixelCount(),
		"fps":        s.cfg.FPS,
		"brightness": s.strip.GlobalBrightness(),
		"driver":     s.drvName,
		"effect":     s.effectName(),
		"est_amps":   estimateCurrent(s.strip.Pixels()),
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

type pixelJSON struct {
	Index      int    `json:"index"`
	Color      string `json:"color"`
	Brightness uint8  `json:"brightness"`
}

// HandlePixels reports every pixel as "#RRGGBB" plus its 5-bit brightness.
func (s *State) HandlePixels(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	n := s.strip.PixelCount()
	out := make([]pixelJSON, 0, n)
	for i := 0; i < n; i++ {
		c, _ := s.strip.PixelColorString(i)
		br, _ := s.strip.PixelBrightness(i)
		out = append(out, pixelJSON{Index: i, Color: c, Brightness: br})
	}
	s.mu.RUnlock()

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(out)
}

// HandleDump writes the raw LED buffer as hex.
func (s *State) HandleDump(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if err := s.strip.DumpArray(w); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	_, _ = w.Write([]byte("\n"))
}

// HandleEffects lists the effects and their presets.
func (s *State) HandleEffects(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	out := map[string][]string{}
	for _, name := range s.effects.List() {
		e, _ := s.effects.Get(name)
		out[name] = e.Presets()
	}
	s.mu.RUnlock()

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(out)
}

// estimateCurrent returns estimated amps for px, 20mA per channel at full
// scale and full brightness.
func estimateCurrent(px model.Pixels) float64 {
	var sum float64
	for _, p := range px {
		ch := float64(p.R) + float64(p.G) + float64(p.B)
		sum += ch / 255.0 * float64(p.Brightness) / model.MaxBrightness
	}
	return sum * 0.020
}
