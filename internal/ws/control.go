package ws

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	diag "github.com/coreman2200/funtimes-dotstar/internal/diagnostics"
	"github.com/coreman2200/funtimes-dotstar/model"
)

// Command is one control message. Which fields matter depends on Op.
type Command struct {
	Op         string `json:"op"`
	Index      int    `json:"index"`
	Start      int    `json:"start"`
	End        int    `json:"end"`
	R          uint8  `json:"r"`
	G          uint8  `json:"g"`
	B          uint8  `json:"b"`
	RGB        uint32 `json:"rgb"`
	Brightness *int   `json:"brightness,omitempty"` // MaxBrightness when absent
	Positions  int    `json:"positions"`
	Name       string `json:"name"`
	Preset     string `json:"preset"`
}

// Reply answers every control message.
type Reply struct {
	OK     bool   `json:"ok"`
	Op     string `json:"op"`
	Error  string `json:"error,omitempty"`
	Effect string `json:"effect"`
}

type errUnknownEffect string

func (e errUnknownEffect) Error() string { return fmt.Sprintf("unknown effect %q", string(e)) }

func (c Command) brightness() int {
	if c.Brightness == nil {
		return model.MaxBrightness
	}
	return *c.Brightness
}

// Apply runs c against the strip. Commands that write pixels stop the active
// effect so it does not paint over them; "show" and "rotate" leave it running.
func (s *State) Apply(c Command) error {
	s.mu.Lock()
	err := s.apply(c, time.Now())
	if err == nil && c.Op == "effect" {
		s.unlockAndSave()
		return nil
	}
	s.mu.Unlock()
	return err
}

func (s *State) apply(c Command, now time.Time) error {
	st := s.strip
	switch c.Op {
	case "set_pixel":
		s.stopEffect()
		st.SetPixel(c.Index, c.R, c.G, c.B, c.brightness())
	case "set_pixel_rgb":
		s.stopEffect()
		st.SetPixelRGB(c.Index, c.RGB, c.brightness())
	case "set_range":
		s.stopEffect()
		st.SetRange(c.Start, c.End, c.R, c.G, c.B, c.brightness())
	case "set_range_rgb":
		s.stopEffect()
		st.SetRangeRGB(c.Start, c.End, c.RGB, c.brightness())
	case "set_all":
		s.stopEffect()
		st.SetAll(c.R, c.G, c.B, c.brightness())
	case "set_all_rgb":
		s.stopEffect()
		st.SetAllRGB(c.RGB, c.brightness())
	case "clear":
		s.stopEffect()
		st.ClearStrip()
	case "rotate":
		st.Rotate(c.Positions)
	case "show":
		return s.show()
	case "effect":
		if c.Name == "" || c.Name == "none" {
			s.stopEffect()
		} else if err := s.startEffect(c.Name, c.Preset, now); err != nil {
			return err
		}
	default:
		s.pushDiag(diag.CommandUnknown(c.Op))
		return fmt.Errorf("unknown op %q", c.Op)
	}
	return nil
}

// HandleControlWS reads Commands and answers each with a Reply.
func (s *State) HandleControlWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrade(w, r)
	if err != nil {
		return
	}
	defer conn.Close()
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var c Command
		if err := json.Unmarshal(data, &c); err != nil {
			s.Diagnose(diag.CommandInvalid(err))
			writeJSON(conn, Reply{Error: err.Error()})
			continue
		}
		rep := Reply{OK: true, Op: c.Op}
		if err := s.Apply(c); err != nil {
			log.Debug().Err(err).Str("op", c.Op).Msg("control command failed")
			rep.OK, rep.Error = false, err.Error()
		}
		s.mu.RLock()
		rep.Effect = s.effectName()
		s.mu.RUnlock()
		writeJSON(conn, rep)
	}
}
