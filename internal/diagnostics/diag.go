package diagnostics

import "fmt"

type Severity string

const (
	Info Severity = "info"
	Warn Severity = "warning"
	Err  Severity = "error"
)

// Codes pushed to diagnostic clients.
const (
	CodeEffectStarted  = "EFFECT.STARTED"
	CodeEffectUnknown  = "EFFECT.UNKNOWN"
	CodeCommandUnknown = "COMMAND.UNKNOWN"
	CodeCommandInvalid = "COMMAND.INVALID"
	CodeShowFailed     = "SHOW.FAILED"
	CodeDriverFallback = "DRIVER.FALLBACK"
)

type Diagnostic struct {
	Severity       Severity       `json:"severity"`
	Code           string         `json:"code"`
	Summary        string         `json:"summary"`
	Detail         string         `json:"detail,omitempty"`
	LikelyCauses   []string       `json:"likely_causes,omitempty"`
	SuggestedFixes []string       `json:"suggested_fixes,omitempty"`
	Evidence       map[string]any `json:"evidence,omitempty"`
}

func (d Diagnostic) String() string {
	if d.Detail == "" {
		return fmt.Sprintf("%s %s: %s", d.Severity, d.Code, d.Summary)
	}
	return fmt.Sprintf("%s %s: %s (%s)", d.Severity, d.Code, d.Summary, d.Detail)
}

func EffectStarted(name, preset string) Diagnostic {
	return Diagnostic{
		Severity: Info, Code: CodeEffectStarted, Summary: "Effect started", Detail: name,
		Evidence: map[string]any{"name": name, "preset": preset},
	}
}

func EffectUnknown(name string, known []string) Diagnostic {
	return Diagnostic{
		Severity: Warn, Code: CodeEffectUnknown, Summary: "Unknown effect name",
		SuggestedFixes: []string{fmt.Sprintf("use one of %v", known)},
		Evidence:       map[string]any{"name": name},
	}
}

func CommandUnknown(op string) Diagnostic {
	return Diagnostic{
		Severity: Warn, Code: CodeCommandUnknown, Summary: "Unknown control command",
		Evidence: map[string]any{"op": op},
	}
}

func CommandInvalid(err error) Diagnostic {
	return Diagnostic{
		Severity: Warn, Code: CodeCommandInvalid, Summary: "Malformed control message",
		Detail: err.Error(),
	}
}

func ShowFailed(err error, failures uint64) Diagnostic {
	return Diagnostic{
		Severity: Err, Code: CodeShowFailed, Summary: "Frame transmit failed", Detail: err.Error(),
		LikelyCauses: []string{
			"SPI device disconnected or busy",
			"SPI not enabled on the host",
		},
		SuggestedFixes: []string{
			"check wiring of data and clock lines",
			"run with -driver sim to preview without hardware",
		},
		Evidence: map[string]any{"failures": failures},
	}
}

func DriverFallback(want, got string, err error) Diagnostic {
	return Diagnostic{
		Severity: Warn, Code: CodeDriverFallback, Summary: "Driver unavailable, using fallback",
		Detail:   err.Error(),
		Evidence: map[string]any{"requested": want, "active": got},
	}
}
