package driver

import (
	"encoding/json"
	"fmt"

	"funlang/internal/diag"
	"funlang/internal/observ"
	"funlang/internal/source"
)

// timingPayload is the JSON note of an ObsTimings diagnostic.
type timingPayload struct {
	Kind   string `json:"kind"`
	Path   string `json:"path,omitempty"`
	Bytes  int    `json:"bytes"`
	Tokens int    `json:"tokens,omitempty"` // 0 при попадании в кэш
	Nodes  int    `json:"nodes,omitempty"`
	Cached bool   `json:"cached,omitempty"`
	observ.Report
}

func appendTimingDiagnostic(bag *diag.Bag, payload timingPayload) {
	if bag == nil {
		return
	}
	if payload.Kind == "" {
		payload.Kind = "pipeline"
	}
	msg := fmt.Sprintf("timings (%s): total %.2f ms", payload.Kind, payload.TotalMS)
	if payload.Cached {
		msg += ", cached"
	}
	if payload.Path != "" {
		msg = fmt.Sprintf("%s: %s", msg, payload.Path)
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return
	}

	bag.Push(diag.New(diag.SevInfo, diag.ObsTimings, source.Span{}, msg).
		WithNote(source.Span{}, string(data)))
}
