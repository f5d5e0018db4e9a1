package main

import (
	"github.com/vango-dev/hydrate/pkg/hydrate"
)

// report is the JSON form of a reconciliation result shared by check --json
// and the check service.
type report struct {
	OK          bool               `json:"ok"`
	Mode        string             `json:"mode"`
	Scope       string             `json:"scope"`
	Escalations int                `json:"escalations"`
	Patches     []patchReport      `json:"patches"`
	Boundaries  []boundaryReport   `json:"boundaries"`
	Diagnostics []diagnosticReport `json:"diagnostics"`
	ClientHTML  string             `json:"clientHtml,omitempty"`
}

type patchReport struct {
	Op     string `json:"op"`
	Target int32  `json:"target"`
	Key    string `json:"key,omitempty"`
	Value  string `json:"value,omitempty"`
}

type boundaryReport struct {
	Server int32  `json:"server"`
	Depth  int    `json:"depth"`
	State  string `json:"state"`
}

type diagnosticReport struct {
	Code        string   `json:"code"`
	Severity    string   `json:"severity"`
	Kind        string   `json:"kind"`
	Scope       string   `json:"scope"`
	Message     string   `json:"message"`
	ServerPath  string   `json:"serverPath,omitempty"`
	ClientPath  string   `json:"clientPath,omitempty"`
	Excerpt     []string `json:"excerpt,omitempty"`
	Explanation string   `json:"explanation,omitempty"`
	Suggestion  string   `json:"suggestion,omitempty"`
	DocURL      string   `json:"docUrl,omitempty"`
}

func newReport(r *hydrate.Result, mode hydrate.Mode) report {
	rep := report{
		OK:          r.OK(),
		Mode:        mode.String(),
		Scope:       r.Scope().String(),
		Escalations: len(r.Escalations),
		Patches:     make([]patchReport, 0, len(r.Patches)),
		Boundaries:  make([]boundaryReport, 0, len(r.Boundaries)),
		Diagnostics: make([]diagnosticReport, 0, len(r.Diagnostics)),
	}
	for _, p := range r.Patches {
		rep.Patches = append(rep.Patches, patchReport{
			Op:     p.Op.String(),
			Target: int32(p.Target),
			Key:    p.Key,
			Value:  p.Value,
		})
	}
	for _, b := range r.Boundaries {
		rep.Boundaries = append(rep.Boundaries, boundaryReport{
			Server: int32(b.Server),
			Depth:  b.Depth,
			State:  b.State.String(),
		})
	}
	for _, d := range r.Diagnostics {
		rep.Diagnostics = append(rep.Diagnostics, diagnosticReport{
			Code:        d.Code,
			Severity:    d.Severity.String(),
			Kind:        d.Kind.String(),
			Scope:       d.Scope.String(),
			Message:     d.Message,
			ServerPath:  d.ServerPath.String(),
			ClientPath:  d.ClientPath.String(),
			Excerpt:     d.Excerpt,
			Explanation: d.Explanation,
			Suggestion:  d.Suggestion,
			DocURL:      d.DocURL,
		})
	}
	return rep
}

// warnings counts the warning diagnostics of r.
func warnings(r *hydrate.Result) int {
	n := 0
	for _, d := range r.Diagnostics {
		if d.Severity == hydrate.SeverityWarning {
			n++
		}
	}
	return n
}
