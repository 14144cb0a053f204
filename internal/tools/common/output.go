package common

import (
	"encoding/json"
	"io"
	"time"
)

// CIResult is the machine readable outcome printed by --ci runs.
type CIResult struct {
	OK         bool     `json:"ok"`
	Tool       string   `json:"tool"`
	Command    string   `json:"command"`
	DurationMS int64    `json:"duration_ms"`
	Details    []string `json:"details,omitempty"`
	Error      string   `json:"error,omitempty"`
}

func NewCIResult(tool, command string, elapsed time.Duration, details []string, err error) CIResult {
	res := CIResult{
		OK:         err == nil,
		Tool:       tool,
		Command:    command,
		DurationMS: elapsed.Milliseconds(),
		Details:    details,
	}
	if err != nil {
		res.Error = err.Error()
	}
	return res
}

func WriteCIResult(w io.Writer, res CIResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}
