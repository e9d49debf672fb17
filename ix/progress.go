package ix

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/pterm/pterm"
)

// ProgressEmitter reports import progress.
//
// Implementations include:
// - CLIEmitter: pterm output for terminals
// - JSONEmitter: one JSON event per line, for scripts
type ProgressEmitter interface {
	EmitStage(stage string, message string)
	EmitProgress(count int, metadata map[string]interface{})
	EmitComplete(summary map[string]interface{})
	EmitError(stage string, err error)
	EmitInfo(message string)
}

// ProgressEvent is the JSONEmitter wire format.
type ProgressEvent struct {
	Type      string                 `json:"type"` // "stage", "progress", "complete", "error", "info"
	Timestamp time.Time              `json:"timestamp"`
	Data      map[string]interface{} `json:"data"`
}

// CLIEmitter outputs pretty-printed progress to terminal using pterm
type CLIEmitter struct {
	verbosity int
}

// NewCLIEmitter creates a CLI progress emitter for terminal output
func NewCLIEmitter(verbosity int) *CLIEmitter {
	return &CLIEmitter{verbosity: verbosity}
}

func (e *CLIEmitter) EmitStage(stage string, message string) {
	pterm.Printf("%s %s: %s\n", pterm.Gray("→"), pterm.LightCyan(stage), message)
}

func (e *CLIEmitter) EmitProgress(count int, metadata map[string]interface{}) {
	what := "records"
	if t, ok := metadata["type"].(string); ok {
		what = t
	}
	pterm.Printf("%s Stored %s %s\n", pterm.LightGreen("✓"), pterm.Green(fmt.Sprintf("%d", count)), what)
}

func (e *CLIEmitter) EmitComplete(summary map[string]interface{}) {
	pterm.Success.Println("Import complete")
	if e.verbosity >= 1 {
		for key, value := range summary {
			pterm.Printf("  %s: %v\n", key, value)
		}
	}
}

func (e *CLIEmitter) EmitError(stage string, err error) {
	pterm.Error.Printf("Error in %s: %v\n", stage, err)
}

func (e *CLIEmitter) EmitInfo(message string) {
	if e.verbosity >= 1 {
		pterm.Info.Println(message)
	}
}

// JSONEmitter writes ProgressEvents as JSON lines.
type JSONEmitter struct {
	encoder *json.Encoder
}

// NewJSONEmitter creates a JSON progress emitter writing to w.
func NewJSONEmitter(w io.Writer) *JSONEmitter {
	return &JSONEmitter{encoder: json.NewEncoder(w)}
}

func (e *JSONEmitter) emit(kind string, data map[string]interface{}) {
	e.encoder.Encode(ProgressEvent{Type: kind, Timestamp: time.Now(), Data: data})
}

func (e *JSONEmitter) EmitStage(stage string, message string) {
	e.emit("stage", map[string]interface{}{"stage": stage, "message": message})
}

func (e *JSONEmitter) EmitProgress(count int, metadata map[string]interface{}) {
	data := map[string]interface{}{"count": count}
	for k, v := range metadata {
		data[k] = v
	}
	e.emit("progress", data)
}

func (e *JSONEmitter) EmitComplete(summary map[string]interface{}) {
	e.emit("complete", summary)
}

func (e *JSONEmitter) EmitError(stage string, err error) {
	e.emit("error", map[string]interface{}{"stage": stage, "error": err.Error()})
}

func (e *JSONEmitter) EmitInfo(message string) {
	e.emit("info", map[string]interface{}{"message": message})
}

// nopEmitter discards progress.
type nopEmitter struct{}

func (nopEmitter) EmitStage(string, string) {}
func (nopEmitter) EmitProgress(int, map[string]interface{}) {}
func (nopEmitter) EmitComplete(map[string]interface{}) {}
func (nopEmitter) EmitError(string, error) {}
func (nopEmitter) EmitInfo(string) {}
