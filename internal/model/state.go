package model

import "fyne.io/fyne/v2/data/binding"

// Run states stored in ResponseState.RunState.
const (
	RunIdle       = "idle"
	RunSubmitting = "submitting"
	RunSuccess    = "success"
	RunFailure    = "failure"
)

// ConsoleState represents the console window state with Fyne data bindings.
// All UI components bind to these values for reactive updates.
type ConsoleState struct {
	Upload   *UploadState
	Response *ResponseState
}

// NewConsoleState creates a new ConsoleState with initialized bindings.
func NewConsoleState() *ConsoleState {
	return &ConsoleState{
		Upload:   NewUploadState(),
		Response: NewResponseState(),
	}
}

// UploadState represents the state of the upload panel.
type UploadState struct {
	FileName   binding.String // Empty until a file is selected
	FileSize   binding.String // e.g. "2.0 KB"
	Visible    binding.Bool   // Upload controls and samples shown
	RunEnabled binding.Bool
}

// NewUploadState creates a new UploadState with initialized bindings.
func NewUploadState() *UploadState {
	visible := binding.NewBool()
	_ = visible.Set(true)

	return &UploadState{
		FileName:   binding.NewString(),
		FileSize:   binding.NewString(),
		Visible:    visible,
		RunEnabled: binding.NewBool(),
	}
}

// ResponseState represents the state of the response panel.
type ResponseState struct {
	RunState binding.String // One of the Run* constants
	Status   binding.String // Status line, e.g. "Status: 200 OK"
	Elapsed  binding.String // e.g. "0.12s"
	Body     binding.String // Pretty-printed JSON or error text
	Hint     binding.String // Recovery suggestion after a failed request
	Loading  binding.Bool   // Whether a request is in progress
}

// NewResponseState creates a new ResponseState with initialized bindings.
func NewResponseState() *ResponseState {
	runState := binding.NewString()
	_ = runState.Set(RunIdle)

	return &ResponseState{
		RunState: runState,
		Status:   binding.NewString(),
		Elapsed:  binding.NewString(),
		Body:     binding.NewString(),
		Hint:     binding.NewString(),
		Loading:  binding.NewBool(),
	}
}
