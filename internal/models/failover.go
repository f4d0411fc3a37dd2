package models

// Action is the transition taken by a failover run
type Action string

const (
	ActionNone  Action = ""
	ActionStop  Action = "stop"
	ActionStart Action = "start"
)

// CommandResult holds the outcome of a shell command
type CommandResult struct {
	Command    string `json:"command"`
	Output     string `json:"output"`
	Error      string `json:"error"`
	ReturnCode int    `json:"returnCode"`
}
