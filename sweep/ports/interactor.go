package ports

import "context"

// Interactor is the boundary to whoever drives the service: a terminal, a UI or a test.
type Interactor interface {
	Output(message string)
	Warning(message string)
	Error(message string, err error)
	StartSpinner(message string)
	StopSpinner(success bool, message string)

	// SelectDirectory asks for a directory. ok is false when the user cancels.
	SelectDirectory(ctx context.Context, prompt string) (path string, ok bool, err error)
	// Confirm asks a yes/no question.
	Confirm(ctx context.Context, prompt string) (bool, error)
}
