package pdfsegment

import "errors"

var (
	// ErrValidation is matched by errors about the caller's input: a
	// missing or non-PDF source, a cut count below one, an unusable
	// output directory or an unknown option value. Nothing has been
	// written when it is returned.
	ErrValidation = errors.New("invalid input")

	// ErrProcessing is matched by failures while reading the source,
	// analysing it or writing outputs.
	ErrProcessing = errors.New("processing failed")
)

// Stage names the step an Error happened in.
type Stage string

// Stages of a split.
const (
	StageValidate Stage = "validate"
	StageOpen     Stage = "open"
	StageAnalyze  Stage = "analyze"
	StagePlan     Stage = "plan"
	StageAssemble Stage = "assemble"
	StageCopy     Stage = "copy"
	StageReport   Stage = "report"
)

// Error is returned by Split and Analyze. errors.Is matches it against
// ErrValidation or ErrProcessing according to Kind.
type Error struct {
	Kind  error // ErrValidation or ErrProcessing
	Stage Stage
	Path  string // file involved, if any
	Err   error
}

func (e *Error) Error() string {
	msg := "pdfsegment: " + string(e.Stage)
	if e.Path != "" {
		msg += " " + e.Path
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is the sentinel for e's kind.
func (e *Error) Is(target error) bool { return target == e.Kind }

func validationError(path string, err error) error {
	return &Error{Kind: ErrValidation, Stage: StageValidate, Path: path, Err: err}
}

func processingError(stage Stage, path string, err error) error {
	return &Error{Kind: ErrProcessing, Stage: stage, Path: path, Err: err}
}
