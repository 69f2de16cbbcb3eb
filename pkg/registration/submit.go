package registration

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// ConfirmationMessage is shown once a submission goes through.
const ConfirmationMessage = "Form submitted!"

var (
	// ErrInvalid matches any *ValidationError.
	ErrInvalid = errors.New("registration: form has invalid fields")
	// ErrSubmitting is returned when Submit is re-entered before the
	// previous call returned.
	ErrSubmitting = errors.New("registration: submission already in progress")
)

// ValidationError carries the per-field messages that blocked a submit.
type ValidationError struct {
	Errors Errors
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Errors))
	for _, field := range e.Errors.Fields() {
		names = append(names, string(field))
	}
	if msg := e.Errors.Get(FieldForm); msg != "" {
		names = append(names, msg)
	}
	return fmt.Sprintf("registration: invalid fields: %s", strings.Join(names, ", "))
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalid
}

// Submission is one accepted set of values.
type Submission struct {
	ID          string    `json:"id"`
	Values      Values    `json:"values"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// Confirmation is returned to the surface that triggered the submit.
type Confirmation struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

// SubmitFunc receives accepted submissions. It cannot reject them.
type SubmitFunc func(ctx context.Context, sub Submission)

// LogSubmitter records submissions on logger.
func LogSubmitter(logger *slog.Logger) SubmitFunc {
	if logger == nil {
		logger = slog.Default()
	}
	return func(ctx context.Context, sub Submission) {
		logger.InfoContext(ctx, "form submitted with values",
			slog.String("submission_id", sub.ID),
			slog.Group("values",
				slog.String("name", sub.Values.Name),
				slog.String("email", sub.Values.Email),
				slog.String("age", sub.Values.Age),
				slog.String("gender", sub.Values.Gender),
				slog.Any("hobbies", sub.Values.Hobbies),
				slog.String("country", sub.Values.Country),
				slog.String("phone", sub.Values.Phone),
			),
		)
	}
}
