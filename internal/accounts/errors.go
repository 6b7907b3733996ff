package accounts

import (
	"errors"

	"github.com/inclusivevents/client/internal/cms"
	"github.com/inclusivevents/client/internal/session"
)

// UserMessage maps an operation error to the message shown to the user,
// keeping the three failure classes distinct: permission failures are named
// explicitly, validation failures surface the server-provided message when
// one exists, and everything else gets the generic retry message.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, session.ErrNotAuthenticated):
		return "You need to sign in first."
	case errors.Is(err, ErrJustificationRequired):
		return "Please provide justification for requesting elevated access."
	case errors.Is(err, ErrCardFileRequired):
		return "Please attach your disability card file."
	case cms.IsPermissionDenied(err):
		return "Permission denied. You may not have permission to perform this action."
	case cms.IsUnauthorized(err):
		return "Your session is no longer valid. Please sign in again."
	case cms.IsValidation(err):
		return cms.ServerMessage(err, "Invalid data. Please check your input.")
	default:
		return "Action failed. Please try again."
	}
}
