package session

import apperrors "github.com/singingsandhill/calendar/internal/errors"

// Precondition failures raised locally, before any remote call
var (
	ErrNoActiveParticipant = apperrors.Precondition("no participant is selected")
	ErrEmptyName           = apperrors.Precondition("participant name must not be empty")
	ErrEmptyOptionName     = apperrors.Precondition("option name must not be empty")
	ErrUnknownParticipant  = apperrors.Precondition("participant is not part of this schedule")
)

func locationNotFound(id int) error {
	return apperrors.NotFoundf("location %d not found", id)
}

func menuNotFound(id int) error {
	return apperrors.NotFoundf("menu %d not found", id)
}
