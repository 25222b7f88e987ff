package cli

import (
	"errors"

	"github.com/housersapp/housers/internal/common"
	"github.com/housersapp/housers/internal/discover"
)

// describeError turns a command error into the inline message shown to the
// user.
func describeError(err error) string {
	var ve *common.ValidationError
	var ce *discover.CooldownError
	switch {
	case errors.As(err, &ve):
		return errorStyle.Render(ve.Field + ": " + ve.Reason)
	case errors.Is(err, common.ErrNoSession):
		return errorStyle.Render("Please login first.")
	case errors.Is(err, common.ErrSessionExpired):
		return errorStyle.Render("Your session has expired, please login again.")
	case errors.Is(err, common.ErrUnauthorized):
		return errorStyle.Render("Not authorized.")
	case errors.As(err, &ce):
		return errorStyle.Render("An import ran recently. Try again " + relTime(ce.Until, now()) + ".")
	case errors.Is(err, discover.ErrImportInFlight):
		return errorStyle.Render("An import is already running.")
	case errors.Is(err, common.ErrNetwork):
		return errorStyle.Render("Could not reach the server. Please try again.")
	default:
		return errorStyle.Render("Error: " + err.Error())
	}
}
