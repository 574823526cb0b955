package application

import (
	"errors"
	"strconv"

	"hass-skill/internal/domain"
)

// dialogFor maps every error kind onto what the user hears. ok is false when
// the kind is deliberately silent.
func dialogFor(err error) (domain.Dialog, bool) {
	var e *domain.Error
	if !errors.As(err, &e) {
		e = &domain.Error{Kind: domain.ErrConnectionFailure}
	}

	switch e.Kind {
	case domain.ErrSetupMissing:
		return domain.Dialog{Key: DialogSetupMissing}, true
	case domain.ErrTimeout:
		return domain.Dialog{Key: DialogOffline}, true
	case domain.ErrInvalidURL:
		return domain.Dialog{Key: DialogInvalidURL, Data: map[string]string{"url": e.URL}}, true
	case domain.ErrTLSFailure:
		return domain.Dialog{Key: DialogSSL}, true
	case domain.ErrAuthFailure:
		return domain.Dialog{Key: DialogWrongPassword}, true
	case domain.ErrHTTPFailure:
		return domain.Dialog{Key: DialogHTTPError, Data: map[string]string{
			"code":   strconv.Itoa(e.StatusCode),
			"reason": e.Reason,
		}}, true
	case domain.ErrConnectionFailure:
		return domain.Dialog{Key: DialogError, Data: map[string]string{"url": e.URL}}, true
	case domain.ErrEntityNotFound:
		return domain.Dialog{Key: DialogDeviceUnknown, Data: map[string]string{"dev_name": e.Name}}, true
	case domain.ErrMissingAttribute:
		return domain.Dialog{}, false
	default:
		return domain.Dialog{Key: DialogSorry}, true
	}
}
