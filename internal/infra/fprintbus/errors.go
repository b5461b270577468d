package fprintbus

import (
	"errors"

	"github.com/godbus/dbus/v5"

	"github.com/jotuel/cosmic-fprint/internal/domain"
)

// MapError converts a bus error into a structured one. Remote errors in the
// fprint namespace map to their kind; everything else becomes Unknown with the
// transport's text. A nil input yields nil.
func MapError(err error) *domain.Error {
	if err == nil {
		return nil
	}

	var se *domain.Error
	if errors.As(err, &se) {
		return se
	}

	if name := remoteName(err); name != "" {
		if kind, ok := domain.KindFromRemoteName(name); ok {
			return domain.NewError(kind)
		}
	}
	return domain.Unknown(err.Error())
}

func remoteName(err error) string {
	var ve dbus.Error
	if errors.As(err, &ve) {
		return ve.Name
	}
	var pe *dbus.Error
	if errors.As(err, &pe) && pe != nil {
		return pe.Name
	}
	return ""
}

// wrap keeps nil as an untyped nil error.
func wrap(err error) error {
	if err == nil {
		return nil
	}
	return MapError(err)
}
