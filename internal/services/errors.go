package services

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/bundasehat/screening-backend/internal/data/dberr"
	"github.com/bundasehat/screening-backend/internal/modules/screening"
	"github.com/bundasehat/screening-backend/internal/platform/apierr"
)

// mapRepoErr turns repository errors into API errors. notFoundCode names the
// missing resource, e.g. "question_not_found".
func mapRepoErr(err error, notFoundCode string) error {
	if err == nil {
		return nil
	}
	var ae *apierr.Error
	switch {
	case errors.As(err, &ae):
		return ae
	case dberr.IsNotFound(err):
		return apierr.NotFound(notFoundCode, err)
	case dberr.IsConflict(err):
		return apierr.Conflict("conflict", err)
	case errors.Is(err, screening.ErrSessionNotFound):
		return apierr.NotFound("session_not_found", err)
	case errors.Is(err, screening.ErrEvaluationInProgress):
		return apierr.Conflict("evaluation_in_progress", err)
	}
	return apierr.Internal(err)
}

func invalid(code, format string, args ...any) error {
	return apierr.BadRequest(code, fmt.Sprintf(format, args...))
}

// truncateRunes trims s and cuts it to at most max characters.
func truncateRunes(s string, max int) string {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	r := []rune(s)
	return strings.TrimSpace(string(r[:max]))
}
