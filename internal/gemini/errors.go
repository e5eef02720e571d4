package gemini

import (
	"errors"
	"fmt"

	"github.com/oukeidos/hanmd/internal/apperrors"
	"google.golang.org/api/googleapi"
)

// classifyGeminiError maps an SDK error onto the apperrors taxonomy so the
// retry layer can decide what is worth another attempt. Raw SDK messages are
// kept in the cause only; SafeMessage never carries request content.
func classifyGeminiError(err error) error {
	if err == nil {
		return nil
	}

	cause := fmt.Errorf("gemini invoke failed: %w", err)

	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		// DNS, socket and timeout failures surface without an HTTP code
		// and are usually worth retrying.
		return apperrors.New(apperrors.KindTransient, "Gemini request failed due to a temporary network error.", cause)
	}

	switch {
	case gerr.Code == 404:
		return apperrors.New(apperrors.KindBadRequest, "Gemini model not found or no access (404).", cause)
	case gerr.Code == 401 || gerr.Code == 403:
		return apperrors.New(apperrors.KindAuth, fmt.Sprintf("Gemini authentication failed (%d).", gerr.Code), cause)
	case gerr.Code == 429:
		return apperrors.New(apperrors.KindRateLimit, "Gemini rate limit exceeded (429). Please try again later.", cause)
	case gerr.Code >= 500:
		return apperrors.New(apperrors.KindTransient, fmt.Sprintf("Gemini service temporary error (%d). Please retry.", gerr.Code), cause)
	default:
		return apperrors.New(apperrors.KindBadRequest, fmt.Sprintf("Gemini request rejected (%d).", gerr.Code), cause)
	}
}
