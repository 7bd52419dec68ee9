package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/vasapolrittideah/backoffice-api/shared/httputil"
	"github.com/vasapolrittideah/backoffice-api/shared/nvi"
)

type registrationIdentity struct {
	Name       string `json:"name"`
	Surname    string `json:"surname"`
	NationalID string `json:"national_id"`
	BirthYear  int    `json:"birth_year"`
}

// VerifyNationalID checks the registration identity fields against the
// national registry before the request reaches the handler. The request body
// is restored so the handler can decode it again. Registry mismatches are the
// caller's problem; registry outages are not, so only mismatches carry
// detail.
func VerifyNationalID(verifier nvi.Verifier, logger *zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body, err := io.ReadAll(r.Body)
			if err != nil {
				httputil.Message(w, http.StatusBadRequest, "failed to read request body")
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))

			var identity registrationIdentity
			if err := json.Unmarshal(body, &identity); err != nil {
				// Malformed JSON is reported by the handler's own decode.
				next.ServeHTTP(w, r)
				return
			}

			ok, err := verifier.Verify(r.Context(), nvi.VerifyRequest{
				NationalID: identity.NationalID,
				Name:       identity.Name,
				Surname:    identity.Surname,
				BirthYear:  identity.BirthYear,
			})
			if err != nil {
				logger.Error().Err(err).Msg("national identity verification call failed")
				httputil.Message(w, http.StatusInternalServerError, "something went wrong")
				return
			}

			if !ok {
				httputil.ValidationFailed(w, map[string][]string{
					"national_id": {"national id does not match the provided name, surname and birth year"},
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
