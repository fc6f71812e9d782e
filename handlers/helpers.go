package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/foosdev/foosball-tracker/repositories"
	"github.com/foosdev/foosball-tracker/services"
)

type jsonResponse map[string]interface{}

var errInvalidSeasonID = errors.New("invalid season_id query parameter")

func readJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	maxBytes := 1_048_576 // 1MB
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxBytes))

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	err := dec.Decode(dst)
	if err != nil {
		var syntaxError *json.SyntaxError
		var unmarshalTypeError *json.UnmarshalTypeError
		var invalidUnmarshalError *json.InvalidUnmarshalError

		switch {
		case errors.As(err, &syntaxError):
			return fmt.Errorf("body contains badly-formed JSON (at character %d)", syntaxError.Offset)
		case errors.Is(err, io.ErrUnexpectedEOF):
			return errors.New("body contains badly-formed JSON")
		case errors.As(err, &unmarshalTypeError):
			if unmarshalTypeError.Field != "" {
				return fmt.Errorf("body contains incorrect JSON type for field %q", unmarshalTypeError.Field)
			}
			return fmt.Errorf("body contains incorrect JSON type (at character %d)", unmarshalTypeError.Offset)
		case errors.Is(err, io.EOF):
			return errors.New("body must not be empty")
		case strings.HasPrefix(err.Error(), "json: unknown field "):
			fieldName := strings.TrimPrefix(err.Error(), "json: unknown field ")
			return fmt.Errorf("body contains unknown key %s", fieldName)
		case err.Error() == "http: request body too large":
			return fmt.Errorf("body must not be larger than %d bytes", maxBytes)
		case errors.As(err, &invalidUnmarshalError):
			panic(err)
		default:
			return err
		}
	}

	err = dec.Decode(&struct{}{})
	if !errors.Is(err, io.EOF) {
		return errors.New("body must only contain a single JSON value")
	}

	return nil
}

func writeJSON(w http.ResponseWriter, status int, data interface{}, headers http.Header) error {
	js, err := json.MarshalIndent(data, "", "\t")
	if err != nil {
		return err
	}
	js = append(js, '\n')

	for key, value := range headers {
		w.Header()[key] = value
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(js)
	return err
}

func errorResponse(w http.ResponseWriter, r *http.Request, status int, message interface{}) {
	env := jsonResponse{"error": message}
	if err := writeJSON(w, status, env, nil); err != nil {
		slog.Error("failed to write error response", slog.Any("error", err))
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	slog.Error("internal server error",
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.Any("error", err))
	message := "the server encountered a problem and could not process your request"
	errorResponse(w, r, http.StatusInternalServerError, message)
}

func badRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	errorResponse(w, r, http.StatusBadRequest, err.Error())
}

func notFoundResponse(w http.ResponseWriter, r *http.Request) {
	message := "the requested resource could not be found"
	errorResponse(w, r, http.StatusNotFound, message)
}

func conflictResponse(w http.ResponseWriter, r *http.Request, message string) {
	errorResponse(w, r, http.StatusConflict, message)
}

func unauthorizedResponse(w http.ResponseWriter, r *http.Request, message string) {
	errorResponse(w, r, http.StatusUnauthorized, message)
}

func forbiddenResponse(w http.ResponseWriter, r *http.Request, message string) {
	errorResponse(w, r, http.StatusForbidden, message)
}

func getIDFromURL(r *http.Request, param string) (int, error) {
	id, err := strconv.Atoi(chi.URLParam(r, param))
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid %s URL parameter", param)
	}
	return id, nil
}

func queryInt(r *http.Request, name, fallback string) (int, error) {
	value := r.URL.Query().Get(name)
	if value == "" {
		value = fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s query parameter", name)
	}
	return n, nil
}

// mapServiceErrorToHTTP translates service layer errors into HTTP responses.
func mapServiceErrorToHTTP(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, repositories.ErrPlayerNotFound),
		errors.Is(err, repositories.ErrGameNotFound),
		errors.Is(err, repositories.ErrSeasonNotFound),
		errors.Is(err, repositories.ErrTournamentNotFound),
		errors.Is(err, repositories.ErrTournamentMatchNotFound):
		notFoundResponse(w, r)

	case errors.Is(err, repositories.ErrPlayerNameConflict),
		errors.Is(err, repositories.ErrSeasonNameConflict),
		errors.Is(err, repositories.ErrGameParticipantDupl):
		conflictResponse(w, r, err.Error())

	case errors.Is(err, services.ErrScoreNegative),
		errors.Is(err, services.ErrScoreTooHigh),
		errors.Is(err, services.ErrDrawNotAllowed),
		errors.Is(err, services.ErrTeamEmpty),
		errors.Is(err, services.ErrPlayerOnBothTeams),
		errors.Is(err, services.ErrInvalidGameType),
		errors.Is(err, services.ErrGameStartRequired),
		errors.Is(err, services.ErrPlayerNameRequired),
		errors.Is(err, services.ErrTournamentNameRequired),
		errors.Is(err, services.ErrNotEnoughPlayers),
		errors.Is(err, services.ErrDuplicateTournamentSeed),
		errors.Is(err, services.ErrUnsupportedAvatarType),
		errors.Is(err, repositories.ErrGamePlayerInvalid),
		errors.Is(err, repositories.ErrTournamentPlayerInvalid):
		badRequestResponse(w, r, err)

	case errors.Is(err, services.ErrGameTournamentLocked),
		errors.Is(err, services.ErrGameTooOld):
		forbiddenResponse(w, r, err.Error())

	case errors.Is(err, services.ErrMatchAlreadyCompleted),
		errors.Is(err, services.ErrMatchNotReady),
		errors.Is(err, services.ErrTournamentCompleted):
		conflictResponse(w, r, err.Error())

	case errors.Is(err, services.ErrAvatarStorageDisabled):
		errorResponse(w, r, http.StatusNotImplemented, err.Error())

	case errors.Is(err, services.ErrInvalidCredentials):
		unauthorizedResponse(w, r, err.Error())

	default:
		serverErrorResponse(w, r, err)
	}
}
