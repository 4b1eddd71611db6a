package validators

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	pkgerrors "github.com/angelmondragon/vendorhub-backend/pkg/errors"
)

func invalidParam(name, msg string) error {
	return pkgerrors.New(pkgerrors.CodeValidation, "invalid "+name).WithDetails(map[string]string{name: msg})
}

func queryValue(r *http.Request, key string) string {
	return strings.TrimSpace(r.URL.Query().Get(key))
}

// ParseQueryInt reads key as an integer in [min, max], or defaultVal when absent.
func ParseQueryInt(r *http.Request, key string, defaultVal, min, max int) (int, error) {
	raw := queryValue(r, key)
	if raw == "" {
		return defaultVal, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, invalidParam(key, "must be numeric")
	}
	if value < min || value > max {
		return 0, invalidParam(key, "must be between "+strconv.Itoa(min)+" and "+strconv.Itoa(max))
	}
	return value, nil
}

func ParseQueryBool(r *http.Request, key string, defaultVal bool) (bool, error) {
	raw := queryValue(r, key)
	if raw == "" {
		return defaultVal, nil
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return false, invalidParam(key, "must be a boolean")
	}
	return value, nil
}

// ParseQueryString returns the trimmed value of key, rejecting values longer
// than maxLen bytes.
func ParseQueryString(r *http.Request, key string, maxLen int) (string, error) {
	raw := queryValue(r, key)
	if maxLen > 0 && len(raw) > maxLen {
		return "", invalidParam(key, "must be at most "+strconv.Itoa(maxLen)+" characters")
	}
	return raw, nil
}

// ParseUUIDParam reads a chi route parameter as a UUID.
func ParseUUIDParam(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(chi.URLParam(r, name)))
	if err != nil {
		return uuid.Nil, invalidParam(name, "must be a valid uuid")
	}
	return id, nil
}
