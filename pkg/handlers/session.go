package handlers

import (
	"crypto/sha1"
	"log"
	"net/http"
	"os"
	"strconv"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"golang.org/x/crypto/pbkdf2"

	"github.com/rbenavides/marigram/pkg/noaa"
	"github.com/rbenavides/marigram/pkg/series"
)

const (
	sessionName    = "marigram"
	sessionStation = "station"
	sessionUnits   = "units"
	// See https://developer.chrome.com/blog/cookie-max-age-expires.
	defaultMaxAge = 60 * 60 * 24 * 400 // 400 days in seconds.

	defaultStation = noaa.SantaCruz
	defaultUnit    = series.Meters
)

var store = &sessions.CookieStore{
	Codecs: securecookie.CodecsFromPairs(
		getSessionKey(),
		getEncryptionKey(),
	),
	Options: &sessions.Options{
		Path:     "/",
		MaxAge:   defaultMaxAge,
		Secure:   true,
		HttpOnly: true,
	},
}

func init() {
	store.MaxAge(defaultMaxAge)
}

// preferences resolves the station and unit for a request: explicit query
// parameters win and are remembered in the session; otherwise the session's
// remembered values apply; otherwise the defaults.
func preferences(w http.ResponseWriter, r *http.Request) (noaa.Station, series.Unit) {
	session, _ := store.Get(r, sessionName)

	station := defaultStation
	if v, ok := session.Values[sessionStation].(int); ok {
		station = noaa.Station(v)
	}
	unit := defaultUnit
	if v, ok := session.Values[sessionUnits].(string); ok {
		if parsed, err := series.ParseUnit(v); err == nil {
			unit = parsed
		}
	}

	if v := r.FormValue("station"); v != "" {
		if id, err := strconv.Atoi(v); err == nil {
			station = noaa.Station(id)
		}
	}
	if v := r.FormValue("units"); v != "" {
		if parsed, err := series.ParseUnit(v); err == nil {
			unit = parsed
		}
	}

	session.Values[sessionStation] = int(station)
	session.Values[sessionUnits] = unit.String()
	if err := session.Save(r, w); err != nil {
		log.Printf("save session err: %v", err)
	}

	return station, unit
}

// getSessionKey returns a key to sign session cookies defined in the
// environment.
// If it is not set, it uses a compile-time default.
func getSessionKey() []byte {
	defaultKey := []byte("deadbeef")
	if key := os.Getenv("SESSION_KEY"); key != "" {
		return []byte(key)
	}
	return defaultKey
}

func getEncryptionKey() []byte {
	password := "deadbeef"
	if fromEnv := os.Getenv("ENCRYPTION_KEY"); fromEnv != "" {
		password = fromEnv
	}
	return pbkdf2.Key([]byte(password), []byte{}, 4096, 32, sha1.New)
}
