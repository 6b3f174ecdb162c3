package tmdb

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Response fields
const (
	fieldRequestToken = "request_token"
	fieldSessionID    = "session_id"
	fieldUserID       = "id"
	fieldResults      = "results"
	fieldStatusCode   = "status_code"
	fieldImages       = "images"
)

func stringField(body []byte, operation, field string) (string, error) {
	res := gjson.GetBytes(body, field)
	if res.Type != gjson.String {
		return "", &ParseError{Operation: operation, Field: field}
	}
	return res.String(), nil
}

func intField(body []byte, operation, field string) (int64, error) {
	v, ok := integer(gjson.GetBytes(body, field))
	if !ok {
		return 0, &ParseError{Operation: operation, Field: field}
	}
	return v, nil
}

// integer accepts only JSON numbers written without fraction or exponent
func integer(res gjson.Result) (int64, bool) {
	if res.Type != gjson.Number || strings.ContainsAny(res.Raw, ".eE") {
		return 0, false
	}
	v, err := strconv.ParseInt(res.Raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// decodeMovies reads the "results" array. Every entry must be an object with
// an integer id.
func decodeMovies(body []byte, operation string) ([]Movie, error) {
	results := gjson.GetBytes(body, fieldResults)
	if !results.IsArray() {
		return nil, &ParseError{Operation: operation, Field: fieldResults}
	}

	items := results.Array()
	movies := make([]Movie, 0, len(items))
	for _, item := range items {
		if !item.IsObject() {
			return nil, &ParseError{Operation: operation, Field: fieldResults}
		}
		if _, ok := integer(item.Get("id")); !ok {
			return nil, &ParseError{Operation: operation, Field: fieldResults + ".id"}
		}

		var movie Movie
		if err := json.Unmarshal([]byte(item.Raw), &movie); err != nil {
			return nil, &ParseError{Operation: operation, Field: fieldResults}
		}
		movies = append(movies, movie)
	}

	return movies, nil
}

func decodeConfig(body []byte) (Config, error) {
	const operation = "configuration"

	images := gjson.GetBytes(body, fieldImages)
	if !images.IsObject() {
		return Config{}, &ParseError{Operation: operation, Field: fieldImages}
	}

	var cfg Config
	base := images.Get("base_url")
	if base.Type != gjson.String {
		return Config{}, &ParseError{Operation: operation, Field: "images.base_url"}
	}
	cfg.BaseImageURL = base.String()

	secure := images.Get("secure_base_url")
	if secure.Type != gjson.String {
		return Config{}, &ParseError{Operation: operation, Field: "images.secure_base_url"}
	}
	cfg.SecureBaseImageURL = secure.String()

	var ok bool
	if cfg.PosterSizes, ok = stringArray(images.Get("poster_sizes")); !ok {
		return Config{}, &ParseError{Operation: operation, Field: "images.poster_sizes"}
	}
	if cfg.ProfileSizes, ok = stringArray(images.Get("profile_sizes")); !ok {
		return Config{}, &ParseError{Operation: operation, Field: "images.profile_sizes"}
	}

	return cfg, nil
}

func stringArray(res gjson.Result) ([]string, bool) {
	if !res.IsArray() {
		return nil, false
	}
	items := res.Array()
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item.Type != gjson.String {
			return nil, false
		}
		out = append(out, item.String())
	}
	return out, true
}

// markBody builds {"media_type":"movie","media_id":<id>,"<flagKey>":<flag>}
func markBody(mediaID int64, flagKey string, flag bool) ([]byte, error) {
	body, err := sjson.SetBytes([]byte(`{}`), "media_type", string(MediaTypeMovie))
	if err != nil {
		return nil, err
	}
	if body, err = sjson.SetBytes(body, "media_id", mediaID); err != nil {
		return nil, err
	}
	return sjson.SetBytes(body, flagKey, flag)
}

func sessionBody(sessionID string) ([]byte, error) {
	return sjson.SetBytes([]byte(`{}`), fieldSessionID, sessionID)
}
