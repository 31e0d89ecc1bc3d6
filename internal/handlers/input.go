package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
)

const maxBodyBytes = 1 << 20

// errBadRequest marks bodies that could not be decoded at all.
var errBadRequest = errors.New("malformed request body")

// input is a flat view of a request body, whatever its encoding.
type input map[string]string

func (in input) get(key string) string {
	return in[key]
}

func mediaType(r *http.Request) string {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return ""
	}
	return mt
}

func isFormRequest(r *http.Request) bool {
	switch mediaType(r) {
	case "application/x-www-form-urlencoded", "multipart/form-data":
		return true
	}
	return false
}

func parseForm(r *http.Request) error {
	if mediaType(r) == "multipart/form-data" {
		err := r.ParseMultipartForm(maxBodyBytes)
		if err != nil && !errors.Is(err, http.ErrNotMultipart) {
			return err
		}
		return nil
	}
	return r.ParseForm()
}

// decodeInput reads a JSON object or a form body into an input. JSON scalars
// are rendered the way a form would carry them.
func decodeInput(w http.ResponseWriter, r *http.Request) (input, error) {
	if mediaType(r) == "application/json" {
		return decodeJSON(w, r)
	}

	if err := parseForm(r); err != nil {
		return nil, fmt.Errorf("%w: %v", errBadRequest, err)
	}

	in := make(input, len(r.PostForm))
	for key := range r.PostForm {
		in[key] = r.PostForm.Get(key)
	}
	return in, nil
}

func decodeJSON(w http.ResponseWriter, r *http.Request) (input, error) {
	var raw map[string]any

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return input{}, nil
		}
		return nil, fmt.Errorf("%w: %v", errBadRequest, err)
	}

	in := make(input, len(raw))
	for key, v := range raw {
		switch val := v.(type) {
		case nil:
			in[key] = ""
		case string:
			in[key] = val
		case json.Number:
			in[key] = val.String()
		case bool:
			in[key] = strconv.FormatBool(val)
		default:
			return nil, fmt.Errorf("%w: field %q must be a scalar", errBadRequest, key)
		}
	}
	return in, nil
}

// pathID reads a numeric route variable. The route pattern already restricts
// it to digits, so failure only means overflow.
func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
