package vision

import (
	"encoding/base64"
	"errors"
	"net/http"
	"strings"
)

var errNotDataURI = errors.New("not a base64 data URI")

// MakeDataURI encodes data as "data:<mime>;base64,<payload>".
func MakeDataURI(mime string, data []byte) string {
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// DecodeDataURI splits a base64 data URI into its mime type and bytes.
// URL-safe base64 payloads are accepted as well.
func DecodeDataURI(uri string) (string, []byte, error) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(uri), "data:")
	if !ok {
		return "", nil, errNotDataURI
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, errNotDataURI
	}
	mime, enc, _ := strings.Cut(meta, ";")
	if enc != "base64" {
		return "", nil, errNotDataURI
	}

	b, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		b2, err2 := base64.URLEncoding.DecodeString(payload)
		if err2 != nil {
			return "", nil, err
		}
		b = b2
	}
	return mime, b, nil
}

// DetectMIME returns the declared mime type when it is set, otherwise
// the type sniffed from the content.
func DetectMIME(declared string, data []byte) string {
	if m := strings.TrimSpace(declared); m != "" && m != "application/octet-stream" {
		return m
	}
	if len(data) == 0 {
		return "application/octet-stream"
	}
	return http.DetectContentType(data)
}

// IsImageMIME reports whether mime names an image type.
func IsImageMIME(mime string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(mime)), "image/")
}
