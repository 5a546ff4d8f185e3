package utils

import (
	"github.com/mogaika/rat_browser/config"

	"golang.org/x/text/transform"
)

// DecodeString converts a counted byte string from a rat file to utf8
// using the configured charmap. Input is not null-terminated; the whole
// slice is the string.
func DecodeString(bs []byte) string {
	s, _, err := transform.Bytes(config.GetEncoding().NewDecoder(), bs)
	if err != nil {
		panic(err)
	}
	return string(s)
}
