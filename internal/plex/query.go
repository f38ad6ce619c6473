package plex

import (
	"fmt"
	"strconv"
	"strings"
)

// TokenParam is the query parameter carrying the access token.
const TokenParam = "X-Plex-Token"

// Param is a single query pair. Order is significant on the wire.
type Param struct {
	Key   string
	Value string
}

// EncodeQuery renders params as a query string (without the leading '?').
//
// Grammar:
//
//	query = pair *( "&" pair )
//	pair  = key "=" value
//
// Keys are written verbatim, so callers pass them pre-escaped (see [CollectionTagKey]).
// Values are percent-encoded byte by byte; only ALPHA, DIGIT, "-", ".", "_", "~" and "/" are left as is.
func EncodeQuery(params []Param) string {
	var b strings.Builder
	for i, p := range params {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(p.Key)
		b.WriteByte('=')
		b.WriteString(escapeValue(p.Value))
	}
	return b.String()
}

// CollectionTagKey returns the positional key for the i-th collection tag, with brackets escaped.
func CollectionTagKey(i int) string {
	return fmt.Sprintf("collection%%5B%d%%5D.tag.tag", i)
}

// CollectionParams builds the parameters of a collection update: type code, metadata id and one
// positional pair per tag, in the order given.
func CollectionParams(typeCode, metadataID int, tags []string) []Param {
	params := make([]Param, 0, len(tags)+2)
	params = append(params,
		Param{Key: "type", Value: strconv.Itoa(typeCode)},
		Param{Key: "id", Value: strconv.Itoa(metadataID)},
	)
	for i, tag := range tags {
		params = append(params, Param{Key: CollectionTagKey(i), Value: tag})
	}
	return params
}

const upperhex = "0123456789ABCDEF"

func escapeValue(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if unreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperhex[c>>4])
		b.WriteByte(upperhex[c&15])
	}
	return b.String()
}

func unreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	switch c {
	case '-', '.', '_', '~', '/':
		return true
	}
	return false
}
