// package shared defines shared helpers
package shared

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/text/cases"
)

// NewLogger creates a new [log.Logger] instance with the specified [io.Writer], with timestamps and caller reporting enabled.
//
// The writer defaults to [os.Stderr]
func NewLogger(w io.Writer) *log.Logger {
	if w == nil {
		w = os.Stderr
	}
	opts := log.Options{ReportTimestamp: true, ReportCaller: true}
	return log.NewWithOptions(w, opts)
}

// WithLogger creates a child [log.Logger] with the specified key-value pairs added to all log entries.
func WithLogger(l *log.Logger, kv ...any) *log.Logger {
	return l.With(kv...)
}

// SetLogLevel sets the [log.Level] for the given [log.Logger].
func SetLogLevel(l *log.Logger, ll log.Level) {
	l.SetLevel(ll)
}

// ParseLogLevel converts a level name into a [log.Level], falling back to [log.WarnLevel] for blank input.
func ParseLogLevel(s string) (log.Level, error) {
	if strings.TrimSpace(s) == "" {
		return log.WarnLevel, nil
	}
	ll, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil {
		return log.WarnLevel, fmt.Errorf("%w: unknown log level %q", ErrInvalidArgument, s)
	}
	return ll, nil
}

// GenerateID generates a new v4 [uuid.UUID] as a string
func GenerateID() string {
	return uuid.New().String()
}

// ShortID returns the first block of a generated ID, used to tag log lines for a single run.
func ShortID() string {
	id := GenerateID()
	if i := strings.IndexByte(id, '-'); i > 0 {
		return id[:i]
	}
	return id
}

// FoldTitle returns the Unicode case-folded form of a title for case-insensitive comparison.
func FoldTitle(s string) string {
	return cases.Fold().String(s)
}

// SameTitle reports whether two titles are equal ignoring case.
func SameTitle(a, b string) bool {
	return FoldTitle(a) == FoldTitle(b)
}

// MarshalJSON encodes v, indented when pretty is set.
func MarshalJSON(v any, pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(v, "", "  ")
	}
	return json.Marshal(v)
}
