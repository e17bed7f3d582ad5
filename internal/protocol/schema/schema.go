package schema

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/danmuck/contourwire/internal/protocol"
	"github.com/rs/zerolog/log"
)

// NameEncoding selects how contour names are checked.
type NameEncoding string

const (
	// NameRaw keeps names as opaque bytes, matching the wire format.
	NameRaw NameEncoding = "raw"
	// NameUTF8 rejects names that are not valid UTF-8.
	NameUTF8 NameEncoding = "utf8"
)

// ParseNameEncoding accepts the config spellings of a NameEncoding.
func ParseNameEncoding(raw string) (NameEncoding, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "raw", "bytes":
		return NameRaw, nil
	case "utf8", "utf-8":
		return NameUTF8, nil
	default:
		return "", fmt.Errorf("schema: unknown name encoding %q", raw)
	}
}

// Policy is the set of checks applied on top of the wire format.
type Policy struct {
	NameEncoding  NameEncoding
	Limits        protocol.Limits
	RequireFinite bool
}

func DefaultPolicy() Policy {
	return Policy{
		NameEncoding: NameRaw,
		Limits:       protocol.DefaultLimits(),
	}
}

// ValidationError identifies the contour and field that failed a policy
// check. Contour is -1 for message-level failures and Point is -1 when
// the failure is not tied to a point.
type ValidationError struct {
	Contour int
	Point   int
	Field   string
	Reason  string
}

func (e ValidationError) Error() string {
	switch {
	case e.Contour < 0:
		return fmt.Sprintf("schema: %s: %s", e.Field, e.Reason)
	case e.Point < 0:
		return fmt.Sprintf("schema: contours[%d].%s: %s", e.Contour, e.Field, e.Reason)
	default:
		return fmt.Sprintf("schema: contours[%d].points[%d].%s: %s", e.Contour, e.Point, e.Field, e.Reason)
	}
}

// Validate applies policy to msg and returns the first violation.
func Validate(msg protocol.ContourArray, policy Policy) error {
	log.Debug().Msgf("schema.Validate contours=%d points=%d", len(msg.Contours), msg.PointCount())
	if err := policy.Limits.Check(msg); err != nil {
		log.Error().Msgf("schema.Validate limits: %v", err)
		return ValidationError{Contour: -1, Point: -1, Field: "contours", Reason: err.Error()}
	}
	for i, c := range msg.Contours {
		if policy.NameEncoding == NameUTF8 && !utf8.ValidString(c.Name) {
			log.Error().Msgf("schema.Validate invalid utf8 name contour=%d", i)
			return ValidationError{Contour: i, Point: -1, Field: "name", Reason: "name is not valid utf-8"}
		}
		if !policy.RequireFinite {
			continue
		}
		for j, p := range c.Points {
			if !finite(p.X) {
				log.Error().Msgf("schema.Validate non-finite x contour=%d point=%d", i, j)
				return ValidationError{Contour: i, Point: j, Field: "x", Reason: "coordinate is not finite"}
			}
			if !finite(p.Y) {
				log.Error().Msgf("schema.Validate non-finite y contour=%d point=%d", i, j)
				return ValidationError{Contour: i, Point: j, Field: "y", Reason: "coordinate is not finite"}
			}
		}
	}
	log.Debug().Msg("schema.Validate ok")
	return nil
}

func finite(v float32) bool {
	f := float64(v)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
