package mysql

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Harsh636/TravelUttarakhandBackend/internal/domain"
)

// Composite columns are plain TEXT holding a JSON object. Encoding happens
// only here; the rest of the code sees typed structs.

func encodeComposite(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// decodeComposite treats NULL/empty as an all-nil value. Anything that is not
// a JSON object with string-or-null members is reported as corrupt.
func decodeComposite(column string, raw sql.NullString, dst any) error {
	if !raw.Valid || strings.TrimSpace(raw.String) == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(raw.String), dst); err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrCorruptRecord, column, err)
	}
	return nil
}

func decodeDetails(raw sql.NullString) (domain.TrekDetails, error) {
	var d domain.TrekDetails
	err := decodeComposite("details", raw, &d)
	return d, err
}

func decodeItinerary(raw sql.NullString) (domain.Itinerary, error) {
	var it domain.Itinerary
	err := decodeComposite("itinerary", raw, &it)
	return it, err
}
