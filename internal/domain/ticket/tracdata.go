package ticket

import (
	"fmt"
	"time"

	"github.com/orris-inc/tracgate/internal/shared/errors"
)

// FromTracData rebuilds a ticket from the 4-tuple a ticket.get or
// ticket.update call returns: (id, created time, changed time,
// attribute map). The wire encoding has no way to express an unset
// value, so empty strings in the attribute map are normalized back to
// nil here. Attribute names the schema does not know are dropped.
func FromTracData(data []any) (*Ticket, error) {
	if len(data) != 4 {
		return nil, errors.NewInternalError(
			fmt.Sprintf("malformed ticket data: expected 4 elements, got %d", len(data)))
	}

	id, err := wireInt(data[0])
	if err != nil {
		return nil, errors.NewInternalError("malformed ticket data", err.Error())
	}

	t := New()
	t.ID = &id
	t.Time = wireTime(data[1])
	t.Changetime = wireTime(data[2])

	attributes, err := wireStringMap(data[3])
	if err != nil {
		return nil, errors.NewInternalError("malformed ticket data", err.Error())
	}
	for name, value := range attributes {
		if value == "" {
			continue
		}
		v := value
		// unknown names are dropped rather than failing the whole fetch
		_ = t.SetAttribute(Attribute(name), &v)
	}

	return t, nil
}

func wireInt(v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int32:
		return int(n), nil
	case int64:
		return int(n), nil
	case float64:
		return int(n), nil
	}
	return 0, fmt.Errorf("expected integer, got %T", v)
}

func wireTime(v any) *time.Time {
	if ts, ok := v.(time.Time); ok {
		return &ts
	}
	return nil
}

func wireStringMap(v any) (map[string]string, error) {
	switch m := v.(type) {
	case map[string]string:
		return m, nil
	case map[string]any:
		out := make(map[string]string, len(m))
		for k, val := range m {
			s, ok := val.(string)
			if !ok {
				return nil, fmt.Errorf("attribute %q: expected string, got %T", k, val)
			}
			out[k] = s
		}
		return out, nil
	}
	return nil, fmt.Errorf("expected attribute map, got %T", v)
}
