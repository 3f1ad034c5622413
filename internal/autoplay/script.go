package autoplay

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/leandrodaf/piano/sdk/contracts"
)

var (
	// ErrMalformedScript is returned when a script is not a JSON array.
	ErrMalformedScript = errors.New("malformed auto-play script")
	// ErrMalformedEntity describes an entry that could not be decoded.
	ErrMalformedEntity = errors.New("malformed auto-play entity")
)

type rawEntity struct {
	Type     *contracts.KeyType `json:"type"`
	Group    *int               `json:"group"`
	Position *int               `json:"position"`
	Break    int64              `json:"break_ms"`
}

// ParseScript decodes a JSON array of entities. Entries that cannot be decoded are
// logged and skipped; only a payload that is not an array fails as a whole.
func ParseScript(r io.Reader, logger contracts.Logger) ([]contracts.AutoPlayEntity, error) {
	var raw []json.RawMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedScript, err)
	}

	entities := make([]contracts.AutoPlayEntity, 0, len(raw))
	for i, msg := range raw {
		e, err := parseEntity(msg)
		if err != nil {
			logger.Warn("skipping auto-play entity",
				logger.Field().Int("index", i),
				logger.Field().Error("error", err))
			continue
		}
		entities = append(entities, e)
	}
	return entities, nil
}

func parseEntity(msg json.RawMessage) (contracts.AutoPlayEntity, error) {
	var re rawEntity
	if err := json.Unmarshal(msg, &re); err != nil {
		return contracts.AutoPlayEntity{}, fmt.Errorf("%w: %v", ErrMalformedEntity, err)
	}
	if re.Type == nil || re.Group == nil || re.Position == nil {
		return contracts.AutoPlayEntity{}, fmt.Errorf("%w: type, group and position are required", ErrMalformedEntity)
	}
	if re.Break < 0 {
		return contracts.AutoPlayEntity{}, fmt.Errorf("%w: negative break %d", ErrMalformedEntity, re.Break)
	}
	return contracts.AutoPlayEntity{
		Type:        *re.Type,
		Group:       *re.Group,
		Position:    *re.Position,
		BreakMillis: re.Break,
	}, nil
}
