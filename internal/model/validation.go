package model

import (
	"errors"
	"fmt"

	"github.com/goliatone/go-formdoc/pkg/token"
)

var errTemplateIDMissing = errors.New("model builder: template id is required")

func validateSource(src Source, requireID bool) error {
	if requireID && src.ID == "" {
		return errTemplateIDMissing
	}
	return nil
}

func validateFields(fields []Field) error {
	seen := make(map[string]struct{}, len(fields))
	for _, field := range fields {
		if err := token.ValidateID(field.ID); err != nil {
			return fmt.Errorf("model builder: %w", err)
		}
		if _, dup := seen[field.ID]; dup {
			return fmt.Errorf("model builder: duplicate field id %q", field.ID)
		}
		seen[field.ID] = struct{}{}
	}
	return nil
}
