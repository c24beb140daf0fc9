package generator

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/devanshshrivastava16/TrustSpace/internal/domain"
)

// Encode writes props to w in the layout of properties.json.
func Encode(w io.Writer, props []domain.Property) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "    ")
	if err := encoder.Encode(props); err != nil {
		return fmt.Errorf("encode properties: %w", err)
	}
	return nil
}
