package export

import (
	"encoding/json"
	"fmt"

	"github.com/de-tools/beat-sheets/pkg/models/api"
	"github.com/de-tools/beat-sheets/pkg/models/domain"
)

type JSONProjector struct{}

func NewJSONProjector() *JSONProjector {
	return &JSONProjector{}
}

func (p *JSONProjector) Project(report *domain.Report) ([]byte, error) {
	body, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode report: %w", err)
	}
	return append(body, '\n'), nil
}

func (p *JSONProjector) ProjectError(message string) ([]byte, error) {
	body, err := json.Marshal(api.Error{Error: message})
	if err != nil {
		return nil, fmt.Errorf("failed to encode error: %w", err)
	}
	return append(body, '\n'), nil
}

func (p *JSONProjector) ContentType() string {
	return ContentTypeJSON
}
