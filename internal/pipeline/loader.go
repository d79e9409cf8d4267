package pipeline

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// LoadPayloadFile reads one provider payload from a JSON file.
func LoadPayloadFile(path string) (*RawPayload, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "pipeline: read payload %s", path)
	}

	var payload RawPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, eris.Wrapf(err, "pipeline: parse payload %s", path)
	}
	if payload.Provider == "" {
		return nil, eris.Errorf("pipeline: payload %s has no provider", path)
	}
	return &payload, nil
}

// LoadPayloadDir reads every .json payload in a directory, sorted by
// filename for deterministic ingestion order.
func LoadPayloadDir(dir string) ([]RawPayload, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, eris.Wrapf(err, "pipeline: scan payload dir %s", dir)
	}
	if len(paths) == 0 {
		return nil, eris.Errorf("pipeline: no payloads in %s", dir)
	}
	sort.Strings(paths)

	payloads := make([]RawPayload, 0, len(paths))
	for _, path := range paths {
		payload, err := LoadPayloadFile(path)
		if err != nil {
			return nil, err
		}
		payloads = append(payloads, *payload)
	}

	zap.L().Info("payloads loaded",
		zap.String("dir", dir),
		zap.Int("count", len(payloads)),
	)
	return payloads, nil
}
