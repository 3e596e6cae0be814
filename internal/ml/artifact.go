package ml

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/hoopiq/courtcast/internal/features"
)

// ErrModelUnavailable is returned when the artifact pair is absent. The
// serving path treats it as a signal to run heuristically, not a failure.
var ErrModelUnavailable = errors.New("model artifact not found")

// modelArtifact is the on-disk envelope around a fitted classifier. The
// feature column list is stored so a load against a changed feature
// scheme fails loudly instead of silently scoring garbage.
type modelArtifact struct {
	Algorithm      string          `json:"algorithm"`
	FeatureColumns []string        `json:"feature_columns"`
	TrainedAt      time.Time       `json:"trained_at"`
	Model          json.RawMessage `json:"model"`
}

func modelPath(dir, base string) string  { return filepath.Join(dir, base+".model.json") }
func scalerPath(dir, base string) string { return filepath.Join(dir, base+".scaler.json") }

// SaveArtifact persists the (model, scaler) pair under a shared base name.
// Each file is written to a temp path and renamed, so a serving process
// polling the directory never observes a half-written artifact. The pair
// is always written together; a model without its scaler is useless.
func SaveArtifact(dir, base string, model Classifier, scaler *StandardScaler, trainedAt time.Time) error {
	if model == nil || scaler == nil {
		return fmt.Errorf("artifact requires both model and scaler")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create model dir: %w", err)
	}

	rawModel, err := json.Marshal(model)
	if err != nil {
		return fmt.Errorf("failed to marshal model: %w", err)
	}
	envelope, err := json.MarshalIndent(modelArtifact{
		Algorithm:      model.Name(),
		FeatureColumns: features.Columns,
		TrainedAt:      trainedAt,
		Model:          rawModel,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal artifact: %w", err)
	}
	rawScaler, err := json.MarshalIndent(scaler, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal scaler: %w", err)
	}

	if err := writeAtomic(modelPath(dir, base), envelope); err != nil {
		return err
	}
	return writeAtomic(scalerPath(dir, base), rawScaler)
}

// LoadArtifact loads the (model, scaler) pair. Both files must be present;
// a lone model or lone scaler counts as unavailable.
func LoadArtifact(dir, base string) (Classifier, *StandardScaler, error) {
	rawModel, err := os.ReadFile(modelPath(dir, base))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, ErrModelUnavailable
		}
		return nil, nil, fmt.Errorf("failed to read model artifact: %w", err)
	}
	rawScaler, err := os.ReadFile(scalerPath(dir, base))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, ErrModelUnavailable
		}
		return nil, nil, fmt.Errorf("failed to read scaler artifact: %w", err)
	}

	var envelope modelArtifact
	if err := json.Unmarshal(rawModel, &envelope); err != nil {
		return nil, nil, fmt.Errorf("failed to decode model artifact: %w", err)
	}
	if err := validateColumns(envelope.FeatureColumns); err != nil {
		return nil, nil, err
	}

	model, err := NewCandidate(envelope.Algorithm, 0)
	if err != nil {
		return nil, nil, fmt.Errorf("artifact names unknown algorithm %q", envelope.Algorithm)
	}
	if err := json.Unmarshal(envelope.Model, model); err != nil {
		return nil, nil, fmt.Errorf("failed to decode %s model: %w", envelope.Algorithm, err)
	}

	scaler := &StandardScaler{}
	if err := json.Unmarshal(rawScaler, scaler); err != nil {
		return nil, nil, fmt.Errorf("failed to decode scaler: %w", err)
	}
	if len(scaler.Mean) != len(features.Columns) || len(scaler.Scale) != len(features.Columns) {
		return nil, nil, fmt.Errorf("scaler covers %d features, expected %d", len(scaler.Mean), len(features.Columns))
	}

	return model, scaler, nil
}

// ArtifactVersion returns an opaque change marker for the pair, derived
// from the model file's mtime. Used by the reload watcher and as a cache
// key component.
func ArtifactVersion(dir, base string) (string, error) {
	info, err := os.Stat(modelPath(dir, base))
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrModelUnavailable
		}
		return "", err
	}
	return info.ModTime().UTC().Format(time.RFC3339Nano), nil
}

func validateColumns(cols []string) error {
	if len(cols) != len(features.Columns) {
		return fmt.Errorf("artifact trained on %d features, expected %d", len(cols), len(features.Columns))
	}
	for i, c := range cols {
		if c != features.Columns[i] {
			return fmt.Errorf("artifact feature order mismatch at %d: %q vs %q", i, c, features.Columns[i])
		}
	}
	return nil
}

func writeAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}
