package fault

import (
	"errors"
	"fmt"
	"testing"
)

func TestConfigurationWraps(t *testing.T) {
	cause := errors.New("no such file")
	err := Configuration("champion reference", cause)

	if !IsConfiguration(err) {
		t.Error("Expected IsConfiguration to be true")
	}
	if !errors.Is(err, cause) {
		t.Error("Expected the cause to survive unwrapping")
	}

	// Detection must survive another layer of wrapping.
	wrapped := fmt.Errorf("loading assets: %w", err)
	if !IsConfiguration(wrapped) {
		t.Error("Expected IsConfiguration to see through fmt.Errorf wrapping")
	}
}

func TestErrorKindsAreDistinct(t *testing.T) {
	cfg := Configurationf("bad asset %s", "x")
	notFound := &ModelNotFound{Group: "high"}
	mismatch := &FeatureMismatch{Got: 100, Want: 169}

	if IsModelNotFound(cfg) || IsFeatureMismatch(cfg) {
		t.Error("ConfigurationError matched a different kind")
	}
	if IsConfiguration(notFound) || IsFeatureMismatch(notFound) {
		t.Error("ModelNotFound matched a different kind")
	}
	if IsConfiguration(mismatch) || IsModelNotFound(mismatch) {
		t.Error("FeatureMismatch matched a different kind")
	}

	if !IsModelNotFound(notFound) {
		t.Error("Expected IsModelNotFound to be true")
	}
	if !IsFeatureMismatch(mismatch) {
		t.Error("Expected IsFeatureMismatch to be true")
	}
}
