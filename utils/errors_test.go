package utils

import (
	"testing"

	"github.com/pkg/errors"
	"go.viam.com/test"
)

func TestConfigValidationErrors(t *testing.T) {
	err := NewConfigValidationFieldRequiredError("evaluation", "u_ms")
	test.That(t, err.Error(), test.ShouldEqual, `error validating "evaluation": "u_ms" is required`)

	base := errors.New("must be between 0 and 1")
	err = NewConfigValidationError("evaluation.alpha", base)
	test.That(t, err.Error(), test.ShouldEqual, `error validating "evaluation.alpha": must be between 0 and 1`)
	test.That(t, errors.Is(err, base), test.ShouldBeTrue)
}
