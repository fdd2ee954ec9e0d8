package procedural

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/ppiankov/lexcore/internal/model"
)

// contractValidate checks collaborator answers. Initialized in init() with
// the tier rules that struct tags cannot express.
var contractValidate *validator.Validate

func init() {
	contractValidate = validator.New(validator.WithRequiredStructEnabled())
	contractValidate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		return name
	})
	contractValidate.RegisterStructValidation(answerTierRules, model.AugmentedAnswer{})
}

// answerTierRules enforces the per-tier obligations of the collaborator contract:
// Medium-Augmented must carry a next step, a positive timeline and a statute;
// Abstain must carry zero day counts.
func answerTierRules(sl validator.StructLevel) {
	a := sl.Current().Interface().(model.AugmentedAnswer)

	switch a.Confidence {
	case model.ConfidenceMedium:
		if a.TimelineDays < 1 {
			sl.ReportError(a.TimelineDays, "timeline_days", "TimelineDays", "medium_timeline", "")
		}
		if strings.TrimSpace(a.StatutoryReference) == "" {
			sl.ReportError(a.StatutoryReference, "statutory_reference", "StatutoryReference", "medium_statute", "")
		}
		if strings.TrimSpace(a.NextStep) == "" {
			sl.ReportError(a.NextStep, "next_procedural_step", "NextStep", "medium_next_step", "")
		}
	case model.ConfidenceAbstain:
		if a.TimelineDays != 0 {
			sl.ReportError(a.TimelineDays, "timeline_days", "TimelineDays", "abstain_zero", "")
		}
		if a.MaxExtensionDays != 0 {
			sl.ReportError(a.MaxExtensionDays, "max_extension_days", "MaxExtensionDays", "abstain_zero", "")
		}
	}
}

// CheckAnswer reports whether a collaborator answer honours the contract.
// The returned error lists every violated rule.
func CheckAnswer(a *model.AugmentedAnswer) error {
	if a == nil {
		return errors.New("empty answer")
	}

	err := contractValidate.Struct(a)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	violations := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		violations = append(violations, fmt.Sprintf("%s:%s", fe.Field(), fe.Tag()))
	}
	return fmt.Errorf("contract violation (%s)", strings.Join(violations, ", "))
}
