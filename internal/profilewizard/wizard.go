// Package profilewizard validates the five sections of the profile form.
// Each step is checked against a JSON schema, then against the cross-field
// rules a schema cannot express (age, spouse name, custom relation).
package profilewizard

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"mauryavansham-service/internal/model"

	"github.com/xeipuuv/gojsonschema"
)

// Step is one section of the profile wizard
type Step int

const (
	StepPersonal Step = iota + 1
	StepFamily
	StepEducation
	StepLifestyle
	StepPhotos
)

// StepCount is the number of wizard sections
const StepCount = int(StepPhotos)

// MinAge is the minimum age for a profile
const MinAge = 18

var stepNames = map[Step]string{
	StepPersonal:  "personal",
	StepFamily:    "family",
	StepEducation: "education",
	StepLifestyle: "lifestyle",
	StepPhotos:    "photos",
}

func (s Step) String() string {
	if n, ok := stepNames[s]; ok {
		return n
	}
	return fmt.Sprintf("step(%d)", int(s))
}

// Valid reports whether s is a known step
func (s Step) Valid() bool {
	return s >= StepPersonal && s <= StepPhotos
}

// Result is the outcome of validating one step
type Result struct {
	Step       Step              `json:"step"`
	Valid      bool              `json:"valid"`
	Errors     map[string]string `json:"errors"`
	CanAdvance bool              `json:"canAdvance"`
	NextStep   Step              `json:"nextStep"`
	Complete   bool              `json:"complete"`
}

// Validate checks data against one step. An empty map means the step passes.
func Validate(step Step, data map[string]interface{}, now time.Time) map[string]string {
	errs := map[string]string{}
	schema, ok := compiled[step]
	if !ok {
		errs["step"] = fmt.Sprintf("Unknown step %d", int(step))
		return errs
	}

	doc := compact(data)
	res, err := schema.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		errs["form"] = "Form data could not be read"
		return errs
	}

	for _, re := range res.Errors() {
		field := errorField(re)
		if field == "" {
			continue
		}
		if _, seen := errs[field]; seen {
			continue
		}
		if msg, ok := fieldMessages[field]; ok {
			errs[field] = msg
		} else {
			errs[field] = re.Description()
		}
	}

	if step == StepPersonal {
		personalRules(doc, errs, now)
	}
	return errs
}

// Advance validates step and reports where the wizard goes next
func Advance(step Step, data map[string]interface{}, now time.Time) Result {
	errs := Validate(step, data, now)
	r := Result{Step: step, Errors: errs, Valid: len(errs) == 0, NextStep: step}
	if r.Valid {
		r.CanAdvance = true
		if step < StepPhotos {
			r.NextStep = step + 1
		} else {
			r.Complete = true
		}
	}
	return r
}

// ValidateAll runs every step and merges the errors
func ValidateAll(data map[string]interface{}, now time.Time) map[string]string {
	all := map[string]string{}
	for s := StepPersonal; s <= StepPhotos; s++ {
		for k, v := range Validate(s, data, now) {
			all[k] = v
		}
	}
	return all
}

// FromProfile converts a profile into the wizard's form data
func FromProfile(p *model.Profile) (map[string]interface{}, error) {
	raw, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	var data map[string]interface{}
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, err
	}
	return data, nil
}

// DeriveGender returns the gender fixed by relation, or submitted when the
// relation does not imply one.
func DeriveGender(relation, submitted string) string {
	switch relation {
	case model.RelationSon, model.RelationBrother:
		return model.GenderMale
	case model.RelationDaughter, model.RelationSister:
		return model.GenderFemale
	}
	return submitted
}

// Age returns completed years between dob (YYYY-MM-DD) and now
func Age(dob string, now time.Time) (int, error) {
	born, err := time.Parse("2006-01-02", dob)
	if err != nil {
		return 0, err
	}
	years := now.Year() - born.Year()
	if now.Month() < born.Month() || (now.Month() == born.Month() && now.Day() < born.Day()) {
		years--
	}
	return years, nil
}

func personalRules(doc map[string]interface{}, errs map[string]string, now time.Time) {
	if _, bad := errs["dob"]; !bad {
		if dob, ok := doc["dob"].(string); ok {
			age, err := Age(dob, now)
			switch {
			case err != nil:
				errs["dob"] = "Date of birth is not a real date"
			case age < MinAge:
				errs["dob"] = fmt.Sprintf("Must be at least %d years old", MinAge)
			}
		}
	}

	if status, _ := doc["maritalStatus"].(string); strings.EqualFold(status, "married") {
		if _, ok := doc["spouseName"]; !ok {
			errs["spouseName"] = "Spouse name is required when married"
		}
	}

	if relation, _ := doc["profileRelation"].(string); relation == model.RelationOther {
		if _, ok := doc["customRelation"]; !ok {
			errs["customRelation"] = "Specify the relation"
		}
	}
}

// errorField names the field a schema error belongs to
func errorField(re gojsonschema.ResultError) string {
	if re.Type() == "required" {
		if p, ok := re.Details()["property"].(string); ok {
			return p
		}
		return ""
	}
	f := re.Field()
	if f == "" || f == "(root)" {
		return ""
	}
	return f
}

// compact drops blank strings and nulls so they count as missing
func compact(data map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(data))
	for k, v := range data {
		switch t := v.(type) {
		case nil:
			continue
		case string:
			if strings.TrimSpace(t) == "" {
				continue
			}
			out[k] = strings.TrimSpace(t)
		default:
			out[k] = v
		}
	}
	return out
}
