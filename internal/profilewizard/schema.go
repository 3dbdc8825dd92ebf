package profilewizard

import (
	"github.com/xeipuuv/gojsonschema"
)

func str(extra map[string]interface{}) map[string]interface{} {
	s := map[string]interface{}{"type": "string", "minLength": 1}
	for k, v := range extra {
		s[k] = v
	}
	return s
}

func object(required []string, props map[string]interface{}) map[string]interface{} {
	s := map[string]interface{}{
		"type":       "object",
		"properties": props,
	}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}

var stepSchemas = map[Step]map[string]interface{}{
	StepPersonal: object(
		[]string{"name", "email", "phone", "dob", "gender", "height", "maritalStatus"},
		map[string]interface{}{
			"profileRelation": str(map[string]interface{}{
				"enum": []interface{}{"myself", "daughter", "son", "sister", "brother", "other"},
			}),
			"name":          str(map[string]interface{}{"maxLength": 100}),
			"email":         str(map[string]interface{}{"pattern": `^[^\s@]+@[^\s@]+\.[^\s@]+$`}),
			"phone":         str(map[string]interface{}{"pattern": `^[0-9]{10}$`}),
			"dob":           str(map[string]interface{}{"pattern": `^\d{4}-\d{2}-\d{2}$`}),
			"gender":        str(map[string]interface{}{"enum": []interface{}{"male", "female"}}),
			"height":        str(map[string]interface{}{"pattern": `^[3-7]'([0-9]|1[01])"$`}),
			"maritalStatus": str(nil),
			"city":          str(map[string]interface{}{"maxLength": 50}),
			"state":         str(map[string]interface{}{"maxLength": 50}),
		},
	),
	StepFamily: object(
		[]string{"fatherName", "motherName", "familyType"},
		map[string]interface{}{
			"fatherName": str(map[string]interface{}{"maxLength": 100}),
			"motherName": str(map[string]interface{}{"maxLength": 100}),
			"familyType": str(nil),
		},
	),
	StepEducation: object(
		[]string{"highestEducation", "occupation"},
		map[string]interface{}{
			"highestEducation": str(map[string]interface{}{"maxLength": 100}),
			"occupation":       str(map[string]interface{}{"maxLength": 100}),
		},
	),
	StepLifestyle: object(
		[]string{"diet"},
		map[string]interface{}{
			"diet": str(nil),
		},
	),
	StepPhotos: object(
		nil,
		map[string]interface{}{
			"photo1":  str(map[string]interface{}{"pattern": `^https?://`}),
			"photo2":  str(map[string]interface{}{"pattern": `^https?://`}),
			"photo3":  str(map[string]interface{}{"pattern": `^https?://`}),
			"aboutMe": map[string]interface{}{"type": "string", "maxLength": 1000},
		},
	),
}

// fieldMessages are the user-facing messages per field
var fieldMessages = map[string]string{
	"profileRelation":  "Select a valid relation",
	"name":             "Name is required",
	"email":            "Valid email is required",
	"phone":            "Phone must be 10 digits",
	"dob":              "Date of birth must be YYYY-MM-DD",
	"gender":           "Gender is required",
	"height":           `Height must look like 5'7"`,
	"maritalStatus":    "Marital status is required",
	"city":             "City must be at most 50 characters",
	"state":            "State must be at most 50 characters",
	"fatherName":       "Father's name is required",
	"motherName":       "Mother's name is required",
	"familyType":       "Family type is required",
	"highestEducation": "Highest education is required",
	"occupation":       "Occupation is required",
	"diet":             "Diet is required",
	"photo1":           "Photo must be an http(s) URL",
	"photo2":           "Photo must be an http(s) URL",
	"photo3":           "Photo must be an http(s) URL",
	"aboutMe":          "About me must be at most 1000 characters",
}

var compiled = func() map[Step]*gojsonschema.Schema {
	out := make(map[Step]*gojsonschema.Schema, len(stepSchemas))
	for step, s := range stepSchemas {
		schema, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(s))
		if err != nil {
			panic("profilewizard: invalid schema for step " + step.String() + ": " + err.Error())
		}
		out[step] = schema
	}
	return out
}()
