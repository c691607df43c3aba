// Package validator provides three complementary validation styles that all
// report failures through a single ValidationErrors type: predicate rules
// composed with Apply, struct-tag validation backed by go-playground/validator,
// and pipe-separated rule strings for validating raw form data.
//
// # Predicate Rules
//
// Rules are plain values built by constructor functions and collected with
// Apply. Each carries its own message and translation metadata:
//
//	err := validator.Apply(
//	    validator.RequiredString("email", form.Email),
//	    validator.Email("email", form.Email),
//	    validator.MinLenString("password", form.Password, 8),
//	)
//
// # Struct Tags
//
// ValidateStruct checks `validate` tags and maps the results onto the same
// error type, naming fields by their json/form tag:
//
//	type SignupForm struct {
//	    Email    string `json:"email" validate:"required,email"`
//	    Password string `json:"password" validate:"required,min=8"`
//	}
//
//	err := validator.ValidateStruct(form)
//
// # Rule Strings
//
// ValidateMap checks string form data against compact rule strings, the
// style used by Context.Validate:
//
//	err := validator.ValidateMap(input, validator.Rules{
//	    "email":    "required|email",
//	    "password": "required|min:8|confirmed",
//	})
//
// # Working With Failures
//
// All three styles return ValidationErrors, distinguishable from
// infrastructure failures with IsValidationError:
//
//	if validator.IsValidationError(err) {
//	    ve := validator.ExtractValidationErrors(err)
//	    ve.Translate(translator.TranslateMessage)
//	    for _, msg := range ve.Get("email") {
//	        // render msg
//	    }
//	}
package validator
