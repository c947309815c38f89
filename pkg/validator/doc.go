// Package validator provides small declarative validation rules.
//
// Each exported helper builds a Rule: a Check func plus the ValidationError
// reported when the check fails. Apply evaluates a set of rules and collects
// every failure into ValidationErrors, which implements error.
//
//	err := validator.Apply(
//	    validator.Required("title", ev.Title),
//	    validator.Required("message", ev.Message),
//	    validator.InList("type", ev.Type, []string{"info", "error"}),
//	)
//	if verrs := validator.ExtractValidationErrors(err); verrs != nil {
//	    for _, field := range verrs.Fields() {
//	        // ...
//	    }
//	}
//
// The package holds no state and is safe for concurrent use.
package validator
