// Package validator provides small composable validation rules.
//
// Rules are plain values evaluated by Apply, which collects every failure
// into ValidationErrors so a client gets all field problems at once:
//
//	err := validator.Apply(
//		validator.Required("email", in.Email),
//		validator.ValidEmail("email", in.Email),
//		validator.Required("password", in.Password),
//	)
//	if validator.IsValidationError(err) {
//		// 400 with err.(validator.ValidationErrors).Fields()
//	}
package validator
