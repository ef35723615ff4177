// Package validation binds request payloads and reports rule violations as
// field errors.
//
// Rules live in `validate` struct tags (go-playground/validator); checks
// that tags cannot express are returned as CustomValidationErrors from a
// payload's Validate method. Either way the client receives a 400 whose
// errors[] names fields by their json, path or query name.
package validation
