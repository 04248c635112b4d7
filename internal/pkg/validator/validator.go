package validator

// Validator validates request and domain structs.
type Validator interface {
	// Validate returns a V10ValidationError describing every failed field, or nil.
	Validate(data any) error
}
