package apperrors

// Failure is the structured result returned to MCP clients for a failed call.
type Failure struct {
	Success     bool   `json:"success"`
	Error       string `json:"error"`
	Code        string `json:"code"`
	Recoverable bool   `json:"recoverable"`
	Field       string `json:"field,omitempty"`
}

// ToFailure renders any error as a Failure envelope.
func ToFailure(err error) Failure {
	e := Classify(err)
	if e == nil {
		e = Unknown(nil)
	}
	f := Failure{
		Success:     false,
		Error:       e.Message,
		Code:        e.Code(),
		Recoverable: e.Recoverable(),
	}
	if e.Kind == KindValidation {
		f.Field = e.Field
	}
	return f
}

// FriendlyMessage returns a user-facing sentence for err.
func FriendlyMessage(err error) string {
	e := Classify(err)
	if e == nil {
		return ""
	}
	switch e.Kind {
	case KindConnection:
		return "I'm having trouble reaching your portfolio data right now. This usually resolves in a few seconds. Want to try again?"
	case KindAuth:
		return "There's an authentication issue. Please make sure the MCP server is properly configured."
	case KindNotFound:
		return e.Message
	case KindValidation:
		return "Invalid input: " + e.Message
	case KindTimeout:
		return "The portfolio service took too long to respond. Please try again."
	case KindUnknown:
		return "I encountered an unexpected issue. Let me try a different approach..."
	}
	return ""
}
