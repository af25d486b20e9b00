package envelope

import (
	stderrors "errors"

	"repox/internal/errors"
)

// Builder constructs Response envelopes using a fluent API.
type Builder struct {
	resp *Response
}

// New creates a new envelope builder.
func New() *Builder {
	return &Builder{
		resp: &Response{
			SchemaVersion: CurrentSchemaVersion,
		},
	}
}

// Data sets the tool-specific payload.
func (b *Builder) Data(data interface{}) *Builder {
	b.resp.Data = data
	return b
}

// Repository records which repository answered.
func (b *Builder) Repository(path string) *Builder {
	if path == "" {
		return b
	}
	b.meta().Repository = path
	return b
}

// WithTruncation adds truncation metadata.
func (b *Builder) WithTruncation(truncated bool, shown, limit int, reason string) *Builder {
	if !truncated {
		return b
	}

	b.meta().Truncation = &Truncation{
		IsTruncated: true,
		Shown:       shown,
		Limit:       limit,
		Reason:      reason,
	}

	return b
}

// Warning adds a warning message.
func (b *Builder) Warning(msg string) *Builder {
	b.resp.Warnings = append(b.resp.Warnings, Warning{Message: msg})
	return b
}

// WarningWithCode adds a warning with a code.
func (b *Builder) WarningWithCode(code, msg string) *Builder {
	b.resp.Warnings = append(b.resp.Warnings, Warning{Code: code, Message: msg})
	return b
}

// Error sets the error field. A RepoxError also fills in the error code and
// turns its tool fixes into suggested next calls.
func (b *Builder) Error(err error) *Builder {
	if err == nil {
		return b
	}
	msg := err.Error()
	b.resp.Error = &msg

	var rerr *errors.RepoxError
	if stderrors.As(err, &rerr) {
		msg = rerr.Message
		if cause := rerr.Unwrap(); cause != nil {
			msg += ": " + cause.Error()
		}
		b.resp.Error = &msg
		b.resp.ErrorCode = string(rerr.Code)
		b.SuggestFixes(rerr.SuggestedFixes)
	}
	return b
}

// SuggestFixes converts CallTool fixes to structured suggested calls.
func (b *Builder) SuggestFixes(fixes []errors.FixAction) *Builder {
	for _, fix := range fixes {
		if call := FromFix(fix); call != nil {
			b.resp.SuggestedNextCalls = append(b.resp.SuggestedNextCalls, *call)
		}
	}
	return b
}

// Suggest adds a suggested call.
func (b *Builder) Suggest(tool string, params map[string]interface{}, reason string) *Builder {
	b.resp.SuggestedNextCalls = append(b.resp.SuggestedNextCalls, SuggestedCall{
		Tool:   tool,
		Params: params,
		Reason: reason,
	})
	return b
}

// Build returns the completed response envelope.
func (b *Builder) Build() *Response {
	return b.resp
}

func (b *Builder) meta() *Meta {
	if b.resp.Meta == nil {
		b.resp.Meta = &Meta{}
	}
	return b.resp.Meta
}

// FromFix converts a fix action to a SuggestedCall. Only CallTool fixes
// become calls.
func FromFix(fix errors.FixAction) *SuggestedCall {
	if fix.Type != errors.CallTool || fix.Tool == "" {
		return nil
	}
	return &SuggestedCall{
		Tool:   fix.Tool,
		Reason: fix.Description,
	}
}

// Operational creates a simple envelope for tools that do not depend on the
// active repository.
func Operational(data interface{}) *Response {
	return &Response{
		SchemaVersion: CurrentSchemaVersion,
		Data:          data,
	}
}

// FromError creates an error-only envelope.
func FromError(err error) *Response {
	return New().Error(err).Build()
}
