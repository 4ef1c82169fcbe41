// Package diag holds the structured diagnostic records the lexer and
// parser emit. It never renders text; see pkg/errors for that.
package diag

// Level distinguishes an error (the AST is degraded) from a warning (the
// AST is unaffected).
type Level int

const (
	Warning Level = iota
	Error
)

func (l Level) String() string {
	if l == Error {
		return "error"
	}
	return "warning"
}

// ID names a specific diagnostic so callers can pattern-match on it
// without parsing the formatted message. Grouped by the component that
// raises them, following the ErrXxx naming go-dws uses in
// internal/parser/operators.go.
type ID int

const (
	Unknown ID = iota

	// Lexical.
	ErrInvalidEscape
	ErrUnterminatedString
	ErrUnterminatedRegexp
	ErrUnterminatedHeredoc
	ErrInvalidEncodingByte
	ErrInvalidPercentDelimiter
	ErrInvalidNumericLiteral
	ErrAmbiguousUnary
	ErrCarriageReturn
	ErrMagicCommentIgnored
	ErrRegexpEncodingConflict
	ErrMixedEscapeEncoding

	// Structural.
	ErrMismatchedEnclosure
	ErrMissingTerminator
	ErrUnexpectedToken
	ErrRecursionDepthExceeded

	// Semantic-at-parse-time.
	ErrConstAssignInMethod
	ErrDuplicateHashKey
	ErrDuplicateWhenKey
	ErrDuplicatePatternKey
	ErrReturnOutsideMethod
	ErrBlockExitOutsideLoop
	ErrYieldOutsideMethod
	ErrRetryOutsideRescue
	ErrNumberedParamReserved
	ErrItMixedWithNumbered
	ErrParameterConflict
	ErrNonAssocChain
)

// Diagnostic is a single error or warning with its source span.
type Diagnostic struct {
	Start   int
	End     int
	ID      ID
	Level   Level
	Message string
}

// List accumulates errors and warnings during one parse. The zero value
// is ready to use.
type List struct {
	errors   []Diagnostic
	warnings []Diagnostic
}

// Add appends d to the error or warning list according to d.Level.
func (l *List) Add(d Diagnostic) {
	if d.Level == Error {
		l.errors = append(l.errors, d)
	} else {
		l.warnings = append(l.warnings, d)
	}
}

// Errorf records an error diagnostic at [start, end).
func (l *List) Errorf(start, end int, id ID, format string, args ...any) {
	l.Add(Diagnostic{Start: start, End: end, ID: id, Level: Error, Message: sprintf(format, args...)})
}

// Warnf records a warning diagnostic at [start, end).
func (l *List) Warnf(start, end int, id ID, format string, args ...any) {
	l.Add(Diagnostic{Start: start, End: end, ID: id, Level: Warning, Message: sprintf(format, args...)})
}

// Errors returns all recorded errors in emission order.
func (l *List) Errors() []Diagnostic { return l.errors }

// Warnings returns all recorded warnings in emission order.
func (l *List) Warnings() []Diagnostic { return l.warnings }

// HasErrors reports whether any error diagnostic was recorded.
func (l *List) HasErrors() bool { return len(l.errors) > 0 }
