package diagnostics

// Holder receives diagnostics reported during completion.
type Holder interface {
	Add(d *DiagnosticError)
	Diagnostics() []*DiagnosticError
}

// List is a Holder that keeps diagnostics in report order.
type List struct {
	items []*DiagnosticError
}

func NewList() *List {
	return &List{}
}

func (l *List) Add(d *DiagnosticError) {
	l.items = append(l.items, d)
}

func (l *List) Diagnostics() []*DiagnosticError {
	result := make([]*DiagnosticError, len(l.items))
	copy(result, l.items)
	return result
}

// HasErrors reports whether any non-warning diagnostic was added.
func (l *List) HasErrors() bool {
	return CountErrors(l.items) > 0
}

// CountErrors counts the non-warning diagnostics in ds.
func CountErrors(ds []*DiagnosticError) int {
	n := 0
	for _, d := range ds {
		if !d.IsWarning() {
			n++
		}
	}
	return n
}

// WithCode filters ds by code.
func WithCode(ds []*DiagnosticError, code ErrorCode) []*DiagnosticError {
	var result []*DiagnosticError
	for _, d := range ds {
		if d.Code == code {
			result = append(result, d)
		}
	}
	return result
}
