package ingest

import (
	"fmt"
	"strings"
)

// SchemaError reports that a source file is missing a required column. It is
// fatal for that source: proceeding with guessed columns would silently
// aggregate the wrong measure.
type SchemaError struct {
	Source  string
	Field   string
	Columns []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("source %s: no %s column found (file has: %s)",
		e.Source, e.Field, strings.Join(e.Columns, ", "))
}
