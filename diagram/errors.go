package diagram

import "fmt"

// UnsupportedTokenError is returned when token category has no display
// rule. Generation of the whole diagram is aborted.
type UnsupportedTokenError struct {
	Text  string
	Class string
}

func (e *UnsupportedTokenError) Error() string {
	return fmt.Sprintf("token not supported %q - %s", e.Text, e.Class)
}

// MalformedDiagramError is returned when externally rendered flow diagram
// lacks element or attribute diagram composition depends upon.
type MalformedDiagramError struct {
	Missing string
}

func (e *MalformedDiagramError) Error() string {
	return fmt.Sprintf("malformed flow diagram: missing %s", e.Missing)
}
