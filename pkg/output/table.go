package output

// Table represents a pre-rendered table for table output formatting.
type Table struct {
	Headers []string   `json:"headers,omitempty" yaml:"headers,omitempty"`
	Rows    [][]string `json:"rows,omitempty" yaml:"rows,omitempty"`
}

// Texter is implemented by values with their own text rendering, such as
// an HTML fragment that should print verbatim.
type Texter interface {
	Text() string
}
