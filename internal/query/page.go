package query

const (
	DefaultPageSize = 50
	MaxPageSize     = 200
)

type Page struct {
	Number int
	Size   int
}

// NewPage clamps page and pageSize into their valid ranges, applying defaults
// for out-of-range input.
func NewPage(number, size int) Page {
	if number < 1 {
		number = 1
	}
	if size < 1 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	return Page{Number: number, Size: size}
}

func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}
