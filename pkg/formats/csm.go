package formats

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/Faultbox/octacube/pkg/cube"
)

// CSM format errors. Parse failures are reported as *CSMError wrapping one of these.
var (
	ErrCSMSyntax           = errors.New("CSM syntax error")
	ErrCSMChildCount       = errors.New("CSM array must have exactly 8 children")
	ErrCSMUnknownMaterial  = errors.New("unknown CSM material")
	ErrCSMUnknownReference = errors.New("unknown CSM reference")
)

// Position is a location in CSM source. Line and Column start at 1.
type Position struct {
	Offset int
	Line   int
	Column int
}

// String returns "line:column".
func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// CSMError describes a parse failure and the span of source that caused it.
type CSMError struct {
	Kind  error
	Start Position
	End   Position
	Msg   string
}

func (e *CSMError) Error() string {
	return fmt.Sprintf("%v at %s: %s", e.Kind, e.Start, e.Msg)
}

func (e *CSMError) Unwrap() error {
	return e.Kind
}

// CSM is a parsed CubeScript model.
//
// A model is a sequence of epochs separated by '|'. Each epoch is a list of
// statements ">path cube" applied in order to an empty tree, where path is a
// string of octant letters a-h. A cube is a material number 0-255, a bracketed
// list of eight cubes, "<path" to reuse what the previous epoch assigned at
// path, "^axes cube" to swap top-level octants, or "/axes cube" to mirror.
// '#' starts a comment. The last non-empty epoch is the model.
type CSM struct {
	Root       *cube.Cube[uint8]
	Statements int
	Epochs     int
}

// ParseCSM parses CSM source text.
func ParseCSM(text string) (*CSM, error) {
	p := &csmParser{src: text}
	return p.parseModel()
}

// ParseCSMFile parses a CSM file from disk.
func ParseCSMFile(path string) (*CSM, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading CSM file: %w", err)
	}
	return ParseCSM(string(data))
}

type csmParser struct {
	src string
	pos int
}

func (p *csmParser) parseModel() (*CSM, error) {
	model := &CSM{Root: cube.Solid[uint8](0)}
	var prev map[string]*cube.Cube[uint8]

	for {
		p.skip()
		if p.eof() {
			break
		}

		root := cube.Solid[uint8](0)
		assigned := map[string]*cube.Cube[uint8]{}
		count := 0

		for {
			p.skip()
			if p.eof() || p.peek() == '|' {
				break
			}

			start := p.pos
			if p.peek() != '>' {
				return nil, p.errorf(ErrCSMSyntax, start, start+1, "expected '>' to start a statement, found %q", p.peek())
			}
			p.pos++

			path, key := p.path()
			p.skip()
			value, err := p.cube(prev)
			if err != nil {
				return nil, err
			}

			root, err = root.UpdatePath(path, value)
			if err != nil {
				return nil, p.errorf(ErrCSMSyntax, start, p.pos, "%v", err)
			}
			assigned[key] = value
			count++
		}

		if count > 0 {
			model.Root = root
			model.Statements += count
			model.Epochs++
			prev = assigned
		}

		if p.eof() {
			break
		}
		p.pos++ // '|'
	}

	return model, nil
}

func (p *csmParser) cube(prev map[string]*cube.Cube[uint8]) (*cube.Cube[uint8], error) {
	p.skip()
	start := p.pos
	if p.eof() {
		return nil, p.errorf(ErrCSMSyntax, start, start, "unexpected end of input, expected a cube")
	}

	switch c := p.peek(); {
	case c == '[':
		return p.array(prev)

	case c == '<':
		p.pos++
		_, key := p.path()
		ref, ok := prev[key]
		if !ok {
			return nil, p.errorf(ErrCSMUnknownReference, start, p.pos, "no previous epoch assignment at %q", key)
		}
		return ref, nil

	case c == '^' || c == '/':
		p.pos++
		axes := p.axes()
		inner, err := p.cube(prev)
		if err != nil {
			return nil, err
		}
		if c == '^' {
			return cube.Swap(inner, axes...), nil
		}
		return cube.Mirror(inner, axes...), nil

	case c == '-' || isDigit(c):
		return p.number()

	case isIdentChar(c):
		for !p.eof() && isIdentChar(p.peek()) {
			p.pos++
		}
		return nil, p.errorf(ErrCSMUnknownMaterial, start, p.pos, "%q is not a material number", p.src[start:p.pos])

	default:
		return nil, p.errorf(ErrCSMSyntax, start, start+1, "unexpected %q, expected a cube", c)
	}
}

func (p *csmParser) array(prev map[string]*cube.Cube[uint8]) (*cube.Cube[uint8], error) {
	start := p.pos
	p.pos++ // '['

	var children []*cube.Cube[uint8]
	for {
		p.skip()
		if p.eof() {
			return nil, p.errorf(ErrCSMSyntax, start, p.pos, "unclosed '['")
		}
		if p.peek() == ']' {
			p.pos++
			break
		}
		child, err := p.cube(prev)
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}

	if len(children) != 8 {
		return nil, p.errorf(ErrCSMChildCount, start, p.pos, "got %d children", len(children))
	}
	return cube.Subdivided([8]*cube.Cube[uint8](children)), nil
}

func (p *csmParser) number() (*cube.Cube[uint8], error) {
	start := p.pos
	if p.peek() == '-' {
		p.pos++
	}
	for !p.eof() && isDigit(p.peek()) {
		p.pos++
	}

	text := p.src[start:p.pos]
	n, err := strconv.Atoi(text)
	if err != nil {
		return nil, p.errorf(ErrCSMSyntax, start, p.pos, "invalid number %q", text)
	}
	if n < 0 || n > 255 {
		return nil, p.errorf(ErrCSMUnknownMaterial, start, p.pos, "material %d outside 0-255", n)
	}
	return cube.Solid(uint8(n)), nil
}

// path consumes octant letters and returns them as indices and as a map key.
func (p *csmParser) path() ([]int, string) {
	start := p.pos
	var path []int
	for !p.eof() {
		i, ok := cube.OctantFromChar(p.peek())
		if !ok {
			break
		}
		path = append(path, i)
		p.pos++
	}
	return path, p.src[start:p.pos]
}

func (p *csmParser) axes() []cube.Axis {
	var axes []cube.Axis
	for !p.eof() {
		a, ok := cube.AxisFromChar(p.peek())
		if !ok {
			break
		}
		axes = append(axes, a)
		p.pos++
	}
	return axes
}

// skip consumes whitespace and '#' comments.
func (p *csmParser) skip() {
	for !p.eof() {
		switch p.peek() {
		case ' ', '\t', '\n', '\r':
			p.pos++
		case '#':
			for !p.eof() && p.peek() != '\n' {
				p.pos++
			}
		default:
			return
		}
	}
}

func (p *csmParser) eof() bool {
	return p.pos >= len(p.src)
}

func (p *csmParser) peek() byte {
	return p.src[p.pos]
}

func (p *csmParser) position(offset int) Position {
	offset = min(offset, len(p.src))
	before := p.src[:offset]
	line := strings.Count(before, "\n") + 1
	col := offset - strings.LastIndexByte(before, '\n')
	return Position{Offset: offset, Line: line, Column: col}
}

func (p *csmParser) errorf(kind error, start, end int, format string, args ...any) *CSMError {
	return &CSMError{
		Kind:  kind,
		Start: p.position(start),
		End:   p.position(end),
		Msg:   fmt.Sprintf(format, args...),
	}
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isIdentChar(c byte) bool {
	return c == '_' || isDigit(c) || (c|0x20 >= 'a' && c|0x20 <= 'z')
}
