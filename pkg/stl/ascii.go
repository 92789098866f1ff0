package stl

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/philipparndt/kstl/pkg/geometry"
)

const (
	// maxHeaderLen is the size of the binary header and the longest name
	// kept from an ASCII endsolid line
	maxHeaderLen = 80

	// maxLineLen bounds a single ASCII line
	maxLineLen = 1 << 20
)

// asciiParser holds the pending facet while lines are consumed
type asciiParser struct {
	source    string
	line      int
	normal    geometry.Point
	vertices  [3]geometry.Point
	nVertices int

	triangles []geometry.Triangle
	header    string
}

// parseASCII parses an ASCII STL stream. Each keyword must sit on its own
// line; blank lines are skipped.
func parseASCII(r io.Reader, source string) ([]geometry.Triangle, string, error) {
	p := &asciiParser{source: source}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineLen)
	for scanner.Scan() {
		p.line++
		if err := p.parseLine(scanner.Text()); err != nil {
			return nil, "", err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, "", fmt.Errorf("%w: reading %s: %w", ErrSourceUnavailable, source, err)
	}

	return p.triangles, p.header, nil
}

func (p *asciiParser) fail(msg string) error {
	return &SyntaxError{Source: p.source, Line: p.line, Msg: msg}
}

func (p *asciiParser) parseLine(line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}

	switch fields[0] {
	case "solid", "endloop":

	case "facet":
		if len(fields) < 5 {
			return p.fail("triangle is not specified correctly")
		}
		if fields[1] != "normal" {
			return p.fail("normal keyword missing")
		}
		p.normal = parsePoint(fields[2:5])
		p.nVertices = 0

	case "outer":
		if len(fields) < 2 || fields[1] != "loop" {
			return p.fail("expecting outer loop")
		}

	case "vertex":
		if len(fields) < 4 {
			return p.fail("vertex is not specified correctly")
		}
		if p.nVertices >= 3 {
			return p.fail("too many vertices")
		}
		p.vertices[p.nVertices] = parsePoint(fields[1:4])
		p.nVertices++

	case "endfacet":
		if p.nVertices != 3 {
			return p.fail(fmt.Sprintf("bad number of vertices for face (%d)", p.nVertices))
		}
		p.triangles = append(p.triangles, geometry.NewTriangle(
			p.vertices[0], p.vertices[1], p.vertices[2], p.normal, [2]byte{}))

	case "endsolid":
		name := strings.TrimSpace(line)
		name = strings.TrimSpace(strings.TrimPrefix(name, "endsolid"))
		if len(name) > maxHeaderLen {
			name = name[:maxHeaderLen]
		}
		p.header = name

	default:
		return p.fail(fmt.Sprintf("bad keyword %q", fields[0]))
	}

	return nil
}

func parsePoint(fields []string) geometry.Point {
	return geometry.NewPoint(atof(fields[0]), atof(fields[1]), atof(fields[2]))
}

// atof converts the longest numeric prefix of s and yields 0 when there is
// none, so "1.5mm" reads as 1.5 and "abc" as 0. Out of range values
// saturate to ±Inf or 0.
func atof(s string) float32 {
	f, err := strconv.ParseFloat(s, 32)
	if err == nil {
		return float32(f)
	}
	if errors.Is(err, strconv.ErrRange) {
		return float32(f)
	}

	end := numericPrefix(s)
	if end == 0 {
		return 0
	}
	f, err = strconv.ParseFloat(s[:end], 32)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0
	}
	return float32(f)
}

// numericPrefix returns the length of the longest prefix of s shaped like
// [+-]digits[.digits][(e|E)[+-]digits]
func numericPrefix(s string) int {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	digits := 0
	for i < len(s) && isDigit(s[i]) {
		i++
		digits++
	}
	if i < len(s) && s[i] == '.' {
		i++
		for i < len(s) && isDigit(s[i]) {
			i++
			digits++
		}
	}
	if digits == 0 {
		return 0
	}

	// An exponent only counts when at least one digit follows it.
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		if j < len(s) && isDigit(s[j]) {
			for j < len(s) && isDigit(s[j]) {
				j++
			}
			i = j
		}
	}
	return i
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
