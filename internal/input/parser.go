// Package input reads the list of requested domains: one
// "STRUCTURE CHAIN DOMAIN" triple per line.
package input

import (
	"bufio"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/inodb/igalign/internal/igdomain"
	"github.com/inodb/igalign/internal/igerr"
)

// Parser reads triples from an input file.
type Parser struct {
	reader     *bufio.Reader
	file       *os.File
	gzipReader *gzip.Reader
	lineNumber int
	skipped    int
	logger     *zap.Logger
}

// NewParser opens path for reading. "-" reads standard input; gzipped
// files are detected by their magic bytes.
func NewParser(path string) (*Parser, error) {
	if path == "-" {
		return NewParserFromReader(os.Stdin), nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input file: %w", err)
	}

	p := &Parser{file: file, logger: zap.NewNop()}

	br := bufio.NewReader(file)
	magic, _ := br.Peek(2)
	if len(magic) == 2 && magic[0] == 0x1f && magic[1] == 0x8b {
		p.gzipReader, err = gzip.NewReader(br)
		if err != nil {
			file.Close()
			return nil, fmt.Errorf("create gzip reader: %w", err)
		}
		p.reader = bufio.NewReader(p.gzipReader)
	} else {
		p.reader = br
	}
	return p, nil
}

// NewParserFromReader creates a parser reading from r.
func NewParserFromReader(r io.Reader) *Parser {
	return &Parser{reader: bufio.NewReader(r), logger: zap.NewNop()}
}

// SetLogger sets the logger that receives malformed-line diagnostics.
func (p *Parser) SetLogger(logger *zap.Logger) {
	p.logger = logger
}

// Next returns the next triple, or nil, nil at end of input. Blank and
// "#" lines are ignored; lines without exactly three fields are skipped
// with a warning.
func (p *Parser) Next() (*igdomain.Triple, error) {
	for {
		line, err := p.reader.ReadString('\n')
		if err != nil && err != io.EOF {
			return nil, fmt.Errorf("read input line: %w", err)
		}
		if err == io.EOF && line == "" {
			return nil, nil
		}
		p.lineNumber++

		t, perr := ParseLine(line)
		if perr == nil {
			return t, nil
		}
		if igerr.Is(perr, igerr.MalformedInputLine) {
			p.skipped++
			p.logger.Warn("skipping malformed input line",
				zap.Int("line", p.lineNumber),
				zap.Error(perr))
		}
		if err == io.EOF {
			return nil, nil
		}
	}
}

// errBlank marks lines that carry no triple and no diagnostic.
var errBlank = errors.New("blank line")

// ParseLine parses one input line. Blank and comment lines return errBlank.
func ParseLine(line string) (*igdomain.Triple, error) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return nil, errBlank
	}

	fields := strings.Fields(line)
	if len(fields) != 3 {
		return nil, igerr.Errorf(igerr.MalformedInputLine, line, "expected 3 fields, got %d", len(fields))
	}
	return &igdomain.Triple{
		StructureID: strings.ToUpper(fields[0]),
		Chain:       fields[1],
		Domain:      fields[2],
	}, nil
}

// LineNumber returns the number of lines read so far.
func (p *Parser) LineNumber() int {
	return p.lineNumber
}

// Skipped returns the number of malformed lines skipped so far.
func (p *Parser) Skipped() int {
	return p.skipped
}

// Close closes the parser and underlying file.
func (p *Parser) Close() error {
	if p.gzipReader != nil {
		p.gzipReader.Close()
	}
	if p.file != nil {
		return p.file.Close()
	}
	return nil
}

// ReadAll drains p and returns the triples in input order.
func ReadAll(p *Parser) ([]igdomain.Triple, error) {
	var out []igdomain.Triple
	for {
		t, err := p.Next()
		if err != nil {
			return out, err
		}
		if t == nil {
			return out, nil
		}
		out = append(out, *t)
	}
}

// ReadTriples reads every triple from r.
func ReadTriples(r io.Reader, logger *zap.Logger) ([]igdomain.Triple, error) {
	p := NewParserFromReader(r)
	if logger != nil {
		p.SetLogger(logger)
	}
	return ReadAll(p)
}

// ReadFile reads every triple from the file at path.
func ReadFile(path string, logger *zap.Logger) ([]igdomain.Triple, error) {
	p, err := NewParser(path)
	if err != nil {
		return nil, err
	}
	defer p.Close()
	if logger != nil {
		p.SetLogger(logger)
	}
	return ReadAll(p)
}
