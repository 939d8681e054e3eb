// Package wordlist reads word lists from plain text and PDF files.
//
// Text lists hold one word or phrase per line, or several separated by commas,
// semicolons or tabs. Blank lines and lines starting with '#' are skipped.
// Words are deduplicated case-insensitively, keeping the first spelling.
package wordlist

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/heartmarshall/vibevocab/internal/domain"
)

// maxLineBytes bounds a single line of a text list.
const maxLineBytes = 64 * 1024

var pdfMagic = []byte("%PDF-")

// Parse reads a text word list.
func Parse(r io.Reader) ([]string, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 4096), maxLineBytes)

	var l list
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		for _, w := range strings.FieldsFunc(line, isSeparator) {
			l.add(w)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read word list: %w", err)
	}
	return l.words, nil
}

// ParsePDF extracts the plain text of a PDF and parses it as a word list.
func ParsePDF(r io.ReaderAt, size int64) ([]string, error) {
	reader, err := pdf.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}

	text, err := reader.GetPlainText()
	if err != nil {
		return nil, fmt.Errorf("extract pdf text: %w", err)
	}
	return Parse(text)
}

// ReadFile parses the file at path, choosing the PDF parser by content.
func ReadFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	return ParseBytes(data)
}

// ParseBytes parses an in-memory list, detecting PDF documents by their header.
func ParseBytes(data []byte) ([]string, error) {
	if bytes.HasPrefix(data, pdfMagic) {
		return ParsePDF(bytes.NewReader(data), int64(len(data)))
	}
	return Parse(bytes.NewReader(data))
}

func isSeparator(r rune) bool {
	return r == ',' || r == ';' || r == '\t'
}

type list struct {
	words []string
	seen  map[string]bool
}

func (l *list) add(w string) {
	w = domain.CleanWord(w)
	if w == "" {
		return
	}
	if l.seen == nil {
		l.seen = make(map[string]bool)
	}
	k := domain.WordKey(w)
	if l.seen[k] {
		return
	}
	l.seen[k] = true
	l.words = append(l.words, w)
}
