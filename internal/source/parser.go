// Package source reads debt lists from YAML, JSON and JSON Lines files.
package source

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/payoffhq/payoff/internal/model"

	"gopkg.in/yaml.v3"
)

// Format is a debts file encoding.
type Format string

const (
	FormatYAML  Format = "yaml"
	FormatJSON  Format = "json"
	FormatJSONL Format = "jsonl" // one debt object per line
)

// DetectFormat picks a format from the file extension.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	case ".jsonl", ".ndjson":
		return FormatJSONL, nil
	}
	return "", fmt.Errorf("unsupported debts file %q (want .yaml, .json or .jsonl)", filepath.Base(path))
}

// ParseResult holds the output of parsing one debts file.
type ParseResult struct {
	Path        string
	Debts       []model.RawDebt
	Policy      *model.Policy // nil when the file has no policy block
	ParseErrors int           // skipped JSONL lines
	Err         error
}

// ParseFile reads a debts file in the format implied by its extension.
func ParseFile(path string) ParseResult {
	res := ParseResult{Path: path}
	format, err := DetectFormat(path)
	if err != nil {
		res.Err = err
		return res
	}
	f, err := os.Open(path)
	if err != nil {
		res.Err = err
		return res
	}
	defer func() { _ = f.Close() }()

	pr := Parse(f, format)
	pr.Path = path
	return pr
}

// Parse decodes a debts document from r.
func Parse(r io.Reader, format Format) ParseResult {
	var res ParseResult
	switch format {
	case FormatJSONL:
		res.Debts, res.ParseErrors, res.Err = parseLines(r)
		return res
	case FormatYAML, FormatJSON:
	default:
		res.Err = fmt.Errorf("unknown format %q", format)
		return res
	}

	data, err := io.ReadAll(r)
	if err != nil {
		res.Err = err
		return res
	}

	var doc debtsFile
	if format == FormatYAML {
		err = yaml.Unmarshal(data, &doc)
	} else if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '[' {
		err = json.Unmarshal(trimmed, &doc.Debts)
	} else {
		err = json.Unmarshal(data, &doc)
	}
	if err != nil {
		res.Err = fmt.Errorf("decoding %s: %w", format, err)
		return res
	}

	res.Debts = make([]model.RawDebt, len(doc.Debts))
	for i, fd := range doc.Debts {
		res.Debts[i] = fd.raw()
	}
	if doc.Policy != nil {
		res.Policy, res.Err = doc.Policy.policy()
	}
	return res
}

// parseLines reads one JSON debt per line. Blank lines are ignored and
// malformed lines are counted, not fatal.
func parseLines(r io.Reader) ([]model.RawDebt, int, error) {
	var (
		debts []model.RawDebt
		bad   int
	)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var fd fileDebt
		if err := json.Unmarshal(line, &fd); err != nil {
			bad++
			continue
		}
		debts = append(debts, fd.raw())
	}
	return debts, bad, scanner.Err()
}

func (fd fileDebt) raw() model.RawDebt {
	return model.RawDebt{
		ID:         strings.TrimSpace(fd.ID),
		Name:       strings.TrimSpace(fd.Name),
		Last4:      strings.TrimSpace(fd.Last4),
		Balance:    fd.Balance,
		APR:        fd.APR,
		MinPayment: fd.MinPayment,
		DueDay:     fd.DueDay,
	}
}

func (fp filePolicy) policy() (*model.Policy, error) {
	p := &model.Policy{
		Strategy:     model.Snowball,
		ExtraMonthly: fp.ExtraMonthly,
		OneTimeExtra: fp.OneTimeExtra,
		TargetDate:   strings.TrimSpace(fp.TargetDate),
	}
	if fp.Strategy != "" {
		s, err := model.ParseStrategy(fp.Strategy)
		if err != nil {
			return nil, fmt.Errorf("policy: %w", err)
		}
		p.Strategy = s
	}
	return p, nil
}
