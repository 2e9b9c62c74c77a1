package source

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"slices"
	"strings"
)

// Enumerator supplies the ordered list of papers to evaluate.
type Enumerator interface {
	PaperIDs(ctx context.Context) ([]string, error)
}

// IDs is a fixed list of paper identifiers.
type IDs []string

// PaperIDs returns the identifiers with blanks and repeats removed,
// keeping first-seen order.
func (ids IDs) PaperIDs(context.Context) ([]string, error) {
	return dedupe(ids), nil
}

func (ids IDs) sorted() IDs {
	s := slices.Clone(ids)
	slices.Sort(s)
	return s
}

// IDsFile reads paper identifiers from a text file, one per line.
// Blank lines and lines starting with '#' are skipped.
type IDsFile string

// PaperIDs implements Enumerator.
func (path IDsFile) PaperIDs(ctx context.Context) ([]string, error) {
	f, err := os.Open(string(path))
	if err != nil {
		return nil, fmt.Errorf("open ids file: %w", err)
	}
	defer func() { _ = f.Close() }()

	var ids []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		ids = append(ids, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan ids file: %w", err)
	}

	return dedupe(ids), nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
