package importer

import (
	"bufio"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/Veraticus/transitoria/internal/common"
	"github.com/Veraticus/transitoria/internal/model"
)

var fieldSplit = regexp.MustCompile(`\t+|\s{2,}|\s*;\s*`)

// ParsePasted reads lines typed or pasted by a reviewer, for example
//
//	2024-01-01  Factuur 2024001  Huur Q1  15000
//
// Fields are separated by tabs, semicolons or two or more spaces. The first
// field is the date and the last the amount; everything in between forms the
// description. Empty lines and lines starting with # are skipped.
func ParsePasted(text string) ([]model.Transaction, error) {
	var txns []model.Transaction

	scanner := bufio.NewScanner(strings.NewReader(text))
	line := 0
	for scanner.Scan() {
		line++
		raw := strings.TrimSpace(scanner.Text())
		if raw == "" || strings.HasPrefix(raw, "#") {
			continue
		}

		fields := fieldSplit.Split(raw, -1)
		if len(fields) < 3 {
			return nil, fmt.Errorf("%w: line %d: expected date, description and amount", common.ErrMalformedRow, line)
		}

		date, err := ParseDate(fields[0])
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", common.ErrMalformedRow, line, err)
		}

		amount, err := ParseAmount(fields[len(fields)-1])
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", common.ErrMalformedRow, line, err)
		}

		description := strings.Join(fields[1:len(fields)-1], " - ")
		txns = append(txns, model.NewPending(uuid.NewString(), date, description, amount, model.DirectionFor(amount)))
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read pasted input: %w", err)
	}
	return txns, nil
}
