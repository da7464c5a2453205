package schema

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
)

// Standardize returns a new table with exactly the columns of s, in schema
// order, each cell coerced to its column type. Missing optional columns are
// filled with nulls, legacy column names are renamed, extra columns dropped.
// A nil table yields an empty table with the schema's columns.
func Standardize(s Schema, t *Table) (*Table, error) {
	out := &Table{Columns: s.Names()}
	if t == nil {
		return out, nil
	}

	present := resolveColumns(s, t)
	for _, c := range s.Columns {
		if _, ok := present[c.Name]; !ok && c.Required {
			return nil, fmt.Errorf("%w: %s is missing required column '%s'", apperrors.ErrSchemaViolation, s.Entity, c.Name)
		}
	}

	out.Rows = make([]Row, 0, len(t.Rows))
	for i, in := range t.Rows {
		row := make(Row, len(s.Columns))
		for _, c := range s.Columns {
			src, ok := present[c.Name]
			if !ok {
				row[c.Name] = nil
				continue
			}
			v, err := Coerce(in[src], c.Type)
			if err != nil {
				return nil, fmt.Errorf("%w: %s row %d column '%s': %v", apperrors.ErrSchemaViolation, s.Entity, i, c.Name, err)
			}
			row[c.Name] = v
		}
		out.Rows = append(out.Rows, row)
	}
	return out, nil
}

// resolveColumns maps canonical column names to the input column holding them.
// A canonical name wins over an alias for the same column.
func resolveColumns(s Schema, t *Table) map[string]string {
	present := map[string]string{}
	for _, name := range t.Columns {
		name = strings.TrimSpace(name)
		if _, ok := s.Column(name); ok {
			present[name] = name
		}
	}
	for _, name := range t.Columns {
		canonical, ok := s.Aliases[strings.TrimSpace(name)]
		if !ok {
			continue
		}
		if _, taken := present[canonical]; !taken {
			present[canonical] = name
		}
	}
	return present
}

// StandardizeJournal standardizes raw postings. Without group ids, every dated
// row opens a new group that also holds the undated rows following it. Dates
// are then propagated forward and backward within each group.
func StandardizeJournal(t *Table) (*Table, error) {
	out, err := Standardize(JournalSchema, t)
	if err != nil {
		return nil, err
	}

	if !hasValues(out, JournalSchema.IDColumns()...) {
		n := 0
		for _, r := range out.Rows {
			if r[ColDate] != nil {
				n++
			}
			r[ColGroupID] = strconv.Itoa(n)
		}
	}

	fillDates(out)
	return out, nil
}

func hasValues(t *Table, cols ...string) bool {
	for _, r := range t.Rows {
		for _, c := range cols {
			if r[c] != nil {
				return true
			}
		}
	}
	return false
}

// fillDates copies the nearest preceding date (or, failing that, the nearest
// following one) into undated rows of the same group.
func fillDates(t *Table) {
	groups := map[any][]int{}
	var order []any
	for i, r := range t.Rows {
		id := r[ColGroupID]
		if _, ok := groups[id]; !ok {
			order = append(order, id)
		}
		groups[id] = append(groups[id], i)
	}
	for _, id := range order {
		idx := groups[id]
		var last any
		for _, i := range idx {
			if d := t.Rows[i][ColDate]; d != nil {
				last = d
			} else if last != nil {
				t.Rows[i][ColDate] = last
			}
		}
		last = nil
		for j := len(idx) - 1; j >= 0; j-- {
			i := idx[j]
			if d := t.Rows[i][ColDate]; d != nil {
				last = d
			} else if last != nil {
				t.Rows[i][ColDate] = last
			}
		}
	}
}

// Coerce converts v to the Go type of typ: string, int, decimal.Decimal,
// time.Time (a UTC calendar date) or bool. Blank strings and NaN become nil.
func Coerce(v any, typ ColumnType) (any, error) {
	if isNull(v) {
		return nil, nil
	}
	switch typ {
	case String:
		if d, ok := v.(decimal.Decimal); ok {
			return d.String(), nil
		}
		s, err := cast.ToStringE(v)
		if err != nil {
			return nil, err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return nil, nil
		}
		return s, nil
	case Int:
		d, null, err := toDecimal(v)
		if err != nil || null {
			return nil, err
		}
		if !d.IsInteger() {
			return nil, fmt.Errorf("value %s is not an integer", d.String())
		}
		return int(d.IntPart()), nil
	case Decimal:
		d, null, err := toDecimal(v)
		if err != nil || null {
			return nil, err
		}
		if d.IsZero() {
			// collapses -0 and scaled zeros to one representation
			return decimal.Zero, nil
		}
		return d, nil
	case Date:
		return toDate(v)
	case Bool:
		if s, ok := v.(string); ok && strings.TrimSpace(s) == "" {
			return nil, nil
		}
		return cast.ToBoolE(v)
	}
	return nil, fmt.Errorf("unknown column type %d", typ)
}

func isNull(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case float64:
		return math.IsNaN(x)
	case float32:
		return math.IsNaN(float64(x))
	case decimal.NullDecimal:
		return !x.Valid
	case *decimal.Decimal:
		return x == nil
	case *string:
		return x == nil
	case *int:
		return x == nil
	case *time.Time:
		return x == nil || x.IsZero()
	case time.Time:
		return x.IsZero()
	}
	return false
}

func toDecimal(v any) (decimal.Decimal, bool, error) {
	switch x := v.(type) {
	case decimal.Decimal:
		return x, false, nil
	case *decimal.Decimal:
		return *x, false, nil
	case decimal.NullDecimal:
		return x.Decimal, false, nil
	case float64:
		return decimal.NewFromFloat(x), false, nil
	case float32:
		return decimal.NewFromFloat32(x), false, nil
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return decimal.Zero, true, nil
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			return decimal.Zero, false, fmt.Errorf("cannot parse '%s' as a number", x)
		}
		return d, false, nil
	case bool:
		return decimal.Zero, false, fmt.Errorf("boolean %v is not a number", x)
	}
	i, err := cast.ToInt64E(v)
	if err == nil {
		return decimal.NewFromInt(i), false, nil
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return decimal.Zero, false, err
	}
	return decimal.NewFromFloat(f), false, nil
}

func toDate(v any) (any, error) {
	switch x := v.(type) {
	case time.Time:
		return truncate(x), nil
	case *time.Time:
		return truncate(*x), nil
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return nil, nil
		}
		if d, err := time.Parse("2006-01-02", s); err == nil {
			return d, nil
		}
		d, err := cast.ToTimeE(s)
		if err != nil {
			return nil, fmt.Errorf("cannot parse '%s' as a date", x)
		}
		return truncate(d), nil
	}
	d, err := cast.ToTimeE(v)
	if err != nil {
		return nil, err
	}
	return truncate(d), nil
}

func truncate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func sortedKeys(r Row) []string {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
