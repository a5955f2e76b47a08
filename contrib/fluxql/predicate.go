package fluxql

import (
	"fmt"
	"strconv"
	"strings"
)

// Predicate is a boolean expression over the row variable r.
type Predicate struct {
	expr string
}

func column(name string) string {
	return fmt.Sprintf("r[%s]", quote(name))
}

func literal(v any) string {
	switch v := v.(type) {
	case string:
		return quote(v)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		s := strconv.FormatFloat(v, 'f', -1, 64)
		if !strings.ContainsAny(s, ".eE") {
			// Keep float literals typed as floats.
			s += ".0"
		}
		return s
	case bool:
		return strconv.FormatBool(v)
	default:
		return quote(fmt.Sprint(v))
	}
}

func compare(col, op string, v any) Predicate {
	return Predicate{expr: fmt.Sprintf("%s %s %s", column(col), op, literal(v))}
}

func Eq(col string, v any) Predicate { return compare(col, "==", v) }
func Gt(col string, v any) Predicate { return compare(col, ">", v) }
func Gte(col string, v any) Predicate { return compare(col, ">=", v) }
func Lt(col string, v any) Predicate { return compare(col, "<", v) }
func Lte(col string, v any) Predicate { return compare(col, "<=", v) }

// And joins predicates; each operand is parenthesized.
func And(ps ...Predicate) Predicate {
	if len(ps) == 1 {
		return ps[0]
	}
	parts := make([]string, 0, len(ps))
	for _, p := range ps {
		parts = append(parts, "("+p.expr+")")
	}
	return Predicate{expr: strings.Join(parts, " and ")}
}
