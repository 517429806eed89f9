package directory

import (
	"fmt"
	"strings"
)

// Dialect supplies the SQL fragments that differ between backends.
type Dialect struct {
	// Placeholder renders the n-th (1-based) bind parameter.
	Placeholder func(n int) string
	// SkillLike renders a predicate that is true when any of the row's
	// skills is LIKE the bound pattern.
	SkillLike func(placeholder string) string
	// OrderBy is appended verbatim; it must order by name then id.
	OrderBy string
	// Lower names a Unicode-aware lower-casing function. Defaults to lower.
	Lower string
}

func (d Dialect) lower(expr string) string {
	fn := d.Lower
	if fn == "" {
		fn = "lower"
	}
	return fn + "(" + expr + ")"
}

// BuildQuery renders the FindUsers statement for f. The selected columns are
// id, name, skills, availability, college and year in that order.
func BuildQuery(f Filter, d Dialect) (string, []any) {
	var (
		conds []string
		args  []any
	)
	bind := func(v any) string {
		args = append(args, v)
		return d.Placeholder(len(args))
	}

	if f.RequireAvailable {
		conds = append(conds, "availability = "+bind(string(AvailabilityAvailable)))
	}
	if f.Year != 0 {
		conds = append(conds, "year = "+bind(f.Year))
	}
	if college := strings.TrimSpace(f.College); college != "" {
		conds = append(conds, d.lower("college")+" LIKE "+bind(LikePattern(college))+` ESCAPE '\'`)
	}
	if len(f.Skills) > 0 {
		skillConds := make([]string, 0, len(f.Skills))
		for _, s := range f.Skills {
			skillConds = append(skillConds, d.SkillLike(bind(LikePattern(s))))
		}
		joiner := " OR "
		if f.MatchMode == MatchAll {
			joiner = " AND "
		}
		conds = append(conds, "("+strings.Join(skillConds, joiner)+")")
	}

	var b strings.Builder
	b.WriteString("SELECT id, name, skills, availability, college, year FROM users")
	if len(conds) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(conds, " AND "))
	}
	b.WriteString(" ORDER BY ")
	b.WriteString(d.OrderBy)
	if f.Limit > 0 {
		b.WriteString(" LIMIT ")
		b.WriteString(bind(f.Limit))
	}
	return b.String(), args
}

// LikePattern lower-cases s, escapes LIKE metacharacters with a backslash
// and wraps it for a substring match.
func LikePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return fmt.Sprintf("%%%s%%", r.Replace(strings.ToLower(s)))
}
