package database

import (
	"strconv"
	"strings"

	"github.com/xavierca1/lead-manager/internal/entity"
)

const leadColumns = `id, first_name, last_name, email, phone, company, city, state, source, status,
	score, lead_value, last_activity_at, is_qualified, notes, assigned_to, created_at, updated_at`

// queryArgs numbers placeholders as they are appended.
type queryArgs []any

func (a *queryArgs) add(v any) string {
	*a = append(*a, v)
	return "$" + strconv.Itoa(len(*a))
}

// buildWhere renders f as a WHERE clause. Every value travels as a bind
// parameter; only fixed column names are written into the SQL text.
func buildWhere(f entity.LeadFilter, args *queryArgs) string {
	var conds []string

	if f.Search != "" {
		p := args.add("%" + escapeLike(f.Search) + "%")
		ors := make([]string, len(entity.SearchColumns))
		for i, col := range entity.SearchColumns {
			ors[i] = col + " ILIKE " + p
		}
		conds = append(conds, "("+strings.Join(ors, " OR ")+")")
	}
	if f.Status != nil {
		conds = append(conds, "status = "+args.add(*f.Status))
	}
	if f.Source != nil {
		conds = append(conds, "source = "+args.add(*f.Source))
	}
	if f.IsQualified != nil {
		conds = append(conds, "is_qualified = "+args.add(*f.IsQualified))
	}
	if f.Score.Min != nil {
		conds = append(conds, "score >= "+args.add(*f.Score.Min))
	}
	if f.Score.Max != nil {
		conds = append(conds, "score <= "+args.add(*f.Score.Max))
	}
	if f.Value.Min != nil {
		conds = append(conds, "lead_value >= "+args.add(*f.Value.Min))
	}
	if f.Value.Max != nil {
		conds = append(conds, "lead_value <= "+args.add(*f.Value.Max))
	}
	if f.CreatedAt.From != nil {
		conds = append(conds, "created_at >= "+args.add(*f.CreatedAt.From))
	}
	if f.CreatedAt.To != nil {
		conds = append(conds, "created_at <= "+args.add(*f.CreatedAt.To))
	}

	if len(conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(conds, " AND ")
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// sortColumns maps whitelisted sort fields to SQL. Text columns use the
// C collation so the database orders bytewise like entity.LeadSort.
var sortColumns = map[entity.SortField]string{
	entity.SortByCreatedAt:      "created_at",
	entity.SortByUpdatedAt:      "updated_at",
	entity.SortByFirstName:      `first_name COLLATE "C"`,
	entity.SortByLastName:       `last_name COLLATE "C"`,
	entity.SortByEmail:          `email COLLATE "C"`,
	entity.SortByCompany:        `company COLLATE "C"`,
	entity.SortByCity:           `city COLLATE "C"`,
	entity.SortByState:          `state COLLATE "C"`,
	entity.SortBySource:         `source COLLATE "C"`,
	entity.SortByStatus:         `status COLLATE "C"`,
	entity.SortByScore:          "score",
	entity.SortByLeadValue:      "lead_value",
	entity.SortByLastActivityAt: "last_activity_at",
	entity.SortByIsQualified:    "is_qualified",
}

func buildOrderBy(s entity.LeadSort) string {
	col, ok := sortColumns[s.Field]
	if !ok {
		col = sortColumns[entity.SortByCreatedAt]
	}
	dir := " DESC"
	if s.Order == entity.SortAsc {
		dir = " ASC"
	}

	order := " ORDER BY " + col + dir
	if s.Field == entity.SortByLastActivityAt {
		order += " NULLS LAST"
	}
	return order + ", id" + dir
}
