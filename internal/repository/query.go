package repository

import (
	"fmt"
	"strings"
)

// Order is the created_at ordering applied to a comment query
type Order string

const (
	OrderNone   Order = ""
	OrderNewest Order = "newest"
	OrderOldest Order = "oldest"
)

// MaxLimit caps the page size of a single listing
const MaxLimit = 100

// ParseOrder maps a scope name to an Order
func ParseOrder(s string) (Order, error) {
	switch Order(strings.ToLower(s)) {
	case OrderNone:
		return OrderNone, nil
	case OrderNewest:
		return OrderNewest, nil
	case OrderOldest:
		return OrderOldest, nil
	default:
		return OrderNone, fmt.Errorf("unknown order %q, must be newest or oldest", s)
	}
}

// Query describes a comment listing: filters, ordering scope and paging.
// The zero value selects every comment in storage order.
type Query struct {
	Area     string
	AuthorID int64
	Order    Order
	Limit    int
	Offset   int
}

// Newest returns q ordered by created_at descending
func Newest(q Query) Query {
	q.Order = OrderNewest
	return q
}

// Oldest returns q ordered by created_at ascending
func Oldest(q Query) Query {
	q.Order = OrderOldest
	return q
}

// Newest is the method form of the Newest scope
func (q Query) Newest() Query { return Newest(q) }

// Oldest is the method form of the Oldest scope
func (q Query) Oldest() Query { return Oldest(q) }

// ForArea restricts q to one area
func (q Query) ForArea(area string) Query {
	q.Area = area
	return q
}

// Page sets limit and offset
func (q Query) Page(limit, offset int) Query {
	q.Limit = limit
	q.Offset = offset
	return q
}

// where renders the WHERE clause and its arguments
func (q Query) where() (string, []interface{}) {
	var conds []string
	var args []interface{}

	if q.Area != "" {
		args = append(args, q.Area)
		conds = append(conds, fmt.Sprintf("area = $%d", len(args)))
	}
	if q.AuthorID != 0 {
		args = append(args, q.AuthorID)
		conds = append(conds, fmt.Sprintf("author_id = $%d", len(args)))
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// orderBy renders the ORDER BY clause. id breaks created_at ties so the
// two scopes are exact reverses of each other.
func (q Query) orderBy() string {
	switch q.Order {
	case OrderNewest:
		return " ORDER BY created_at DESC, id DESC"
	case OrderOldest:
		return " ORDER BY created_at ASC, id ASC"
	default:
		return ""
	}
}

// limit returns the effective page size, 0 meaning unbounded
func (q Query) limit() int {
	if q.Limit <= 0 {
		return 0
	}
	if q.Limit > MaxLimit {
		return MaxLimit
	}
	return q.Limit
}

// Build renders the SELECT statement for q
func (q Query) Build() (string, []interface{}) {
	where, args := q.where()

	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(commentColumns)
	sb.WriteString(" FROM comments")
	sb.WriteString(where)
	sb.WriteString(q.orderBy())

	if limit := q.limit(); limit > 0 {
		args = append(args, limit)
		fmt.Fprintf(&sb, " LIMIT $%d", len(args))
	}
	if q.Offset > 0 {
		args = append(args, q.Offset)
		fmt.Fprintf(&sb, " OFFSET $%d", len(args))
	}

	return sb.String(), args
}

// BuildCount renders a COUNT statement honoring q's filters only
func (q Query) BuildCount() (string, []interface{}) {
	where, args := q.where()
	return "SELECT COUNT(*) FROM comments" + where, args
}
