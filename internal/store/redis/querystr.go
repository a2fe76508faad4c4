package redis

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/iamvishalkhare/redisearch-product-catalog/internal/query"
	"github.com/iamvishalkhare/redisearch-product-catalog/internal/schema"
)

// exactAlias is the attribute suffix under which a full-text field's exact
// (TAG) view is indexed. A field declared both Exact and FullText is indexed
// twice: once tokenized under its own name, once verbatim under the alias.
const exactAlias = "_exact"

// compile translates a predicate tree into RediSearch query syntax. The
// collection declaration decides how each field reference is rendered: TAG
// braces for exact string fields, numeric ranges for range and exact-int
// fields, parenthesized terms for full-text fields.
func compile(e query.Expr, col *schema.Collection) (string, error) {
	switch n := e.(type) {
	case query.And:
		parts, err := compileAll(n.Exprs, col)
		if err != nil {
			return "", err
		}
		return "(" + strings.Join(parts, " ") + ")", nil
	case query.Or:
		parts, err := compileAll(n.Exprs, col)
		if err != nil {
			return "", err
		}
		return "(" + strings.Join(parts, "|") + ")", nil
	case query.Eq:
		return compileEq(n, col)
	case query.Ge:
		return fmt.Sprintf("@%s:[%s +inf]", n.Field, formatNum(n.Value)), nil
	case query.Le:
		return fmt.Sprintf("@%s:[-inf %s]", n.Field, formatNum(n.Value)), nil
	case query.Match:
		term := escapeTerm(n.Term)
		if term == "" {
			return "", fmt.Errorf("redis: empty full-text term for field %q", n.Field)
		}
		return fmt.Sprintf("@%s:(%s)", n.Field, term), nil
	case query.AnyTag:
		if len(n.Tags) == 0 {
			return "", fmt.Errorf("redis: empty tag set for field %q", n.Field)
		}
		escaped := make([]string, 0, len(n.Tags))
		for _, t := range n.Tags {
			escaped = append(escaped, escapeTag(t))
		}
		return fmt.Sprintf("@%s:{%s}", n.Field, strings.Join(escaped, "|")), nil
	default:
		return "", fmt.Errorf("redis: unknown expression %T", e)
	}
}

func compileAll(exprs []query.Expr, col *schema.Collection) ([]string, error) {
	parts := make([]string, 0, len(exprs))
	for _, e := range exprs {
		p, err := compile(e, col)
		if err != nil {
			return nil, err
		}
		parts = append(parts, p)
	}
	return parts, nil
}

func compileEq(n query.Eq, col *schema.Collection) (string, error) {
	f, ok := col.Field(n.Field)
	if !ok {
		return "", fmt.Errorf("redis: unknown field %q", n.Field)
	}

	switch v := n.Value.(type) {
	case int64:
		// Exact-int fields are numeric attributes; equality is a
		// degenerate range.
		return fmt.Sprintf("@%s:[%d %d]", n.Field, v, v), nil
	case string:
		attr := n.Field
		if f.Has(schema.FullText) {
			// The tokenized attribute cannot answer equality; use the
			// verbatim TAG view indexed alongside it.
			attr += exactAlias
		}
		return fmt.Sprintf("@%s:{%s}", attr, escapeTag(v)), nil
	default:
		return "", fmt.Errorf("redis: unsupported equality value %T for field %q", n.Value, n.Field)
	}
}

func formatNum(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// tagSpecials are the characters RediSearch treats as syntax inside TAG
// filters and must be backslash-escaped in values.
const tagSpecials = ` ,.<>{}[]"':;!@#$%^&*()-+=~|/\`

func escapeTag(v string) string {
	var b strings.Builder
	b.Grow(len(v))
	for _, r := range v {
		if strings.ContainsRune(tagSpecials, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// escapeTerm reduces a user-supplied search term to its tokens, which both
// neutralizes query syntax and matches how the index tokenized the stored
// text.
func escapeTerm(term string) string {
	fields := strings.FieldsFunc(term, func(r rune) bool {
		return !isTokenRune(r)
	})
	return strings.Join(fields, " ")
}

func isTokenRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case r == '_', r > 127:
		return true
	default:
		return false
	}
}
