package ddl

import (
	"regexp"
	"strings"
)

var plainIdent = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// reservedWords holds keywords that postgres or SQLite refuse as bare
// identifiers.
var reservedWords = map[string]bool{}

func init() {
	for _, w := range strings.Fields(`
		abort action add after all alter analyse analyze and any array as asc
		asymmetric attach authorization autoincrement before begin between
		binary both by cascade case cast check collate column commit conflict
		constraint create cross current_catalog current_date current_role
		current_schema current_time current_timestamp current_user database
		default deferrable deferred delete desc detach distinct do drop each
		else end escape except exclusive exists explain fail false fetch for
		foreign freeze from full glob grant group having if ignore ilike
		immediate in index indexed initially inner insert instead intersect
		into is isnull join key lateral leading left like limit localtime
		localtimestamp match natural no not notnull null of offset on only or
		order outer overlaps placing plan pragma primary query raise
		recursive references regexp reindex release rename replace restrict
		returning right rollback row savepoint select session_user set
		similar some symmetric table tablesample temp temporary then to
		trailing transaction trigger true union unique update user using
		vacuum values variadic verbose view virtual when where window with
		without`) {
		reservedWords[w] = true
	}
}

// QuoteIdent returns name as a SQL identifier. Lower-case names made of
// letters, digits and underscores that are not keywords stay bare; anything
// else is double-quoted, which both postgres and SQLite accept.
func QuoteIdent(name string) string {
	if plainIdent.MatchString(name) && !reservedWords[name] {
		return name
	}
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
