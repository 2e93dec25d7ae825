package ddl

import (
	"fmt"

	"github.com/alc6/mismo2schema/relational"
)

// SortTables orders tables so that every table comes after the tables its
// foreign keys reference. Ties keep model derivation order. References to
// tables outside the model are ignored. Two containers sharing a table name
// are rejected.
func SortTables(model *relational.Model) ([]*relational.Table, error) {
	tables := model.Ordered()

	byName := make(map[string]*relational.Table, len(tables))
	for _, t := range tables {
		if other, ok := byName[t.Name]; ok {
			return nil, fmt.Errorf("duplicate table name %s for containers %s and %s", t.Name, other.Container, t.Container)
		}
		byName[t.Name] = t
	}

	inDegree := make(map[string]int, len(tables))
	children := make(map[string][]*relational.Table)
	for _, t := range tables {
		for _, fk := range t.ForeignKeys() {
			if _, ok := byName[fk.References]; !ok || fk.References == t.Name {
				continue
			}
			inDegree[t.Name]++
			children[fk.References] = append(children[fk.References], t)
		}
	}

	var queue []*relational.Table
	for _, t := range tables {
		if inDegree[t.Name] == 0 {
			queue = append(queue, t)
		}
	}

	order := make([]*relational.Table, 0, len(tables))
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		order = append(order, node)

		for _, child := range children[node.Name] {
			inDegree[child.Name]--
			if inDegree[child.Name] == 0 {
				queue = append(queue, child)
			}
		}
	}

	if len(order) < len(tables) {
		var cycle []string
		for _, t := range tables {
			if inDegree[t.Name] > 0 {
				cycle = append(cycle, t.Name)
			}
		}
		return nil, fmt.Errorf("circular dependency detected among tables: %v", cycle)
	}

	return order, nil
}
