package ddl

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderDBML(t *testing.T) {
	t.Run("table_block", func(t *testing.T) {
		out := RenderDBML(loanModel())

		expected := "Table loans {\n" +
			"  id serial [pk]\n" +
			"  baseloanamount \"numeric(15,2)\"\n" +
			"  loanmaturitydate date\n" +
			"  sequence_number integer\n" +
			"  extension_data json\n" +
			"  created_at date [default: `now()`]\n" +
			"  updated_at date [default: `now()`]\n" +
			"  Note: 'not mapped: ADJUSTMENT'\n" +
			"}\n\n"
		assert.Equal(t, expected, out)
	})

	t.Run("every_table_and_reference", func(t *testing.T) {
		out := RenderDBML(nestedModel())

		assert.Contains(t, out, "Table deals {\n")
		assert.Contains(t, out, "Table loans {\n")
		assert.Contains(t, out, "  deal_id integer\n")
		assert.True(t, strings.HasSuffix(out, "Ref: deals.id < loans.deal_id\n"))
		assert.Equal(t, 1, strings.Count(out, "Ref: "))
	})
}

func TestFormatModel(t *testing.T) {
	t.Run("loan", func(t *testing.T) {
		out := FormatModel(loanModel())

		expected := `Table: loans (LOAN)
Columns:
  - id Identifier (PRIMARY KEY)
  - baseloanamount Numeric(15,2)
  - loanmaturitydate Date
  - sequence_number Integer
  - extension_data JSONDocument
  - created_at Date DEFAULT set on insert
  - updated_at Date DEFAULT set on insert and update
Omitted:
  - ADJUSTMENT

`
		assert.Equal(t, expected, out)
	})

	t.Run("foreign_key", func(t *testing.T) {
		out := FormatModel(nestedModel())
		assert.Contains(t, out, "Table: deals (DEAL)\n")
		assert.Contains(t, out, "  - deal_id ForeignKey -> deals.id\n")
	})
}
