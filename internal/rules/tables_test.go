package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMissingTableHeaderEndToEnd(t *testing.T) {
	content := `<table><tr><td>A</td><td>B</td></tr></table>`

	issues := detect(t, "missing-table-header", content)
	require.Len(t, issues, 1)

	res := applyFix(t, "missing-table-header", content)
	assert.Equal(t, 2, res.FixedCount)
	assert.Equal(t, `<table><tr><th scope="col">A</th><th scope="col">B</th></tr></table>`, res.Content)

	assert.Empty(t, detect(t, "missing-table-header", res.Content))
	assert.Empty(t, detect(t, "missing-th-scope", res.Content))
}

func TestMissingTableHeaderKeepsAuthoredTbody(t *testing.T) {
	content := `<table><tbody><tr><td>A</td></tr><tr><td>1</td></tr></tbody></table>`
	res := applyFix(t, "missing-table-header", content)
	assert.Equal(t, `<table><tbody><tr><th scope="col">A</th></tr><tr><td>1</td></tr></tbody></table>`, res.Content)
}

func TestMissingTableHeaderSkipsLayoutAndNested(t *testing.T) {
	assert.Empty(t, detect(t, "missing-table-header", `<table role="presentation"><tr><td>x</td></tr></table>`))

	nested := `<table><tr><th>Outer</th></tr><tr><td><table><tr><td>inner</td></tr></table></td></tr></table>`
	issues := detect(t, "missing-table-header", nested)
	require.Len(t, issues, 1, "only the inner table lacks headers")
}

func TestMissingThScope(t *testing.T) {
	content := `<table><thead><tr><th>Name</th><th>Age</th></tr></thead>` +
		`<tbody><tr><th>Ann</th><td>30</td></tr></tbody></table>`

	issues := detect(t, "missing-th-scope", content)
	require.Len(t, issues, 3)
	assert.Equal(t, "col", issues[0].Context["suggested_scope"])
	assert.Equal(t, "row", issues[2].Context["suggested_scope"])

	res := applyFix(t, "missing-th-scope", content)
	assert.Equal(t, 3, res.FixedCount)
	assert.Contains(t, res.Content, `<th scope="row">Ann</th>`)
	assert.Empty(t, detect(t, "missing-th-scope", res.Content))

	withHeaders := `<table><tr><th id="h">H</th></tr><tr><td headers="h">1</td></tr></table>`
	assert.Empty(t, detect(t, "missing-th-scope", withHeaders))
}

func TestEmptyTableHeader(t *testing.T) {
	assert.Len(t, detect(t, "empty-table-header", `<table><tr><th></th><th>Q1</th></tr></table>`), 1)
}
