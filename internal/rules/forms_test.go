package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMissingFormLabel(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    int
	}{
		{"bare input", `<input type="text">`, 1},
		{"label for", `<label for="q">Search</label><input id="q">`, 0},
		{"wrapping label", `<label>Name <input></label>`, 0},
		{"aria-label", `<input aria-label="Search">`, 0},
		{"labelledby", `<span id="l">Code</span><input aria-labelledby="l">`, 0},
		{"title", `<textarea title="Comments"></textarea>`, 0},
		{"placeholder only", `<input placeholder="Search">`, 1},
		{"select", `<select><option>A</option></select>`, 1},
		{"submit", `<input type="submit">`, 0},
		{"hidden", `<input type="hidden" name="token">`, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, detect(t, "missing-form-label", tt.content), tt.want)
		})
	}
}

func TestMissingFormLabelFix(t *testing.T) {
	tests := []struct {
		content string
		want    string
	}{
		{`<input placeholder="Search products">`, `aria-label="Search products"`},
		{`<input name="billing_zipCode">`, `aria-label="Billing zip code"`},
		{`<input id="phone-number">`, `aria-label="Phone number"`},
	}
	for _, tt := range tests {
		res := applyFix(t, "missing-form-label", tt.content)
		assert.Equal(t, 1, res.FixedCount)
		assert.Contains(t, res.Content, tt.want)
	}

	res := applyFix(t, "missing-form-label", `<input>`)
	assert.Zero(t, res.FixedCount)
}

func TestEmptyButton(t *testing.T) {
	assert.Len(t, detect(t, "empty-button", `<button></button>`), 1)
	assert.Len(t, detect(t, "empty-button", `<input type="button">`), 1)
	assert.Empty(t, detect(t, "empty-button", `<input type="button" value="Go">`))
	assert.Empty(t, detect(t, "empty-button", `<button>Save</button>`))
	assert.Empty(t, detect(t, "empty-button", `<button><img src="x.png" alt="Close"></button>`))

	res := applyFix(t, "empty-button", `<button title="Close dialog"><svg></svg></button>`)
	assert.Contains(t, res.Content, `aria-label="Close dialog"`)

	res = applyFix(t, "empty-button", `<button><span class="bi bi-trash-fill"></span></button>`)
	assert.Contains(t, res.Content, `aria-label="Trash fill"`)

	content := `<button class="primary"></button>`
	res = applyFix(t, "empty-button", content)
	assert.Zero(t, res.FixedCount)
	assert.Equal(t, content, res.Content)
}

func TestInvalidAutocomplete(t *testing.T) {
	valid := []string{"on", "off", "email", "shipping street-address", "section-blue billing postal-code", "home tel", "username webauthn"}
	for _, v := range valid {
		assert.Empty(t, detect(t, "invalid-autocomplete", `<input autocomplete="`+v+`">`), v)
	}

	invalid := []string{"emial", "shipping", "email name", "nope"}
	for _, v := range invalid {
		assert.Len(t, detect(t, "invalid-autocomplete", `<input autocomplete="`+v+`">`), 1, v)
	}

	res := applyFix(t, "invalid-autocomplete", `<input autocomplete="given-nam">`)
	assert.Contains(t, res.Content, `autocomplete="given-name"`)
}

func TestFieldsetMissingLegend(t *testing.T) {
	assert.Len(t, detect(t, "fieldset-missing-legend", `<fieldset><input></fieldset>`), 1)
	assert.Empty(t, detect(t, "fieldset-missing-legend", `<fieldset><legend>Shipping</legend><input></fieldset>`))

	f, ok := testRegistry.Fixer("fieldset-missing-legend")
	require.True(t, ok)
	res, err := f.Apply(`<fieldset><input></fieldset>`)
	require.NoError(t, err)
	assert.Zero(t, res.FixedCount)
}
