//go:build unit

package content

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func marshal(t *testing.T, c Content) map[string]any {
	t.Helper()
	b, err := json.Marshal(c)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(b, &out))
	return out
}

func TestNormalize_SectionDefaults(t *testing.T) {
	for _, typ := range []Type{TypeNavbar, TypeHero, TypeCollection, TypeProduct} {
		for _, raw := range []string{"", "{}", "null", "not json"} {
			t.Run(string(typ)+"/"+raw, func(t *testing.T) {
				got := marshal(t, Normalize(42, typ, []byte(raw)))

				assert.Equal(t, map[string]any{
					"componentId": float64(42),
					"items":       []any{},
					"styles":      map[string]any{},
				}, got)
			})
		}
	}
}

func TestNormalize_FooterDefaults(t *testing.T) {
	got := marshal(t, Normalize(9, TypeFooter, []byte(`{}`)))

	assert.Equal(t, map[string]any{
		"componentId": float64(9),
		"columns":     []any{},
		"socialLinks": []any{},
		"styles":      map[string]any{},
	}, got)
}

func TestNormalize_PassesInnerValuesThrough(t *testing.T) {
	raw := []byte(`{"items":[{"id":"a","label":"Home","href":"/"},{"id":"b"}],"styles":{"color":"not-a-color","padding":[1,2]},"extra":true}`)

	c := Normalize(3, TypeNavbar, raw)
	nav, ok := c.(Navbar)
	require.True(t, ok, "expected Navbar variant, got %T", c)
	require.Len(t, nav.Items, 2)
	assert.JSONEq(t, `{"id":"a","label":"Home","href":"/"}`, string(nav.Items[0]))
	assert.JSONEq(t, `"not-a-color"`, string(nav.Styles["color"]))

	got := marshal(t, c)
	_, hasExtra := got["extra"]
	assert.False(t, hasExtra, "unrecognised top-level keys are not part of the navbar shape")
}

func TestNormalize_WrongKindFallsBackToDefault(t *testing.T) {
	c := Normalize(1, TypeHero, []byte(`{"items":"oops","styles":[1]}`)).(Hero)

	assert.Empty(t, c.Items)
	assert.NotNil(t, c.Items)
	assert.Empty(t, c.Styles)
}

func TestNormalize_FooterFields(t *testing.T) {
	raw := []byte(`{"columns":[{"title":"Shop","links":[]}],"socialLinks":[{"network":"ig"}]}`)

	f := Normalize(5, TypeFooter, raw).(Footer)

	assert.Len(t, f.Columns, 1)
	assert.Len(t, f.SocialLinks, 1)
	assert.Empty(t, f.Styles)
	assert.Equal(t, int64(5), f.ID())
}

func TestNormalize_OtherIsPassthroughWithComponentID(t *testing.T) {
	raw := []byte(`{"html":"<p>hi</p>","componentId":999,"nested":{"a":[1]}}`)

	c := Normalize(12, ParseType("banner"), raw)
	assert.Equal(t, Type("BANNER"), c.Type())

	got := marshal(t, c)
	assert.Equal(t, float64(12), got["componentId"])
	assert.Equal(t, "<p>hi</p>", got["html"])
	assert.Equal(t, map[string]any{"a": []any{float64(1)}}, got["nested"])
}

func TestNormalize_OtherWithNonObjectPayload(t *testing.T) {
	testCases := []struct {
		name string
		raw  string
		want any
	}{
		{"array", `[1,2,3]`, []any{float64(1), float64(2), float64(3)}},
		{"string", `"plain text"`, "plain text"},
		{"number", `42`, float64(42)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := marshal(t, Normalize(4, Type("CUSTOM"), []byte(tc.raw)))

			assert.Equal(t, map[string]any{"componentId": float64(4), "content": tc.want}, got)
		})
	}
}

func TestNormalize_OtherWithoutPayload(t *testing.T) {
	got := marshal(t, Normalize(5, Type("CUSTOM"), nil))

	assert.Equal(t, map[string]any{"componentId": float64(5)}, got)
}

func TestParseType(t *testing.T) {
	assert.Equal(t, TypeHero, ParseType(" hero "))
	assert.Equal(t, TypeFooter, ParseType("Footer"))
	assert.Equal(t, "collection", TypeCollection.Key())
	assert.True(t, TypeProduct.Known())
	assert.False(t, ParseType("gallery").Known())
}

func TestDefaultPayloadNormalizesToDefaults(t *testing.T) {
	for _, typ := range []Type{TypeNavbar, TypeHero, TypeFooter} {
		assert.Equal(t,
			marshal(t, Normalize(1, typ, nil)),
			marshal(t, Normalize(1, typ, DefaultPayload(typ))),
		)
	}
}
