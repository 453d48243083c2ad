package markup

import (
	"strings"
	"testing"
	"testing/quick"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rdkitSample = `<?xml version='1.0' encoding='iso-8859-1'?>
<svg version='1.1' baseProfile='full'
              xmlns='http://www.w3.org/2000/svg'
                      xmlns:rdkit='http://www.rdkit.org/xml'
                      xmlns:xlink='http://www.w3.org/1999/xlink'
                  xml:space='preserve'
width='450px' height='300px' viewBox='0 0 450 300'>
<!-- END OF HEADER -->
<rect style='opacity:1.0;fill:#FFFFFF;stroke:none' width='450.0' height='300.0' x='0.0' y='0.0'> </rect>
<path class='bond-0 atom-0 atom-1' d='M 10,10 L 20,20' style='fill:none;stroke:#000000;stroke-width:2.0px' />
</svg>
`

func TestNormalize_Empty(t *testing.T) {
	assert.Equal(t, "", Normalize(""))
	assert.Equal(t, "", Normalize(" \n\t "))
}

func TestNormalize_RDKitSample(t *testing.T) {
	out := Normalize(rdkitSample)

	assert.True(t, strings.HasPrefix(out, CanonicalDeclaration+"\n<svg width=\"100%\" height=\"auto\" "), out)
	assert.NotContains(t, out, "iso-8859-1")
	assert.NotContains(t, out, "450px")
	assert.NotContains(t, out, "  ")
	assert.Contains(t, out, " xmlns='http://www.w3.org/2000/svg'")
	assert.Contains(t, out, " viewBox='0 0 450 300'")
	assert.Contains(t, out, "width='450.0' height='300.0'", "only the root element is resized")
	assert.Contains(t, out, "stroke-width:2.0px")
	assert.Equal(t, 1, strings.Count(out, "\n"))
}

func TestNormalize_GluedAttributes(t *testing.T) {
	in := `<svg version="1.1"xmlns="http://www.w3.org/2000/svg"xmlns:xlink="x"viewBox="0 0 10 10"width="10">`
	out := Normalize(in)
	assert.Equal(t, `<svg width="100%" height="auto" version="1.1" xmlns="http://www.w3.org/2000/svg" xmlns:xlink="x" viewBox="0 0 10 10">`, out)
}

func TestNormalize_UnquotedRootSize(t *testing.T) {
	assert.Equal(t, `<svg width="100%" height="auto"><g/></svg>`, Normalize(`<svg width=100 height=50><g/></svg>`))
	assert.Equal(t, `<svg width="100%" height="auto"/>`, Normalize(`<svg width=10/>`))
}

func TestNormalize_LeavesPrefixedNamesAlone(t *testing.T) {
	out := Normalize(`<svg data-xmlns='x' my:viewBox='1'><g foo-xml:space='p'/></svg>`)
	assert.Contains(t, out, "data-xmlns='x'")
	assert.Contains(t, out, "my:viewBox='1'")
	assert.Contains(t, out, "foo-xml:space='p'")
}

func TestNormalize_InjectsSizeWhenAbsent(t *testing.T) {
	out := Normalize(`<svg><circle r="1"/></svg>`)
	assert.Equal(t, `<svg width="100%" height="auto"><circle r="1"/></svg>`, out)
}

func TestNormalize_NeverTwoRootWidths(t *testing.T) {
	inputs := []string{
		`<svg width="1" width="2" height='3'>`,
		`<svg width = "10px" height="20px"/>`,
		`<svg width="100%" height="auto">`,
		`<svg a="1"width="2"height="3">`,
		`<svg width=100 height=50><g/></svg>`,
		`<svg width=10px height='5'/>`,
		`<svg width= height=>`,
		`<svg/width=5>`,
	}
	for _, in := range inputs {
		out := Normalize(in)
		root := out[:strings.Index(out, ">")+1]
		assert.Equal(t, 1, strings.Count(root, "width="), "input %q gave %q", in, out)
		assert.Equal(t, 1, strings.Count(root, "height="), "input %q gave %q", in, out)
		assert.Contains(t, root, `width="100%"`)
	}
}

func TestNormalize_NotSVG(t *testing.T) {
	assert.Equal(t, "plain text here", Normalize("  plain   text\n\nhere "))
}

func TestNormalize_DoubleQuotedLegacyEncoding(t *testing.T) {
	out := Normalize(`<?xml version="1.0" encoding="ISO-8859-1"?><svg/>`)
	assert.Equal(t, CanonicalDeclaration+"\n<svg width=\"100%\" height=\"auto\"/>", out)
}

func TestNormalize_Idempotent(t *testing.T) {
	fixtures := []string{
		rdkitSample,
		`<svg version="1.1"xmlns="a"width="10">`,
		`<?xml version='1.0'?>   <svg a=">" width="5"><g/></svg>`,
		"xmlns='a' text",
		"<svg\n>",
		"",
	}
	for _, in := range fixtures {
		once := Normalize(in)
		require.Equal(t, once, Normalize(once), "input %q", in)
	}
}

func TestNormalize_IdempotentProperty(t *testing.T) {
	f := func(s string) bool {
		once := Normalize(s)
		return Normalize(once) == once
	}
	require.NoError(t, quick.Check(f, nil))

	g := func(attrs string) bool {
		once := Normalize("<svg " + attrs + ">")
		return Normalize(once) == once
	}
	require.NoError(t, quick.Check(g, nil))
}

func TestTrust(t *testing.T) {
	assert.Equal(t, Trusted(`<svg width="100%" height="auto">`), Trust(` <svg width='3'> `))
}

//Personal.AI order the ending
