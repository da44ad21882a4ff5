package scraper

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReduceStripsNoiseElements(t *testing.T) {
	html := `<html><head><script>var x = "secret";</script><style>.a{color:red}</style></head>
<body><nav>Home | Deals | Cart</nav><header>MegaShop</header>
<h1>Wireless Headphones</h1><p>Price: ₹1,999</p>
<aside>Sponsored junk</aside><footer>© 2026 MegaShop</footer></body></html>`

	out := Reduce(html)

	assert.Contains(t, out, "Wireless Headphones")
	assert.Contains(t, out, "₹1,999")
	assert.NotContains(t, out, "secret")
	assert.NotContains(t, out, "color:red")
	assert.NotContains(t, out, "Sponsored junk")
	assert.NotContains(t, out, "MegaShop")
}

func TestReduceStripsCommentsAndTags(t *testing.T) {
	out := Reduce(`<div><!-- hidden note -->Visible <b>bold</b> text</div>`)

	assert.Equal(t, "Visible bold text", out)
	assert.NotContains(t, out, "<")
	assert.NotContains(t, out, ">")
}

func TestReduceDecodesEntities(t *testing.T) {
	out := Reduce(`<p>Tom&nbsp;&amp;&nbsp;Jerry</p>`)
	assert.Equal(t, "Tom & Jerry", out)
}

func TestReduceCapsLength(t *testing.T) {
	html := "<body>" + strings.Repeat("word ", 5000) + "</body>"
	out := Reduce(html)
	assert.LessOrEqual(t, len([]rune(out)), 8000)
	assert.Equal(t, out, strings.TrimSpace(out))
}

func TestReduceIdempotent(t *testing.T) {
	html := `<div><p>Laptop &amp; Charger  for   ₹45,999</p></div>`
	once := Reduce(html)
	assert.Equal(t, once, Reduce(once))
}

func TestReduceMalformedMarkup(t *testing.T) {
	assert.NotPanics(t, func() {
		Reduce(`<div><p>unterminated <b>tag <script>oops`)
		Reduce(`>>><<<`)
		Reduce("")
	})
	assert.Equal(t, "", Reduce(""))
}

func TestReduceCollapsesWhitespace(t *testing.T) {
	out := Reduce("<p>a</p>\n\n\t<p>b</p>")
	assert.Equal(t, "a b", out)
}
