package extract

import "testing"

func TestXMLLink(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{
			name: "plain anchor",
			html: `<p>Factura adjunta</p><a href="https://felav02.c.sat.gob.gt/abc/descargaXml/xyz123">Descargar</a>`,
			want: "https://felav02.c.sat.gob.gt/abc/descargaXml/xyz123",
		},
		{
			name: "uppercase tag syntax",
			html: `<A HREF="https://felav02.c.sat.gob.gt/abc/descargaXml/xyz123">XML</A>`,
			want: "https://felav02.c.sat.gob.gt/abc/descargaXml/xyz123",
		},
		{
			name: "attributes before href",
			html: `<a target="_blank" style="color: #1a73e8; text-decoration: none;" href="https://felav02.c.sat.gob.gt/abc/descargaXml/xyz123">Descargar XML</a>`,
			want: "https://felav02.c.sat.gob.gt/abc/descargaXml/xyz123",
		},
		{
			name: "uppercase attributes before href",
			html: `<A TARGET="_blank" HREF="https://felav02.c.sat.gob.gt/abc/descargaXml/xyz123">XML</A>`,
			want: "https://felav02.c.sat.gob.gt/abc/descargaXml/xyz123",
		},
		{
			name: "first of several links wins",
			html: `<a href="https://felav02.c.sat.gob.gt/first">1</a><a href="https://felav02.c.sat.gob.gt/second">2</a>`,
			want: "https://felav02.c.sat.gob.gt/first",
		},
		{
			name: "no anchor at all",
			html: `<p>sin enlaces</p>`,
			want: NoLinkFound,
		},
		{
			name: "anchor to another domain",
			html: `<a href="https://example.com/descargaXml/xyz">nope</a>`,
			want: NoLinkFound,
		},
		{
			name: "domain must match literally, not case-insensitively",
			html: `<a href="https://FELAV02.c.sat.gob.gt/abc">nope</a>`,
			want: NoLinkFound,
		},
		{
			name: "empty input",
			html: "",
			want: NoLinkFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := XMLLink(tt.html); got != tt.want {
				t.Errorf("XMLLink() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFound(t *testing.T) {
	if Found(NoLinkFound) {
		t.Error("Found(NoLinkFound) = true")
	}
	if Found("") {
		t.Error("Found(\"\") = true")
	}
	if !Found("https://felav02.c.sat.gob.gt/abc") {
		t.Error("Found(link) = false")
	}
}
