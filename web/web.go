// Package web embeds the HTML templates and static assets served by the API.
package web

import (
	"embed"
	"html/template"
	"io/fs"
	"net/url"
	"strings"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// FuncMap là các helper dùng trong templates
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"cardPath": func(email string) string {
			return "/vcard/" + url.PathEscape(email)
		},
		// dataURL chỉ tin data URL của ảnh PNG (QR), chuỗi khác bị chặn như html/template mặc định
		"dataURL": func(s string) template.URL {
			if strings.HasPrefix(s, "data:image/png;base64,") {
				return template.URL(s)
			}
			return template.URL("#")
		},
		// linkHref cho phép thêm scheme tel: ngoài http(s) và mailto
		"linkHref": func(s string) template.URL {
			for _, scheme := range []string{"tel:", "mailto:", "http://", "https://"} {
				if strings.HasPrefix(strings.ToLower(s), scheme) {
					return template.URL(s)
				}
			}
			return template.URL("#")
		},
	}
}

// LoadTemplates parse toàn bộ templates, tên template là tên file (card.html, ...)
func LoadTemplates() (*template.Template, error) {
	return template.New("").Funcs(FuncMap()).ParseFS(templateFS, "templates/*.html")
}

// Static trả filesystem của thư mục static để mount ở /static
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

// Logo là placeholder photo và logo của card
func Logo() ([]byte, error) {
	return staticFS.ReadFile("static/logo.png")
}
