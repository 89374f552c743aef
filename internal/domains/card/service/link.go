package service

import (
	"net/url"
	"regexp"
	"strings"

	"vcard-backend/internal/domains/card/model"
)

// BaseLink là ShareableLink không kèm marker: {base}/vcard/{email}
func BaseLink(baseURL, email string) string {
	return strings.TrimRight(baseURL, "/") + CardPath(email)
}

// CardPath là path tương đối của card, dùng cho links trong admin pages
func CardPath(email string) string {
	return "/vcard/" + url.PathEscape(email)
}

// ParseMode đọc các marker admin=true và download=true
func ParseMode(values url.Values) model.Mode {
	return model.Mode{
		Admin:    values.Get("admin") == "true",
		Download: values.Get("download") == "true",
	}
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// FileName gộp mọi chuỗi whitespace thành "_", tên trống thành "vcard"
func FileName(fullName, ext string) string {
	name := whitespaceRun.ReplaceAllString(strings.TrimSpace(fullName), "_")
	if name == "" {
		name = "vcard"
	}
	return name + ext
}

// websiteHref thêm scheme khi website lưu dạng "www.example.com"
func websiteHref(website string) string {
	w := strings.TrimSpace(website)
	if w == "" {
		return ""
	}
	lower := strings.ToLower(w)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return w
	}
	return "https://" + w
}

// telHref bỏ các ký tự trình bày (space, gạch, ngoặc), giữ + và chữ số
func telHref(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if (r >= '0' && r <= '9') || r == '+' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return ""
	}
	return "tel:" + b.String()
}

func mailtoHref(email string) string {
	e := strings.TrimSpace(email)
	if e == "" {
		return ""
	}
	return "mailto:" + e
}

var driveFileID = regexp.MustCompile(`drive\.google\.com/(?:file/d/|open\?id=|uc\?(?:[^#]*&)?id=)([A-Za-z0-9_-]+)`)

// PhotoSource đổi Google Drive share link thành link ảnh trực tiếp
func PhotoSource(raw string) string {
	if m := driveFileID.FindStringSubmatch(raw); m != nil {
		return "https://drive.google.com/uc?export=view&id=" + m[1]
	}
	return raw
}
