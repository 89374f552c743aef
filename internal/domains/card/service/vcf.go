package service

import (
	"bytes"
	"strings"

	"vcard-backend/internal/domains/card/model"
)

const vcardLineLimit = 75

var vcardEscaper = strings.NewReplacer(
	`\`, `\\`,
	",", `\,`,
	";", `\;`,
	"\r\n", `\n`,
	"\n", `\n`,
	"\r", `\n`,
)

// BuildVCard encode card thành vCard 3.0
// Thứ tự field cố định và không có timestamp nên cùng record luôn ra cùng bytes
func BuildVCard(card *model.Card) []byte {
	var buf bytes.Buffer

	writeLine(&buf, "BEGIN:VCARD")
	writeLine(&buf, "VERSION:3.0")
	writeLine(&buf, "N:"+structuredName(card.FullName))
	writeLine(&buf, "FN:"+escapeValue(strings.TrimSpace(card.FullName)))

	writeOptional(&buf, "ORG", card.Company)
	writeOptional(&buf, "TITLE", card.Designation)
	writeOptional(&buf, "TEL;TYPE=WORK,VOICE", card.Phone.Display)
	writeOptional(&buf, "EMAIL;TYPE=INTERNET,WORK", card.Email.Display)
	if addr := strings.TrimSpace(card.Address); addr != "" {
		// ADR: post-office-box;extended;street;locality;region;postal-code;country
		writeLine(&buf, "ADR;TYPE=WORK:;;"+escapeValue(addr)+";;;;")
	}
	if card.Website.Href != "" {
		writeLine(&buf, "URL:"+escapeValue(card.Website.Href))
	}

	writeLine(&buf, "END:VCARD")
	return buf.Bytes()
}

// structuredName tách "Given Middle Family" thành Family;Given Middle;;;
func structuredName(fullName string) string {
	parts := strings.Fields(fullName)
	switch len(parts) {
	case 0:
		return ";;;;"
	case 1:
		return ";" + escapeValue(parts[0]) + ";;;"
	default:
		family := parts[len(parts)-1]
		given := strings.Join(parts[:len(parts)-1], " ")
		return escapeValue(family) + ";" + escapeValue(given) + ";;;"
	}
}

func escapeValue(v string) string {
	return vcardEscaper.Replace(v)
}

func writeOptional(buf *bytes.Buffer, name, value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}
	writeLine(buf, name+":"+escapeValue(value))
}

// writeLine fold dòng dài hơn 75 octets (CRLF + space), không cắt giữa rune
func writeLine(buf *bytes.Buffer, line string) {
	limit := vcardLineLimit
	for len(line) > limit {
		cut := limit
		for cut > 0 && !isRuneStart(line[cut]) {
			cut--
		}
		// không có rune start nào (bytes không phải UTF-8), cắt cứng
		if cut == 0 {
			cut = limit
		}
		buf.WriteString(line[:cut])
		buf.WriteString("\r\n ")
		line = line[cut:]
		limit = vcardLineLimit - 1
	}
	buf.WriteString(line)
	buf.WriteString("\r\n")
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}
