package utils

import (
	"net"

	"github.com/gin-gonic/gin"
)

// ExtractClientIP lấy IP của client qua gin ClientIP
//
// X-Forwarded-For / X-Real-IP chỉ được đọc khi RemoteAddr thuộc trusted
// proxies của engine (SetTrustedProxies), còn lại dùng RemoteAddr.
// Không parse được thì trả 127.0.0.1.
func ExtractClientIP(c *gin.Context) string {
	if ip := c.ClientIP(); isValidIP(ip) {
		return ip
	}
	return "127.0.0.1"
}

func isValidIP(ip string) bool {
	return ip != "" && net.ParseIP(ip) != nil
}
