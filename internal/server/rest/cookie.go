package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type cookieSettings struct {
	name   string
	path   string
	secure bool
	maxAge int
}

func (s cookieSettings) set(c *gin.Context, token string) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     s.name,
		Value:    token,
		Path:     s.path,
		MaxAge:   s.maxAge,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s cookieSettings) clear(c *gin.Context) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     s.name,
		Value:    "",
		Path:     s.path,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s cookieSettings) read(c *gin.Context) string {
	v, err := c.Cookie(s.name)
	if err != nil {
		return ""
	}
	return v
}
