package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

var landingPageHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8" />
<meta name="viewport" content="width=device-width, initial-scale=1.0" />
<title>Account API</title>
<style>
body { font-family: Arial, sans-serif; margin: 0; background: linear-gradient(135deg,#2b5876,#4e4376); color: #fff; min-height: 100vh; display: flex; flex-direction: column; }
header { flex: 1; padding: 60px 20px; text-align: center; }
code { background: rgba(255,255,255,0.15); padding: 2px 6px; border-radius: 4px; }
ul { list-style: none; padding: 0; line-height: 2; }
a { color: #ffd479; }
footer { text-align: center; padding: 20px; font-size: 14px; opacity: 0.8; }
</style>
</head>
<body>
<header>
  <h1>Account API</h1>
  <p>Registration, sessions and password recovery over <code>/api/users</code>.</p>
  <ul>
    <li><code>POST /api/users/register</code></li>
    <li><code>POST /api/users/login</code></li>
    <li><code>GET /api/users/loggedin</code></li>
    <li><code>POST /api/users/forgotpassword</code></li>
  </ul>
  <p>Full reference at <a href="/swagger/index.html">/swagger</a>.</p>
</header>
<footer>Account API</footer>
</body>
</html>`

// RegisterPages serves the minimal landing page at the root.
func RegisterPages(e *echo.Echo) {
	e.GET("/", func(c echo.Context) error {
		return c.HTML(http.StatusOK, landingPageHTML)
	})
}
