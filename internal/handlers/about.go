package handlers

import "github.com/labstack/echo/v4"

// RegisterAboutRoutes registers the static about pages
func RegisterAboutRoutes(e *echo.Echo) {
	e.GET("/about/author/", AboutAuthor)
	e.GET("/about/tech/", AboutTech)
}

func AboutAuthor(c echo.Context) error {
	return render(c, "about/author.html", nil)
}

func AboutTech(c echo.Context) error {
	return render(c, "about/tech.html", nil)
}
