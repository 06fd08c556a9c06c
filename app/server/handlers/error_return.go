package handlers

import (
	"github.com/labstack/echo/v4"
	"net/http"
)

type ErrorMessage struct {
	Message string `json:"message"`
}

func (a *App) er(c echo.Context, statusCode int) error {
	return c.JSON(statusCode, &ErrorMessage{
		Message: http.StatusText(statusCode),
	})
}

// erMsg 用于需要向用户说明具体字段问题的场景（例如表单校验）
func (a *App) erMsg(c echo.Context, statusCode int, message string) error {
	return c.JSON(statusCode, &ErrorMessage{
		Message: message,
	})
}
