package handlers

import (
	"fmt"
	"github.com/labstack/echo/v4"
	"strconv"
)

// pathParamID 解析路径里的 :id
func pathParamID(c echo.Context) (uint, error) {
	idUint64, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id: %w", err)
	}
	return uint(idUint64), nil
}

// queryParamUint 解析可选的数字查询参数，没传或不是数字都当作没传
func queryParamUint(c echo.Context, name string) *uint {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil
	}
	parsed, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return nil
	}
	v := uint(parsed)
	return &v
}
