package system

import "github.com/labstack/echo/v4"

type Handler interface {
	Health() echo.HandlerFunc
	Status() echo.HandlerFunc
	Info() echo.HandlerFunc
	Upload() echo.HandlerFunc
	MimeTypes() echo.HandlerFunc
}
