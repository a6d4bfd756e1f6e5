package conversions

import "github.com/labstack/echo/v4"

type Handler interface {
	Create() echo.HandlerFunc
	List() echo.HandlerFunc
	GetByID() echo.HandlerFunc
	File() echo.HandlerFunc
	Cancel() echo.HandlerFunc
	Delete() echo.HandlerFunc
	Formats() echo.HandlerFunc
}
