package downloads

import "github.com/labstack/echo/v4"

type Handler interface {
	Create() echo.HandlerFunc
	CreateYoutube() echo.HandlerFunc
	List() echo.HandlerFunc
	GetByID() echo.HandlerFunc
	File() echo.HandlerFunc
	Cancel() echo.HandlerFunc
	Delete() echo.HandlerFunc
}
