package httpresp

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type envelope struct {
	OK   bool `json:"ok"`
	Data any  `json:"data"`
}

type ListResponse[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
}

type PageResponse[T any] struct {
	Items   []T   `json:"items"`
	Total   int64 `json:"total"`
	Page    int   `json:"page"`
	PerPage int   `json:"per_page"`
}

func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, envelope{OK: true, Data: data})
}

func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, envelope{OK: true, Data: data})
}

func List[T any](c *gin.Context, data []T) {
	if data == nil {
		data = []T{}
	}
	OK(c, ListResponse[T]{
		Items: data,
		Total: len(data),
	})
}

func Page[T any](c *gin.Context, data []T, total int64, page, perPage int) {
	if data == nil {
		data = []T{}
	}
	OK(c, PageResponse[T]{
		Items:   data,
		Total:   total,
		Page:    page,
		PerPage: perPage,
	})
}
