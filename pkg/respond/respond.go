// Package respond builds the JSON envelope every endpoint returns:
// {success, data|message, pagination?}.
package respond

import (
	"net/http"
	"reflect"

	"github.com/labstack/echo/v4"

	"github.com/HugoRoca/paper-tbc-web-sub001/pkg/pagination"
)

type envelope struct {
	Success    bool             `json:"success"`
	Data       interface{}      `json:"data"`
	Pagination *pagination.Meta `json:"pagination,omitempty"`
}

type messageEnvelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// OK writes a 200 response with data.
func OK(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, envelope{Success: true, Data: data})
}

// Created writes a 201 response with data.
func Created(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusCreated, envelope{Success: true, Data: data})
}

// List writes a 200 response with data and pagination metadata. An empty
// page serializes as [], not null: the front end iterates data without
// checking for it.
func List(c echo.Context, data interface{}, pg pagination.Params, total int) error {
	if v := reflect.ValueOf(data); data == nil || (v.Kind() == reflect.Slice && v.IsNil()) {
		data = []interface{}{}
	}
	meta := pagination.NewMeta(pg.Page, pg.Limit, total)
	return c.JSON(http.StatusOK, envelope{Success: true, Data: data, Pagination: &meta})
}

// Deleted writes a 200 response with a confirmation message.
func Deleted(c echo.Context, message string) error {
	return c.JSON(http.StatusOK, messageEnvelope{Success: true, Message: message})
}
