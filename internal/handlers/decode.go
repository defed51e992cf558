package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/labstack/echo/v4"
)

var errEmptyBody = errors.New("empty request body")

// decodeJSON читает тело запроса в v. Тело, закодированное дважды
// (JSON-строка с объектом внутри), разворачивается один раз.
func decodeJSON(c echo.Context, v interface{}) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}

	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return errEmptyBody
	}

	if body[0] == '"' {
		var inner string
		if err := json.Unmarshal(body, &inner); err != nil {
			return fmt.Errorf("decode wrapped body: %w", err)
		}
		body = bytes.TrimSpace([]byte(inner))
	}

	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("decode body: %w", err)
	}
	return nil
}
