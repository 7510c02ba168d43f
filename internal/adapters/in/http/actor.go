package http

import (
	"strings"

	"brokerage/internal/core/domain/model/kernel"

	"github.com/labstack/echo/v4"
)

const (
	headerActorID   = "X-Actor-Id"
	headerActorName = "X-Actor-Name"
	headerActorRole = "X-Actor-Role"
)

// actorFromHeaders reads the acting user. Identity is trusted as sent.
// No headers at all yields the zero actor, which commands treat as missing or as
// the system actor depending on the operation.
func actorFromHeaders(c echo.Context) (kernel.Actor, error) {
	h := c.Request().Header
	id := strings.TrimSpace(h.Get(headerActorID))
	name := strings.TrimSpace(h.Get(headerActorName))
	role := strings.TrimSpace(h.Get(headerActorRole))

	if id == "" && name == "" && role == "" {
		return kernel.Actor{}, nil
	}

	return kernel.NewActor(id, name, kernel.Role(role))
}
