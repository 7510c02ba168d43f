package catalog

import (
	"strings"

	"brokerage/internal/core/domain/model/kernel"
	"brokerage/internal/pkg/errs"
)

// Client is a customer of the desk.
type Client struct {
	id   kernel.UUID
	name string
}

func NewClient(id kernel.UUID, name string) (Client, error) {
	if err := id.Validate(); err != nil {
		return Client{}, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return Client{}, errs.NewValueIsRequiredError("client name")
	}
	return Client{id: id, name: name}, nil
}

func (c Client) ID() kernel.UUID { return c.id }
func (c Client) Name() string    { return c.name }
